package tpkg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
)

func EqualInput(t *testing.T, expected transition.Input, actual transition.Input) {
	t.Helper()

	require.Equal(t, expected.Type(), actual.Type())
	require.Equal(t, expected.ID(), actual.ID())

	switch expectedInput := expected.(type) {
	case *transition.ConstantInput:
		actualInput, ok := actual.(*transition.ConstantInput)
		require.True(t, ok)

		expectedPlaintext, expectedOk := expectedInput.Plaintext()
		actualPlaintext, actualOk := actualInput.Plaintext()
		require.Equal(t, expectedOk, actualOk)
		require.Equal(t, expectedPlaintext, actualPlaintext)

	case *transition.PublicInput:
		actualInput, ok := actual.(*transition.PublicInput)
		require.True(t, ok)

		expectedPlaintext, expectedOk := expectedInput.Plaintext()
		actualPlaintext, actualOk := actualInput.Plaintext()
		require.Equal(t, expectedOk, actualOk)
		require.Equal(t, expectedPlaintext, actualPlaintext)

	case *transition.PrivateInput:
		actualInput, ok := actual.(*transition.PrivateInput)
		require.True(t, ok)

		expectedCiphertext, expectedOk := expectedInput.Ciphertext()
		actualCiphertext, actualOk := actualInput.Ciphertext()
		require.Equal(t, expectedOk, actualOk)
		require.Equal(t, expectedCiphertext, actualCiphertext)

	case *transition.RecordInput:
		actualInput, ok := actual.(*transition.RecordInput)
		require.True(t, ok)

		require.Equal(t, expectedInput.SerialNumber(), actualInput.SerialNumber())
		require.Equal(t, expectedInput.Tag(), actualInput.Tag())
		require.Equal(t, expectedInput.Origin(), actualInput.Origin())

	case *transition.ExternalRecordInput:
		_, ok := actual.(*transition.ExternalRecordInput)
		require.True(t, ok)

	default:
		require.Fail(t, "unsupported input type")
	}
}

func EqualInputs(t *testing.T, expected transition.Inputs, actual transition.Inputs) {
	t.Helper()

	require.Equal(t, len(expected), len(actual))

	for i := range expected {
		EqualInput(t, expected[i], actual[i])
	}
}
