package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
)

func RandomRead(p []byte) (n int, err error) {
	return rand.Read(p)
}

func RandomIntn(n int) int {
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(result.Int64())
}

// RandBytes returns length amount random bytes.
func RandBytes(length int) []byte {
	var b []byte
	for i := 0; i < length; i++ {
		b = append(b, byte(RandomIntn(256)))
	}

	return b
}

func RandField() transition.Field {
	field := transition.Field{}
	copy(field[:], RandBytes(transition.FieldLength))

	return field
}

func RandTransitionID() transition.ID {
	id := transition.ID{}
	copy(id[:], RandBytes(transition.IDLength))

	return id
}

func RandOrigin() transition.Origin {
	if RandomIntn(2) == 0 {
		return transition.NewCommitmentOrigin(RandField())
	}

	return transition.NewStateRootOrigin(RandField())
}
