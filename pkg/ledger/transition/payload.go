package transition

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

const (
	payloadAbsent  byte = 0
	payloadPresent byte = 1
)

// Plaintext is the opaque decrypted content of a constant or public input.
// A nil Plaintext is the pruned state: the input's identifier is retained
// while its content has been discarded.
type Plaintext []byte

func (p Plaintext) Bytes() ([]byte, error) {
	return optionalPayloadBytes(p)
}

func PlaintextFromBytes(b []byte) (Plaintext, int, error) {
	return optionalPayloadFromBytes(b)
}

// Ciphertext is the opaque encrypted content of a private input. A nil
// Ciphertext is the pruned state.
type Ciphertext []byte

func (c Ciphertext) Bytes() ([]byte, error) {
	return optionalPayloadBytes(c)
}

func CiphertextFromBytes(b []byte) (Ciphertext, int, error) {
	return optionalPayloadFromBytes(b)
}

// optionalPayloadBytes encodes a prunable payload with a leading presence
// flag, so a pruned entry stays distinguishable from an empty one.
func optionalPayloadBytes(payload []byte) ([]byte, error) {
	byteBuffer := stream.NewByteBuffer()

	if payload == nil {
		if err := stream.Write(byteBuffer, payloadAbsent); err != nil {
			return nil, ierrors.Wrap(err, "unable to write presence flag")
		}

		return byteBuffer.Bytes()
	}

	if err := stream.Write(byteBuffer, payloadPresent); err != nil {
		return nil, ierrors.Wrap(err, "unable to write presence flag")
	}
	if err := stream.WriteBytesWithSize(byteBuffer, payload, serializer.SeriLengthPrefixTypeAsUint32); err != nil {
		return nil, ierrors.Wrap(err, "unable to write payload")
	}

	return byteBuffer.Bytes()
}

func optionalPayloadFromBytes(b []byte) ([]byte, int, error) {
	byteReader := stream.NewByteReader(b)

	presence, err := stream.Read[byte](byteReader)
	if err != nil {
		return nil, 0, ierrors.Wrap(err, "unable to read presence flag")
	}

	switch presence {
	case payloadAbsent:
		return nil, serializer.OneByte, nil
	case payloadPresent:
		payload, err := stream.ReadBytesWithSize(byteReader, serializer.SeriLengthPrefixTypeAsUint32)
		if err != nil {
			return nil, 0, ierrors.Wrap(err, "unable to read payload")
		}

		return payload, serializer.OneByte + serializer.UInt32ByteSize + len(payload), nil
	default:
		return nil, 0, ierrors.Errorf("invalid presence flag: %d", presence)
	}
}
