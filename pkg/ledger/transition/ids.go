package transition

import (
	"encoding/hex"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/stream"
)

const (
	// IDLength defines the byte length of a transition ID.
	IDLength = 32

	// FieldLength defines the byte length of a field element.
	FieldLength = 32
)

// ID is the opaque identifier of one state transition. It is derived by an
// external cryptographic layer and is neither validated nor interpreted here.
type ID [IDLength]byte

func (i ID) Bytes() ([]byte, error) {
	return i[:], nil
}

func IDFromBytes(b []byte) (ID, int, error) {
	var id ID
	if len(b) < IDLength {
		return id, 0, ierrors.Errorf("invalid transition ID length: %d", len(b))
	}
	copy(id[:], b[:IDLength])

	return id, IDLength, nil
}

func (i ID) String() string {
	return "0x" + hex.EncodeToString(i[:])
}

// Field is an opaque field element produced by the proving layer. Input IDs,
// serial numbers and tags are all field elements.
type Field [FieldLength]byte

func (f Field) Bytes() ([]byte, error) {
	return f[:], nil
}

func FieldFromBytes(b []byte) (Field, int, error) {
	var field Field
	if len(b) < FieldLength {
		return field, 0, ierrors.Errorf("invalid field element length: %d", len(b))
	}
	copy(field[:], b[:FieldLength])

	return field, FieldLength, nil
}

func (f Field) String() string {
	return "0x" + hex.EncodeToString(f[:])
}

// Fields is an ordered list of field elements.
type Fields []Field

func (f Fields) Bytes() ([]byte, error) {
	byteBuffer := stream.NewByteBuffer(serializer.UInt32ByteSize + len(f)*FieldLength)

	if err := stream.Write(byteBuffer, uint32(len(f))); err != nil {
		return nil, ierrors.Wrap(err, "unable to write field count")
	}
	for _, field := range f {
		if err := stream.Write(byteBuffer, field); err != nil {
			return nil, ierrors.Wrap(err, "unable to write field element")
		}
	}

	return byteBuffer.Bytes()
}

func FieldsFromBytes(b []byte) (Fields, int, error) {
	byteReader := stream.NewByteReader(b)

	count, err := stream.Read[uint32](byteReader)
	if err != nil {
		return nil, 0, ierrors.Wrap(err, "unable to read field count")
	}

	fields := make(Fields, count)
	for i := range fields {
		if fields[i], err = stream.Read[Field](byteReader); err != nil {
			return nil, 0, ierrors.Wrapf(err, "unable to read field element %d", i)
		}
	}

	return fields, serializer.UInt32ByteSize + int(count)*FieldLength, nil
}
