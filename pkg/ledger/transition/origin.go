package transition

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
	"github.com/iotaledger/hive.go/stringify"
)

// OriginType distinguishes where a consumed record came from.
type OriginType byte

const (
	// OriginTypeCommitment denotes an origin referencing a record commitment.
	OriginTypeCommitment OriginType = iota
	// OriginTypeStateRoot denotes an origin referencing a ledger state root.
	OriginTypeStateRoot
)

// OriginLength defines the byte length of a serialized origin.
const OriginLength = serializer.OneByte + FieldLength

// Origin references the provenance of a consumed record, either a record
// commitment or a state root. The referenced value is opaque to this layer.
type Origin struct {
	originType OriginType
	value      Field
}

func NewCommitmentOrigin(commitment Field) Origin {
	return Origin{originType: OriginTypeCommitment, value: commitment}
}

func NewStateRootOrigin(stateRoot Field) Origin {
	return Origin{originType: OriginTypeStateRoot, value: stateRoot}
}

func (o Origin) Type() OriginType {
	return o.originType
}

func (o Origin) Value() Field {
	return o.value
}

func (o Origin) Bytes() ([]byte, error) {
	return byteutils.ConcatBytes([]byte{byte(o.originType)}, o.value[:]), nil
}

func OriginFromBytes(b []byte) (Origin, int, error) {
	if len(b) < OriginLength {
		return Origin{}, 0, ierrors.Errorf("invalid origin length: %d", len(b))
	}

	originType := OriginType(b[0])
	if originType > OriginTypeStateRoot {
		return Origin{}, 0, ierrors.Errorf("invalid origin type: %d", originType)
	}

	value, _, err := FieldFromBytes(b[serializer.OneByte:])
	if err != nil {
		return Origin{}, 0, ierrors.Wrap(err, "unable to read origin value")
	}

	return Origin{originType: originType, value: value}, OriginLength, nil
}

func (o Origin) String() string {
	return stringify.Struct("Origin",
		stringify.NewStructField("Type", uint8(o.originType)),
		stringify.NewStructField("Value", o.value),
	)
}
