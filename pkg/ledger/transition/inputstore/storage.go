package inputstore

import (
	"github.com/iotaledger/hive.go/ds/types"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"

	"github.com/zkledger/zkledger-core/pkg/ledger/kvmap"
	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
)

// RecordValue is the record map payload: the tag and origin of a consumed
// record, keyed by its serial number. The tag map holds the inverse link.
type RecordValue struct {
	Tag    transition.Field
	Origin transition.Origin
}

func (r RecordValue) Bytes() ([]byte, error) {
	originBytes, err := r.Origin.Bytes()
	if err != nil {
		return nil, err
	}

	return byteutils.ConcatBytes(r.Tag[:], originBytes), nil
}

func RecordValueFromBytes(b []byte) (RecordValue, int, error) {
	tag, tagLen, err := transition.FieldFromBytes(b)
	if err != nil {
		return RecordValue{}, 0, ierrors.Wrap(err, "unable to read record tag")
	}

	origin, originLen, err := transition.OriginFromBytes(b[tagLen:])
	if err != nil {
		return RecordValue{}, 0, ierrors.Wrap(err, "unable to read record origin")
	}

	return RecordValue{Tag: tag, Origin: origin}, tagLen + originLen, nil
}

// Storage is the eight-map capability a physical transition input backend
// provides. The consistency algorithms below are implemented once against
// this interface, so every backend shares them.
//
// Cross-map consistency is owned exclusively by Insert and Remove; callers
// touching individual maps directly are on their own.
type Storage interface {
	// IDMap returns the map of transition ID to its ordered input IDs.
	IDMap() kvmap.Map[transition.ID, transition.Fields]
	// ReverseIDMap returns the map of input ID to its transition ID.
	ReverseIDMap() kvmap.Map[transition.Field, transition.ID]
	// ConstantMap returns the map of input ID to (optional) plaintext.
	ConstantMap() kvmap.Map[transition.Field, transition.Plaintext]
	// PublicMap returns the map of input ID to (optional) plaintext.
	PublicMap() kvmap.Map[transition.Field, transition.Plaintext]
	// PrivateMap returns the map of input ID to (optional) ciphertext.
	PrivateMap() kvmap.Map[transition.Field, transition.Ciphertext]
	// RecordMap returns the map of serial number to (tag, origin).
	RecordMap() kvmap.Map[transition.Field, RecordValue]
	// RecordTagMap returns the map of tag to serial number.
	RecordTagMap() kvmap.Map[transition.Field, transition.Field]
	// ExternalRecordMap returns the membership map of external record IDs.
	ExternalRecordMap() kvmap.Map[transition.Field, types.Empty]
}

// StartAtomic switches every map of the backend into buffering mode.
// Subsequent writes on any of them are staged until FinishAtomic or
// AbortAtomic; nested calls do not create nesting levels.
func StartAtomic(s Storage) error {
	if err := s.IDMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.ReverseIDMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.ConstantMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.PublicMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.PrivateMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.RecordMap().StartAtomic(); err != nil {
		return err
	}
	if err := s.RecordTagMap().StartAtomic(); err != nil {
		return err
	}

	return s.ExternalRecordMap().StartAtomic()
}

// IsAtomicInProgress reports whether any map of the backend is buffering.
func IsAtomicInProgress(s Storage) bool {
	return s.IDMap().IsAtomicInProgress() ||
		s.ReverseIDMap().IsAtomicInProgress() ||
		s.ConstantMap().IsAtomicInProgress() ||
		s.PublicMap().IsAtomicInProgress() ||
		s.PrivateMap().IsAtomicInProgress() ||
		s.RecordMap().IsAtomicInProgress() ||
		s.RecordTagMap().IsAtomicInProgress() ||
		s.ExternalRecordMap().IsAtomicInProgress()
}

// AbortAtomic discards the staged writes of all eight maps.
func AbortAtomic(s Storage) {
	s.IDMap().AbortAtomic()
	s.ReverseIDMap().AbortAtomic()
	s.ConstantMap().AbortAtomic()
	s.PublicMap().AbortAtomic()
	s.PrivateMap().AbortAtomic()
	s.RecordMap().AbortAtomic()
	s.RecordTagMap().AbortAtomic()
	s.ExternalRecordMap().AbortAtomic()
}

// FinishAtomic commits the staged writes of all eight maps. The writes become
// visible together or, if the commit fails, not at all.
func FinishAtomic(s Storage) error {
	if err := s.IDMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.ReverseIDMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.ConstantMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.PublicMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.PrivateMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.RecordMap().FinishAtomic(); err != nil {
		return err
	}
	if err := s.RecordTagMap().FinishAtomic(); err != nil {
		return err
	}

	return s.ExternalRecordMap().FinishAtomic()
}

// withAtomic runs fn inside an atomic batch unless one is already in
// progress, in which case the writes join the caller's batch and the caller
// decides when to commit. On error the whole in-flight batch is discarded.
func withAtomic(s Storage, fn func() error) error {
	alreadyBatching := IsAtomicInProgress(s)
	if !alreadyBatching {
		if err := StartAtomic(s); err != nil {
			return err
		}
	}

	if err := fn(); err != nil {
		AbortAtomic(s)

		return err
	}

	if alreadyBatching {
		return nil
	}

	return FinishAtomic(s)
}

// Insert stores the ordered input set of the given transition. Either the
// transition becomes fully visible in all indices afterwards or in none.
func Insert(s Storage, transitionID transition.ID, inputs transition.Inputs) error {
	return withAtomic(s, func() error {
		if err := s.IDMap().Insert(transitionID, inputs.IDs()); err != nil {
			return err
		}

		for _, input := range inputs {
			if err := s.ReverseIDMap().Insert(input.ID(), transitionID); err != nil {
				return err
			}

			switch input := input.(type) {
			case *transition.ConstantInput:
				plaintext, _ := input.Plaintext()
				if err := s.ConstantMap().Insert(input.ID(), plaintext); err != nil {
					return err
				}
			case *transition.PublicInput:
				plaintext, _ := input.Plaintext()
				if err := s.PublicMap().Insert(input.ID(), plaintext); err != nil {
					return err
				}
			case *transition.PrivateInput:
				ciphertext, _ := input.Ciphertext()
				if err := s.PrivateMap().Insert(input.ID(), ciphertext); err != nil {
					return err
				}
			case *transition.RecordInput:
				if err := s.RecordTagMap().Insert(input.Tag(), input.SerialNumber()); err != nil {
					return err
				}
				if err := s.RecordMap().Insert(input.SerialNumber(), RecordValue{Tag: input.Tag(), Origin: input.Origin()}); err != nil {
					return err
				}
			case *transition.ExternalRecordInput:
				if err := s.ExternalRecordMap().Insert(input.ID(), types.Void); err != nil {
					return err
				}
			default:
				return ierrors.Errorf("unsupported input type: %d", input.Type())
			}
		}

		return nil
	})
}

// Remove erases the input set of the given transition from all eight maps as
// one unit. Removing an unknown transition succeeds as a no-op.
func Remove(s Storage, transitionID transition.ID) error {
	inputIDs, exists, err := s.IDMap().Get(transitionID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	return withAtomic(s, func() error {
		if err := s.IDMap().Remove(transitionID); err != nil {
			return err
		}

		for _, inputID := range inputIDs {
			if err := s.ReverseIDMap().Remove(inputID); err != nil {
				return err
			}

			// A record input also owns the tag side of the 1:1 link.
			record, isRecord, err := s.RecordMap().Get(inputID)
			if err != nil {
				return err
			}
			if isRecord {
				if err := s.RecordTagMap().Remove(record.Tag); err != nil {
					return err
				}
			}

			if err := s.ConstantMap().Remove(inputID); err != nil {
				return err
			}
			if err := s.PublicMap().Remove(inputID); err != nil {
				return err
			}
			if err := s.PrivateMap().Remove(inputID); err != nil {
				return err
			}
			if err := s.RecordMap().Remove(inputID); err != nil {
				return err
			}
			if err := s.ExternalRecordMap().Remove(inputID); err != nil {
				return err
			}
		}

		return nil
	})
}

// FindTransitionID returns the transition that consumed the given input ID,
// or exists == false if the input is unknown.
func FindTransitionID(s Storage, inputID transition.Field) (transition.ID, bool, error) {
	return s.ReverseIDMap().Get(inputID)
}

// IDs returns the ordered input IDs of the given transition. An unknown
// transition yields an empty list, not an error.
func IDs(s Storage, transitionID transition.ID) (transition.Fields, error) {
	inputIDs, exists, err := s.IDMap().Get(transitionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return transition.Fields{}, nil
	}

	return inputIDs, nil
}

// Get reconstructs the typed inputs of the given transition by probing the
// variant maps for every indexed input ID. An unknown transition yields an
// empty list, not an error.
func Get(s Storage, transitionID transition.ID) (transition.Inputs, error) {
	inputIDs, exists, err := s.IDMap().Get(transitionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return transition.Inputs{}, nil
	}

	inputs := make(transition.Inputs, 0, len(inputIDs))
	for _, inputID := range inputIDs {
		input, err := constructInput(s, transitionID, inputID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}

// constructInput probes all five variant maps for the given input ID.
// Exactly one map must claim the ID; anything else is storage corruption and
// is reported, never silently resolved.
func constructInput(s Storage, transitionID transition.ID, inputID transition.Field) (transition.Input, error) {
	constant, isConstant, err := s.ConstantMap().Get(inputID)
	if err != nil {
		return nil, err
	}
	public, isPublic, err := s.PublicMap().Get(inputID)
	if err != nil {
		return nil, err
	}
	private, isPrivate, err := s.PrivateMap().Get(inputID)
	if err != nil {
		return nil, err
	}
	record, isRecord, err := s.RecordMap().Get(inputID)
	if err != nil {
		return nil, err
	}
	_, isExternalRecord, err := s.ExternalRecordMap().Get(inputID)
	if err != nil {
		return nil, err
	}

	var input transition.Input
	var hits int

	if isConstant {
		hits++
		input = transition.NewConstantInput(inputID, constant)
	}
	if isPublic {
		hits++
		input = transition.NewPublicInput(inputID, public)
	}
	if isPrivate {
		hits++
		input = transition.NewPrivateInput(inputID, private)
	}
	if isRecord {
		hits++
		input = transition.NewRecordInput(inputID, record.Tag, record.Origin)
	}
	if isExternalRecord {
		hits++
		input = transition.NewExternalRecordInput(inputID)
	}

	switch {
	case hits == 0:
		return nil, ierrors.Wrapf(ErrMissingInput, "input %s in transition %s", inputID, transitionID)
	case hits > 1:
		return nil, ierrors.Wrapf(ErrAmbiguousInput, "input %s in transition %s", inputID, transitionID)
	}

	return input, nil
}
