package inputstore

import (
	"io"

	"github.com/iotaledger/hive.go/ds/types"

	"github.com/zkledger/zkledger-core/pkg/ledger/kvmap"
	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
	"github.com/zkledger/zkledger-core/pkg/storage/database"
)

// Store is a shareable handle over a transition input backend, caching the
// variant map handles so reads skip the backend dispatch.
//
// Insert and Remove are each independently atomic; grouping several calls
// into one larger unit (e.g. one batch per block) is the caller's business
// via StartAtomic/FinishAtomic/AbortAtomic. Concurrent Insert/Remove over
// overlapping identifiers must be serialized by the caller.
type Store struct {
	storage Storage

	constant       kvmap.Map[transition.Field, transition.Plaintext]
	public         kvmap.Map[transition.Field, transition.Plaintext]
	private        kvmap.Map[transition.Field, transition.Ciphertext]
	record         kvmap.Map[transition.Field, RecordValue]
	recordTag      kvmap.Map[transition.Field, transition.Field]
	externalRecord kvmap.Map[transition.Field, types.Empty]
}

// New wraps the given backend in a store.
func New(storage Storage) *Store {
	return &Store{
		storage:        storage,
		constant:       storage.ConstantMap(),
		public:         storage.PublicMap(),
		private:        storage.PrivateMap(),
		record:         storage.RecordMap(),
		recordTag:      storage.RecordTagMap(),
		externalRecord: storage.ExternalRecordMap(),
	}
}

// Open opens a store over a physical engine in the configured directory.
func Open(dbConfig database.Config) (*Store, error) {
	kv, err := OpenKV(dbConfig)
	if err != nil {
		return nil, err
	}

	return New(kv), nil
}

// Close releases the backend if it owns its database.
func (s *Store) Close() error {
	if closer, ok := s.storage.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Insert stores the ordered input set of the given transition atomically.
func (s *Store) Insert(transitionID transition.ID, inputs transition.Inputs) error {
	return Insert(s.storage, transitionID, inputs)
}

// Remove erases the input set of the given transition atomically. Removing
// an unknown transition is a no-op.
func (s *Store) Remove(transitionID transition.ID) error {
	return Remove(s.storage, transitionID)
}

// StartAtomic opens a caller-managed batch spanning subsequent Insert and
// Remove calls.
func (s *Store) StartAtomic() error {
	return StartAtomic(s.storage)
}

// IsAtomicInProgress reports whether a caller-managed batch is open.
func (s *Store) IsAtomicInProgress() bool {
	return IsAtomicInProgress(s.storage)
}

// AbortAtomic discards the open batch.
func (s *Store) AbortAtomic() {
	AbortAtomic(s.storage)
}

// FinishAtomic commits the open batch.
func (s *Store) FinishAtomic() error {
	return FinishAtomic(s.storage)
}

// Inputs returns the typed inputs of the given transition, in insertion
// order. An unknown transition yields an empty list.
func (s *Store) Inputs(transitionID transition.ID) (transition.Inputs, error) {
	return Get(s.storage, transitionID)
}

// InputIDs returns the ordered input IDs of the given transition. An unknown
// transition yields an empty list.
func (s *Store) InputIDs(transitionID transition.ID) (transition.Fields, error) {
	return IDs(s.storage, transitionID)
}

// FindTransitionID returns the transition that consumed the given input ID.
func (s *Store) FindTransitionID(inputID transition.Field) (transition.ID, bool, error) {
	return FindTransitionID(s.storage, inputID)
}

// ContainsInputID reports whether the given input ID exists.
func (s *Store) ContainsInputID(inputID transition.Field) (bool, error) {
	return s.storage.ReverseIDMap().ContainsKey(inputID)
}

// ContainsSerialNumber reports whether the given serial number exists.
func (s *Store) ContainsSerialNumber(serialNumber transition.Field) (bool, error) {
	return s.record.ContainsKey(serialNumber)
}

// ContainsTag reports whether the given tag exists.
func (s *Store) ContainsTag(tag transition.Field) (bool, error) {
	return s.recordTag.ContainsKey(tag)
}

// ForEachInputID iterates over the input IDs of all transition inputs.
func (s *Store) ForEachInputID(consumer func(inputID transition.Field) bool) error {
	return s.storage.ReverseIDMap().IterateKeys(consumer)
}

// ForEachConstantInputID iterates over the input IDs of all constant inputs.
func (s *Store) ForEachConstantInputID(consumer func(inputID transition.Field) bool) error {
	return s.constant.IterateKeys(consumer)
}

// ForEachPublicInputID iterates over the input IDs of all public inputs.
func (s *Store) ForEachPublicInputID(consumer func(inputID transition.Field) bool) error {
	return s.public.IterateKeys(consumer)
}

// ForEachPrivateInputID iterates over the input IDs of all private inputs.
func (s *Store) ForEachPrivateInputID(consumer func(inputID transition.Field) bool) error {
	return s.private.IterateKeys(consumer)
}

// ForEachExternalInputID iterates over the input IDs of all external record
// inputs.
func (s *Store) ForEachExternalInputID(consumer func(inputID transition.Field) bool) error {
	return s.externalRecord.IterateKeys(consumer)
}

// ForEachSerialNumber iterates over the serial numbers of all record inputs.
func (s *Store) ForEachSerialNumber(consumer func(serialNumber transition.Field) bool) error {
	return s.record.IterateKeys(consumer)
}

// ForEachTag iterates over the tags of all record inputs.
func (s *Store) ForEachTag(consumer func(tag transition.Field) bool) error {
	return s.recordTag.IterateKeys(consumer)
}

// ForEachConstantInput iterates over the plaintexts of all constant inputs,
// skipping pruned entries.
func (s *Store) ForEachConstantInput(consumer func(plaintext transition.Plaintext) bool) error {
	return s.constant.Iterate(func(_ transition.Field, plaintext transition.Plaintext) bool {
		if plaintext == nil {
			return true
		}

		return consumer(plaintext)
	})
}

// ForEachPublicInput iterates over the plaintexts of all public inputs,
// skipping pruned entries.
func (s *Store) ForEachPublicInput(consumer func(plaintext transition.Plaintext) bool) error {
	return s.public.Iterate(func(_ transition.Field, plaintext transition.Plaintext) bool {
		if plaintext == nil {
			return true
		}

		return consumer(plaintext)
	})
}

// ForEachPrivateInput iterates over the ciphertexts of all private inputs,
// skipping pruned entries.
func (s *Store) ForEachPrivateInput(consumer func(ciphertext transition.Ciphertext) bool) error {
	return s.private.Iterate(func(_ transition.Field, ciphertext transition.Ciphertext) bool {
		if ciphertext == nil {
			return true
		}

		return consumer(ciphertext)
	})
}

// ForEachOrigin iterates over the origins of all record inputs.
func (s *Store) ForEachOrigin(consumer func(origin transition.Origin) bool) error {
	return s.record.Iterate(func(_ transition.Field, record RecordValue) bool {
		return consumer(record.Origin)
	})
}
