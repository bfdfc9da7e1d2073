package kvmap

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/serializer/v2/byteutils"
)

// Map is the ordered key-value capability the transition stores are written
// against. Any physical engine satisfying kvstore.KVStore can back it.
//
// While an atomic batch is in progress, Insert and Remove are staged and
// invisible to readers until FinishAtomic commits them; Get, ContainsKey and
// the iterations always serve the committed state.
type Map[K, V any] interface {
	// Get returns the value for the given key, or exists == false if absent.
	Get(key K) (value V, exists bool, err error)
	// Insert stores the given key-value pair.
	Insert(key K, value V) error
	// Remove deletes the entry for the given key. Removing an absent key is
	// a no-op.
	Remove(key K) error
	// ContainsKey reports whether the given key exists.
	ContainsKey(key K) (bool, error)
	// IterateKeys calls the consumer for every key in the engine's native
	// order until it returns false.
	IterateKeys(consumer func(key K) bool) error
	// Iterate calls the consumer for every entry in the engine's native
	// order until it returns false.
	Iterate(consumer func(key K, value V) bool) error

	// StartAtomic switches the map into buffering mode. Maps created with a
	// shared Batch enter buffering mode together.
	StartAtomic() error
	// IsAtomicInProgress reports whether an atomic batch is open.
	IsAtomicInProgress() bool
	// AbortAtomic discards all staged writes.
	AbortAtomic()
	// FinishAtomic commits all staged writes in one engine commit.
	FinishAtomic() error
}

type kvMap[K, V any] struct {
	store kvstore.KVStore
	realm kvstore.Realm
	batch *Batch

	keyToBytes   kvstore.ObjectToBytes[K]
	bytesToKey   kvstore.BytesToObject[K]
	valueToBytes kvstore.ObjectToBytes[V]
	bytesToValue kvstore.BytesToObject[V]
}

// New creates a map view over the given realm of the store. All map views
// sharing one Batch stage their writes into the same mutation set; the batch
// must have been created for the same parent store.
func New[K, V any](
	store kvstore.KVStore,
	realm kvstore.Realm,
	batch *Batch,
	keyToBytes kvstore.ObjectToBytes[K],
	bytesToKey kvstore.BytesToObject[K],
	valueToBytes kvstore.ObjectToBytes[V],
	bytesToValue kvstore.BytesToObject[V],
) Map[K, V] {
	return &kvMap[K, V]{
		store:        lo.PanicOnErr(store.WithExtendedRealm(realm)),
		realm:        realm,
		batch:        batch,
		keyToBytes:   keyToBytes,
		bytesToKey:   bytesToKey,
		valueToBytes: valueToBytes,
		bytesToValue: bytesToValue,
	}
}

func (m *kvMap[K, V]) Get(key K) (V, bool, error) {
	var zeroValue V

	keyBytes, err := m.keyToBytes(key)
	if err != nil {
		return zeroValue, false, ierrors.Wrap(err, "unable to encode key")
	}

	valueBytes, err := m.store.Get(keyBytes)
	if err != nil {
		if ierrors.Is(err, kvstore.ErrKeyNotFound) {
			return zeroValue, false, nil
		}

		return zeroValue, false, err
	}

	value, _, err := m.bytesToValue(valueBytes)
	if err != nil {
		return zeroValue, false, ierrors.Wrap(err, "unable to decode value")
	}

	return value, true, nil
}

func (m *kvMap[K, V]) Insert(key K, value V) error {
	keyBytes, err := m.keyToBytes(key)
	if err != nil {
		return ierrors.Wrap(err, "unable to encode key")
	}
	valueBytes, err := m.valueToBytes(value)
	if err != nil {
		return ierrors.Wrap(err, "unable to encode value")
	}

	// staged keys go through the parent store, so they carry the realm.
	if staged, err := m.batch.set(byteutils.ConcatBytes(m.realm, keyBytes), valueBytes); staged || err != nil {
		return err
	}

	return m.store.Set(keyBytes, valueBytes)
}

func (m *kvMap[K, V]) Remove(key K) error {
	keyBytes, err := m.keyToBytes(key)
	if err != nil {
		return ierrors.Wrap(err, "unable to encode key")
	}

	if staged, err := m.batch.delete(byteutils.ConcatBytes(m.realm, keyBytes)); staged || err != nil {
		return err
	}

	return m.store.Delete(keyBytes)
}

func (m *kvMap[K, V]) ContainsKey(key K) (bool, error) {
	keyBytes, err := m.keyToBytes(key)
	if err != nil {
		return false, ierrors.Wrap(err, "unable to encode key")
	}

	return m.store.Has(keyBytes)
}

func (m *kvMap[K, V]) IterateKeys(consumer func(key K) bool) error {
	m.batch.mutex.RLock()
	defer m.batch.mutex.RUnlock()

	var innerErr error
	if err := m.store.IterateKeys(kvstore.EmptyPrefix, func(keyBytes kvstore.Key) bool {
		key, _, err := m.bytesToKey(keyBytes)
		if err != nil {
			innerErr = ierrors.Wrap(err, "unable to decode key")

			return false
		}

		return consumer(key)
	}); err != nil {
		return err
	}

	return innerErr
}

func (m *kvMap[K, V]) Iterate(consumer func(key K, value V) bool) error {
	m.batch.mutex.RLock()
	defer m.batch.mutex.RUnlock()

	var innerErr error
	if err := m.store.Iterate(kvstore.EmptyPrefix, func(keyBytes kvstore.Key, valueBytes kvstore.Value) bool {
		key, _, err := m.bytesToKey(keyBytes)
		if err != nil {
			innerErr = ierrors.Wrap(err, "unable to decode key")

			return false
		}
		value, _, err := m.bytesToValue(valueBytes)
		if err != nil {
			innerErr = ierrors.Wrap(err, "unable to decode value")

			return false
		}

		return consumer(key, value)
	}); err != nil {
		return err
	}

	return innerErr
}

func (m *kvMap[K, V]) StartAtomic() error {
	return m.batch.Start()
}

func (m *kvMap[K, V]) IsAtomicInProgress() bool {
	return m.batch.InProgress()
}

func (m *kvMap[K, V]) AbortAtomic() {
	m.batch.Abort()
}

func (m *kvMap[K, V]) FinishAtomic() error {
	return m.batch.Commit()
}

// code guards.
var _ Map[byte, byte] = &kvMap[byte, byte]{}
