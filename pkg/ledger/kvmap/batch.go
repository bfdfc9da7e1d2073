package kvmap

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/runtime/syncutils"
)

// Batch coordinates one staged mutation set shared by every map view of a
// backing store. While a batch is in progress, writes on any participating
// map are staged in a single kvstore.BatchedMutations and stay invisible to
// readers; Commit applies the whole set in one engine-level commit, so the
// writes of all maps land together or not at all.
//
// Iterations hold the read lock for their whole pass and Commit holds the
// write lock, so an iteration never observes a partially applied batch. This
// is backend-level serialization, not snapshot isolation: an iteration that
// starts after a commit sees all of it, one that starts before sees none.
type Batch struct {
	store     kvstore.KVStore
	mutex     syncutils.RWMutex
	mutations kvstore.BatchedMutations
}

func NewBatch(store kvstore.KVStore) *Batch {
	return &Batch{store: store}
}

// Start opens the staged mutation set. Starting while a batch is already in
// progress is a no-op; there are no nesting levels.
func (b *Batch) Start() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.mutations != nil {
		return nil
	}

	mutations, err := b.store.Batched()
	if err != nil {
		return err
	}
	b.mutations = mutations

	return nil
}

// InProgress reports whether a batch is currently open.
func (b *Batch) InProgress() bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.mutations != nil
}

// Abort discards all staged writes. Aborting while idle is a no-op.
func (b *Batch) Abort() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.mutations == nil {
		return
	}

	b.mutations.Cancel()
	b.mutations = nil
}

// Commit applies all staged writes in one engine commit and closes the
// batch. Committing while idle is a no-op.
func (b *Batch) Commit() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.mutations == nil {
		return nil
	}

	mutations := b.mutations
	b.mutations = nil

	return mutations.Commit()
}

// set stages a write if a batch is in progress and reports whether it did.
func (b *Batch) set(key []byte, value []byte) (bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.mutations == nil {
		return false, nil
	}

	return true, b.mutations.Set(key, value)
}

// delete stages a deletion if a batch is in progress and reports whether it did.
func (b *Batch) delete(key []byte) (bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.mutations == nil {
		return false, nil
	}

	return true, b.mutations.Delete(key)
}
