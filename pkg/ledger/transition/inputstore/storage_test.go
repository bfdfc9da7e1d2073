package inputstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"

	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
	"github.com/zkledger/zkledger-core/pkg/ledger/transition/inputstore"
	"github.com/zkledger/zkledger-core/pkg/ledger/transition/inputstore/tpkg"
	"github.com/zkledger/zkledger-core/pkg/utils"
)

func TestInsertAndGetPerVariant(t *testing.T) {
	for name, input := range map[string]transition.Input{
		"constant":        tpkg.RandConstantInput(),
		"public":          tpkg.RandPublicInput(),
		"private":         tpkg.RandPrivateInput(),
		"record":          tpkg.RandRecordInput(),
		"external record": tpkg.RandExternalRecordInput(),
	} {
		t.Run(name, func(t *testing.T) {
			storage := inputstore.NewMemory()
			transitionID := utils.RandTransitionID()

			require.NoError(t, inputstore.Insert(storage, transitionID, transition.Inputs{input}))

			inputs, err := inputstore.Get(storage, transitionID)
			require.NoError(t, err)
			tpkg.EqualInputs(t, transition.Inputs{input}, inputs)

			foundID, exists, err := inputstore.FindTransitionID(storage, input.ID())
			require.NoError(t, err)
			require.True(t, exists)
			require.Equal(t, transitionID, foundID)
		})
	}
}

func TestInsertMixedRoundTrip(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	inputs := tpkg.RandInputs(20)

	require.NoError(t, inputstore.Insert(storage, transitionID, inputs))

	// insertion order survives the round trip
	inputIDs, err := inputstore.IDs(storage, transitionID)
	require.NoError(t, err)
	require.Equal(t, inputs.IDs(), inputIDs)

	loaded, err := inputstore.Get(storage, transitionID)
	require.NoError(t, err)
	tpkg.EqualInputs(t, inputs, loaded)

	// every input ID resolves back to its transition
	for _, input := range inputs {
		foundID, exists, err := inputstore.FindTransitionID(storage, input.ID())
		require.NoError(t, err)
		require.True(t, exists)
		require.Equal(t, transitionID, foundID)
	}
}

func TestPrunedInputsRoundTrip(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	inputs := transition.Inputs{
		tpkg.RandPrunedConstantInput(),
		tpkg.RandPrunedPublicInput(),
		tpkg.RandPrunedPrivateInput(),
	}

	require.NoError(t, inputstore.Insert(storage, transitionID, inputs))

	loaded, err := inputstore.Get(storage, transitionID)
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	// identifiers survive, payloads stay absent
	constantInput, ok := loaded[0].(*transition.ConstantInput)
	require.True(t, ok)
	_, hasPlaintext := constantInput.Plaintext()
	require.False(t, hasPlaintext)

	publicInput, ok := loaded[1].(*transition.PublicInput)
	require.True(t, ok)
	_, hasPlaintext = publicInput.Plaintext()
	require.False(t, hasPlaintext)

	privateInput, ok := loaded[2].(*transition.PrivateInput)
	require.True(t, ok)
	_, hasCiphertext := privateInput.Ciphertext()
	require.False(t, hasCiphertext)

	tpkg.EqualInputs(t, inputs, loaded)
}

func TestGetUnknownTransition(t *testing.T) {
	storage := inputstore.NewMemory()

	inputs, err := inputstore.Get(storage, utils.RandTransitionID())
	require.NoError(t, err)
	require.Empty(t, inputs)

	inputIDs, err := inputstore.IDs(storage, utils.RandTransitionID())
	require.NoError(t, err)
	require.Empty(t, inputIDs)

	_, exists, err := inputstore.FindTransitionID(storage, utils.RandField())
	require.NoError(t, err)
	require.False(t, exists)
}

func TestExclusiveVariantMembership(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	inputs := tpkg.RandInputs(20)

	require.NoError(t, inputstore.Insert(storage, transitionID, inputs))

	for _, input := range inputs {
		var hits int
		for _, contains := range []func(transition.Field) (bool, error){
			storage.ConstantMap().ContainsKey,
			storage.PublicMap().ContainsKey,
			storage.PrivateMap().ContainsKey,
			storage.RecordMap().ContainsKey,
			storage.ExternalRecordMap().ContainsKey,
		} {
			has, err := contains(input.ID())
			require.NoError(t, err)
			if has {
				hits++
			}
		}
		require.Equal(t, 1, hits)
	}
}

func TestRecordTagLink(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	recordInput := tpkg.RandRecordInput()

	require.NoError(t, inputstore.Insert(storage, transitionID, transition.Inputs{recordInput}))

	record, exists, err := storage.RecordMap().Get(recordInput.SerialNumber())
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, recordInput.Tag(), record.Tag)
	require.Equal(t, recordInput.Origin(), record.Origin)

	serialNumber, exists, err := storage.RecordTagMap().Get(recordInput.Tag())
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, recordInput.SerialNumber(), serialNumber)
}

func TestRemove(t *testing.T) {
	storage := inputstore.NewMemory()

	keptID := utils.RandTransitionID()
	keptInputs := tpkg.RandInputs(10)
	require.NoError(t, inputstore.Insert(storage, keptID, keptInputs))

	removedID := utils.RandTransitionID()
	removedInputs := transition.Inputs{
		tpkg.RandConstantInput(),
		tpkg.RandPublicInput(),
		tpkg.RandPrivateInput(),
		tpkg.RandRecordInput(),
		tpkg.RandExternalRecordInput(),
	}
	require.NoError(t, inputstore.Insert(storage, removedID, removedInputs))

	require.NoError(t, inputstore.Remove(storage, removedID))

	inputs, err := inputstore.Get(storage, removedID)
	require.NoError(t, err)
	require.Empty(t, inputs)

	for _, input := range removedInputs {
		_, exists, err := inputstore.FindTransitionID(storage, input.ID())
		require.NoError(t, err)
		require.False(t, exists)
	}

	// the tag side of the record link goes away with the record
	recordInput, ok := removedInputs[3].(*transition.RecordInput)
	require.True(t, ok)
	has, err := storage.RecordTagMap().ContainsKey(recordInput.Tag())
	require.NoError(t, err)
	require.False(t, has)

	// the other transition is untouched
	loaded, err := inputstore.Get(storage, keptID)
	require.NoError(t, err)
	tpkg.EqualInputs(t, keptInputs, loaded)
}

func TestRemoveUnknownTransition(t *testing.T) {
	storage := inputstore.NewMemory()

	require.NoError(t, inputstore.Remove(storage, utils.RandTransitionID()))
	require.False(t, inputstore.IsAtomicInProgress(storage))
}

func TestAtomicGrouping(t *testing.T) {
	storage := inputstore.NewMemory()

	firstID := utils.RandTransitionID()
	secondID := utils.RandTransitionID()

	require.NoError(t, inputstore.StartAtomic(storage))
	require.True(t, inputstore.IsAtomicInProgress(storage))

	require.NoError(t, inputstore.Insert(storage, firstID, tpkg.RandInputs(5)))
	require.NoError(t, inputstore.Insert(storage, secondID, tpkg.RandInputs(5)))

	// joined writes stay invisible until the outer batch commits
	require.True(t, inputstore.IsAtomicInProgress(storage))
	inputIDs, err := inputstore.IDs(storage, firstID)
	require.NoError(t, err)
	require.Empty(t, inputIDs)

	require.NoError(t, inputstore.FinishAtomic(storage))
	require.False(t, inputstore.IsAtomicInProgress(storage))

	inputIDs, err = inputstore.IDs(storage, firstID)
	require.NoError(t, err)
	require.Len(t, inputIDs, 5)
	inputIDs, err = inputstore.IDs(storage, secondID)
	require.NoError(t, err)
	require.Len(t, inputIDs, 5)
}

func TestAtomicAbort(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()

	require.NoError(t, inputstore.StartAtomic(storage))
	require.NoError(t, inputstore.Insert(storage, transitionID, tpkg.RandInputs(5)))
	inputstore.AbortAtomic(storage)

	require.False(t, inputstore.IsAtomicInProgress(storage))
	inputIDs, err := inputstore.IDs(storage, transitionID)
	require.NoError(t, err)
	require.Empty(t, inputIDs)
}

func TestAtomicRemoveJoinsCallerBatch(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	inputs := tpkg.RandInputs(5)

	require.NoError(t, inputstore.Insert(storage, transitionID, inputs))

	require.NoError(t, inputstore.StartAtomic(storage))
	require.NoError(t, inputstore.Remove(storage, transitionID))

	// still visible until the caller commits
	loaded, err := inputstore.Get(storage, transitionID)
	require.NoError(t, err)
	tpkg.EqualInputs(t, inputs, loaded)

	require.NoError(t, inputstore.FinishAtomic(storage))

	loaded, err = inputstore.Get(storage, transitionID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestIdleAtomicProtocolNoOps(t *testing.T) {
	storage := inputstore.NewMemory()

	require.False(t, inputstore.IsAtomicInProgress(storage))
	require.NoError(t, inputstore.FinishAtomic(storage))
	inputstore.AbortAtomic(storage)

	// repeated starts join the same batch
	require.NoError(t, inputstore.StartAtomic(storage))
	require.NoError(t, inputstore.StartAtomic(storage))
	require.True(t, inputstore.IsAtomicInProgress(storage))
	require.NoError(t, inputstore.FinishAtomic(storage))
}

func TestGetReportsMissingInput(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	input := tpkg.RandConstantInput()

	require.NoError(t, inputstore.Insert(storage, transitionID, transition.Inputs{input}))

	// sever the variant entry behind the index's back
	require.NoError(t, storage.ConstantMap().Remove(input.ID()))

	_, err := inputstore.Get(storage, transitionID)
	require.ErrorIs(t, err, inputstore.ErrMissingInput)
}

func TestGetReportsAmbiguousInput(t *testing.T) {
	storage := inputstore.NewMemory()
	transitionID := utils.RandTransitionID()
	input := tpkg.RandConstantInput()

	require.NoError(t, inputstore.Insert(storage, transitionID, transition.Inputs{input}))

	// claim the same ID from a second variant map
	require.NoError(t, storage.PublicMap().Insert(input.ID(), tpkg.RandPlaintext()))

	_, err := inputstore.Get(storage, transitionID)
	require.ErrorIs(t, err, inputstore.ErrAmbiguousInput)
}

func TestInsertScenario(t *testing.T) {
	storage := inputstore.NewMemory()

	transitionID := transition.ID{0xAA}
	constantInput := transition.NewConstantInput(transition.Field{0x01}, []byte{0xBB})
	recordInput := transition.NewRecordInput(transition.Field{0x02}, transition.Field{0x03}, transition.NewCommitmentOrigin(transition.Field{0xCC}))

	require.NoError(t, inputstore.Insert(storage, transitionID, transition.Inputs{constantInput, recordInput}))

	inputIDs, err := inputstore.IDs(storage, transitionID)
	require.NoError(t, err)
	require.Equal(t, transition.Fields{{0x01}, {0x02}}, inputIDs)

	plaintext, exists, err := storage.ConstantMap().Get(transition.Field{0x01})
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, transition.Plaintext{0xBB}, plaintext)

	record, exists, err := storage.RecordMap().Get(transition.Field{0x02})
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, transition.Field{0x03}, record.Tag)
	require.Equal(t, transition.OriginTypeCommitment, record.Origin.Type())
	require.Equal(t, transition.Field{0xCC}, record.Origin.Value())

	serialNumber, exists, err := storage.RecordTagMap().Get(transition.Field{0x03})
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, transition.Field{0x02}, serialNumber)

	_, exists, err = storage.ExternalRecordMap().Get(transition.Field{0x01})
	require.NoError(t, err)
	require.False(t, exists)
}

var errInjectedSetFailure = ierrors.New("injected set failure")

// failingStore passes everything through to the wrapped store but makes the
// N+1th staged write of each batch fail.
type failingStore struct {
	kvstore.KVStore
	setsUntilFailure int
}

func (f *failingStore) Batched() (kvstore.BatchedMutations, error) {
	batched, err := f.KVStore.Batched()
	if err != nil {
		return nil, err
	}

	return &failingBatchedMutations{BatchedMutations: batched, remaining: f.setsUntilFailure}, nil
}

type failingBatchedMutations struct {
	kvstore.BatchedMutations
	remaining int
}

func (f *failingBatchedMutations) Set(key kvstore.Key, value kvstore.Value) error {
	if f.remaining == 0 {
		return errInjectedSetFailure
	}
	f.remaining--

	return f.BatchedMutations.Set(key, value)
}

func TestInsertAllOrNothing(t *testing.T) {
	backing := mapdb.NewMapDB()
	storage := inputstore.NewKV(&failingStore{KVStore: backing, setsUntilFailure: 3})
	transitionID := utils.RandTransitionID()
	inputs := tpkg.RandInputs(10)

	err := inputstore.Insert(storage, transitionID, inputs)
	require.ErrorIs(t, err, errInjectedSetFailure)
	require.False(t, inputstore.IsAtomicInProgress(storage))

	// the writes staged before the failure never became visible
	loaded, err := inputstore.Get(storage, transitionID)
	require.NoError(t, err)
	require.Empty(t, loaded)

	for _, input := range inputs {
		_, exists, err := inputstore.FindTransitionID(storage, input.ID())
		require.NoError(t, err)
		require.False(t, exists)
	}
}

var errInjectedCommitFailure = ierrors.New("injected commit failure")

// commitFailingStore passes everything through to the wrapped store but, once
// armed, makes every batch commit fail without applying anything.
type commitFailingStore struct {
	kvstore.KVStore
	failCommit bool
}

func (c *commitFailingStore) Batched() (kvstore.BatchedMutations, error) {
	batched, err := c.KVStore.Batched()
	if err != nil {
		return nil, err
	}

	return &commitFailingBatchedMutations{BatchedMutations: batched, store: c}, nil
}

type commitFailingBatchedMutations struct {
	kvstore.BatchedMutations
	store *commitFailingStore
}

func (c *commitFailingBatchedMutations) Commit() error {
	if c.store.failCommit {
		c.BatchedMutations.Cancel()

		return errInjectedCommitFailure
	}

	return c.BatchedMutations.Commit()
}

func TestInsertCommitFailureLeavesStateUntouched(t *testing.T) {
	backing := &commitFailingStore{KVStore: mapdb.NewMapDB()}
	storage := inputstore.NewKV(backing)

	survivorID := utils.RandTransitionID()
	survivorInputs := tpkg.RandInputs(5)
	require.NoError(t, inputstore.Insert(storage, survivorID, survivorInputs))

	backing.failCommit = true

	failedID := utils.RandTransitionID()
	failedInputs := transition.Inputs{
		tpkg.RandConstantInput(),
		tpkg.RandPublicInput(),
		tpkg.RandPrivateInput(),
		tpkg.RandRecordInput(),
		tpkg.RandExternalRecordInput(),
	}
	err := inputstore.Insert(storage, failedID, failedInputs)
	require.ErrorIs(t, err, errInjectedCommitFailure)
	require.False(t, inputstore.IsAtomicInProgress(storage))

	// the failed commit applied nothing, in any of the maps
	loaded, err := inputstore.Get(storage, failedID)
	require.NoError(t, err)
	require.Empty(t, loaded)

	for _, input := range failedInputs {
		_, exists, err := inputstore.FindTransitionID(storage, input.ID())
		require.NoError(t, err)
		require.False(t, exists)
	}

	recordInput, ok := failedInputs[3].(*transition.RecordInput)
	require.True(t, ok)
	has, err := storage.RecordMap().ContainsKey(recordInput.SerialNumber())
	require.NoError(t, err)
	require.False(t, has)
	has, err = storage.RecordTagMap().ContainsKey(recordInput.Tag())
	require.NoError(t, err)
	require.False(t, has)
	has, err = storage.ExternalRecordMap().ContainsKey(failedInputs[4].ID())
	require.NoError(t, err)
	require.False(t, has)

	// the previously committed state is untouched
	loaded, err = inputstore.Get(storage, survivorID)
	require.NoError(t, err)
	tpkg.EqualInputs(t, survivorInputs, loaded)

	// the failed batch is fully closed, later inserts work again
	backing.failCommit = false
	require.NoError(t, inputstore.Insert(storage, failedID, failedInputs))

	loaded, err = inputstore.Get(storage, failedID)
	require.NoError(t, err)
	tpkg.EqualInputs(t, failedInputs, loaded)
}

func TestInsertFailureAbortsCallerBatch(t *testing.T) {
	backing := mapdb.NewMapDB()
	storage := inputstore.NewKV(&failingStore{KVStore: backing, setsUntilFailure: 3})

	survivorID := utils.RandTransitionID()

	require.NoError(t, inputstore.StartAtomic(storage))
	require.NoError(t, inputstore.Insert(storage, survivorID, transition.Inputs{tpkg.RandConstantInput()}))

	err := inputstore.Insert(storage, utils.RandTransitionID(), tpkg.RandInputs(10))
	require.ErrorIs(t, err, errInjectedSetFailure)

	// a failed insert takes the whole in-flight batch down with it
	require.False(t, inputstore.IsAtomicInProgress(storage))
	loaded, err := inputstore.Get(storage, survivorID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}
