package inputstore

import (
	"github.com/iotaledger/hive.go/ds/types"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"

	"github.com/zkledger/zkledger-core/pkg/ledger/kvmap"
	"github.com/zkledger/zkledger-core/pkg/ledger/transition"
	"github.com/zkledger/zkledger-core/pkg/storage/database"
)

// KV is a transition input backend over a single kvstore.KVStore. The eight
// maps are realm-scoped views of the same store sharing one atomic batch, so
// a committed batch lands in all of them or in none.
type KV struct {
	store kvstore.KVStore
	batch *kvmap.Batch
	db    *database.DBInstance

	idMap             kvmap.Map[transition.ID, transition.Fields]
	reverseIDMap      kvmap.Map[transition.Field, transition.ID]
	constantMap       kvmap.Map[transition.Field, transition.Plaintext]
	publicMap         kvmap.Map[transition.Field, transition.Plaintext]
	privateMap        kvmap.Map[transition.Field, transition.Ciphertext]
	recordMap         kvmap.Map[transition.Field, RecordValue]
	recordTagMap      kvmap.Map[transition.Field, transition.Field]
	externalRecordMap kvmap.Map[transition.Field, types.Empty]
}

func emptyToBytes(types.Empty) ([]byte, error) {
	return []byte{}, nil
}

func emptyFromBytes([]byte) (types.Empty, int, error) {
	return types.Void, 0, nil
}

// NewKV creates a transition input backend over the given store. Any engine
// satisfying kvstore.KVStore can back it.
func NewKV(store kvstore.KVStore) *KV {
	batch := kvmap.NewBatch(store)

	return &KV{
		store: store,
		batch: batch,
		idMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixID}, batch,
			transition.ID.Bytes, transition.IDFromBytes,
			transition.Fields.Bytes, transition.FieldsFromBytes),
		reverseIDMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixReverseID}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			transition.ID.Bytes, transition.IDFromBytes),
		constantMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixConstant}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			transition.Plaintext.Bytes, transition.PlaintextFromBytes),
		publicMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixPublic}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			transition.Plaintext.Bytes, transition.PlaintextFromBytes),
		privateMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixPrivate}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			transition.Ciphertext.Bytes, transition.CiphertextFromBytes),
		recordMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixRecord}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			RecordValue.Bytes, RecordValueFromBytes),
		recordTagMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixRecordTag}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			transition.Field.Bytes, transition.FieldFromBytes),
		externalRecordMap: kvmap.New(store, kvstore.Realm{StoreKeyPrefixExternalRecord}, batch,
			transition.Field.Bytes, transition.FieldFromBytes,
			emptyToBytes, emptyFromBytes),
	}
}

// NewMemory creates an in-memory transition input backend.
func NewMemory() *KV {
	return NewKV(mapdb.NewMapDB())
}

// OpenKV opens a transition input backend on a physical engine in the
// configured directory.
func OpenKV(dbConfig database.Config) (*KV, error) {
	db, err := database.NewDBInstance(dbConfig)
	if err != nil {
		return nil, ierrors.Wrap(err, "failed to initialize transition input storage")
	}

	kv := NewKV(db.KVStore())
	kv.db = db

	return kv, nil
}

// KVStore returns the underlying store.
func (k *KV) KVStore() kvstore.KVStore {
	return k.store
}

// Close flushes and closes the underlying database if this backend owns one.
func (k *KV) Close() error {
	if k.db == nil {
		return nil
	}

	return k.db.Close()
}

func (k *KV) IDMap() kvmap.Map[transition.ID, transition.Fields] {
	return k.idMap
}

func (k *KV) ReverseIDMap() kvmap.Map[transition.Field, transition.ID] {
	return k.reverseIDMap
}

func (k *KV) ConstantMap() kvmap.Map[transition.Field, transition.Plaintext] {
	return k.constantMap
}

func (k *KV) PublicMap() kvmap.Map[transition.Field, transition.Plaintext] {
	return k.publicMap
}

func (k *KV) PrivateMap() kvmap.Map[transition.Field, transition.Ciphertext] {
	return k.privateMap
}

func (k *KV) RecordMap() kvmap.Map[transition.Field, RecordValue] {
	return k.recordMap
}

func (k *KV) RecordTagMap() kvmap.Map[transition.Field, transition.Field] {
	return k.recordTagMap
}

func (k *KV) ExternalRecordMap() kvmap.Map[transition.Field, types.Empty] {
	return k.externalRecordMap
}

// code guards.
var _ Storage = &KV{}
