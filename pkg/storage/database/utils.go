package database

import (
	"runtime"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
	hivedb "github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/kvstore/rocksdb"
)

// AllowedEnginesDefault is the fallback set of engines an instance may be
// opened with when the caller does not restrict them.
var AllowedEnginesDefault = []hivedb.Engine{
	hivedb.EngineAuto,
	hivedb.EngineMapDB,
	hivedb.EngineRocksDB,
}

// StoreWithDefaultSettings opens a kvstore with default settings in the given
// directory. It also checks that the directory was not previously used with a
// different engine.
func StoreWithDefaultSettings(path string, createDatabaseIfNotExists bool, dbEngine hivedb.Engine, allowedEngines ...hivedb.Engine) (kvstore.KVStore, error) {
	tmpAllowedEngines := AllowedEnginesDefault
	if len(allowedEngines) > 0 {
		tmpAllowedEngines = allowedEngines
	}

	targetEngine, err := hivedb.CheckEngine(path, createDatabaseIfNotExists, dbEngine, tmpAllowedEngines)
	if err != nil {
		return nil, err
	}

	switch targetEngine {
	case hivedb.EngineRocksDB:
		db, err := NewRocksDB(path)
		if err != nil {
			return nil, err
		}

		return rocksdb.New(db), nil

	case hivedb.EngineMapDB:
		return mapdb.NewMapDB(), nil

	default:
		return nil, ierrors.Wrapf(ErrUnknownEngine, "%s", dbEngine)
	}
}

// NewRocksDB creates a new RocksDB instance.
func NewRocksDB(path string) (*rocksdb.RocksDB, error) {
	opts := []rocksdb.Option{
		rocksdb.IncreaseParallelism(runtime.NumCPU() - 1),
		rocksdb.Custom([]string{
			"periodic_compaction_seconds=43200",
			"level_compaction_dynamic_level_bytes=true",
			"keep_log_file_num=2",
		}),
	}

	return rocksdb.CreateDB(path, opts...)
}

// FlushAndClose flushes all outstanding writes and closes the store.
func FlushAndClose(store kvstore.KVStore) error {
	if err := store.Flush(); err != nil {
		return err
	}

	return store.Close()
}
