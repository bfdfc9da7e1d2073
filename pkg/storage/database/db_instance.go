package database

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/kvstore"
)

// DBInstance bundles an opened physical store with its health tracker. The
// instance is marked corrupted while it is open and healthy again on a clean
// Close, so an unclean shutdown is detectable on the next open.
type DBInstance struct {
	store         kvstore.KVStore
	healthTracker *kvstore.StoreHealthTracker
	dbConfig      Config
}

func NewDBInstance(dbConfig Config) (*DBInstance, error) {
	db, err := StoreWithDefaultSettings(dbConfig.Directory, true, dbConfig.Engine)
	if err != nil {
		return nil, ierrors.Wrapf(err, "failed to open database in %s", dbConfig.Directory)
	}

	healthTracker, err := kvstore.NewStoreHealthTracker(db, dbConfig.PrefixHealth, dbConfig.Version, nil)
	if err != nil {
		return nil, ierrors.Wrapf(err, "database in %s is corrupted, delete database and resync", dbConfig.Directory)
	}
	if err = healthTracker.MarkCorrupted(); err != nil {
		return nil, err
	}

	return &DBInstance{
		store:         db,
		healthTracker: healthTracker,
		dbConfig:      dbConfig,
	}, nil
}

func (d *DBInstance) KVStore() kvstore.KVStore {
	return d.store
}

func (d *DBInstance) Close() error {
	if err := d.healthTracker.MarkHealthy(); err != nil {
		return err
	}

	return FlushAndClose(d.store)
}
