package database

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrUnknownEngine is returned when the configured database engine is not supported.
	ErrUnknownEngine = ierrors.New("unknown database engine")
)
