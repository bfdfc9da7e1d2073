package inputstore

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrMissingInput is returned when an indexed input ID resolves to none
	// of the variant maps. It always signals storage corruption and is never
	// recovered automatically.
	ErrMissingInput = ierrors.New("missing input")

	// ErrAmbiguousInput is returned when an input ID resolves to more than
	// one variant map. It always signals storage corruption and is never
	// recovered automatically.
	ErrAmbiguousInput = ierrors.New("multiple inputs found for input ID")
)
