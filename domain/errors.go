package domain

import "errors"

var (
	// ErrStoreRequired indicates a catalog was constructed without a
	// backing store.
	ErrStoreRequired = errors.New("store is required")
)
