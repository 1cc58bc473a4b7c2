package index

import "errors"

var (
	// ErrCatalogRequired indicates an indexer was constructed without a
	// catalog.
	ErrCatalogRequired = errors.New("catalog is required")

	// ErrStoreRequired indicates an indexer was constructed without a
	// store.
	ErrStoreRequired = errors.New("store is required")

	// ErrEmbedderRequired indicates an indexer was constructed without
	// an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
