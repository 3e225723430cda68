package dingostore

import (
	"github.com/Vector10241/dingo-store/blobstore"
	"github.com/Vector10241/dingo-store/codec"
)

type options struct {
	logger        *Logger
	snapshotStore blobstore.Store
	compressor    codec.Compressor
}

// Option configures VectorIndex construction.
type Option func(*options)

// WithLogger configures the logger used for operational diagnostics.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithSnapshotStore enables Save/Load persistence against store.
// Without it Save and Load succeed without doing anything.
func WithSnapshotStore(store blobstore.Store) Option {
	return func(o *options) {
		o.snapshotStore = store
	}
}

// WithCompressor configures the compressor used for snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCompressor(c codec.Compressor) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.compressor = c
	}
}
