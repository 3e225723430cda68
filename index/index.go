// Package index defines the contract between a region index and its backend
// search structure.
package index

import (
	"context"
	"errors"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ErrInvalidTopK is returned when a search requests a non-positive topK.
var ErrInvalidTopK = errors.New("topk must be positive")

// SearchResult is one row of a fixed-length search answer.
//
// A search for topK neighbors always yields exactly topK rows; rows past the
// last real match are sentinels with Valid == false, an unset ID and zero
// distance. Callers must check Valid rather than trust a zero distance,
// which is indistinguishable from an exact match on its own.
type SearchResult struct {
	ID       int64
	Distance float32
	Valid    bool
}

// SearchOptions carries optional search parameters.
type SearchOptions struct {
	// Filter, when non-nil, restricts candidates to ids present in the
	// bitmap. Ids are cast to uint64 for membership tests.
	Filter *roaring64.Bitmap
}

// Backend is a single region index's search structure.
//
// Backends are not safe for concurrent use; the owning VectorIndex
// serializes all calls under its lock. Validation (dimension, topK) happens
// above the backend, which may assume well-formed input.
type Backend interface {
	// Add inserts a vector under id. Ids are not deduplicated; an id added
	// twice yields two entries.
	Add(id int64, v []float32)

	// Remove deletes every entry stored under id and returns how many were
	// removed.
	Remove(id int64) int

	// Search returns the topK nearest entries to query in the backend's
	// metric ordering, padded with sentinel rows to exactly topK entries.
	Search(query []float32, topK int, opts *SearchOptions) []SearchResult

	// Len returns the number of stored entries.
	Len() int

	// Save persists the backend state under name. Backends without
	// configured persistence succeed without doing anything. A failed Save
	// never corrupts the in-memory state.
	Save(ctx context.Context, name string) error

	// Load replaces the backend state from name. A failed Load leaves the
	// in-memory state untouched.
	Load(ctx context.Context, name string) error
}
