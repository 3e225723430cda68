// Package flat provides the exact brute-force backend for vector search.
package flat

import (
	"fmt"

	"github.com/Vector10241/dingo-store/blobstore"
	"github.com/Vector10241/dingo-store/codec"
	"github.com/Vector10241/dingo-store/distance"
	"github.com/Vector10241/dingo-store/index"
	"github.com/Vector10241/dingo-store/internal/queue"
	"github.com/Vector10241/dingo-store/vector"
)

// Compile-time check to ensure Flat satisfies the backend contract.
var _ index.Backend = (*Flat)(nil)

// Options contains configuration options for the flat backend.
type Options struct {
	// Metric selects the ranking order. Only L2 and InnerProduct are
	// supported by the exact variant.
	Metric vector.MetricType

	// SnapshotStore, when non-nil, enables Save/Load against a blob store.
	// Without it both are inert successes.
	SnapshotStore blobstore.Store

	// Compressor used for snapshot payloads. Defaults to codec.Default.
	Compressor codec.Compressor
}

// DefaultOptions contains the default configuration options for the flat
// backend.
var DefaultOptions = Options{
	Metric: vector.MetricTypeL2,
}

// WithMetric sets the ranking metric.
func WithMetric(m vector.MetricType) func(o *Options) {
	return func(o *Options) {
		o.Metric = m
	}
}

// WithSnapshotStore enables snapshot persistence against store.
func WithSnapshotStore(store blobstore.Store) func(o *Options) {
	return func(o *Options) {
		o.SnapshotStore = store
	}
}

// WithCompressor sets the snapshot compressor.
func WithCompressor(c codec.Compressor) func(o *Options) {
	return func(o *Options) {
		o.Compressor = c
	}
}

type entry struct {
	id  int64
	vec []float32
}

// Flat is an exact linear-scan backend. Entries are kept in insertion order;
// duplicate ids coexist until removed. Not safe for concurrent use.
type Flat struct {
	dimension int
	opts      Options
	dist      func(a, b []float32) float32
	worse     func(a, b queue.Item) bool
	entries   []entry
}

// New creates a flat backend for vectors of the given dimension.
func New(dimension int, optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if dimension <= 0 {
		return nil, fmt.Errorf("flat: invalid dimension %d", dimension)
	}

	f := &Flat{
		dimension: dimension,
		opts:      opts,
	}

	switch opts.Metric {
	case vector.MetricTypeL2:
		f.dist = distance.SquaredL2
		// Smaller distance ranks better.
		f.worse = func(a, b queue.Item) bool { return a.Distance > b.Distance }
	case vector.MetricTypeInnerProduct:
		f.dist = distance.Dot
		// Larger product ranks better.
		f.worse = func(a, b queue.Item) bool { return a.Distance < b.Distance }
	default:
		return nil, fmt.Errorf("flat: unsupported metric %s", opts.Metric)
	}

	return f, nil
}

// Dimension returns the fixed vector dimension.
func (f *Flat) Dimension() int { return f.dimension }

// Metric returns the configured ranking metric.
func (f *Flat) Metric() vector.MetricType { return f.opts.Metric }

// Len returns the number of stored entries.
func (f *Flat) Len() int { return len(f.entries) }

// Add inserts a vector under id. The vector is copied so later caller
// mutations do not reach the stored entry. Ids are not deduplicated.
func (f *Flat) Add(id int64, v []float32) {
	vec := make([]float32, len(v))
	copy(vec, v)
	f.entries = append(f.entries, entry{id: id, vec: vec})
}

// Remove deletes every entry stored under id and returns the removed count.
func (f *Flat) Remove(id int64) int {
	removed := 0
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.id == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(f.entries); i++ {
		f.entries[i] = entry{}
	}
	f.entries = kept
	return removed
}

// Search scans all entries and returns exactly topK rows, padded with
// sentinel rows when fewer true neighbors exist.
func (f *Flat) Search(query []float32, topK int, opts *index.SearchOptions) []index.SearchResult {
	results := make([]index.SearchResult, topK)

	top := queue.NewTopK(topK, f.worse)
	for _, e := range f.entries {
		if opts != nil && opts.Filter != nil && !opts.Filter.Contains(uint64(e.id)) {
			continue
		}
		top.Push(queue.Item{ID: e.id, Distance: f.dist(query, e.vec)})
	}

	// Drain worst-first from the back so the best row lands at results[0];
	// the tail stays zero-valued (Valid == false) when the scan found fewer
	// matches than topK.
	for i := top.Len() - 1; i >= 0; i-- {
		item, _ := top.PopWorst()
		results[i] = index.SearchResult{ID: item.ID, Distance: item.Distance, Valid: true}
	}
	return results
}
