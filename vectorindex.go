// Package dingostore implements the in-memory vector index engine of the
// dingo-store SDK: per-region exact nearest-neighbor indexes and, in the
// cache subpackage, the client-side resolution cache that maps logical index
// identifiers to live index handles.
package dingostore

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vector10241/dingo-store/index"
	"github.com/Vector10241/dingo-store/index/flat"
	"github.com/Vector10241/dingo-store/vector"
)

// VectorIndex is one region index's in-memory search structure.
//
// All operations are safe for concurrent use. The backend structure is not
// safe for concurrent mutation, so mutations and searches serialize on a
// single exclusive lock; there is no read/write splitting on purpose.
type VectorIndex struct {
	id         int64
	metricType vector.MetricType
	dimension  int32
	logger     *Logger

	mu      sync.Mutex
	backend index.Backend
}

// NewVectorIndex creates a region index for vectors of the given dimension.
//
// An unsupported or unspecified metric type falls back to L2 with a logged
// warning; construction never fails on the metric. The dimension must be
// positive.
func NewVectorIndex(id int64, metricType vector.MetricType, dimension int32, optFns ...Option) (*VectorIndex, error) {
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}
	logger := opts.logger.WithIndexID(id).WithDimension(dimension)

	if dimension <= 0 {
		return nil, fmt.Errorf("%w: invalid dimension %d", ErrVectorInvalid, dimension)
	}

	switch metricType {
	case vector.MetricTypeL2, vector.MetricTypeInnerProduct:
	default:
		logger.Warn("unsupported metric type, using L2", "metric_type", metricType.String())
		metricType = vector.MetricTypeL2
	}

	backend, err := flat.New(int(dimension),
		flat.WithMetric(metricType),
		flat.WithSnapshotStore(opts.snapshotStore),
		flat.WithCompressor(opts.compressor),
	)
	if err != nil {
		return nil, err
	}

	return &VectorIndex{
		id:         id,
		metricType: metricType,
		dimension:  dimension,
		logger:     logger,
		backend:    backend,
	}, nil
}

// ID returns the process-unique numeric index identifier.
func (i *VectorIndex) ID() int64 { return i.id }

// MetricType returns the effective ranking metric (after any L2 fallback).
func (i *VectorIndex) MetricType() vector.MetricType { return i.metricType }

// Dimension returns the fixed vector dimension.
func (i *VectorIndex) Dimension() int32 { return i.dimension }

// Len returns the number of stored entries.
func (i *VectorIndex) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.backend.Len()
}

func (i *VectorIndex) checkDimension(v []float32) error {
	if int32(len(v)) != i.dimension {
		return &ErrDimensionMismatch{Expected: int(i.dimension), Actual: len(v)}
	}
	return nil
}

// Add inserts a vector under id.
//
// Add does not look for a pre-existing entry: adding the same id twice
// leaves two entries, unlike Upsert. This asymmetry is inherited behavior,
// not a guaranteed contract; callers that need one-vector-per-id semantics
// must use Upsert.
func (i *VectorIndex) Add(id int64, v []float32) error {
	if err := i.checkDimension(v); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.backend.Add(id, v)
	return nil
}

// Upsert replaces any existing entry for id with v, leaving exactly one
// entry for id afterward.
func (i *VectorIndex) Upsert(id int64, v []float32) error {
	if err := i.checkDimension(v); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.backend.Remove(id)
	i.backend.Add(id, v)
	return nil
}

// Delete removes every entry stored under id. Delete is idempotent and
// never fails; a miss is observable only through diagnostic logging.
func (i *VectorIndex) Delete(id int64) {
	i.mu.Lock()
	removed := i.backend.Remove(id)
	i.mu.Unlock()

	if removed == 0 {
		i.logger.Debug("delete: id not found", "id", id)
	}
}

// Search returns the topK nearest entries to query.
//
// The answer always has exactly topK rows; rows past the last real match
// are sentinels with Valid == false. Ordering is ascending squared L2 for
// the L2 metric and descending raw product for inner product.
func (i *VectorIndex) Search(query []float32, topK int) ([]index.SearchResult, error) {
	return i.SearchWithOptions(query, topK, nil)
}

// SearchWithOptions is Search with optional parameters such as an
// allow-list filter bitmap.
func (i *VectorIndex) SearchWithOptions(query []float32, topK int, opts *index.SearchOptions) ([]index.SearchResult, error) {
	if topK <= 0 {
		return nil, index.ErrInvalidTopK
	}
	if err := i.checkDimension(query); err != nil {
		return nil, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.backend.Search(query, topK, opts), nil
}

// SearchVector searches with a full vector payload, additionally validating
// the declared dimension and element type. Only float vectors are
// searchable against the exact float index; binary vectors are rejected
// with ErrNotSupported.
func (i *VectorIndex) SearchVector(v vector.VectorWithID, topK int) ([]index.SearchResult, error) {
	if v.Vector.Dimension != i.dimension {
		return nil, &ErrDimensionMismatch{Expected: int(i.dimension), Actual: int(v.Vector.Dimension)}
	}
	if v.Vector.ValueType != vector.ValueTypeFloat {
		return nil, fmt.Errorf("%w: only float vectors are searchable, got %s", ErrNotSupported, v.Vector.ValueType)
	}
	// The declared dimension and the payload length can still disagree.
	return i.SearchWithOptions(v.Vector.FloatValues, topK, nil)
}

// Save persists the index under path. Without a configured snapshot store
// this is an inert success. A failed Save never corrupts the live
// structure.
func (i *VectorIndex) Save(ctx context.Context, path string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.backend.Save(ctx, path)
}

// Load replaces the index contents from the snapshot at path. Without a
// configured snapshot store this is an inert success. A failed Load leaves
// the live structure untouched.
func (i *VectorIndex) Load(ctx context.Context, path string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.backend.Load(ctx, path)
}
