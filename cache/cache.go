// Package cache implements the client-side index-resolution cache: a
// two-level map from logical index keys to numeric ids, and from ids to
// live VectorIndex handles, refreshed lazily from the coordinator.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	dingostore "github.com/Vector10241/dingo-store"
	"github.com/Vector10241/dingo-store/meta"
)

// Options contains configuration options for the cache.
type Options struct {
	// Logger for diagnostics; nil disables logging.
	Logger *dingostore.Logger

	// Metrics receives cache counters; nil disables metrics.
	Metrics *Metrics

	// IndexOptions are passed through to every VectorIndex the cache
	// constructs (e.g. snapshot store wiring).
	IndexOptions []dingostore.Option

	// PrefetchConcurrency bounds concurrent coordinator calls in Prefetch.
	PrefetchConcurrency int
}

// DefaultOptions contains the default configuration options for the cache.
var DefaultOptions = Options{
	PrefetchConcurrency: 4,
}

// VectorIndexCache resolves logical index identifiers to numeric ids and
// numeric ids to live VectorIndex handles, minimizing coordinator round
// trips.
//
// Lookups take a shared lock on the fast path; population and removal take
// the exclusive lock. No lock is held across the coordinator round trip, so
// two concurrent callers may both miss and both resolve the same key; the
// second insert overwrites the first with an equivalent value. Resolution
// is at-least-once by design.
type VectorIndexCache struct {
	proxy  meta.Proxy
	logger *dingostore.Logger
	opts   Options

	mu        sync.RWMutex
	keyToID   map[meta.IndexKey]int64
	idToIndex map[int64]*dingostore.VectorIndex
}

// New creates a cache resolving through proxy.
func New(proxy meta.Proxy, optFns ...func(o *Options)) *VectorIndexCache {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = dingostore.NoopLogger()
	}
	if opts.PrefetchConcurrency < 1 {
		opts.PrefetchConcurrency = 1
	}

	return &VectorIndexCache{
		proxy:     proxy,
		logger:    opts.Logger,
		opts:      opts,
		keyToID:   make(map[meta.IndexKey]int64),
		idToIndex: make(map[int64]*dingostore.VectorIndex),
	}
}

// GetIndexIDByKey resolves a logical key to its numeric index id, consulting
// the coordinator on a miss. The slow path also populates the id→handle
// level.
func (c *VectorIndexCache) GetIndexIDByKey(ctx context.Context, key meta.IndexKey) (int64, error) {
	c.mu.RLock()
	id, ok := c.keyToID[key]
	c.mu.RUnlock()
	if ok {
		c.opts.Metrics.hit()
		return id, nil
	}
	c.opts.Metrics.miss()

	idx, err := c.slowGetVectorIndexByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	return idx.ID(), nil
}

// GetVectorIndexByKey resolves a logical key to a live index handle.
func (c *VectorIndexCache) GetVectorIndexByKey(ctx context.Context, key meta.IndexKey) (*dingostore.VectorIndex, error) {
	c.mu.RLock()
	if id, ok := c.keyToID[key]; ok {
		if idx, ok := c.idToIndex[id]; ok {
			c.mu.RUnlock()
			c.opts.Metrics.hit()
			return idx, nil
		}
	}
	c.mu.RUnlock()
	c.opts.Metrics.miss()

	return c.slowGetVectorIndexByKey(ctx, key)
}

// GetVectorIndexByID resolves a numeric index id to a live index handle.
// The key→id level is not populated from this path; the key is unknown
// here.
func (c *VectorIndexCache) GetVectorIndexByID(ctx context.Context, id int64) (*dingostore.VectorIndex, error) {
	c.mu.RLock()
	idx, ok := c.idToIndex[id]
	c.mu.RUnlock()
	if ok {
		c.opts.Metrics.hit()
		return idx, nil
	}
	c.opts.Metrics.miss()

	return c.slowGetVectorIndexByID(ctx, id)
}

// RemoveVectorIndexByID drops the id→handle entry. Removal is unconditional
// and never fails; stale key→id entries heal on the next key lookup.
func (c *VectorIndexCache) RemoveVectorIndexByID(id int64) {
	c.mu.Lock()
	delete(c.idToIndex, id)
	c.mu.Unlock()
	c.opts.Metrics.removal()
}

// RemoveVectorIndexByKey drops the key→id entry and, when the key had
// resolved, the id→handle entry as well. Removal is unconditional and never
// fails.
func (c *VectorIndexCache) RemoveVectorIndexByKey(key meta.IndexKey) {
	c.mu.Lock()
	if id, ok := c.keyToID[key]; ok {
		delete(c.idToIndex, id)
	}
	delete(c.keyToID, key)
	c.mu.Unlock()
	c.opts.Metrics.removal()
}

// Prefetch warms the id→handle level for the given ids with bounded
// concurrency. Unknown ids are skipped; other failures abort the warm-up.
func (c *VectorIndexCache) Prefetch(ctx context.Context, ids ...int64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.PrefetchConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			_, err := c.GetVectorIndexByID(ctx, id)
			if errors.Is(err, dingostore.ErrIndexNotFound) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// slowGetVectorIndexByKey performs the coordinator round trip for a key
// without holding the cache lock, then populates both levels.
func (c *VectorIndexCache) slowGetVectorIndexByKey(ctx context.Context, key meta.IndexKey) (*dingostore.VectorIndex, error) {
	c.opts.Metrics.coordinatorCall()
	resp, err := c.proxy.GetIndexByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get index by key %s: %w", key, err)
	}
	if !c.checkResponse(resp) {
		return nil, fmt.Errorf("%w: key %s", dingostore.ErrIndexNotFound, key)
	}

	idx, err := c.newVectorIndex(resp.IndexDefinitionWithID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keyToID[key] = idx.ID()
	c.idToIndex[idx.ID()] = idx
	c.mu.Unlock()

	return idx, nil
}

// slowGetVectorIndexByID performs the coordinator round trip for an id
// without holding the cache lock, then populates the id→handle level only.
func (c *VectorIndexCache) slowGetVectorIndexByID(ctx context.Context, id int64) (*dingostore.VectorIndex, error) {
	c.opts.Metrics.coordinatorCall()
	resp, err := c.proxy.GetIndexByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get index by id %d: %w", id, err)
	}
	if !c.checkResponse(resp) {
		return nil, fmt.Errorf("%w: id %d", dingostore.ErrIndexNotFound, id)
	}

	idx, err := c.newVectorIndex(resp.IndexDefinitionWithID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.idToIndex[idx.ID()] = idx
	c.mu.Unlock()

	return idx, nil
}

// checkResponse validates a coordinator response before anything reaches
// the maps. A malformed response is logged in full and never cached.
func (c *VectorIndexCache) checkResponse(resp *meta.GetIndexResponse) bool {
	if meta.CheckIndexResponse(resp) {
		return true
	}
	c.logger.Warn("check failed", "response", meta.DescribeResponse(resp))
	c.opts.Metrics.validationFailure()
	return false
}

func (c *VectorIndexCache) newVectorIndex(d *meta.IndexDefinitionWithID) (*dingostore.VectorIndex, error) {
	p := d.Definition.IndexParameter.FlatParameter
	return dingostore.NewVectorIndex(d.ID, p.MetricType, p.Dimension, c.opts.IndexOptions...)
}
