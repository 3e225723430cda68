package dingostore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vector10241/dingo-store/blobstore"
	"github.com/Vector10241/dingo-store/index"
	"github.com/Vector10241/dingo-store/vector"
)

func TestNewVectorIndex(t *testing.T) {
	t.Run("rejects non-positive dimension", func(t *testing.T) {
		_, err := NewVectorIndex(1, vector.MetricTypeL2, 0)
		require.ErrorIs(t, err, ErrVectorInvalid)
	})

	t.Run("unsupported metric falls back to L2", func(t *testing.T) {
		idx, err := NewVectorIndex(1, vector.MetricTypeNone, 4)
		require.NoError(t, err)
		assert.Equal(t, vector.MetricTypeL2, idx.MetricType())
	})

	t.Run("accessors", func(t *testing.T) {
		idx, err := NewVectorIndex(42, vector.MetricTypeInnerProduct, 8)
		require.NoError(t, err)
		assert.Equal(t, int64(42), idx.ID())
		assert.Equal(t, vector.MetricTypeInnerProduct, idx.MetricType())
		assert.Equal(t, int32(8), idx.Dimension())
		assert.Equal(t, 0, idx.Len())
	})
}

func TestVectorIndexDimensionCheck(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 4)
	require.NoError(t, err)

	short := []float32{1, 2, 3}

	for name, fn := range map[string]func() error{
		"Add":    func() error { return idx.Add(1, short) },
		"Upsert": func() error { return idx.Upsert(1, short) },
		"Search": func() error { _, err := idx.Search(short, 1); return err },
	} {
		t.Run(name, func(t *testing.T) {
			err := fn()
			require.ErrorIs(t, err, ErrVectorInvalid)

			var mismatch *ErrDimensionMismatch
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, 4, mismatch.Expected)
			assert.Equal(t, 3, mismatch.Actual)
		})
	}

	assert.Equal(t, 0, idx.Len())
}

func TestVectorIndexAddKeepsDuplicates(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(7, []float32{1, 0}))
	require.NoError(t, idx.Add(7, []float32{0, 1}))
	assert.Equal(t, 2, idx.Len())
}

func TestVectorIndexUpsert(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(7, []float32{1, 0}))
	require.NoError(t, idx.Add(7, []float32{0, 1}))
	require.NoError(t, idx.Upsert(7, []float32{5, 5}))
	assert.Equal(t, 1, idx.Len())

	results, err := idx.Search([]float32{5, 5}, 1)
	require.NoError(t, err)
	require.True(t, results[0].Valid)
	assert.Equal(t, int64(7), results[0].ID)
	assert.Equal(t, float32(0), results[0].Distance)
}

func TestVectorIndexDelete(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(7, []float32{1, 0}))

	idx.Delete(7)
	assert.Equal(t, 0, idx.Len())

	// Deleting an absent id is a silent no-op.
	idx.Delete(7)
	idx.Delete(999)
	assert.Equal(t, 0, idx.Len())
}

func TestVectorIndexSearch(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 4)
	require.NoError(t, err)

	require.NoError(t, idx.Add(1, []float32{1, 2, 3, 4}))
	require.NoError(t, idx.Add(2, []float32{2, 3, 4, 5}))

	t.Run("rejects non-positive topK", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 2, 3, 4}, 0)
		assert.ErrorIs(t, err, index.ErrInvalidTopK)

		_, err = idx.Search([]float32{1, 2, 3, 4}, -1)
		assert.ErrorIs(t, err, index.ErrInvalidTopK)
	})

	t.Run("fixed-length result with sentinels", func(t *testing.T) {
		results, err := idx.Search([]float32{1, 2, 3, 4}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, int64(1), results[0].ID)
		assert.Equal(t, float32(0), results[0].Distance)
		assert.Equal(t, int64(2), results[1].ID)
		assert.Equal(t, float32(4), results[1].Distance)
		assert.False(t, results[2].Valid)
	})
}

func TestVectorIndexSearchVector(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(1, []float32{1, 0}))

	t.Run("float vector", func(t *testing.T) {
		results, err := idx.SearchVector(vector.VectorWithID{
			ID:     100,
			Vector: vector.FloatVector([]float32{1, 0}),
		}, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), results[0].ID)
	})

	t.Run("declared dimension mismatch", func(t *testing.T) {
		_, err := idx.SearchVector(vector.VectorWithID{
			Vector: vector.Vector{Dimension: 3, ValueType: vector.ValueTypeFloat, FloatValues: []float32{1, 0}},
		}, 1)
		assert.ErrorIs(t, err, ErrVectorInvalid)
	})

	t.Run("binary vector rejected", func(t *testing.T) {
		_, err := idx.SearchVector(vector.VectorWithID{
			Vector: vector.Vector{Dimension: 2, ValueType: vector.ValueTypeUint8, BinaryValues: [][]byte{{1}, {0}}},
		}, 1)
		assert.ErrorIs(t, err, ErrNotSupported)
	})

	t.Run("payload shorter than declared dimension", func(t *testing.T) {
		_, err := idx.SearchVector(vector.VectorWithID{
			Vector: vector.Vector{Dimension: 2, ValueType: vector.ValueTypeFloat, FloatValues: []float32{1}},
		}, 1)
		assert.ErrorIs(t, err, ErrVectorInvalid)
	})
}

func TestVectorIndexSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	src, err := NewVectorIndex(1, vector.MetricTypeL2, 2, WithSnapshotStore(store))
	require.NoError(t, err)
	require.NoError(t, src.Add(1, []float32{1, 0}))
	require.NoError(t, src.Add(2, []float32{0, 1}))
	require.NoError(t, src.Save(ctx, "regions/1"))

	dst, err := NewVectorIndex(1, vector.MetricTypeL2, 2, WithSnapshotStore(store))
	require.NoError(t, err)
	require.NoError(t, dst.Load(ctx, "regions/1"))
	assert.Equal(t, 2, dst.Len())
}

func TestVectorIndexSaveLoadWithoutStore(t *testing.T) {
	ctx := context.Background()

	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(1, []float32{1, 0}))

	require.NoError(t, idx.Save(ctx, "anywhere"))
	require.NoError(t, idx.Load(ctx, "anywhere"))
	assert.Equal(t, 1, idx.Len())
}

func TestVectorIndexConcurrentAccess(t *testing.T) {
	idx, err := NewVectorIndex(1, vector.MetricTypeL2, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				id := int64(g*50 + n)
				assert.NoError(t, idx.Upsert(id, []float32{float32(g), float32(n)}))
				idx.Delete(id)
				assert.NoError(t, idx.Add(id, []float32{float32(n), float32(g)}))

				results, err := idx.Search([]float32{0, 0}, 5)
				assert.NoError(t, err)
				assert.Len(t, results, 5)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 400, idx.Len())
}
