package flat

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/Vector10241/dingo-store/codec"
	"github.com/Vector10241/dingo-store/vector"
)

// snapshotState is the gob-encoded on-blob representation of a flat backend.
type snapshotState struct {
	Dimension int
	Metric    vector.MetricType
	IDs       []int64
	Vectors   [][]float32
}

// Save persists the backend under name in the configured snapshot store.
// Without a store this is an inert success, matching the exact-variant
// contract. A failed Save leaves the in-memory state untouched.
func (f *Flat) Save(ctx context.Context, name string) error {
	if f.opts.SnapshotStore == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	st := snapshotState{
		Dimension: f.dimension,
		Metric:    f.opts.Metric,
		IDs:       make([]int64, 0, len(f.entries)),
		Vectors:   make([][]float32, 0, len(f.entries)),
	}
	for _, e := range f.entries {
		st.IDs = append(st.IDs, e.id)
		st.Vectors = append(st.Vectors, e.vec)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return fmt.Errorf("flat: encode snapshot: %w", err)
	}

	c := f.compressor()
	payload, err := c.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("flat: compress snapshot: %w", err)
	}

	// Header records the compressor so the blob stays self-describing.
	blob := make([]byte, 0, 1+len(c.Name())+len(payload))
	blob = append(blob, byte(len(c.Name())))
	blob = append(blob, c.Name()...)
	blob = append(blob, payload...)

	return f.opts.SnapshotStore.Put(ctx, name, blob)
}

// Load replaces the backend state from the snapshot stored under name.
// Without a store this is an inert success. Any failure leaves the live
// state untouched; the new state is swapped in only after a full decode.
func (f *Flat) Load(ctx context.Context, name string) error {
	if f.opts.SnapshotStore == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	blob, err := f.opts.SnapshotStore.Get(ctx, name)
	if err != nil {
		return err
	}
	if len(blob) < 1 || len(blob) < 1+int(blob[0]) {
		return fmt.Errorf("flat: snapshot %q: truncated header", name)
	}
	cname := string(blob[1 : 1+blob[0]])
	c, ok := codec.ByName(cname)
	if !ok {
		return fmt.Errorf("flat: snapshot %q: unknown compressor %q", name, cname)
	}

	raw, err := c.Decompress(blob[1+blob[0]:])
	if err != nil {
		return fmt.Errorf("flat: snapshot %q: %w", name, err)
	}

	var st snapshotState
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&st); err != nil {
		return fmt.Errorf("flat: decode snapshot %q: %w", name, err)
	}
	if st.Dimension != f.dimension {
		return fmt.Errorf("flat: snapshot %q: dimension %d does not match index dimension %d", name, st.Dimension, f.dimension)
	}
	if st.Metric != f.opts.Metric {
		return fmt.Errorf("flat: snapshot %q: metric %s does not match index metric %s", name, st.Metric, f.opts.Metric)
	}
	if len(st.IDs) != len(st.Vectors) {
		return fmt.Errorf("flat: snapshot %q: %d ids for %d vectors", name, len(st.IDs), len(st.Vectors))
	}

	entries := make([]entry, len(st.IDs))
	for i := range st.IDs {
		if len(st.Vectors[i]) != f.dimension {
			return fmt.Errorf("flat: snapshot %q: entry %d has dimension %d, want %d", name, i, len(st.Vectors[i]), f.dimension)
		}
		entries[i] = entry{id: st.IDs[i], vec: st.Vectors[i]}
	}

	f.entries = entries
	return nil
}

func (f *Flat) compressor() codec.Compressor {
	if f.opts.Compressor != nil {
		return f.opts.Compressor
	}
	return codec.Default
}
