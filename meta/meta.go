// Package meta defines the coordinator-facing metadata contract: index
// definitions, the proxy interface the cache resolves through, and the
// structural validation applied to coordinator responses before anything is
// cached.
package meta

import (
	"context"
	"fmt"

	"github.com/Vector10241/dingo-store/vector"
)

// IndexKey identifies an index by its logical coordinates. It is a value
// type, comparable and usable as a map key.
type IndexKey struct {
	SchemaID int64
	Name     string
}

// String returns a string representation of the IndexKey.
func (k IndexKey) String() string {
	return fmt.Sprintf("%d/%s", k.SchemaID, k.Name)
}

// IndexType declares the kind of search structure an index definition asks
// for.
type IndexType int32

const (
	// IndexTypeNone is the zero value and never valid in a definition.
	IndexTypeNone IndexType = iota

	// IndexTypeFlat is the exact brute-force variant.
	IndexTypeFlat
)

// FlatParameter carries the construction parameters of a flat index.
type FlatParameter struct {
	Dimension  int32
	MetricType vector.MetricType
}

// IndexParameter is the closed set of per-type construction parameters.
type IndexParameter struct {
	IndexType     IndexType
	FlatParameter *FlatParameter
}

// IndexDefinition is the coordinator's description of one index.
type IndexDefinition struct {
	Name           string
	Version        uint32
	IndexParameter IndexParameter
}

// IndexDefinitionWithID pairs a definition with its assigned numeric id.
type IndexDefinitionWithID struct {
	ID         int64
	Definition *IndexDefinition
}

// GetIndexResponse is the coordinator's answer to a definition lookup.
// A response without a definition means the index does not exist.
type GetIndexResponse struct {
	IndexDefinitionWithID *IndexDefinitionWithID
}

// Proxy is the coordinator collaborator supplying index definitions. The
// transport behind it (leader discovery, failover, timeouts) is owned by
// the implementation, not by this package.
type Proxy interface {
	// GetIndexByKey resolves a definition by its logical coordinates.
	GetIndexByKey(ctx context.Context, key IndexKey) (*GetIndexResponse, error)

	// GetIndexByID resolves a definition by its numeric id.
	GetIndexByID(ctx context.Context, id int64) (*GetIndexResponse, error)
}
