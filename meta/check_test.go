package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vector10241/dingo-store/vector"
)

func validDefinition() *IndexDefinitionWithID {
	return &IndexDefinitionWithID{
		ID: 1001,
		Definition: &IndexDefinition{
			Name:    "embeddings",
			Version: 1,
			IndexParameter: IndexParameter{
				IndexType: IndexTypeFlat,
				FlatParameter: &FlatParameter{
					Dimension:  128,
					MetricType: vector.MetricTypeL2,
				},
			},
		},
	}
}

func TestCheckIndexDefinitionWithID(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *IndexDefinitionWithID) *IndexDefinitionWithID
		want   bool
	}{
		{
			name:   "valid",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID { return d },
			want:   true,
		},
		{
			name:   "nil",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID { return nil },
			want:   false,
		},
		{
			name: "nil definition",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID {
				d.Definition = nil
				return d
			},
			want: false,
		},
		{
			name: "non-positive id",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID {
				d.ID = 0
				return d
			},
			want: false,
		},
		{
			name: "wrong index type",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID {
				d.Definition.IndexParameter.IndexType = IndexTypeNone
				return d
			},
			want: false,
		},
		{
			name: "nil flat parameter",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID {
				d.Definition.IndexParameter.FlatParameter = nil
				return d
			},
			want: false,
		},
		{
			name: "non-positive dimension",
			mutate: func(d *IndexDefinitionWithID) *IndexDefinitionWithID {
				d.Definition.IndexParameter.FlatParameter.Dimension = 0
				return d
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckIndexDefinitionWithID(tt.mutate(validDefinition())))
		})
	}
}

func TestCheckIndexResponse(t *testing.T) {
	assert.False(t, CheckIndexResponse(nil))
	assert.False(t, CheckIndexResponse(&GetIndexResponse{}))
	assert.True(t, CheckIndexResponse(&GetIndexResponse{IndexDefinitionWithID: validDefinition()}))
}

func TestDescribeResponse(t *testing.T) {
	assert.Equal(t, "<nil response>", DescribeResponse(nil))
	assert.Equal(t, "{index_definition_with_id: <unset>}", DescribeResponse(&GetIndexResponse{}))

	assert.Contains(t, DescribeResponse(&GetIndexResponse{
		IndexDefinitionWithID: &IndexDefinitionWithID{ID: 7},
	}), "definition: <unset>")

	full := DescribeResponse(&GetIndexResponse{IndexDefinitionWithID: validDefinition()})
	assert.Contains(t, full, `name: "embeddings"`)
	assert.Contains(t, full, "dimension: 128")
}

func TestIndexKeyString(t *testing.T) {
	assert.Equal(t, "3/users", IndexKey{SchemaID: 3, Name: "users"}.String())
}
