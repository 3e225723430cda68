// Package vector defines the value types shared by the index engine and the
// SDK: metric types, vector payloads and search result rows as they travel
// through the RPC schema of the surrounding service layer.
package vector

import "fmt"

// MetricType selects the distance function used for ranking.
type MetricType int32

const (
	// MetricTypeNone is the zero value; index construction treats it as
	// unspecified and falls back to L2.
	MetricTypeNone MetricType = iota

	// MetricTypeL2 ranks by squared Euclidean distance, ascending.
	MetricTypeL2

	// MetricTypeInnerProduct ranks by raw inner product, descending.
	MetricTypeInnerProduct
)

// String returns a string representation of the MetricType.
func (m MetricType) String() string {
	switch m {
	case MetricTypeNone:
		return "None"
	case MetricTypeL2:
		return "L2"
	case MetricTypeInnerProduct:
		return "InnerProduct"
	default:
		return fmt.Sprintf("MetricType(%d)", int32(m))
	}
}

// ValueType declares the element type of a vector payload.
type ValueType int32

const (
	// ValueTypeFloat is a sequence of 32-bit floats.
	ValueTypeFloat ValueType = iota

	// ValueTypeUint8 is a packed binary vector. The exact engine does not
	// search these; they are carried for completeness of the wire model.
	ValueTypeUint8
)

// String returns a string representation of the ValueType.
func (v ValueType) String() string {
	switch v {
	case ValueTypeFloat:
		return "Float"
	case ValueTypeUint8:
		return "Uint8"
	default:
		return fmt.Sprintf("ValueType(%d)", int32(v))
	}
}

// Vector is a vector payload with its declared dimension and element type.
// The declared dimension may disagree with len(FloatValues); the engine
// validates both.
type Vector struct {
	Dimension    int32
	ValueType    ValueType
	FloatValues  []float32
	BinaryValues [][]byte
}

// FloatVector is a convenience constructor for a float vector whose declared
// dimension matches its values.
func FloatVector(values []float32) Vector {
	return Vector{
		Dimension:   int32(len(values)),
		ValueType:   ValueTypeFloat,
		FloatValues: values,
	}
}

// VectorWithID pairs a vector payload with its numeric identifier.
type VectorWithID struct {
	ID     int64
	Vector Vector
}

// VectorWithDistance is one ranked row of a similarity search answer as it
// appears on the wire.
type VectorWithDistance struct {
	VectorWithID VectorWithID
	Distance     float32
}
