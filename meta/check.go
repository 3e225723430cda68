package meta

import "fmt"

// CheckIndexDefinitionWithID reports whether a definition is structurally
// usable for index construction: a positive id, a present definition, flat
// parameters and a positive dimension.
func CheckIndexDefinitionWithID(d *IndexDefinitionWithID) bool {
	if d == nil || d.Definition == nil {
		return false
	}
	if d.ID <= 0 {
		return false
	}
	p := d.Definition.IndexParameter
	if p.IndexType != IndexTypeFlat || p.FlatParameter == nil {
		return false
	}
	return p.FlatParameter.Dimension > 0
}

// CheckIndexResponse reports whether a coordinator response carries a
// well-formed definition. A malformed response must never populate a cache;
// callers treat a false return as a not-found class failure.
func CheckIndexResponse(resp *GetIndexResponse) bool {
	if resp == nil || resp.IndexDefinitionWithID == nil {
		return false
	}
	return CheckIndexDefinitionWithID(resp.IndexDefinitionWithID)
}

// DescribeResponse renders a response for diagnostic logging, tolerating
// nil at every level.
func DescribeResponse(resp *GetIndexResponse) string {
	if resp == nil {
		return "<nil response>"
	}
	d := resp.IndexDefinitionWithID
	if d == nil {
		return "{index_definition_with_id: <unset>}"
	}
	if d.Definition == nil {
		return fmt.Sprintf("{id: %d, definition: <unset>}", d.ID)
	}
	p := d.Definition.IndexParameter
	if p.FlatParameter == nil {
		return fmt.Sprintf("{id: %d, name: %q, index_type: %d, flat_parameter: <unset>}", d.ID, d.Definition.Name, p.IndexType)
	}
	return fmt.Sprintf("{id: %d, name: %q, index_type: %d, dimension: %d, metric_type: %s}",
		d.ID, d.Definition.Name, p.IndexType, p.FlatParameter.Dimension, p.FlatParameter.MetricType)
}
