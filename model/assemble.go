package model

import (
	"errors"
	"fmt"
)

// LeafData holds what the column reader returned for one leaf column over a
// run of rows. Values, RepLevels and DefLevels are aligned; a nil value is a
// slot whose definition level is below the leaf's maximum.
type LeafData struct {
	Values    []any
	RepLevels []int32
	DefLevels []int32
}

type levelEntry struct {
	value any
	rep   int32
	def   int32
}

var errLevelMismatch = errors.New("leaf columns disagree on value layout")

// AssembleRows rebuilds numRows records of schema from per-leaf level streams
func AssembleRows(schema *Schema, leaves []LeafData, numRows int) (RowWindow, error) {
	if len(leaves) != len(schema.Leaves) {
		return nil, fmt.Errorf("got %d leaf columns, schema has %d: %w", len(leaves), len(schema.Leaves), errLevelMismatch)
	}

	perLeaf := make([][][]levelEntry, len(leaves))
	for i := range leaves {
		rows, err := splitRows(leaves[i], &schema.Leaves[i], numRows)
		if err != nil {
			return nil, err
		}
		perLeaf[i] = rows
	}

	window := make(RowWindow, 0, numRows)
	cols := make([][]levelEntry, len(leaves))
	for r := 0; r < numRows; r++ {
		for i := range perLeaf {
			cols[i] = perLeaf[i][r]
		}
		row := make(Row, len(schema.fields))
		for c, shape := range schema.fields {
			v, err := assembleValue(schema, shape, cols)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, schema.Columns[c].Name, err)
			}
			row[c] = v
		}
		window = append(window, row)
	}

	return window, nil
}

// splitRows cuts a leaf stream into records; a record starts at repetition level 0
func splitRows(data LeafData, col *LeafColumn, numRows int) ([][]levelEntry, error) {
	entries := make([]levelEntry, len(data.Values))
	for i, v := range data.Values {
		e := levelEntry{value: v, def: int32(col.MaxDef)}
		if v == nil {
			e.def = 0
		}
		if i < len(data.DefLevels) {
			e.def = data.DefLevels[i]
		}
		if i < len(data.RepLevels) {
			e.rep = data.RepLevels[i]
		}
		entries[i] = e
	}

	rows := make([][]levelEntry, 0, numRows)
	start := 0
	for i := 1; i <= len(entries) && len(rows) < numRows; i++ {
		if i == len(entries) || entries[i].rep == 0 {
			rows = append(rows, entries[start:i])
			start = i
		}
	}
	if len(rows) < numRows {
		return nil, fmt.Errorf("column %s yielded %d rows, want %d", col.PathString(), len(rows), numRows)
	}
	return rows, nil
}

func assembleValue(schema *Schema, shape *fieldShape, cols [][]levelEntry) (CellValue, error) {
	entries := cols[shape.firstLeaf]
	if len(entries) == 0 {
		return NullValue, fmt.Errorf("no levels for column %s: %w", schema.Leaves[shape.firstLeaf].PathString(), errLevelMismatch)
	}
	if shape.optional && entries[0].def < shape.def {
		return NullValue, nil
	}

	switch shape.kind {
	case KindList:
		if entries[0].def < shape.repDef {
			return ListValue(), nil
		}
		instances, err := splitInstances(cols, shape)
		if err != nil {
			return NullValue, err
		}
		elems := make([]CellValue, 0, len(instances))
		for _, instance := range instances {
			v, err := assembleValue(schema, shape.element, instance)
			if err != nil {
				return NullValue, err
			}
			elems = append(elems, v)
		}
		return ListValue(elems...), nil
	case KindStruct:
		fields := make([]CellValue, len(shape.fields))
		for i, f := range shape.fields {
			v, err := assembleValue(schema, f, cols)
			if err != nil {
				return NullValue, err
			}
			fields[i] = v
		}
		return StructValue(fields...), nil
	}

	if len(entries) != 1 {
		return NullValue, fmt.Errorf("column %s has %d values for one slot: %w",
			schema.Leaves[shape.leaf].PathString(), len(entries), errLevelMismatch)
	}
	return convertLeaf(entries[0].value, &schema.Leaves[shape.leaf])
}

// splitInstances cuts every leaf under a list into one slice per list element
func splitInstances(cols [][]levelEntry, shape *fieldShape) ([][][]levelEntry, error) {
	var out [][][]levelEntry
	for leaf := shape.firstLeaf; leaf <= shape.lastLeaf; leaf++ {
		parts := splitAtRepLevel(cols[leaf], shape.repLevel)
		if out == nil {
			out = make([][][]levelEntry, len(parts))
			for i := range out {
				out[i] = make([][]levelEntry, len(cols))
			}
		} else if len(parts) != len(out) {
			return nil, fmt.Errorf("list has %d elements in one leaf and %d in another: %w", len(out), len(parts), errLevelMismatch)
		}
		for i, p := range parts {
			out[i][leaf] = p
		}
	}
	return out, nil
}

func splitAtRepLevel(entries []levelEntry, level int32) [][]levelEntry {
	var parts [][]levelEntry
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || entries[i].rep <= level {
			parts = append(parts, entries[start:i])
			start = i
		}
	}
	return parts
}
