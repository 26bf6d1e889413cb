package model

import (
	"fmt"

	"go.uber.org/zap"
)

// RowGroupSource exposes the row groups of one open file
type RowGroupSource interface {
	NumRowGroups() int
	RowGroupNumRows(index int) int64
	// DecodeRowGroup decodes the first limit rows of a row group
	DecodeRowGroup(index int, limit int64) (RowWindow, error)
}

// rowAccumulator collects rows up to a fixed capacity and drops the rest
type rowAccumulator struct {
	rows     RowWindow
	capacity int
}

func newRowAccumulator(capacity int) *rowAccumulator {
	return &rowAccumulator{rows: make(RowWindow, 0, capacity), capacity: capacity}
}

func (a *rowAccumulator) remaining() int {
	return a.capacity - len(a.rows)
}

func (a *rowAccumulator) full() bool {
	return len(a.rows) >= a.capacity
}

func (a *rowAccumulator) add(rows RowWindow) {
	if n := a.remaining(); len(rows) > n {
		rows = rows[:n]
	}
	a.rows = append(a.rows, rows...)
}

// windowCapacity is n bounded by the rows the file declares
func windowCapacity(src RowGroupSource, n int) int {
	var declared int64
	for rg := 0; rg < src.NumRowGroups() && declared < int64(n); rg++ {
		declared += max(src.RowGroupNumRows(rg), 0)
	}
	return int(min(int64(n), declared))
}

// SampleRows reads the first n rows of the file in row group order. Row groups
// past the one that fills the window are never decoded.
func SampleRows(src RowGroupSource, schema *Schema, n int, logger *zap.Logger) (RowWindow, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeRowCount, n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	acc := newRowAccumulator(windowCapacity(src, n))
	for rg := 0; rg < src.NumRowGroups() && !acc.full(); rg++ {
		available := src.RowGroupNumRows(rg)
		if available <= 0 {
			continue
		}
		limit := min(int64(acc.remaining()), available)

		rows, err := src.DecodeRowGroup(rg, limit)
		if err != nil {
			return nil, &RowDecodeError{RowGroupIndex: rg, Cause: err}
		}
		if int64(len(rows)) < limit {
			return nil, &RowDecodeError{
				RowGroupIndex: rg,
				Cause:         fmt.Errorf("decoded %d rows, row group declares at least %d", len(rows), limit),
			}
		}
		for i, row := range rows {
			if len(row) != schema.Len() {
				return nil, &RowDecodeError{
					RowGroupIndex: rg,
					Cause:         &ShapeError{Row: len(acc.rows) + i, Got: len(row), Want: schema.Len()},
				}
			}
		}

		acc.add(rows)
		logger.Debug("decoded row group",
			zap.Int("rowGroup", rg),
			zap.Int64("rows", limit),
			zap.Int("collected", len(acc.rows)))
	}

	return acc.rows, nil
}
