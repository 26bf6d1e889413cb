package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema matches any *SchemaError via errors.Is
	ErrSchema = errors.New("invalid parquet schema")

	// ErrRowDecode matches any *RowDecodeError via errors.Is
	ErrRowDecode = errors.New("failed to decode row group")

	// ErrShape matches any *ShapeError via errors.Is
	ErrShape = errors.New("row does not match schema")

	// ErrNegativeRowCount is returned when a negative preview size is requested
	ErrNegativeRowCount = errors.New("row count must not be negative")

	// ErrInvalidRowGroupIndex is returned when an invalid row group index is requested
	ErrInvalidRowGroupIndex = errors.New("invalid row group index")
)

// SchemaError reports a footer that is missing, corrupt, or declares no columns
type SchemaError struct {
	Reason string
	Cause  error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", ErrSchema, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrSchema, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// RowDecodeError reports a failure while decoding a single row group
type RowDecodeError struct {
	RowGroupIndex int
	Cause         error
}

func (e *RowDecodeError) Error() string {
	return fmt.Sprintf("%s %d: %v", ErrRowDecode, e.RowGroupIndex, e.Cause)
}

func (e *RowDecodeError) Is(target error) bool {
	return target == ErrRowDecode
}

func (e *RowDecodeError) Unwrap() error {
	return e.Cause
}

// ShapeError reports a row whose length disagrees with the schema
type ShapeError struct {
	Row  int
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: row %d has %d cells, schema has %d columns", ErrShape, e.Row, e.Got, e.Want)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}
