// Package report prints a preview as plain text for non-interactive use.
//
// Every report starts with a summary line and a blank line, followed by the
// body in one of the supported formats:
//   - table: bordered grid
//   - tsv: tab separated, with tabs and newlines inside cells escaped
//   - csv: RFC 4180
//   - jsonl: one JSON object per row, keys in column order
package report

import (
	"fmt"
	"io"

	"github.com/hangxie/parquet-preview/model"
)

// Format names a report body layout
type Format string

const (
	FormatTable Format = "table"
	FormatTSV   Format = "tsv"
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// NoRowsText is the table body printed for an empty preview
const NoRowsText = "(no rows found)"

// Formatter writes the body of a report
type Formatter interface {
	// Format writes every sampled row of the preview
	Format(table *model.PreviewTable) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// NewFormatter returns the formatter for a format name
func NewFormatter(format Format, w io.Writer) (Formatter, error) {
	switch format {
	case FormatTable, "":
		return NewTableFormatter(w), nil
	case FormatTSV:
		return NewTSVFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatJSONL:
		return NewJSONFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Write prints the summary line, a blank line, then the body
func Write(w io.Writer, table *model.PreviewTable, format Format) error {
	formatter, err := NewFormatter(format, w)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rows: %d | Columns: %d\n\n", table.Info.NumRows, len(table.Schema)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return formatter.Format(table)
}
