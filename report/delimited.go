package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hangxie/parquet-preview/model"
)

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// TSVFormatter outputs one line per row with cells separated by a tab
type TSVFormatter struct {
	writer io.Writer
}

// NewTSVFormatter creates a new TSV formatter
func NewTSVFormatter(w io.Writer) *TSVFormatter {
	return &TSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TSVFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the header line and one line per row
func (f *TSVFormatter) Format(table *model.PreviewTable) error {
	if err := f.writeLine(table.Columns()); err != nil {
		return err
	}
	for _, row := range table.FormattedRows() {
		if err := f.writeLine(row); err != nil {
			return err
		}
	}
	return nil
}

func (f *TSVFormatter) writeLine(cells []string) error {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = tsvEscaper.Replace(cell)
	}
	_, err := io.WriteString(f.writer, strings.Join(escaped, "\t")+"\n")
	return err
}

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *CSVFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the header record and one record per row
func (f *CSVFormatter) Format(table *model.PreviewTable) error {
	csvWriter := csv.NewWriter(f.writer)
	if err := csvWriter.Write(table.Columns()); err != nil {
		return err
	}
	if err := csvWriter.WriteAll(table.FormattedRows()); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
