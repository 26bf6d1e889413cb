package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/hangxie/parquet-preview/model"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *JSONFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes one JSON object per row; values are the display text
func (f *JSONFormatter) Format(table *model.PreviewTable) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetEscapeHTML(false)
	columns := table.Columns()
	for _, row := range table.FormattedRows() {
		if err := encoder.Encode(orderedRow{columns: columns, cells: row}); err != nil {
			return err
		}
	}
	return nil
}

// orderedRow marshals as an object whose keys keep column order
type orderedRow struct {
	columns []string
	cells   []string
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.cells[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	encoder := json.NewEncoder(&tmp)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
