package model

import (
	"errors"
	"fmt"
	"io/fs"
	"net"

	"github.com/hangxie/parquet-go/v2/parquet"
	pio "github.com/hangxie/parquet-tools/io"
	"go.uber.org/zap"
)

// DefaultPreviewRows is the window size used when none is given
const DefaultPreviewRows = 20

// PreviewTable is the schema, the sampled rows and their display text.
// It is built once and never modified. Rows is empty for a table rebuilt from
// its display text; null cells are still known there.
type PreviewTable struct {
	Schema []ColumnDescriptor
	Rows   RowWindow
	Info   FileInfo

	formatted [][]string
	nulls     [][]bool
}

// NewPreviewTable pairs rows with their schema and formats every cell
func NewPreviewTable(schema []ColumnDescriptor, rows RowWindow, info FileInfo) (*PreviewTable, error) {
	formatted := make([][]string, len(rows))
	nulls := make([][]bool, len(rows))
	for i, row := range rows {
		if len(row) != len(schema) {
			return nil, &ShapeError{Row: i, Got: len(row), Want: len(schema)}
		}
		cells := make([]string, len(row))
		isNull := make([]bool, len(row))
		for c, v := range row {
			cells[c] = FormatCell(v, schema[c].Type)
			isNull[c] = v.IsNull()
		}
		formatted[i] = cells
		nulls[i] = isNull
	}

	if rows == nil {
		rows = RowWindow{}
	}
	return &PreviewTable{
		Schema:    schema,
		Rows:      rows,
		Info:      info,
		formatted: formatted,
		nulls:     nulls,
	}, nil
}

// Columns returns the column names in schema order
func (p *PreviewTable) Columns() []string {
	names := make([]string, len(p.Schema))
	for i, c := range p.Schema {
		names[i] = c.Name
	}
	return names
}

// Types returns each column's logical type as display text
func (p *PreviewTable) Types() []string {
	types := make([]string, len(p.Schema))
	for i, c := range p.Schema {
		types[i] = c.Type.String()
	}
	return types
}

// FormattedRows returns the display text of every cell
func (p *PreviewTable) FormattedRows() [][]string {
	return p.formatted
}

// IsNull reports whether a sampled cell holds no value, as opposed to text
// that happens to read NULL
func (p *PreviewTable) IsNull(row, col int) bool {
	if row < 0 || row >= len(p.nulls) || col < 0 || col >= len(p.nulls[row]) {
		return false
	}
	return p.nulls[row][col]
}

// NumRows is the number of sampled rows, not the file's row count
func (p *PreviewTable) NumRows() int {
	return len(p.formatted)
}

// PreviewPayload is the wire form of a PreviewTable
type PreviewPayload struct {
	Columns  []ColumnDescriptor `json:"columns"`
	Types    []string           `json:"types"`
	Rows     [][]string         `json:"rows"`
	Nulls    [][]bool           `json:"nulls"`
	RowCount int                `json:"rowCount"`
	Info     FileInfo           `json:"info"`
}

// Payload returns the table as sent over HTTP
func (p *PreviewTable) Payload() PreviewPayload {
	return PreviewPayload{
		Columns:  p.Schema,
		Types:    p.Types(),
		Rows:     p.formatted,
		Nulls:    p.nulls,
		RowCount: p.NumRows(),
		Info:     p.Info,
	}
}

// PreviewTableFromPayload rebuilds a table from its display text. Without
// null flags every cell is taken as a value.
func PreviewTableFromPayload(payload PreviewPayload) (*PreviewTable, error) {
	for i, row := range payload.Rows {
		if len(row) != len(payload.Columns) {
			return nil, &ShapeError{Row: i, Got: len(row), Want: len(payload.Columns)}
		}
	}
	if payload.Nulls != nil && len(payload.Nulls) != len(payload.Rows) {
		return nil, fmt.Errorf("%w: %d null flag rows for %d rows", ErrShape, len(payload.Nulls), len(payload.Rows))
	}
	for i, flags := range payload.Nulls {
		if len(flags) != len(payload.Columns) {
			return nil, &ShapeError{Row: i, Got: len(flags), Want: len(payload.Columns)}
		}
	}

	formatted := payload.Rows
	if formatted == nil {
		formatted = [][]string{}
	}
	nulls := payload.Nulls
	if nulls == nil {
		nulls = make([][]bool, len(formatted))
	}
	return &PreviewTable{
		Schema:    payload.Columns,
		Rows:      RowWindow{},
		Info:      payload.Info,
		formatted: formatted,
		nulls:     nulls,
	}, nil
}

// BuildPreview runs the pipeline over an already open source
func BuildPreview(src RowGroupSource, footer *parquet.FileMetaData, n int, logger *zap.Logger) (*PreviewTable, error) {
	schema, err := ExtractSchema(footer)
	if err != nil {
		return nil, err
	}
	return buildPreview(src, schema, footer, n, logger)
}

func buildPreview(src RowGroupSource, schema *Schema, footer *parquet.FileMetaData, n int, logger *zap.Logger) (*PreviewTable, error) {
	rows, err := SampleRows(src, schema, n, logger)
	if err != nil {
		return nil, err
	}
	return NewPreviewTable(schema.Columns, rows, fileInfoFromFooter(footer))
}

// LoadPreview opens uri, previews its first n rows and closes it again
func LoadPreview(uri string, opts pio.ReadOption, n int, logger *zap.Logger) (_ *PreviewTable, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeRowCount, n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("loading parquet file", zap.String("uri", uri), zap.Int("rows", n))

	pr, err := OpenParquetReader(uri, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := pr.Close(); closeErr != nil {
			logger.Warn("failed to close parquet file", zap.String("uri", uri), zap.Error(closeErr))
		}
	}()

	table, err := pr.Preview(n, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("preview ready",
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", len(table.Schema)),
		zap.Int64("fileRows", table.Info.NumRows))
	return table, nil
}

// OpenParquetReader opens a local or remote file. Failures to reach the file are
// returned as is; anything else means the footer could not be parsed.
func OpenParquetReader(uri string, opts pio.ReadOption) (*ParquetReader, error) {
	r, err := pio.NewParquetFileReader(uri, opts)
	if err != nil {
		var pathErr *fs.PathError
		var netErr net.Error
		if errors.As(err, &pathErr) || errors.As(err, &netErr) {
			return nil, fmt.Errorf("failed to open parquet file: %w", err)
		}
		return nil, &SchemaError{Reason: "failed to read footer", Cause: err}
	}
	if r.Footer == nil {
		_ = r.PFile.Close()
		return nil, &SchemaError{Reason: "file metadata is missing"}
	}
	return NewParquetReader(r), nil
}
