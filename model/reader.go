package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hangxie/parquet-go/v2/parquet"
	"github.com/hangxie/parquet-go/v2/reader"
	pschema "github.com/hangxie/parquet-tools/schema"
	"go.uber.org/zap"
)

// FileInfo contains metadata about a Parquet file
type FileInfo struct {
	Version               int32
	NumRowGroups          int
	NumRows               int64
	NumColumns            int
	NumLeafColumns        int
	TotalCompressedSize   int64
	TotalUncompressedSize int64
	CompressionRatio      float64
	CreatedBy             string
}

// RowGroupInfo contains metadata about a row group
type RowGroupInfo struct {
	Index            int
	NumRows          int64
	NumColumns       int
	CompressedSize   int64
	UncompressedSize int64
	CompressionRatio float64
}

// ParquetReader wraps the parquet-go reader with utility methods
type ParquetReader struct {
	Reader   *reader.ParquetReader
	metadata *parquet.FileMetaData
}

// NewParquetReader creates a new ParquetReader
func NewParquetReader(r *reader.ParquetReader) *ParquetReader {
	return &ParquetReader{
		Reader:   r,
		metadata: r.Footer,
	}
}

// Close releases the file handle
func (pr *ParquetReader) Close() error {
	if pr == nil || pr.Reader == nil || pr.Reader.PFile == nil {
		return nil
	}
	return errors.Join(pr.Reader.ReadStopWithError(), pr.Reader.PFile.Close())
}

// Footer returns the file metadata with schema element names as written in the
// file; the reader may have rewritten them to Go identifiers.
func (pr *ParquetReader) Footer() *parquet.FileMetaData {
	if pr.metadata == nil {
		return nil
	}
	footer := *pr.metadata
	if pr.Reader == nil || pr.Reader.SchemaHandler == nil {
		return &footer
	}

	infos := pr.Reader.SchemaHandler.Infos
	if len(infos) != len(footer.Schema) {
		return &footer
	}
	elems := make([]*parquet.SchemaElement, len(footer.Schema))
	for i, elem := range footer.Schema {
		if elem == nil {
			continue
		}
		renamed := *elem
		if name := infos[i].ExName; name != "" {
			renamed.Name = name
		}
		elems[i] = &renamed
	}
	footer.Schema = elems
	return &footer
}

// GetFileInfo extracts file-level information
func (pr *ParquetReader) GetFileInfo() FileInfo {
	return fileInfoFromFooter(pr.metadata)
}

func fileInfoFromFooter(footer *parquet.FileMetaData) FileInfo {
	if footer == nil {
		return FileInfo{}
	}
	info := FileInfo{
		Version:        footer.Version,
		NumRowGroups:   len(footer.RowGroups),
		NumRows:        footer.NumRows,
		NumColumns:     countTopLevelColumns(footer.Schema),
		NumLeafColumns: countLeafColumns(footer.Schema),
	}

	for _, rg := range footer.RowGroups {
		info.TotalUncompressedSize += rg.TotalByteSize
		info.TotalCompressedSize += rowGroupCompressedSize(rg)
	}

	if info.TotalCompressedSize > 0 {
		info.CompressionRatio = float64(info.TotalUncompressedSize) / float64(info.TotalCompressedSize)
	}

	if footer.CreatedBy != nil {
		info.CreatedBy = *footer.CreatedBy
	}

	return info
}

// GetRowGroupInfo extracts row group information
func (pr *ParquetReader) GetRowGroupInfo(rgIndex int) (RowGroupInfo, error) {
	if pr == nil || pr.metadata == nil {
		return RowGroupInfo{}, ErrInvalidRowGroupIndex
	}

	numRowGroups := len(pr.metadata.RowGroups)
	if rgIndex < 0 || rgIndex >= numRowGroups {
		return RowGroupInfo{}, fmt.Errorf("row group index %d out of range [0, %d): %w",
			rgIndex, numRowGroups, ErrInvalidRowGroupIndex)
	}

	rg := pr.metadata.RowGroups[rgIndex]
	info := RowGroupInfo{
		Index:            rgIndex,
		NumRows:          rg.NumRows,
		NumColumns:       len(rg.Columns),
		UncompressedSize: rg.TotalByteSize,
		CompressedSize:   rowGroupCompressedSize(rg),
	}
	if info.CompressedSize > 0 {
		info.CompressionRatio = float64(info.UncompressedSize) / float64(info.CompressedSize)
	}

	return info, nil
}

// GetAllRowGroupsInfo returns info for all row groups
func (pr *ParquetReader) GetAllRowGroupsInfo() []RowGroupInfo {
	if pr == nil || pr.metadata == nil {
		return []RowGroupInfo{}
	}
	infos := make([]RowGroupInfo, len(pr.metadata.RowGroups))
	for i := range pr.metadata.RowGroups {
		info, _ := pr.GetRowGroupInfo(i)
		infos[i] = info
	}
	return infos
}

// RenderSchema renders the file schema as "json", "go" or "csv" text
func (pr *ParquetReader) RenderSchema(format string) (string, error) {
	root, err := pschema.NewSchemaTree(pr.Reader, pschema.SchemaOption{FailOnInt96: false})
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	switch format {
	case "json":
		return root.JSONSchema(), nil
	case "go":
		return root.GoStruct(false)
	case "csv":
		return root.CSVSchema()
	}
	return "", fmt.Errorf("unknown schema format %q", format)
}

// Preview extracts the schema and samples the first n rows
func (pr *ParquetReader) Preview(n int, logger *zap.Logger) (_ *PreviewTable, err error) {
	footer := pr.Footer()
	schema, err := ExtractSchema(footer)
	if err != nil {
		return nil, err
	}

	src := NewRowGroupReader(pr, schema)
	defer func() {
		err = errors.Join(err, src.Close())
	}()
	return buildPreview(src, schema, footer, n, logger)
}

// RowGroupReader decodes row groups of an open file into records of a schema.
// It keeps one column reader and only moves it forward; reading an earlier
// row group starts a fresh one.
type RowGroupReader struct {
	pr      *ParquetReader
	schema  *Schema
	column  *reader.ParquetReader
	nextRow int64
}

// NewRowGroupReader binds a schema extracted from pr's footer to pr
func NewRowGroupReader(pr *ParquetReader, schema *Schema) *RowGroupReader {
	return &RowGroupReader{pr: pr, schema: schema}
}

func (r *RowGroupReader) NumRowGroups() int {
	return len(r.pr.metadata.RowGroups)
}

func (r *RowGroupReader) RowGroupNumRows(index int) int64 {
	if index < 0 || index >= len(r.pr.metadata.RowGroups) {
		return 0
	}
	return r.pr.metadata.RowGroups[index].NumRows
}

// DecodeRowGroup reads the first limit rows of a row group, every leaf column
// in lockstep, and assembles them into records
func (r *RowGroupReader) DecodeRowGroup(index int, limit int64) (RowWindow, error) {
	rowGroups := r.pr.metadata.RowGroups
	if index < 0 || index >= len(rowGroups) {
		return nil, fmt.Errorf("row group index %d out of range [0, %d): %w",
			index, len(rowGroups), ErrInvalidRowGroupIndex)
	}
	if limit <= 0 {
		return RowWindow{}, nil
	}
	limit = min(limit, rowGroups[index].NumRows)
	if got := len(rowGroups[index].Columns); got != len(r.schema.Leaves) {
		return nil, fmt.Errorf("row group has %d column chunks, schema has %d leaf columns", got, len(r.schema.Leaves))
	}

	var start int64
	for _, rg := range rowGroups[:index] {
		start += rg.NumRows
	}
	if err := r.seek(start); err != nil {
		return nil, err
	}

	leaves := make([]LeafData, len(r.schema.Leaves))
	for i := range r.schema.Leaves {
		values, rls, dls, err := r.column.ReadColumnByIndex(int64(i), limit)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", r.schema.Leaves[i].PathString(), err)
		}
		leaves[i] = LeafData{Values: values, RepLevels: rls, DefLevels: dls}
	}
	r.nextRow = start + limit

	return AssembleRows(r.schema, leaves, int(limit))
}

// seek positions the column reader at a file-wide row offset
func (r *RowGroupReader) seek(row int64) error {
	if r.column != nil && r.nextRow > row {
		r.stop()
	}
	if r.column == nil {
		column, err := reader.NewParquetColumnReader(r.pr.Reader.PFile, 1)
		if err != nil {
			return fmt.Errorf("failed to create column reader: %w", err)
		}
		r.column = column
		r.nextRow = 0
	}
	if row > r.nextRow {
		if err := r.column.SkipRows(row - r.nextRow); err != nil {
			return fmt.Errorf("failed to skip to row %d: %w", row, err)
		}
		r.nextRow = row
	}
	return nil
}

func (r *RowGroupReader) stop() {
	if r.column != nil {
		_ = r.column.ReadStopWithError()
		r.column = nil
	}
}

// Close releases the column reader; the file handle stays with the ParquetReader
func (r *RowGroupReader) Close() error {
	if r.column == nil {
		return nil
	}
	err := r.column.ReadStopWithError()
	r.column = nil
	return err
}

func rowGroupCompressedSize(rg *parquet.RowGroup) int64 {
	if rg.IsSetTotalCompressedSize() {
		return rg.GetTotalCompressedSize()
	}
	var total int64
	for _, col := range rg.Columns {
		if col.MetaData != nil {
			total += col.MetaData.TotalCompressedSize
		}
	}
	return total
}

// countLeafColumns counts only leaf columns (columns with Type field) in the schema
func countLeafColumns(schema []*parquet.SchemaElement) int {
	count := 0
	for _, elem := range schema {
		if elem != nil && elem.IsSetType() {
			count++
		}
	}
	return count
}

func countTopLevelColumns(schema []*parquet.SchemaElement) int {
	if len(schema) == 0 || schema[0] == nil || schema[0].NumChildren == nil {
		return 0
	}
	return int(*schema[0].NumChildren)
}

// formatColumnName creates a display name from path in schema
func formatColumnName(pathInSchema []string) string {
	return strings.Join(pathInSchema, ".")
}
