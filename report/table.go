package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/hangxie/parquet-preview/model"
)

// TableFormatter outputs rows as a bordered grid
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the header and rows; numeric columns are right aligned
func (f *TableFormatter) Format(table *model.PreviewTable) error {
	if table.NumRows() == 0 {
		_, err := fmt.Fprintln(f.writer, NoRowsText)
		return err
	}

	alignment := make([]int, len(table.Schema))
	for i, col := range table.Schema {
		alignment[i] = tablewriter.ALIGN_LEFT
		if col.Type.Kind.IsNumeric() {
			alignment[i] = tablewriter.ALIGN_RIGHT
		}
	}

	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(table.Columns())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetColumnAlignment(alignment)
	tw.AppendBulk(table.FormattedRows())
	tw.Render()
	return nil
}
