package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-preview/model"
)

// maxCellWidth limits how wide a single column is drawn; copying a cell
// still yields the full text
const maxCellWidth = 60

// headerRows is the number of fixed rows above the data: names, then types
const headerRows = 2

// previewLoader produces the preview and its schema renderings. It runs off
// the UI goroutine.
type previewLoader func() (*model.PreviewTable, schemaFetcher, error)

// TableView is the interactive preview: file summary, a scrollable grid of
// sampled rows and a status line
type TableView struct {
	tviewApp   *tview.Application
	pages      *tview.Pages
	mainLayout *tview.Flex
	headerView *tview.TextView
	table      *tview.Table
	statusLine *tview.TextView
	source     string
	preview    *model.PreviewTable
	schemaText schemaFetcher
}

// NewTableView creates a view for the file or server named by source
func NewTableView(source string) *TableView {
	return &TableView{
		tviewApp: tview.NewApplication(),
		pages:    tview.NewPages(),
		source:   source,
	}
}

// Run shows a loading modal, loads the preview in the background and then
// hands the screen to the grid. Cancelling the load is not an error.
func (v *TableView) Run(load previewLoader) error {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Opening file...\n%s\n\nPlease wait...\n\nPress ESC or Ctrl+C to cancel", v.source)).
		SetTextColor(tcell.ColorYellow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cancelled := false
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyCtrlC {
			cancelled = true
			cancel()
			v.tviewApp.Stop()
			return nil
		}
		return event
	})

	v.pages.AddPage("loading", modal, true, true)
	v.tviewApp.SetRoot(v.pages, true)

	type result struct {
		table  *model.PreviewTable
		schema schemaFetcher
		err    error
	}
	resultChan := make(chan result, 1)

	go func() {
		table, schema, err := load()
		select {
		case <-ctx.Done():
		case resultChan <- result{table: table, schema: schema, err: err}:
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			return
		case res := <-resultChan:
			v.tviewApp.QueueUpdateDraw(func() {
				if res.err != nil {
					v.showError(res.err)
					return
				}
				v.setPreview(res.table, res.schema)
				v.pages.RemovePage("loading")
				v.pages.AddPage("main", v.mainLayout, true, true)
				v.pages.SwitchToPage("main")
			})
		}
	}()

	err := v.tviewApp.Run()
	if cancelled {
		return nil
	}
	return err
}

func (v *TableView) showError(err error) {
	errorModal := tview.NewModal().
		SetText(fmt.Sprintf("Error opening file:\n%v\n\nPress ESC to exit", err)).
		SetTextColor(tcell.ColorRed).
		AddButtons([]string{"Exit"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			v.tviewApp.Stop()
		})
	v.pages.AddPage("error", errorModal, true, true)
	v.pages.SwitchToPage("error")
}

// setPreview builds the main layout for a loaded preview
func (v *TableView) setPreview(table *model.PreviewTable, schema schemaFetcher) {
	v.preview = table
	v.schemaText = schema
	v.showMainView()
}

func (v *TableView) showMainView() {
	v.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow)

	v.createHeaderView()
	v.createPreviewTable()
	v.createStatusLine()

	v.mainLayout.
		AddItem(v.headerView, v.getHeaderHeight(), 0, false).
		AddItem(v.table, 0, 1, true).
		AddItem(v.statusLine, 1, 0, false)

	v.mainLayout.SetInputCapture(v.handleInput)
}

func (v *TableView) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		v.tviewApp.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 's':
			v.showSchema()
			return nil
		case 'c':
			v.copySelectedCell()
			return nil
		}
	}
	return event
}

func (v *TableView) showSchema() {
	if v.schemaText == nil {
		v.statusLine.SetText(" [red]Schema is not available[-]")
		return
	}
	newSchemaViewer(v.pages, v.schemaText).show()
}

// selectedCell returns the full text of the selected data cell
func (v *TableView) selectedCell() (string, bool) {
	row, col := v.table.GetSelection()
	rows := v.preview.FormattedRows()
	r := row - headerRows
	if r < 0 || r >= len(rows) || col < 0 || col >= len(rows[r]) {
		return "", false
	}
	return rows[r][col], true
}

func (v *TableView) copySelectedCell() {
	text, ok := v.selectedCell()
	if !ok {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		v.statusLine.SetText(fmt.Sprintf(" [red]Failed to copy: %v[-]", err))
		return
	}
	v.statusLine.SetText(fmt.Sprintf(" [green]Copied %d characters to clipboard[-]", len(text)))
}

func (v *TableView) createHeaderView() {
	v.headerView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	v.headerView.SetBorder(true).
		SetTitle(" File Info ").
		SetTitleAlign(tview.AlignLeft)

	info := v.preview.Info
	var header strings.Builder

	header.WriteString(fmt.Sprintf("[yellow]File:[-] %s", filepath.Base(v.source)))

	header.WriteString("\n")
	header.WriteString(fmt.Sprintf("[yellow]Rows:[-] %d  ", info.NumRows))
	header.WriteString(fmt.Sprintf("[yellow]Columns:[-] %d  ", len(v.preview.Schema)))
	header.WriteString(fmt.Sprintf("[yellow]Row Groups:[-] %d  ", info.NumRowGroups))
	header.WriteString(fmt.Sprintf("[yellow]Showing:[-] %d", v.preview.NumRows()))

	if info.TotalCompressedSize > 0 && info.TotalUncompressedSize > 0 {
		header.WriteString(fmt.Sprintf("\n[yellow]Total Size:[-] %s → %s (%.2fx)",
			model.FormatBytes(info.TotalCompressedSize),
			model.FormatBytes(info.TotalUncompressedSize),
			info.CompressionRatio))
	}
	if info.CreatedBy != "" {
		header.WriteString(fmt.Sprintf("  [yellow]Created By:[-] %s", tview.Escape(info.CreatedBy)))
	}

	v.headerView.SetText(header.String())
}

func (v *TableView) getHeaderHeight() int {
	if v.headerView == nil {
		return 3
	}
	text := v.headerView.GetText(false)
	return strings.Count(text, "\n") + 1 + 2 // +2 for borders
}

func (v *TableView) createPreviewTable() {
	v.table = tview.NewTable().
		SetBorders(false).
		SetSeparator(tview.Borders.Vertical).
		SetSelectable(true, true).
		SetFixed(headerRows, 0)

	v.table.SetBorder(true).
		SetTitle(" Preview (↑↓←→ to navigate) ").
		SetTitleAlign(tview.AlignLeft)

	for col, desc := range v.preview.Schema {
		align := columnAlign(desc.Type)
		v.table.SetCell(0, col, tview.NewTableCell(tview.Escape(desc.Name)).
			SetTextColor(tcell.ColorYellow).
			SetAlign(align).
			SetSelectable(false).
			SetMaxWidth(maxCellWidth))
		v.table.SetCell(1, col, tview.NewTableCell(tview.Escape(desc.Type.String())).
			SetTextColor(tcell.ColorDarkCyan).
			SetAlign(align).
			SetSelectable(false).
			SetMaxWidth(maxCellWidth))
	}

	rows := v.preview.FormattedRows()
	if len(rows) == 0 {
		v.table.SetCell(headerRows, 0, tview.NewTableCell("(no rows found)").
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
		return
	}

	for r, row := range rows {
		for col, text := range row {
			color := tcell.ColorWhite
			if v.preview.IsNull(r, col) {
				color = tcell.ColorGray
			}
			v.table.SetCell(r+headerRows, col, tview.NewTableCell(tview.Escape(text)).
				SetTextColor(color).
				SetAlign(columnAlign(v.preview.Schema[col].Type)).
				SetMaxWidth(maxCellWidth))
		}
	}
	v.table.Select(headerRows, 0)
}

func (v *TableView) createStatusLine() {
	v.statusLine = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	v.statusLine.SetText(" [yellow]Keys:[-] ESC=quit, s=schema, c=copy cell, ↑↓←→=scroll")
}

func columnAlign(t model.LogicalType) int {
	if t.Kind.IsNumeric() {
		return tview.AlignRight
	}
	return tview.AlignLeft
}
