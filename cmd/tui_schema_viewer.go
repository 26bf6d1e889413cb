package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// schemaFetcher returns the schema rendered as "json", "go" or "csv"
type schemaFetcher func(format string) (string, error)

var schemaFormats = []string{"json", "go", "csv"}

// schemaViewer shows the file schema in the renderings parquet-tools produces
type schemaViewer struct {
	pages         *tview.Pages
	fetch         schemaFetcher
	currentFormat int
	isPretty      bool
	textView      *tview.TextView
	titleBar      *tview.TextView
	statusBar     *tview.TextView
}

func newSchemaViewer(pages *tview.Pages, fetch schemaFetcher) *schemaViewer {
	return &schemaViewer{
		pages:    pages,
		fetch:    fetch,
		isPretty: true,
		textView: tview.NewTextView().
			SetDynamicColors(false).
			SetScrollable(true).
			SetWordWrap(false),
		titleBar: tview.NewTextView().
			SetDynamicColors(true).
			SetTextAlign(tview.AlignCenter),
		statusBar: tview.NewTextView().
			SetDynamicColors(true).
			SetTextAlign(tview.AlignCenter),
	}
}

func (sv *schemaViewer) show() {
	sv.textView.SetBorder(true)
	sv.updateDisplay()

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(sv.titleBar, 1, 0, false).
		AddItem(sv.textView, 0, 1, true).
		AddItem(sv.statusBar, 1, 0, false)

	flex.SetBorder(true)
	flex.SetInputCapture(sv.handleInput)

	sv.pages.AddPage("schema", flex, true, true)
}

func (sv *schemaViewer) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		sv.pages.RemovePage("schema")
		return nil
	}
	if event.Key() == tcell.KeyRune {
		switch event.Rune() {
		case 'g', 'G':
			sv.switchToFormat("go")
			return nil
		case 'j', 'J':
			sv.switchToFormat("json")
			return nil
		case 'c', 'C':
			sv.switchToFormat("csv")
			return nil
		case 'p', 'P':
			sv.togglePretty()
			return nil
		case 'y', 'Y':
			sv.copyToClipboard()
			return nil
		}
	}
	return event
}

func (sv *schemaViewer) format() string {
	return schemaFormats[sv.currentFormat]
}

func (sv *schemaViewer) switchToFormat(format string) {
	for i, f := range schemaFormats {
		if f == format {
			sv.currentFormat = i
			sv.statusBar.SetText("")
			sv.updateDisplay()
			return
		}
	}
}

func (sv *schemaViewer) togglePretty() {
	if sv.format() == "json" {
		sv.isPretty = !sv.isPretty
		sv.statusBar.SetText("")
		sv.updateDisplay()
	}
}

func (sv *schemaViewer) copyToClipboard() {
	if err := clipboard.WriteAll(sv.textView.GetText(false)); err != nil {
		sv.statusBar.SetText(fmt.Sprintf("[red]Failed to copy: %v[-]", err))
		return
	}
	sv.statusBar.SetText(fmt.Sprintf("[green]Copied %s schema to clipboard![-]", strings.ToUpper(sv.format())))
}

func (sv *schemaViewer) updateDisplay() {
	sv.updateTitle()

	text, err := sv.fetch(sv.format())
	if err != nil {
		sv.textView.SetText(fmt.Sprintf("Error fetching schema: %v", err))
		return
	}
	if sv.format() == "json" && sv.isPretty {
		text = formatJSON(text)
	}
	sv.textView.SetText(text)
}

// formatJSON indents a JSON document, returning it unchanged if it does not parse
func formatJSON(jsonStr string) string {
	var jsonObj interface{}
	if err := json.Unmarshal([]byte(jsonStr), &jsonObj); err != nil {
		return jsonStr
	}

	prettyBytes, err := json.MarshalIndent(jsonObj, "", "  ")
	if err != nil {
		return jsonStr
	}
	return string(prettyBytes)
}

func (sv *schemaViewer) updateTitle() {
	keys := "ESC=close, g=go, j=json, c=csv, y=copy"
	switch sv.format() {
	case "json":
		mode := "Pretty"
		if !sv.isPretty {
			mode = "Compact"
		}
		sv.titleBar.SetText(fmt.Sprintf("[yellow]Schema [JSON - %s] | %s, p=pretty/compact[-]", mode, keys))
	case "go":
		sv.titleBar.SetText(fmt.Sprintf("[yellow]Schema [Go Struct] | %s[-]", keys))
	default:
		sv.titleBar.SetText(fmt.Sprintf("[yellow]Schema [%s] | %s[-]", strings.ToUpper(sv.format()), keys))
	}
}
