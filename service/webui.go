package service

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hangxie/parquet-preview/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type pageColumn struct {
	Name string
	Type string
}

type pageCell struct {
	Text  string
	Class string
}

// previewPage is what templates/preview.html renders
type previewPage struct {
	FileName  string
	Info      model.FileInfo
	TotalSize string
	Columns   []pageColumn
	Rows      [][]pageCell
}

func newPreviewPage(fileName string, table *model.PreviewTable) previewPage {
	page := previewPage{
		FileName: fileName,
		Info:     table.Info,
		Columns:  make([]pageColumn, len(table.Schema)),
		Rows:     make([][]pageCell, table.NumRows()),
	}
	if info := table.Info; info.TotalCompressedSize > 0 && info.TotalUncompressedSize > 0 {
		page.TotalSize = fmt.Sprintf("%s → %s (%.2fx)",
			model.FormatBytes(info.TotalCompressedSize),
			model.FormatBytes(info.TotalUncompressedSize),
			info.CompressionRatio)
	}

	for i, col := range table.Schema {
		page.Columns[i] = pageColumn{Name: col.Name, Type: col.Type.String()}
	}
	for r, row := range table.FormattedRows() {
		cells := make([]pageCell, len(row))
		for c, text := range row {
			var class []string
			if table.Schema[c].Type.Kind.IsNumeric() {
				class = append(class, "num")
			}
			if table.IsNull(r, c) {
				class = append(class, "null")
			}
			cells[c] = pageCell{Text: text, Class: strings.Join(class, " ")}
		}
		page.Rows[r] = cells
	}
	return page
}

// RenderPreviewPage writes a preview as a standalone HTML page
func RenderPreviewPage(w io.Writer, fileName string, table *model.PreviewTable) error {
	return templates.ExecuteTemplate(w, "preview.html", newPreviewPage(fileName, table))
}

// SetupWebUIRoutes configures the browser-facing routes
func (s *ParquetService) SetupWebUIRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handlePreviewPage).Methods("GET")
	r.HandleFunc("/ui/preview", s.handlePreviewPage).Methods("GET")
}

// handlePreviewPage serves the first rows of the file as an HTML table
func (s *ParquetService) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	n, err := parseRowCount(r.URL.Query().Get("rows"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, err := model.LoadPreview(s.uri, s.readOpts, n, s.logger)
	if err != nil {
		s.logger.Error("preview page failed", zap.String("uri", s.uri), zap.Error(err))
		http.Error(w, err.Error(), previewErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderPreviewPage(w, filepath.Base(s.uri), table); err != nil {
		s.logger.Error("failed to render preview page", zap.Error(err))
	}
}
