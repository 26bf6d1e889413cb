package service

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	pio "github.com/hangxie/parquet-tools/io"
	"go.uber.org/zap"

	"github.com/hangxie/parquet-preview/model"
)

// MaxPreviewRows caps the rows query parameter
const MaxPreviewRows = 10000

// ParquetService serves metadata and previews of one Parquet file over HTTP
type ParquetService struct {
	reader   *model.ParquetReader
	schema   []model.ColumnDescriptor
	uri      string
	readOpts pio.ReadOption
	logger   *zap.Logger
}

// NewParquetService opens uri once to validate it and keep its metadata around.
// Previews reopen the file on every request.
func NewParquetService(uri string, readOpts pio.ReadOption, logger *zap.Logger) (*ParquetService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pr, err := model.OpenParquetReader(uri, readOpts)
	if err != nil {
		return nil, err
	}

	schema, err := model.ExtractSchema(pr.Footer())
	if err != nil {
		_ = pr.Close()
		return nil, err
	}

	return &ParquetService{
		reader:   pr,
		schema:   schema.Columns,
		uri:      uri,
		readOpts: readOpts,
		logger:   logger,
	}, nil
}

// Close closes the underlying parquet file
func (s *ParquetService) Close() error {
	if s.reader == nil {
		return nil
	}
	return s.reader.Close()
}

// CreateRouter creates a new router with all routes configured
// If quiet is true, disables logging middleware (useful for embedded servers)
func CreateRouter(s *ParquetService, quiet bool) *mux.Router {
	r := mux.NewRouter()
	s.SetupRoutes(r)
	s.SetupWebUIRoutes(r)
	r.Use(CORSMiddleware)
	if !quiet {
		r.Use(LoggingMiddleware(s.logger))
	}
	return r
}

// SetupRoutes configures all HTTP routes
func (s *ParquetService) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/info", s.handleFileInfo).Methods("GET")
	r.HandleFunc("/preview", s.handlePreview).Methods("GET")

	r.HandleFunc("/schema", s.handleSchema).Methods("GET")
	r.HandleFunc("/schema/go", s.handleSchemaGo).Methods("GET")
	r.HandleFunc("/schema/json", s.handleSchemaJSON).Methods("GET")
	r.HandleFunc("/schema/csv", s.handleSchemaCSV).Methods("GET")

	r.HandleFunc("/rowgroups", s.handleRowGroups).Methods("GET")
	r.HandleFunc("/rowgroups/{rgIndex}", s.handleRowGroupInfo).Methods("GET")
}

// handleFileInfo returns file-level metadata
func (s *ParquetService) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.reader.GetFileInfo())
}

// handlePreview returns the first rows of the file, formatted for display
func (s *ParquetService) handlePreview(w http.ResponseWriter, r *http.Request) {
	n, err := parseRowCount(r.URL.Query().Get("rows"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := model.LoadPreview(s.uri, s.readOpts, n, s.logger)
	if err != nil {
		s.logger.Error("preview failed", zap.String("uri", s.uri), zap.Error(err))
		WriteError(w, previewErrorStatus(err), err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, table.Payload())
}

// handleSchema returns the column descriptors the preview uses
func (s *ParquetService) handleSchema(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.schema)
}

// handleSchemaGo returns schema in Go struct format
func (s *ParquetService) handleSchemaGo(w http.ResponseWriter, r *http.Request) {
	text, err := s.reader.RenderSchema("go")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to format Go schema: %v", err))
		return
	}

	// fall back to the unformatted text
	if formatted, err := FormatGoCode(text); err == nil {
		text = formatted
	}
	writeText(w, "text/plain; charset=utf-8", text)
}

// handleSchemaJSON returns schema in JSON format
func (s *ParquetService) handleSchemaJSON(w http.ResponseWriter, r *http.Request) {
	text, err := s.reader.RenderSchema("json")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate schema: %v", err))
		return
	}
	writeText(w, "application/json; charset=utf-8", text)
}

// handleSchemaCSV returns schema in CSV format
func (s *ParquetService) handleSchemaCSV(w http.ResponseWriter, r *http.Request) {
	text, err := s.reader.RenderSchema("csv")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to format CSV schema: %v", err))
		return
	}
	writeText(w, "text/csv; charset=utf-8", text)
}

// handleRowGroups returns all row groups
func (s *ParquetService) handleRowGroups(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.reader.GetAllRowGroupsInfo())
}

// handleRowGroupInfo returns info for a specific row group
func (s *ParquetService) handleRowGroupInfo(w http.ResponseWriter, r *http.Request) {
	rgIndex, err := strconv.Atoi(mux.Vars(r)["rgIndex"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid row group index")
		return
	}

	info, err := s.reader.GetRowGroupInfo(rgIndex)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, info)
}

// parseRowCount reads the rows query parameter; empty means the default
func parseRowCount(value string) (int, error) {
	if value == "" {
		return model.DefaultPreviewRows, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid rows parameter %q", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", model.ErrNegativeRowCount, n)
	}
	if n > MaxPreviewRows {
		return 0, fmt.Errorf("rows parameter %d exceeds %d", n, MaxPreviewRows)
	}
	return n, nil
}

func previewErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrNegativeRowCount):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSchema):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeText(w http.ResponseWriter, contentType, text string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// StartServer starts the HTTP server with verbose output
func StartServer(service *ParquetService, addr string) error {
	r := CreateRouter(service, false)

	fmt.Printf("Starting Parquet Preview API server on %s\n", addr)
	fmt.Printf("Available endpoints:\n")
	fmt.Printf("  GET /info                 - File metadata\n")
	fmt.Printf("  GET /preview?rows=N       - First N rows (default %d)\n", model.DefaultPreviewRows)
	fmt.Printf("  GET /schema               - Column descriptors\n")
	fmt.Printf("  GET /schema/go            - Schema (Go format)\n")
	fmt.Printf("  GET /schema/json          - Schema (JSON format)\n")
	fmt.Printf("  GET /schema/csv           - Schema (CSV format)\n")
	fmt.Printf("  GET /rowgroups            - All row groups\n")
	fmt.Printf("  GET /rowgroups/{rgIndex}  - Row group info\n")
	fmt.Printf("  GET /?rows=N              - First N rows as an HTML page\n")
	fmt.Println()

	return http.ListenAndServe(addr, r)
}
