package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hangxie/parquet-preview/model"
)

// DefaultTimeout bounds every request, previews included
const DefaultTimeout = 60 * time.Second

// ParquetClient talks to a server started with the serve command
type ParquetClient struct {
	baseURL string
	client  *http.Client
}

// NewParquetClient creates a new HTTP client
func NewParquetClient(baseURL string) *ParquetClient {
	return &ParquetClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// GetFileInfo retrieves file-level metadata
func (c *ParquetClient) GetFileInfo() (model.FileInfo, error) {
	var info model.FileInfo
	err := c.get("/info", &info)
	return info, err
}

// GetAllRowGroupsInfo retrieves all row groups
func (c *ParquetClient) GetAllRowGroupsInfo() ([]model.RowGroupInfo, error) {
	var rowGroups []model.RowGroupInfo
	err := c.get("/rowgroups", &rowGroups)
	return rowGroups, err
}

// GetRowGroupInfo retrieves info for a specific row group
func (c *ParquetClient) GetRowGroupInfo(rgIndex int) (model.RowGroupInfo, error) {
	var info model.RowGroupInfo
	err := c.get(fmt.Sprintf("/rowgroups/%d", rgIndex), &info)
	return info, err
}

// GetSchema retrieves the column descriptors
func (c *ParquetClient) GetSchema() ([]model.ColumnDescriptor, error) {
	var columns []model.ColumnDescriptor
	err := c.get("/schema", &columns)
	return columns, err
}

// GetPreview retrieves the first rows of the file as display text
func (c *ParquetClient) GetPreview(rows int) (*model.PreviewTable, error) {
	query := url.Values{"rows": []string{strconv.Itoa(rows)}}

	var payload model.PreviewPayload
	if err := c.get("/preview?"+query.Encode(), &payload); err != nil {
		return nil, err
	}
	return model.PreviewTableFromPayload(payload)
}

// GetSchemaText retrieves the schema rendered as "go", "json" or "csv"
func (c *ParquetClient) GetSchemaText(format string) (string, error) {
	switch format {
	case "go", "json", "csv":
		return c.getText("/schema/" + format)
	}
	return "", fmt.Errorf("unknown schema format %q", format)
}

// Helper method to make GET requests and decode JSON
func (c *ParquetClient) get(path string, result interface{}) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Helper method to make GET requests and return text
func (c *ParquetClient) getText(path string) (string, error) {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// responseError prefers the server's {"error": ...} message over the raw body
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
