package cmd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hangxie/parquet-preview/client"
	"github.com/hangxie/parquet-preview/model"
	"github.com/hangxie/parquet-preview/report"
)

// RemoteCmd is a kong command that previews a file through a running serve command
type RemoteCmd struct {
	URL      string        `arg:"" help:"Base URL of the server, for example http://localhost:8080."`
	Rows     int           `short:"n" default:"20" env:"PARQUET_PREVIEW_ROWS" help:"Number of rows to preview."`
	Headless bool          `help:"Print a text report to stdout instead of the interactive viewer."`
	Format   report.Format `short:"f" default:"table" enum:"table,tsv,csv,jsonl" env:"PARQUET_PREVIEW_FORMAT" help:"Report format in headless mode (${enum})."`
	LogOption
}

// Run fetches the preview from the server and shows it
func (r RemoteCmd) Run() error {
	return r.run(os.Stdout)
}

func (r RemoteCmd) run(stdout io.Writer) error {
	logger, err := r.newLogger(!r.Headless)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c := client.NewParquetClient(r.URL)
	if r.Headless {
		table, err := fetchPreview(c, r.Rows, logger)
		if err != nil {
			return err
		}
		return report.Write(stdout, table, r.Format)
	}

	return NewTableView(r.URL).Run(func() (*model.PreviewTable, schemaFetcher, error) {
		table, err := fetchPreview(c, r.Rows, logger)
		if err != nil {
			return nil, nil, err
		}
		return table, c.GetSchemaText, nil
	})
}

func fetchPreview(c *client.ParquetClient, rows int, logger *zap.Logger) (*model.PreviewTable, error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: %d", model.ErrNegativeRowCount, rows)
	}
	logger.Info("fetching preview", zap.Int("rows", rows))
	table, err := c.GetPreview(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preview: %w", err)
	}
	logger.Debug("preview received", zap.Int("rows", table.NumRows()), zap.Int("columns", len(table.Schema)))
	return table, nil
}
