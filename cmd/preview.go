package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	pio "github.com/hangxie/parquet-tools/io"
	"go.uber.org/zap"

	"github.com/hangxie/parquet-preview/model"
	"github.com/hangxie/parquet-preview/report"
)

// PreviewCmd is a kong command that shows the first rows of a Parquet file
type PreviewCmd struct {
	URI      string        `arg:"" predictor:"file" help:"URI of Parquet file."`
	Rows     int           `short:"n" default:"20" env:"PARQUET_PREVIEW_ROWS" help:"Number of rows to preview."`
	Headless bool          `help:"Print a text report to stdout instead of the interactive viewer."`
	Format   report.Format `short:"f" default:"table" enum:"table,tsv,csv,jsonl" env:"PARQUET_PREVIEW_FORMAT" help:"Report format in headless mode (${enum})."`
	LogOption
	pio.ReadOption
}

// Run previews the file in the interactive viewer or as a text report
func (p PreviewCmd) Run() error {
	return p.run(os.Stdout)
}

func (p PreviewCmd) run(stdout io.Writer) error {
	logger, err := p.newLogger(!p.Headless)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if p.Headless {
		table, err := model.LoadPreview(p.URI, p.ReadOption, p.Rows, logger)
		if err != nil {
			return fmt.Errorf("failed to preview %s: %w", p.URI, err)
		}
		return report.Write(stdout, table, p.Format)
	}

	return NewTableView(p.URI).Run(func() (*model.PreviewTable, schemaFetcher, error) {
		return loadLocalPreview(p.URI, p.ReadOption, p.Rows, logger)
	})
}

// loadLocalPreview reads the preview and renders every schema format while the
// file is open, so the viewer never touches the file again
func loadLocalPreview(uri string, opts pio.ReadOption, n int, logger *zap.Logger) (_ *model.PreviewTable, _ schemaFetcher, err error) {
	pr, err := model.OpenParquetReader(uri, opts)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		err = errors.Join(err, pr.Close())
	}()

	table, err := pr.Preview(n, logger)
	if err != nil {
		return nil, nil, err
	}

	return table, renderSchemas(pr.RenderSchema, logger), nil
}

// renderSchemas renders every schema format once and serves them from memory
func renderSchemas(render func(format string) (string, error), logger *zap.Logger) schemaFetcher {
	type rendering struct {
		text string
		err  error
	}
	renderings := make(map[string]rendering, len(schemaFormats))
	for _, format := range schemaFormats {
		text, err := render(format)
		if err != nil {
			logger.Debug("schema rendering unavailable", zap.String("format", format), zap.Error(err))
		}
		renderings[format] = rendering{text: text, err: err}
	}

	return func(format string) (string, error) {
		r, ok := renderings[format]
		if !ok {
			return "", fmt.Errorf("unknown schema format %q", format)
		}
		return r.text, r.err
	}
}
