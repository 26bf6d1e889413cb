package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func Test_LogOption_newLogger(t *testing.T) {
	t.Run("interactive stderr is discarded", func(t *testing.T) {
		logger, err := LogOption{LogLevel: "debug", LogFile: "stderr"}.newLogger(true)
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("level", func(t *testing.T) {
		logger, err := LogOption{LogLevel: "warn", LogFormat: "console"}.newLogger(false)
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "preview.log")
		logger, err := LogOption{LogLevel: "info", LogFormat: "json", LogFile: path}.newLogger(true)
		require.NoError(t, err)
		logger.Info("loading parquet file", zap.String("uri", "a.parquet"))
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), `"msg":"loading parquet file"`)
		require.Contains(t, string(data), `"uri":"a.parquet"`)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := LogOption{LogLevel: "chatty"}.newLogger(false)
		require.Error(t, err)
	})
}
