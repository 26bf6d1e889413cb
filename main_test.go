package main

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

func Test_parserOptions(t *testing.T) {
	var out bytes.Buffer
	options := append(parserOptions(), kong.Writers(&out, &out), kong.Exit(func(int) {}))
	parser, err := kong.New(&cli, options...)
	require.NoError(t, err)
	require.Equal(t, "parquet-preview", parser.Model.Name)
	require.NotContains(t, parser.Model.Help, "http")

	t.Run("preview is the default command", func(t *testing.T) {
		ctx, err := parser.Parse([]string{"shoes.parquet"})
		require.NoError(t, err)
		require.Equal(t, "preview <uri>", ctx.Command())
		require.Equal(t, "shoes.parquet", cli.Preview.URI)
	})

	t.Run("remote", func(t *testing.T) {
		ctx, err := parser.Parse([]string{"remote", "http://localhost:8080", "-n", "5"})
		require.NoError(t, err)
		require.Equal(t, "remote <url>", ctx.Command())
		require.Equal(t, 5, cli.Remote.Rows)
	})
}
