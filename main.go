package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/hangxie/parquet-preview/cmd"
)

var cli struct {
	Preview cmd.PreviewCmd `cmd:"" default:"withargs" help:"Preview the first rows of a Parquet file."`
	Serve   cmd.ServeCmd   `cmd:"" help:"Serve file info, schema and previews over HTTP."`
	Remote  cmd.RemoteCmd  `cmd:"" help:"Preview a file through a running serve command."`
}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("parquet-preview"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Description("Show the first rows of a Parquet file, run with --help on any command for its flags."),
	}
}

func main() {
	parser := kong.Must(&cli, parserOptions()...)
	kongplete.Complete(parser, kongplete.WithPredictor("file", complete.PredictFiles("*")))

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run())
}
