package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sre-norns/waymark/pkg/bark"
	"github.com/sre-norns/waymark/pkg/grace"
	"github.com/sre-norns/waymark/pkg/verify"
)

type CLI struct {
	Version kong.VersionFlag `help:"Print version and exit"`

	Serve  ServeCmd  `cmd:"" help:"Serve API root document"`
	Verify VerifyCmd `cmd:"" help:"Verify that servers expose the reference root document"`
}

// vars are interpolated into CLI flag defaults.
func vars() kong.Vars {
	return kong.Vars{
		"version":   bark.NewVersionResponse().Version,
		"reference": verify.ReferenceFileName,
	}
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("waymark"),
		kong.Description("API root document server and discovery verifier"),
		kong.UsageOnError(),
		vars(),
	}, options...)...)
}

// run executes the selected command. Any failure of a command, including cancellation, is returned.
func run(ctx context.Context, kctx *kong.Context) error {
	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run()
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	grace.FatalOnError(err)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx := grace.NewSignalHandlingContext(context.Background())
	grace.FatalOnError(run(ctx, kctx))
}
