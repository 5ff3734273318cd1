// Command apidocfm injects, strips and checks the frontmatter of generated
// API reference markdown.
package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/apidocfm/cmd/apidocfm/commands"
	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	os.Exit(run(os.Args[1:], commands.NewGlobal()))
}

// run parses args, executes the selected command and returns the exit code.
func run(args []string, g *commands.Global) int {
	var cli commands.CLI
	parser, err := kong.New(&cli,
		kong.Name("apidocfm"),
		kong.Description("Batch frontmatter injector and stripper for API reference docs."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Writers(g.Stdout, g.Stderr),
	)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, slog.Default()).WithOutput(g.Stderr).
			Report(errors.WrapError(err, errors.CategoryInternal, "build command line").Build())
	}

	kctx, err := parser.Parse(args)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(g.Stderr)
	if err != nil {
		if !errors.IsClassified(err) {
			err = errors.ValidationError(err.Error()).WithCause(err).Build()
		}
		return adapter.Report(err)
	}

	return adapter.Report(kctx.Run(g, &cli))
}
