package commands

import (
	"context"

	"git.home.luguber.info/inful/apidocfm/internal/pipeline"
)

// StripCmd implements the 'strip' command.
type StripCmd struct {
	DryRun    bool `name:"dry-run" help:"Report what would change without writing files"`
	Normalize bool `help:"Trim surrounding whitespace of restored documents and end them with one newline"`
}

func (s *StripCmd) Run(g *Global, root *CLI) error {
	b, err := root.newBatch(pipeline.Options{
		DryRun:    s.DryRun,
		Normalize: s.Normalize || root.Settings().Strip.Normalize,
	})
	if err != nil {
		return err
	}
	return root.finish(g, b, b.runner.Strip(context.Background()))
}
