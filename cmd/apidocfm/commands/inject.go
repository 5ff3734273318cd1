package commands

import (
	"context"

	"git.home.luguber.info/inful/apidocfm/internal/pipeline"
)

// InjectCmd implements the 'inject' command.
type InjectCmd struct {
	DryRun bool `name:"dry-run" help:"Report what would change without writing files"`
}

func (i *InjectCmd) Run(g *Global, root *CLI) error {
	b, err := root.newBatch(pipeline.Options{DryRun: i.DryRun})
	if err != nil {
		return err
	}
	return root.finish(g, b, b.runner.Inject(context.Background()))
}
