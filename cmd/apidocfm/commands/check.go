package commands

import (
	"context"

	"git.home.luguber.info/inful/apidocfm/internal/pipeline"
)

// CheckCmd implements the 'check' command. It never writes.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	b, err := root.newBatch(pipeline.Options{})
	if err != nil {
		return err
	}
	return root.finish(g, b, b.runner.Check(context.Background()))
}
