package commands

import (
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/apidocfm/internal/config"
	"git.home.luguber.info/inful/apidocfm/internal/logfields"
	"git.home.luguber.info/inful/apidocfm/internal/metrics"
	"git.home.luguber.info/inful/apidocfm/internal/pipeline"
	"git.home.luguber.info/inful/apidocfm/internal/report"
	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Global is shared state bound into every command's Run.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal writes to the process's standard streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"apidocfm.yaml"`
	Root        string           `help:"API reference root (overrides config)" placeholder:"DIR"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Format      string           `short:"f" help:"Report format (text or json)" enum:"text,json" default:"text"`
	NoColor     bool             `name:"no-color" help:"Disable colored output"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in text format after each run" placeholder:"PATH"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Inject InjectCmd `cmd:"" help:"Add frontmatter to API reference documents"`
	Strip  StripCmd  `cmd:"" help:"Remove frontmatter from API reference documents"`
	Check  CheckCmd  `cmd:"" help:"Validate frontmatter without changing files"`
	Watch  WatchCmd  `cmd:"" help:"Re-run injection whenever documents change"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`

	cfg *config.Config
}

// AfterApply runs after flag parsing: loads configuration and sets up logging once.
func (c *CLI) AfterApply(kctx *kong.Context) error {
	// Logging is configured before loading so config loader messages honor -v.
	c.setupLogging(config.Default().Logging)

	// init must work even when the existing file is broken.
	if kctx.Command() == "init" {
		return nil
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Root != "" {
		cfg.Root = c.Root
	}
	if c.MetricsFile != "" {
		cfg.Metrics.Textfile = c.MetricsFile
	}
	c.cfg = cfg
	c.setupLogging(cfg.Logging)
	return nil
}

func (c *CLI) setupLogging(lc config.LoggingConfig) {
	level := lc.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if lc.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// Settings returns the effective configuration.
func (c *CLI) Settings() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// useColor honors --no-color, NO_COLOR and dumb terminals.
func (c *CLI) useColor() bool {
	if c.NoColor || c.Format == "json" {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// batch couples a runner with its optional metrics export.
type batch struct {
	runner   *pipeline.Runner
	recorder *metrics.PrometheusRecorder
	textfile string
}

func (c *CLI) newBatch(opts pipeline.Options) (*batch, error) {
	cfg := c.Settings()
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	opts.Root = cfg.Root
	opts.Product = cfg.Product

	b := &batch{runner: pipeline.NewRunner(table, opts), textfile: cfg.Metrics.Textfile}
	if b.textfile != "" {
		b.recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		b.runner.WithRecorder(b.recorder)
	}
	return b, nil
}

// finish prints the report, exports metrics and converts error outcomes
// into the command's error.
func (c *CLI) finish(g *Global, b *batch, rep *report.Report) error {
	if err := report.NewFormatter(c.Format, c.useColor()).Format(g.Stdout, rep); err != nil {
		slog.Error("Failed to write report", logfields.Error(err))
	}
	if b.recorder != nil {
		if err := b.recorder.WriteTextfile(b.textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", slog.String("path", b.textfile), logfields.Error(err))
		}
	}
	return pipeline.RunError(rep)
}
