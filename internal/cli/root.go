// Package cli wires the cyoa command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/cyoa/internal/config"
	"github.com/gyaneshwarpardhi/cyoa/internal/pagefile"
	"github.com/gyaneshwarpardhi/cyoa/internal/render"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// app carries state shared by every subcommand.
type app struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	level   slog.LevelVar
	log     *slog.Logger
	formats *render.Registry

	logLevel  string
	logFormat string
	workers   int
}

// NewRootCommand builds the cyoa command. Output goes to out, logs and
// errors to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, formats: render.Default()}

	root := &cobra.Command{
		Use:   "cyoa",
		Short: "Read, validate and analyse choose-your-own-adventure stories",
		Long: `cyoa loads a story from a directory of page1.txt, page2.txt, ... files
or from a single YAML bundle, checks its structure and lets you read it,
measure page depths, list every winning route or serve it over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")
	pf.IntVar(&a.workers, "workers", 4, "goroutines used to parse page files")

	root.AddCommand(
		a.pageCommand(),
		a.readCommand(),
		a.depthCommand(),
		a.routesCommand(),
		a.validateCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) setupLogging() error {
	lvl, err := config.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.level.Set(lvl)
	log, err := newLogger(a.errOut, &a.level, a.logFormat)
	if err != nil {
		return err
	}
	a.log = log
	slog.SetDefault(log)
	return nil
}

func newLogger(w io.Writer, level slog.Leveler, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// loadGraph opens, parses and validates the story at p.
func (a *app) loadGraph(ctx context.Context, p string) (*story.Graph, error) {
	src, err := pagefile.Open(p, a.workers)
	if err != nil {
		return nil, err
	}
	pages, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := story.Build(pages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	a.log.Debug("story loaded", "source", p, "pages", g.PageCount())
	return g, nil
}

func (a *app) formatter(cmd *cobra.Command) (render.Formatter, error) {
	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	return a.formats.Get(name)
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format: json, text or yaml")
}
