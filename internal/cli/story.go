package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/cyoa/internal/pagefile"
	"github.com/gyaneshwarpardhi/cyoa/internal/render"
	"github.com/gyaneshwarpardhi/cyoa/internal/session"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

func (a *app) pageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page <file>",
		Short: "Parse one page file and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter(cmd)
			if err != nil {
				return err
			}
			p, err := pagefile.ParseFile(args[0])
			if err != nil {
				return err
			}
			return f.Page(a.out, p)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func (a *app) readCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <story>",
		Short: "Read a story interactively, one choice per line on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := session.New(g)
			err = s.Run(cmd.Context(), a.in, a.out)
			if errors.Is(err, session.ErrInputClosed) {
				a.log.Info("input closed", "page", s.Current().Ordinal())
				return nil
			}
			return err
		},
	}
}

func (a *app) depthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depth <story>",
		Short: "Print the shortest number of choices needed to reach each page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter(cmd)
			if err != nil {
				return err
			}
			g, err := a.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return f.Depths(a.out, g, story.ComputeDepths(g))
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func (a *app) routesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes <story>",
		Short: "List every cycle-free route from page 1 to a WIN page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter(cmd)
			if err != nil {
				return err
			}
			g, err := a.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			routes, err := story.EnumerateWinRoutes(g)
			var ue *story.UnwinnableStoryError
			if errors.As(err, &ue) {
				_, err = fmt.Fprintln(a.out, render.UnwinnableMessage)
				return err
			}
			if err != nil {
				return err
			}
			a.log.Debug("routes enumerated", "count", len(routes))
			return f.Routes(a.out, routes)
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <story>",
		Short: "Check a story's structure and report page counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			wins, losses := g.OutcomeCounts()
			winnable := "no"
			if story.HasWinningOutcome(g) {
				winnable = "yes"
			}
			_, err = fmt.Fprintf(a.out, "%s: ok, %d pages (%d win, %d lose), winnable: %s\n",
				args[0], g.PageCount(), wins, losses, winnable)
			return err
		},
	}
}
