package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/cyoa/internal/api"
	"github.com/gyaneshwarpardhi/cyoa/internal/config"
	"github.com/gyaneshwarpardhi/cyoa/internal/engine"
	"github.com/gyaneshwarpardhi/cyoa/internal/pagefile"
)

const shutdownTimeout = 15 * time.Second

func (a *app) serveCommand() *cobra.Command {
	var (
		cfgPath string
		addr    string
		watch   bool
	)
	cmd := &cobra.Command{
		Use:   "serve [story]",
		Short: "Serve a story's structure over HTTP",
		Long: `Serve loads the story once, then answers read-only queries about it.
The story path comes from the argument or from story.path in the config
file. With --watch (or story.watch) the story is reloaded when its files
change; a story that fails validation leaves the previous one in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, loader, err := a.serveConfig(cmd, cfgPath, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				cfg.Story.Watch = watch
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if loader != nil {
				a.followConfig(cmd, loader)
				stop, err := loader.Watch()
				if err != nil {
					a.log.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
				} else {
					defer stop()
				}
			}
			return a.serve(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "path to a cyoa YAML config file")
	f.StringVar(&addr, "addr", ":8080", "HTTP listen address")
	f.BoolVar(&watch, "watch", false, "reload the story when its files change")
	return cmd
}

// serveConfig resolves the effective config from the file, if any, and the
// positional story argument.
func (a *app) serveConfig(cmd *cobra.Command, cfgPath string, args []string) (*config.Config, *config.Loader, error) {
	var (
		cfg    *config.Config
		loader *config.Loader
	)
	if cfgPath != "" {
		l, err := config.NewLoader(cfgPath)
		if err != nil {
			return nil, nil, err
		}
		loader, cfg = l, l.Config()
		// Flags given explicitly win over the file.
		if !cmd.Flags().Changed("log-level") {
			a.logLevel = cfg.Log.Level
		}
		if !cmd.Flags().Changed("log-format") {
			a.logFormat = cfg.Log.Format
		}
		if !cmd.Flags().Changed("workers") {
			a.workers = cfg.Loader.Workers
		}
		if err := a.setupLogging(); err != nil {
			return nil, nil, err
		}
	} else {
		cfg = config.Default()
		cfg.Loader.Workers = a.workers
		cfg.Log.Level, cfg.Log.Format = a.logLevel, a.logFormat
	}
	// Copy so flag overrides do not leak into the loader's value.
	c := *cfg
	if len(args) == 1 {
		c.Story.Path = args[0]
	}
	c.Loader.Workers = a.workers
	return &c, loader, nil
}

// followConfig applies log level changes from a reloaded config file.
func (a *app) followConfig(cmd *cobra.Command, l *config.Loader) {
	if cmd.Flags().Changed("log-level") {
		return
	}
	l.OnChange(func(c *config.Config) {
		lvl, err := config.ParseLevel(c.Log.Level)
		if err != nil {
			return
		}
		a.level.Set(lvl)
		a.log.Info("log level changed", "level", lvl.String())
	})
}

func (a *app) serve(ctx context.Context, cfg *config.Config) error {
	src, err := pagefile.Open(cfg.Story.Path, cfg.Loader.Workers)
	if err != nil {
		return err
	}
	eng := engine.New(src, engine.Options{Logger: a.log})
	if _, err := eng.Load(ctx); err != nil {
		return err
	}
	if cfg.Story.Watch {
		if err := eng.Watch(ctx); err != nil {
			a.log.Warn("story watcher unavailable (hot-reload disabled)", "err", err)
		}
	}

	srv := newHTTPServer(cfg.Server, api.New(eng, a.log))
	errC := make(chan error, 1)
	go func() {
		a.log.Info("server starting", "addr", cfg.Server.Addr, "story", cfg.Story.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- fmt.Errorf("serve %s: %w", cfg.Server.Addr, err)
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}
	a.log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newHTTPServer(sc config.ServerConf, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         sc.Addr,
		Handler:      h,
		ReadTimeout:  sc.ReadTimeout(),
		WriteTimeout: sc.WriteTimeout(),
		IdleTimeout:  sc.IdleTimeout(),
	}
}
