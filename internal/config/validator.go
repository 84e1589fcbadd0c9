package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks the config for required fields and legal values. All
// problems are reported together.
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Story.Path == "" {
		errs = append(errs, "story.path is required")
	}
	if cfg.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	timeouts := []struct {
		key string
		ms  int
	}{
		{"server.read_timeout_ms", cfg.Server.ReadTimeoutMs},
		{"server.write_timeout_ms", cfg.Server.WriteTimeoutMs},
		{"server.idle_timeout_ms", cfg.Server.IdleTimeoutMs},
	}
	for _, t := range timeouts {
		if t.ms < 0 {
			errs = append(errs, fmt.Sprintf("%s must not be negative, got %d", t.key, t.ms))
		}
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", cfg.Log.Format))
	}
	if cfg.Loader.Workers < 1 {
		errs = append(errs, fmt.Sprintf("loader.workers must be at least 1, got %d", cfg.Loader.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s)
}
