package config

import "time"

// Config is the top-level YAML structure.
type Config struct {
	Version string     `yaml:"version"`
	Story   StoryConf  `yaml:"story"`
	Server  ServerConf `yaml:"server"`
	Log     LogConf    `yaml:"log"`
	Loader  LoaderConf `yaml:"loader"`
}

// StoryConf locates the story: a directory of pageN.txt files or a YAML bundle.
type StoryConf struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"` // reload the story when its files change
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	IdleTimeoutMs  int    `yaml:"idle_timeout_ms"`
}

func (s ServerConf) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutMs) * time.Millisecond
}

func (s ServerConf) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutMs) * time.Millisecond
}

func (s ServerConf) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMs) * time.Millisecond
}

// LogConf selects the slog handler.
type LogConf struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// LoaderConf tunes page file parsing.
type LoaderConf struct {
	Workers int `yaml:"workers"`
}
