package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TopicsPath string
	EventsPath string
	ConfigPath string

	// OutputDir and OutputPrefix override the config file when non-empty.
	OutputDir    string
	OutputPrefix string

	AllTopics     bool
	TopicsByEvent bool
	Full          bool
	EventQueries  []string
	TopicQueries  []string

	DebugRank bool
	InfoLevel string
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TopicsPath == "" {
		return nil, errors.New("a topics file is required")
	}
	if cfg.EventsPath == "" {
		return nil, errors.New("an events file is required")
	}
	return &cfg, nil
}

// AnyChart reports whether at least one chart was selected.
func (c *Config) AnyChart() bool {
	return c.AllTopics || c.TopicsByEvent || c.Full ||
		len(c.EventQueries) > 0 || len(c.TopicQueries) > 0
}
