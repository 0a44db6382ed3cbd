package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceHTTP   = "http"
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

const (
	DefaultURL     = "https://jsonplaceholder.typicode.com/comments"
	DefaultTimeout = 10 * time.Second
)

// ErrUnknownSource is returned by Validate for an unsupported source kind.
var ErrUnknownSource = errors.New("unknown comment source")

// Config controls where comments come from and how the viewer behaves.
// Values are layered: defaults, then the YAML file, then RCOMMENTS_*
// environment variables, then command-line flags.
type Config struct {
	Source  string        `yaml:"source"   env:"RCOMMENTS_SOURCE"`
	URL     string        `yaml:"url"      env:"RCOMMENTS_URL"`
	File    string        `yaml:"file"     env:"RCOMMENTS_FILE"`
	DB      string        `yaml:"db"       env:"RCOMMENTS_DB"`
	Timeout time.Duration `yaml:"timeout"  env:"RCOMMENTS_TIMEOUT"`
	Refresh time.Duration `yaml:"refresh"  env:"RCOMMENTS_REFRESH"`
	Watch   bool          `yaml:"watch"    env:"RCOMMENTS_WATCH"`
	LogFile string        `yaml:"log_file" env:"RCOMMENTS_LOG_FILE"`
	Verbose bool          `yaml:"verbose"  env:"RCOMMENTS_VERBOSE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:  SourceHTTP,
		URL:     DefaultURL,
		Timeout: DefaultTimeout,
		Watch:   true,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return Normalize(cfg), nil
}

// Normalize canonicalizes free-form values such as the source kind.
func Normalize(c Config) Config {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	return c
}

// Validate reports configuration that cannot produce a comment source.
func (c Config) Validate() error {
	switch c.Source {
	case SourceHTTP:
		if strings.TrimSpace(c.URL) == "" {
			return fmt.Errorf("source %q requires a url", c.Source)
		}
	case SourceFile:
		if strings.TrimSpace(c.File) == "" {
			return fmt.Errorf("source %q requires a file path", c.Source)
		}
	case SourceSQLite:
		if strings.TrimSpace(c.DB) == "" {
			return fmt.Errorf("source %q requires a database path", c.Source)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Refresh < 0 {
		return fmt.Errorf("refresh must not be negative")
	}
	return nil
}

// Save writes c to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
