package pxlsdump

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the image is written unless told otherwise.
const DefaultPath = "canvas.png"

// DefaultTimeout bounds each HTTP request.
const DefaultTimeout = 30 * time.Second

// Options controls how the image is written.
type Options struct {
	// Path is the destination file.
	Path string
	// TagFilename embeds the canvas code in the filename.
	TagFilename bool
}

// Config holds everything needed for a run. It can be loaded from a YAML
// file, any field left out keeps its default.
type Config struct {
	InfoURL     string        `yaml:"info_url"`
	BoardURL    string        `yaml:"board_url"`
	Path        string        `yaml:"path"`
	TagFilename bool          `yaml:"tag_filename"`
	Timeout     time.Duration `yaml:"timeout"`
	DB          string        `yaml:"db,omitempty"`
}

// DefaultConfig returns the configuration for the public pxls.space canvas.
func DefaultConfig() *Config {
	return &Config{
		InfoURL:  DefaultInfoURL,
		BoardURL: DefaultBoardURL,
		Path:     DefaultPath,
		Timeout:  DefaultTimeout,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", file, err)
	}

	return cfg, nil
}

// Validate returns the first problem found with the configuration.
func (c *Config) Validate() error {
	switch {
	case c.InfoURL == "":
		return errors.New("info_url is required")
	case c.BoardURL == "":
		return errors.New("board_url is required")
	case c.Path == "":
		return errors.New("path is required")
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Options returns the output options.
func (c *Config) Options() Options {
	return Options{
		Path:        c.Path,
		TagFilename: c.TagFilename,
	}
}

// Client returns a client for the configured endpoints.
func (c *Config) Client() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: c.Timeout},
		InfoURL:  c.InfoURL,
		BoardURL: c.BoardURL,
	}
}
