// Package config loads the relisten configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	// LibraryDir is opened on startup when set. The folder prompt inside
	// the TUI can still point anywhere else.
	LibraryDir string `toml:"library_dir"`

	Transcription Transcription `toml:"transcription"`
	Logging       Logging       `toml:"logging"`
}

// Transcription selects and configures the speech-to-text backend.
type Transcription struct {
	// Backend is "whisper" (local whisper server, the default) or "openai".
	Backend string `toml:"backend"`
	// Endpoint of the local whisper server, e.g. http://127.0.0.1:8080.
	Endpoint string `toml:"endpoint"`
	// Model passed to the OpenAI backend. Ignored by the whisper backend,
	// which transcribes with whatever model the server was started with.
	Model string `toml:"model"`
	// APIKeyEnv names the environment variable holding the OpenAI key.
	APIKeyEnv string `toml:"api_key_env"`
	// TimeoutSeconds bounds a single transcription request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging configures the log file written next to the config.
type Logging struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Transcription: Transcription{
			Backend:        "whisper",
			Endpoint:       "http://127.0.0.1:8080",
			Model:          "whisper-1",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 600,
		},
		Logging: Logging{Level: "info"},
	}
}

// Dir returns the relisten configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", "relisten"), nil
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load parses the configuration at path, falling back to the default
// location when path is empty. A missing file is not an error; defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	} else if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Transcription.Backend {
	case "", "whisper", "openai":
	default:
		return fmt.Errorf("transcription backend: unsupported value %q", c.Transcription.Backend)
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return fmt.Errorf("transcription timeout_seconds: must not be negative")
	}
	return nil
}
