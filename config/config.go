// Package config loads the modsort YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sushant-115/modsort/pkg/logger"
	"github.com/sushant-115/modsort/pkg/telemetry"
)

// CLIConfig configures the interactive shell.
type CLIConfig struct {
	// HistoryFile keeps the shell history between sessions. Empty disables it.
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

// Config is the top-level configuration.
type Config struct {
	Logger    logger.Config    `yaml:"logger"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	CLI       CLIConfig        `yaml:"cli"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Logger: logger.Config{
			Level:      "info",
			Format:     "console",
			OutputFile: "stderr",
		},
		Telemetry: telemetry.Config{
			Enabled:          false,
			ServiceName:      "modsort",
			TraceSampleRatio: 1.0,
		},
		CLI: CLIConfig{
			Prompt: "modsort> ",
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "modsort"
	}
	return cfg, nil
}
