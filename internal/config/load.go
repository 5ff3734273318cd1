package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envFiles are loaded before the config so ${VAR} references resolve.
var envFiles = []string{".env", ".env.local"}

// Load reads configPath, expands environment variables and applies defaults.
// A missing file yields Default(); an empty path means DefaultPath.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if configPath == "" {
		configPath = DefaultPath
	}
	// #nosec G304 -- the path is chosen by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("No configuration file, using defaults", slog.String("path", configPath))
			return Default(), nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration").
			WithPath(configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	cfg.source = configPath
	return cfg, nil
}

// Parse decodes a configuration document after environment expansion.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").Build()
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, errors.ConfigError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("version", cfg.Version).
			Build()
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// godotenv.Load does not override variables already set.
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Could not load env file", slog.String("path", f), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", f))
	}
}
