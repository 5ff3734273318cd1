package config

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/apidocfm/internal/category"
	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// Example returns the configuration written by Init: the defaults with the
// classification table spelled out so it can be edited.
func Example() *Config {
	cfg := Default()
	_, descriptors := category.WithSpacing(cfg.OrderSpacing)
	for _, d := range descriptors {
		cfg.Categories = append(cfg.Categories, CategoryEntry{
			Folder:    d.Folder,
			Title:     d.Title,
			Badge:     d.Badge,
			BaseOrder: d.BaseOrder,
		})
	}
	return cfg
}

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if configPath == "" {
		configPath = DefaultPath
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithPath(configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "marshal example configuration").Build()
	}

	// #nosec G306 -- configuration is not secret.
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			WithPath(configPath).
			Build()
	}
	return nil
}
