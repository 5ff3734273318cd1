package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
)

// Validate checks invariants that defaults cannot repair.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Root) == "" {
		return errors.ConfigError("root must not be empty").Build()
	}
	if cfg.OrderSpacing < 1 {
		return errors.ConfigError(fmt.Sprintf("order_spacing must be positive, got %d", cfg.OrderSpacing)).
			WithContext("order_spacing", cfg.OrderSpacing).
			Build()
	}
	for i, c := range cfg.Categories {
		if c.Folder == "" || c.Title == "" || c.Badge == "" {
			return errors.ConfigError(fmt.Sprintf("categories[%d]: folder, title and badge are required", i)).
				WithContext("index", i).
				Build()
		}
		if strings.ContainsAny(c.Folder, `/\`) {
			return errors.ConfigError(fmt.Sprintf("categories[%d]: folder %q must be a single path element", i, c.Folder)).
				WithContext("folder", c.Folder).
				Build()
		}
	}

	// Uniqueness and ordering are enforced by the table itself.
	if _, err := cfg.Table(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid categories").Build()
	}
	return nil
}
