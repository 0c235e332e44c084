package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg against its struct tags (required fields, port ranges,
// enumerated values).
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	for i, m := range cfg.Bootstrap {
		if err := validate.Struct(m); err != nil {
			return fmt.Errorf("bootstrap[%d] (%s) validation failed: %w", i, m.Name, err)
		}
	}
	return nil
}
