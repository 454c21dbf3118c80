package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator validates configuration structures.
type ConfigValidator interface {
	Validate(cfg *Config) error
}

// structValidator implements ConfigValidator using struct tags.
type structValidator struct {
	validate *validator.Validate
}

// NewConfigValidator creates a new ConfigValidator instance.
func NewConfigValidator() ConfigValidator {
	return &structValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the configuration against its struct tags and
// cross-field constraints not expressible as tags.
func (v *structValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := v.validate.Struct(cfg); err != nil {
		return err
	}

	// Credentials are checked at provider construction, not here: a config
	// without an API key is still loadable for commands that never talk to
	// the provider.
	return nil
}
