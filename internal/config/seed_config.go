package config

import (
	"errors"
	"fmt"
)

type SeedConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	Jobs        int  `mapstructure:"jobs"`
	Candidates  int  `mapstructure:"candidates"`
	Assessments int  `mapstructure:"assessments"`
}

func (config SeedConfig) validate() error {
	if !config.Enabled {
		return nil
	}

	var errs []error
	if config.Jobs <= 0 {
		errs = append(errs, fmt.Errorf("jobs must be greater than zero"))
	}
	if config.Candidates < 0 {
		errs = append(errs, fmt.Errorf("candidates must not be negative"))
	}
	if config.Assessments < 0 || config.Assessments > config.Jobs {
		errs = append(errs, fmt.Errorf("assessments must be between 0 and jobs"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}

func (config SeedConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"seed.enabled": "SEED_ENABLED",
	})
}
