package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const defaultConnectionString = "talentflow.db"

// DBConfig points at the local sqlite file holding jobs, candidates and assessments.
type DBConfig struct {
	ConnectionString string        `mapstructure:"connection_string" validate:"required"`
	BusyTimeout      time.Duration `mapstructure:"busy_timeout" validate:"gte=0"`
}

func (config DBConfig) validate() error {
	return validator.New().Struct(config)
}

func (config DBConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"db.connection_string": "DB_CONNECTION_STRING",
		"db.busy_timeout":      "DB_BUSY_TIMEOUT",
	})
}
