package config

import (
	"github.com/go-playground/validator/v10"
	"time"
)

// NetworkConfig drives the simulated network in front of the store.
type NetworkConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Latency           time.Duration `mapstructure:"latency" validate:"gte=0"`
	FailureRate       float64       `mapstructure:"failure_rate" validate:"gte=0,lte=1"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gte=0"`
}

func (config NetworkConfig) validate() error {
	return validator.New().Struct(config)
}

func (config NetworkConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"network.enabled":             "NETWORK_ENABLED",
		"network.latency":             "NETWORK_LATENCY",
		"network.failure_rate":        "NETWORK_FAILURE_RATE",
		"network.requests_per_second": "NETWORK_REQUESTS_PER_SECOND",
	})
}
