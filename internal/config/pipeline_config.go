package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"time"
)

type PipelineConfig struct {
	PageSize         int           `mapstructure:"page_size" validate:"gte=1,lte=100"`
	FilterDebounce   time.Duration `mapstructure:"filter_debounce" validate:"gte=0"`
	AutosaveDebounce time.Duration `mapstructure:"autosave_debounce" validate:"gte=0"`
	StatsSchedule    string        `mapstructure:"stats_schedule" validate:"required"`
}

func (config PipelineConfig) validate() error {
	return validator.New().Struct(config)
}

func (config PipelineConfig) bindEnvironmentVariables() error {
	return bindAll(map[string]string{
		"pipeline.page_size":         "JOBS_PAGE_SIZE",
		"pipeline.filter_debounce":   "JOBS_FILTER_DEBOUNCE",
		"pipeline.autosave_debounce": "ASSESSMENT_AUTOSAVE_DEBOUNCE",
		"pipeline.stats_schedule":    "STATS_SCHEDULE",
	})
}

func setDefaults() {
	viper.SetDefault("db.connection_string", defaultConnectionString)
	viper.SetDefault("db.busy_timeout", 5*time.Second)
	viper.SetDefault("pipeline.page_size", 10)
	viper.SetDefault("pipeline.filter_debounce", 300*time.Millisecond)
	viper.SetDefault("pipeline.autosave_debounce", 1500*time.Millisecond)
	viper.SetDefault("pipeline.stats_schedule", "@every 1m")
	viper.SetDefault("metrics.port", 8080)
	viper.SetDefault("seed.jobs", 25)
	viper.SetDefault("seed.candidates", 1000)
	viper.SetDefault("seed.assessments", 3)
}
