package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type PipelineConfig struct {
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	RankingWorkers int           `mapstructure:"ranking_workers"`
	ReportSchedule string        `mapstructure:"report_schedule"`
}

func (config PipelineConfig) validate() error {
	var errs []error

	if config.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("session_ttl must be positive"))
	}
	if config.RankingWorkers < 1 {
		errs = append(errs, fmt.Errorf("ranking_workers must be at least 1"))
	}
	if config.ReportSchedule == "" {
		errs = append(errs, fmt.Errorf("missing variable: report_schedule"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}

func (config PipelineConfig) bindEnvironmentVariables(v *viper.Viper) error {
	if err := v.BindEnv("pipeline.ranking_workers", "RANKING_WORKERS"); err != nil {
		return err
	}
	return v.BindEnv("pipeline.report_schedule", "REPORT_SCHEDULE")
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

func (config MetricsConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("metrics.address", "METRICS_ADDRESS")
}
