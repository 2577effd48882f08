package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"slices"
)

type LogLevel string

const (
	LevelDebug   LogLevel = "DEBUG"
	LevelInfo    LogLevel = "INFO"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelFatal   LogLevel = "FATAL"
)

var logLevels = []LogLevel{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFatal}

// LoggerConfig drives the local log file and the optional Loki shipping.
type LoggerConfig struct {
	LogLevel     LogLevel `mapstructure:"log_level"`
	OutputFile   string   `mapstructure:"output_file"`
	AppName      string   `mapstructure:"app_name"`
	LokiURL      string   `mapstructure:"loki_url"`
	LokiUser     string   `mapstructure:"loki_user"`
	LokiPassword string   `mapstructure:"loki_password"`
}

func (config LoggerConfig) LokiEnabled() bool {
	return config.LokiURL != ""
}

func (config LoggerConfig) validate() error {
	var errs []error

	if !slices.Contains(logLevels, config.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", logLevels, config.LogLevel))
	}
	if config.OutputFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: output_file"))
	}

	if config.LokiEnabled() {
		if config.AppName == "" {
			errs = append(errs, fmt.Errorf("app_name is required to label loki streams"))
		}
		if (config.LokiUser == "") != (config.LokiPassword == "") {
			errs = append(errs, fmt.Errorf("loki_user and loki_password must be set together"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}

func (config LoggerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	bindings := []struct{ key, env string }{
		{"logger.log_level", "LOG_LEVEL"},
		{"logger.app_name", "APP_NAME"},
		{"logger.loki_url", "LOKI_URL"},
		{"logger.loki_user", "LOKI_USER"},
		{"logger.loki_password", "LOKI_PASSWORD"},
	}

	var errs []error
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
