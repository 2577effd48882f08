package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type Provider string

const (
	ProviderNone   Provider = "none"
	ProviderGemini Provider = "gemini"
	ProviderGroq   Provider = "groq"
)

// ParserConfig selects the hosted model that turns résumé text into structured details.
type ParserConfig struct {
	Provider             Provider      `mapstructure:"provider"`
	APIKey               string        `mapstructure:"api_key"`
	Model                string        `mapstructure:"model"`
	MaxRequestsPerMinute float32       `mapstructure:"max_requests_per_minute"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

func (config ParserConfig) validate() error {
	var errs []error

	switch config.Provider {
	case ProviderNone:
		return nil
	case ProviderGemini, ProviderGroq:
	default:
		errs = append(errs, fmt.Errorf("unknown provider: %q", config.Provider))
	}

	if config.APIKey == "" {
		errs = append(errs, fmt.Errorf("missing variable: api_key"))
	}
	if config.Model == "" {
		errs = append(errs, fmt.Errorf("missing variable: model"))
	}
	if config.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}
	return nil
}

func (config ParserConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error
	if err := v.BindEnv("parser.provider", "PARSER_PROVIDER"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("parser.api_key", "PARSER_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("parser.model", "PARSER_MODEL"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
