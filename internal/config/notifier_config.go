package config

import (
	"fmt"
	"github.com/spf13/viper"
)

// NotifierConfig enables notification sinks. A sink without credentials stays off.
type NotifierConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	AmqpURL       string `mapstructure:"amqp_url"`
	AmqpExchange  string `mapstructure:"amqp_exchange"`
}

func (config NotifierConfig) validate() error {
	if config.AmqpURL != "" && config.AmqpExchange == "" {
		return fmt.Errorf("missing variable: amqp_exchange")
	}
	return nil
}

func (config NotifierConfig) bindEnvironmentVariables(v *viper.Viper) error {
	err := v.BindEnv("notifier.telegram_token", "TG_TOKEN")
	if err != nil {
		return err
	}

	return v.BindEnv("notifier.amqp_url", "AMQP_URL")
}
