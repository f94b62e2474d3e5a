package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the process reads from the environment or an
// optional config.yaml next to the binary. CronSecret left empty disables
// the bearer check on the cron endpoints, which is a deliberate open-access
// mode for local runs.
type Config struct {
	Port            int           `mapstructure:"port"`
	DatabasePath    string        `mapstructure:"database_path"`
	CronSecret      string        `mapstructure:"cron_secret"`
	TournamentID    string        `mapstructure:"tournament_id"`
	ReminderWindow  time.Duration `mapstructure:"reminder_window"`
	SessionLifetime time.Duration `mapstructure:"session_lifetime"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "npl_fantasy.db")
	v.SetDefault("cron_secret", "")
	v.SetDefault("tournament_id", "")
	v.SetDefault("reminder_window", "24h")
	v.SetDefault("session_lifetime", "24h")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
