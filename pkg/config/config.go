package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config mirrors config/config.yaml. Every key has a default so the file is optional.
type Config struct {
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	OpenF1       OpenF1Config       `mapstructure:"openf1"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Bot          BotConfig          `mapstructure:"bot"`
	Notification NotificationConfig `mapstructure:"notification"`
	Webserver    WebserverConfig    `mapstructure:"webserver"`
	Settings     SettingsConfig     `mapstructure:"settings"`
	Log          LogConfig          `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type OpenF1Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	ShortTTL time.Duration `mapstructure:"short_ttl"` // current season
	LongTTL  time.Duration `mapstructure:"long_ttl"`  // closed seasons
	Size     int           `mapstructure:"size"`      // 0 means unbounded

	PurgeInterval time.Duration `mapstructure:"purge_interval"` // 0 disables the periodic reset
}

type BotConfig struct {
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type NotificationConfig struct {
	MaxAttempts     uint          `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxElapsed      time.Duration `mapstructure:"max_elapsed"`
}

type WebserverConfig struct {
	Address string `mapstructure:"address"`
}

type SettingsConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.debug", false)
	v.SetDefault("openf1.base_url", "https://api.openf1.org")
	v.SetDefault("openf1.timeout", 15*time.Second)
	v.SetDefault("cache.short_ttl", 5*time.Minute)
	v.SetDefault("cache.long_ttl", time.Hour)
	v.SetDefault("cache.size", 0)
	v.SetDefault("cache.purge_interval", 6*time.Hour)
	v.SetDefault("bot.command_timeout", 30*time.Second)
	v.SetDefault("notification.max_attempts", 3)
	v.SetDefault("notification.initial_interval", 500*time.Millisecond)
	v.SetDefault("notification.max_elapsed", 20*time.Second)
	v.SetDefault("webserver.address", ":8080")
	v.SetDefault("settings.dsn", "file:f1seasonbot-settings?mode=memory&cache=shared")
	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from dir (when present), then applies .env and
// environment overrides. Environment wins over the file.
func LoadConfig(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("OPENF1_BASE_URL"); v != "" {
		cfg.OpenF1.BaseURL = v
	}
	if v := os.Getenv("WEBSERVER_ADDRESS"); v != "" {
		cfg.Webserver.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
