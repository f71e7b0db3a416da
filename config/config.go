package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

/* Config is read from an optional .env file (TOML) and the environment.
 * Environment variables win over the file.
 */

type Config struct {
	Port              string `mapstructure:"PORT"`
	AdminPort         string `mapstructure:"ADMIN_PORT"`
	TelegramToken     string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIURL    string `mapstructure:"TELEGRAM_API_URL"`
	PublicScheme      string `mapstructure:"PUBLIC_SCHEME"`
	TrustProxyHeaders bool   `mapstructure:"TRUST_PROXY_HEADERS"`
	MaxUpdateBytes    int64  `mapstructure:"MAX_UPDATE_BYTES"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	InboxStream       string `mapstructure:"INBOX_STREAM"`
	InboxMaxLen       int64  `mapstructure:"INBOX_MAX_LEN"`
}

var defaults = map[string]interface{}{
	"PORT":                "8080",
	"ADMIN_PORT":          "9090",
	"TELEGRAM_BOT_TOKEN":  "",
	"TELEGRAM_API_URL":    "https://api.telegram.org",
	"PUBLIC_SCHEME":       "https",
	"TRUST_PROXY_HEADERS": false,
	"MAX_UPDATE_BYTES":    1 << 20,
	"REDIS_ADDR":          "",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"INBOX_STREAM":        "updates:telegram",
	"INBOX_MAX_LEN":       10000,
}

func GetConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// RedisEnabled reports whether updates go to the Redis inbox
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
