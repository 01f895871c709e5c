package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	ClientOrigin     string        `mapstructure:"CLIENT_ORIGIN"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DatabaseMaxConns int32         `mapstructure:"DATABASE_MAX_CONNS"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	ViaCEPBaseURL    string        `mapstructure:"VIA_CEP_BASE_URL"`
	ViaCEPTimeout    time.Duration `mapstructure:"VIA_CEP_TIMEOUT"`
	ViaCEPCacheSize  int           `mapstructure:"VIA_CEP_CACHE_SIZE"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"` // text|json
}

var defaults = map[string]any{
	"SERVER_PORT":        "8080",
	"CLIENT_ORIGIN":      "http://localhost:3000",
	"DATABASE_MAX_CONNS": 10,
	"VIA_CEP_BASE_URL":   "https://viacep.com.br/ws",
	"VIA_CEP_TIMEOUT":    "5s",
	"VIA_CEP_CACHE_SIZE": 1000,
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
}

// LoadConfig reads app.env from path when it exists. Environment variables
// always take precedence over the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// Unmarshal only sees keys viper knows about; bind the ones without defaults.
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("config.BindEnv %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config.ReadInConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.ViaCEPBaseURL == "" {
		errs = append(errs, errors.New("VIA_CEP_BASE_URL is required"))
	}
	if c.ViaCEPCacheSize < 0 {
		errs = append(errs, fmt.Errorf("VIA_CEP_CACHE_SIZE must not be negative, got %d", c.ViaCEPCacheSize))
	}
	return errors.Join(errs...)
}
