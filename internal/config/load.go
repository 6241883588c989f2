package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces the tool's environment variables, e.g.
// SCHEMAGEN_WORDPRESS_APP_PASSWORD.
const envPrefix = "SCHEMAGEN"

// Load reads configuration from the given file (or the default search
// path when path is empty), layered under environment variables.
// A missing config file is fine; env-only configuration is supported.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setupViper(v, path)

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	bindKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// loadEnvFile loads .env if present; its absence is not an error.
func loadEnvFile() {
	_ = godotenv.Load()
}

// setupViper configures file search paths and env binding.
func setupViper(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// readConfigFile reads the config file. A missing file is ignored
// unless the caller named one explicitly.
func readConfigFile(v *viper.Viper, path string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if path == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read configuration: %w", err)
}

// bindKeys declares every config key so AutomaticEnv can see keys that
// do not appear in the config file.
func bindKeys(v *viper.Viper) {
	defaults := map[string]any{
		"wordpress.site_url":      "",
		"wordpress.username":      "",
		"wordpress.app_password":  "",
		"sitemap.url":             "",
		"ai.provider":             "",
		"ai.api_key":              "",
		"ai.model":                "",
		"business.name":           "",
		"business.url":            "",
		"business.logo_url":       "",
		"gateway.user_agent":      "",
		"gateway.request_timeout": "0s",
		"gateway.proxy_url":       "",
		"batch.analysis_size":     0,
		"batch.injection_size":    0,
		"cache.dir":               "",
		"report.dir":              "",
		"log.level":               "",
		"log.encoding":            "",
		"log.development":         false,
	}
	for key, value := range defaults {
		if !v.IsSet(key) {
			v.SetDefault(key, value)
		}
	}
}
