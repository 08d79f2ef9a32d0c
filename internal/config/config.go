// Package config loads server configuration and categorization rule
// overrides from a TOML file, layered over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/finsightapp/backend/internal/analytics"
)

// Config holds all server configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Rules     RulesConfig     `toml:"rules"`
}

// ServerConfig holds HTTP serving settings.
type ServerConfig struct {
	Port string `toml:"port"`
}

// AnalyticsConfig holds engine thresholds.
type AnalyticsConfig struct {
	DuplicateThreshold float64 `toml:"duplicate_threshold"`
	ForecastMonths     int     `toml:"forecast_months"`
}

// RulesConfig holds categorizer overrides. Keywords maps a category label
// to the merchant keywords that yield it; entries replace the built-in
// list for that category and new categories are added to the table.
type RulesConfig struct {
	Keywords         map[string][]string `toml:"keywords,omitempty"`
	IncomeCategories []string            `toml:"income_categories,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8111"},
		Analytics: AnalyticsConfig{
			DuplicateThreshold: analytics.DefaultDuplicateThreshold,
			ForecastMonths:     analytics.DefaultForecastMonths,
		},
	}
}

// Load reads the config file at path, returning defaults if path is empty
// or the file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Analytics.DuplicateThreshold < 0 {
		return fmt.Errorf("analytics.duplicate_threshold must not be negative")
	}
	if c.Analytics.ForecastMonths < 0 {
		return fmt.Errorf("analytics.forecast_months must not be negative")
	}
	return nil
}

// KeywordTable merges the configured keyword overrides over the built-in
// table.
func (c Config) KeywordTable() map[string][]string {
	table := analytics.DefaultKeywords()
	for category, words := range c.Rules.Keywords {
		table[category] = words
	}
	return table
}

// IncomeCategoryList returns the configured income allow-list, or the
// built-in default when unset.
func (c Config) IncomeCategoryList() []string {
	if len(c.Rules.IncomeCategories) > 0 {
		return c.Rules.IncomeCategories
	}
	return analytics.DefaultIncomeCategories()
}
