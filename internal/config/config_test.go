package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8111", cfg.Server.Port)
	assert.Equal(t, 150.0, cfg.Analytics.DuplicateThreshold)
	assert.Equal(t, 6, cfg.Analytics.ForecastMonths)

	// Missing files are not an error.
	cfg, err = Load("/nonexistent/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "8111", cfg.Server.Port)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9000"

[analytics]
duplicate_threshold = 120.0

[rules]
income_categories = ["Income", "Salary"]

[rules.keywords]
Pets = ["musti ja mirri"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 120.0, cfg.Analytics.DuplicateThreshold)
	// Unset values keep their defaults.
	assert.Equal(t, 6, cfg.Analytics.ForecastMonths)

	table := cfg.KeywordTable()
	assert.Equal(t, []string{"musti ja mirri"}, table["Pets"])
	// Built-in categories survive the merge.
	assert.NotEmpty(t, table["Groceries"])

	assert.Equal(t, []string{"Income", "Salary"}, cfg.IncomeCategoryList())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[analytics]
duplicate_threshold = -1.0
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, `[server`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestKeywordTableWithoutOverrides(t *testing.T) {
	cfg := Default()
	table := cfg.KeywordTable()
	assert.NotEmpty(t, table["Groceries"])
	assert.NotEmpty(t, cfg.IncomeCategoryList())
}
