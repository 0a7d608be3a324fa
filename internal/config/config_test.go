package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "light", cfg.Theme)
	require.True(t, cfg.Pinnable)
	require.True(t, cfg.Searchable)
	require.True(t, cfg.Sortable)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api_url: https://example.com/records
theme: dark
sortable: false
request_timeout: 3s
retry_max: 1
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/records", cfg.APIURL)
	require.Equal(t, "dark", cfg.Theme)
	require.False(t, cfg.Sortable)
	require.True(t, cfg.Searchable)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, 1, cfg.RetryMax)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	require.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "api_url: [unterminated")
	_, err := Load(path, true)
	require.Error(t, err)
}

func TestValidateReportsYAMLFieldNames(t *testing.T) {
	cfg := Default()
	cfg.Theme = "solarized"
	err := cfg.Validate()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "theme", verr.Field)

	cfg = Default()
	cfg.APIURL = "not a url"
	require.ErrorAs(t, cfg.Validate(), &verr)
	require.Equal(t, "api_url", verr.Field)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GRIDIFY_API_URL", "https://env.example.com/data")
	t.Setenv("GRIDIFY_THEME", "DARK")

	cfg := Default()
	cfg.ApplyEnv()
	require.Equal(t, "https://env.example.com/data", cfg.APIURL)
	require.Equal(t, "dark", cfg.Theme)
}
