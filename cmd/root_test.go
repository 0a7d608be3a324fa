package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gridify/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears GRIDIFY_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"GRIDIFY_API_URL", "GRIDIFY_THEME", "GRIDIFY_LOG_LEVEL", "GRIDIFY_CACHE_DB"} {
		t.Setenv(k, "")
	}
	return home
}

// resolveWith parses args on a fresh root command and resolves its config.
func resolveWith(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	root := NewRootCmd("test")
	var (
		cfg config.Config
		err error
	)
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err = resolveConfig(cmd, rootFlagsOf(t, root))
		return nil
	}
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	require.NoError(t, root.Execute())
	return cfg, err
}

func rootFlagsOf(t *testing.T, root *cobra.Command) *rootFlags {
	t.Helper()
	f := &rootFlags{}
	f.configPath, _ = root.Flags().GetString("config")
	f.apiURL, _ = root.Flags().GetString("api-url")
	f.theme, _ = root.Flags().GetString("theme")
	f.logFile, _ = root.Flags().GetString("log-file")
	f.logLevel, _ = root.Flags().GetString("log-level")
	f.cacheDB, _ = root.Flags().GetString("cache-db")
	f.noPin, _ = root.Flags().GetBool("no-pin")
	f.noSearch, _ = root.Flags().GetBool("no-search")
	f.noSort, _ = root.Flags().GetBool("no-sort")
	return f
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd("1.2.3")
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "gridify 1.2.3")
}

func TestResolveConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := resolveWith(t)
	require.NoError(t, err)
	require.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	require.Equal(t, "light", cfg.Theme)
	require.True(t, cfg.Pinnable)
	require.True(t, cfg.Searchable)
	require.True(t, cfg.Sortable)
}

func TestResolveConfigLayering(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".gridify")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"api_url: https://file.example.com/items\ntheme: dark\nrequest_timeout: 3s\nsortable: false\n"), 0o600))

	cfg, err := resolveWith(t)
	require.NoError(t, err)
	require.Equal(t, "https://file.example.com/items", cfg.APIURL)
	require.Equal(t, "dark", cfg.Theme)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.Sortable)

	t.Setenv("GRIDIFY_API_URL", "https://env.example.com/items")
	cfg, err = resolveWith(t)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com/items", cfg.APIURL)

	cfg, err = resolveWith(t, "--api-url", "https://flag.example.com/items", "--theme", "light", "--no-pin")
	require.NoError(t, err)
	require.Equal(t, "https://flag.example.com/items", cfg.APIURL)
	require.Equal(t, "light", cfg.Theme)
	require.False(t, cfg.Pinnable)
}

func TestResolveConfigRejectsInvalidValues(t *testing.T) {
	isolate(t)

	_, err := resolveWith(t, "--theme", "solarized")
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "theme", verr.Field)

	_, err = resolveWith(t, "--api-url", "not a url")
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "api_url", verr.Field)
}

func TestResolveConfigMissingExplicitFile(t *testing.T) {
	home := isolate(t)

	_, err := resolveWith(t, "--config", filepath.Join(home, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nGRIDIFY_TEST_A=\"from file\"\nexport GRIDIFY_TEST_B=b\nGRIDIFY_TEST_C=c\nbroken line\n"), 0o600))

	t.Setenv("GRIDIFY_TEST_A", "")
	t.Setenv("GRIDIFY_TEST_B", "")
	t.Setenv("GRIDIFY_TEST_C", "from env")

	loadDotEnv(path)
	require.Equal(t, "from file", os.Getenv("GRIDIFY_TEST_A"))
	require.Equal(t, "b", os.Getenv("GRIDIFY_TEST_B"))
	require.Equal(t, "from env", os.Getenv("GRIDIFY_TEST_C"))
}

func TestResolveConfigNormalisesFlagCase(t *testing.T) {
	isolate(t)

	cfg, err := resolveWith(t, "--theme", "DARK", "--log-level", "Debug")
	require.NoError(t, err)
	require.Equal(t, "dark", cfg.Theme)
	require.Equal(t, "debug", cfg.LogLevel)
}
