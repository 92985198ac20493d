package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/updater/internal/testinfra"
	"github.com/vvka-141/updater/internal/testing/fixtures"
	"github.com/vvka-141/updater/pkg/updater"
)

func unreachableConfig(t *testing.T, apiURL string) map[string]any {
	t.Helper()
	return map[string]any{
		"db_params": map[string]any{
			"dbname":   "schools",
			"user":     "updater",
			"password": "secret",
			"host":     "127.0.0.1",
			"port":     1,
			"sslmode":  "disable",
		},
		"api_url":        apiURL,
		"api_key":        "k",
		"encryption_key": testKey,
	}
}

func TestRunUpdate_ConfigNotFound(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)
	captureOutput(t, rootCmd)

	err := runUpdate(rootCmd, []string{"/nonexistent/config.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, updater.ErrConfigNotFound)
	assert.Equal(t, updater.ExitGeneralError, updater.ExitCodeForError(err))
}

func TestRunUpdate_InvalidConfig(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)
	captureOutput(t, rootCmd)

	path := writeFile(t, "config.json", "{not json")

	err := runUpdate(rootCmd, []string{path})
	assert.ErrorIs(t, err, updater.ErrInvalidConfig)
}

func TestRunUpdate_DatabaseUnreachable(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)
	captureOutput(t, rootCmd)

	srv := testinfra.NewIngestServer()
	defer srv.Close()

	configPath := writeConfig(t, unreachableConfig(t, srv.BaseURL()))
	queriesPath := writeFile(t, "queries.txt", fixtures.SchoolQueries())

	err := runUpdate(rootCmd, []string{configPath, queriesPath})
	require.Error(t, err)
	assert.ErrorIs(t, err, updater.ErrConnectionFailed)
	assert.Equal(t, updater.ExitGeneralError, updater.ExitCodeForError(err))
	assert.Zero(t, srv.RequestCount(), "no request may be sent when extraction fails")
}

func TestRunUpdate_MissingQueriesFile(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)
	captureOutput(t, rootCmd)

	configPath := writeConfig(t, unreachableConfig(t, "http://127.0.0.1:1/"))

	err := runUpdate(rootCmd, []string{configPath, "/nonexistent/queries.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query file")
}

func TestLoadRunConfig_Overrides(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)
	t.Setenv("UPDATER_API_KEY", "from-env")

	cmd := &cobra.Command{Use: "updater_app"}
	cmd.Flags().IntVar(&runFlags.maxArtifacts, "max-artifacts", 0, "")
	require.NoError(t, cmd.Flags().Set("max-artifacts", "5"))
	runFlags.dryRun = true
	runFlags.outputDir = t.TempDir()
	defer resetRunFlags()

	configPath := writeConfig(t, unreachableConfig(t, "http://ingest.local/"))

	cfg, err := loadRunConfig(cmd, []string{configPath, "custom.txt"})
	require.NoError(t, err)

	assert.Equal(t, "custom.txt", cfg.QueriesPath)
	assert.Equal(t, 5, cfg.MaxArtifacts)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, runFlags.outputDir, cfg.OutputDir)
	assert.Equal(t, "127.0.0.1", cfg.Connection.Host)
	assert.Equal(t, 1, cfg.Connection.Port)
}

func TestLoadRunConfig_Defaults(t *testing.T) {
	resetRunFlags()
	clearUpdaterEnv(t)

	cmd := &cobra.Command{Use: "updater_app"}
	cmd.Flags().IntVar(&runFlags.maxArtifacts, "max-artifacts", 0, "")

	configPath := writeConfig(t, unreachableConfig(t, "http://ingest.local/"))

	cfg, err := loadRunConfig(cmd, []string{configPath})
	require.NoError(t, err)

	assert.Equal(t, updater.DefaultQueriesPath, cfg.QueriesPath)
	assert.Equal(t, updater.DefaultMaxArtifacts, cfg.EffectiveMaxArtifacts())
	assert.False(t, cfg.DryRun)
}
