package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/updater/internal/artifact"
	"github.com/vvka-141/updater/internal/encryption"
	"github.com/vvka-141/updater/pkg/updater"
)

// writeArtifact encodes and encrypts a small dataset to a temp file.
func writeArtifact(t *testing.T, key string) string {
	t.Helper()

	ds, err := updater.NewDataset([]string{"id", "name", "opened_at"}, [][]any{
		{1, "School 1", time.Date(2001, 9, 1, 8, 0, 0, 0, time.UTC)},
		{2, "School 2", nil},
	})
	require.NoError(t, err)

	plain, err := artifact.NewCodec().Encode(ds)
	require.NoError(t, err)
	token, err := encryption.Encrypt(plain, key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "file1_schools.enc")
	require.NoError(t, os.WriteFile(path, token, 0o600))
	return path
}

func TestRunInspect_CSV(t *testing.T) {
	resetInspectFlags()
	clearUpdaterEnv(t)
	inspectFlags.format = "csv"
	defer resetInspectFlags()

	stdout, _ := captureOutput(t, inspectCmd)
	configPath := writeConfig(t, map[string]any{"encryption_key": testKey})

	require.NoError(t, runInspect(inspectCmd, []string{configPath, writeArtifact(t, testKey)}))

	assert.Equal(t,
		"id,name,opened_at\n"+
			"1,School 1,2001-09-01T08:00:00Z\n"+
			"2,School 2,NULL\n",
		stdout.String())
}

func TestRunInspect_Schema(t *testing.T) {
	resetInspectFlags()
	clearUpdaterEnv(t)
	inspectFlags.schema = true
	defer resetInspectFlags()

	stdout, _ := captureOutput(t, inspectCmd)
	configPath := writeConfig(t, map[string]any{"encryption_key": testKey})

	require.NoError(t, runInspect(inspectCmd, []string{configPath, writeArtifact(t, testKey)}))
	assert.Equal(t, "id\tint\nname\tstring\nopened_at\ttimestamp\n", stdout.String())
}

func TestRunInspect_KeyFromEnv(t *testing.T) {
	resetInspectFlags()
	clearUpdaterEnv(t)
	t.Setenv("UPDATER_ENCRYPTION_KEY", testKey)

	stdout, _ := captureOutput(t, inspectCmd)
	configPath := writeConfig(t, map[string]any{})

	require.NoError(t, runInspect(inspectCmd, []string{configPath, writeArtifact(t, testKey)}))
	assert.Contains(t, stdout.String(), "School 2")
}

func TestRunInspect_WrongKey(t *testing.T) {
	resetInspectFlags()
	clearUpdaterEnv(t)
	captureOutput(t, inspectCmd)

	other, err := encryption.GenerateKey()
	require.NoError(t, err)
	configPath := writeConfig(t, map[string]any{"encryption_key": other})

	err = runInspect(inspectCmd, []string{configPath, writeArtifact(t, testKey)})
	assert.ErrorIs(t, err, updater.ErrDecryptionFailed)
}

func TestRunInspect_UnknownFormat(t *testing.T) {
	resetInspectFlags()
	inspectFlags.format = "xml"
	defer resetInspectFlags()
	captureOutput(t, inspectCmd)

	err := runInspect(inspectCmd, []string{"config.json", "file1.enc"})
	assert.ErrorIs(t, err, updater.ErrInvalidConfig)
}

func TestRunInspect_MissingArtifact(t *testing.T) {
	resetInspectFlags()
	clearUpdaterEnv(t)
	captureOutput(t, inspectCmd)

	configPath := writeConfig(t, map[string]any{"encryption_key": testKey})

	err := runInspect(inspectCmd, []string{configPath, "/nonexistent/file1.enc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read artifact")
}
