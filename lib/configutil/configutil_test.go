package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Database string `json:"database"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "deedscout.json5")

	writeFile(t, name, `{email: "scout@example.com", database: "records.db"}`)
	writeFile(t, filepath.Join(dir, "deedscout.local.json5"), `{database: "local.db"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "scout@example.com", cfg.Email)
	require.Equal(t, "local.db", cfg.Database)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigExpandsEnv(t *testing.T) {
	t.Setenv("DEEDSCOUT_TEST_PASSWORD", "hunter2")

	dir := t.TempDir()
	name := filepath.Join(dir, "deedscout.json5")
	writeFile(t, name, `{password: "${DEEDSCOUT_TEST_PASSWORD}"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "hunter2", cfg.Password)
}
