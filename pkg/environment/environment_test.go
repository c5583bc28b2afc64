package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExperimentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	content := `name: container-restart
env:
  APP_NAMESPACE: demo
  APP_LABEL: app=web
  TARGET_QUANTITY: "2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	file, err := LoadExperimentFile(path)
	require.NoError(t, err)
	assert.Equal(t, "container-restart", file.Name)
	assert.Equal(t, "demo", file.Env["APP_NAMESPACE"])
	assert.Equal(t, "2", file.Env["TARGET_QUANTITY"])
}

func TestLoadExperimentFileErrors(t *testing.T) {
	_, err := LoadExperimentFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: [not, a, map]"), 0644))
	_, err = LoadExperimentFile(path)
	assert.Error(t, err)
}

func TestExportDoesNotClobberProcessEnv(t *testing.T) {
	t.Setenv("APP_NAMESPACE", "explicit")
	os.Unsetenv("APP_LABEL_FROM_FILE")
	t.Cleanup(func() { os.Unsetenv("APP_LABEL_FROM_FILE") })

	file := &ExperimentFile{Env: map[string]string{
		"APP_NAMESPACE":       "from-file",
		"APP_LABEL_FROM_FILE": "app=web",
	}}
	require.NoError(t, file.Export())

	assert.Equal(t, "explicit", os.Getenv("APP_NAMESPACE"))
	assert.Equal(t, "app=web", os.Getenv("APP_LABEL_FROM_FILE"))
}
