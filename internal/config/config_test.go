package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 225, cfg.Light.LEDCount)
	assert.Equal(t, 60, cfg.Light.FPS)
	assert.Equal(t, 9090, cfg.OSC.ListenPort)
	assert.Equal(t, "127.0.0.1", cfg.OSC.FeedbackHost)
	assert.Equal(t, 5005, cfg.OSC.FeedbackPort)
	assert.Equal(t, 256, cfg.Queue.Size)
	assert.Equal(t, 128, cfg.Queue.DrainBatch)
	assert.Equal(t, 30*time.Second, cfg.Database.AutosaveInterval.Duration())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout.Duration())
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
light:
  led_count: 60
  fps: 30
osc:
  listen_port: 7000
database:
  autosave_interval: 2m
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Light.LEDCount)
	assert.Equal(t, 30, cfg.Light.FPS)
	assert.Equal(t, 7000, cfg.OSC.ListenPort)
	assert.Equal(t, 2*time.Minute, cfg.Database.AutosaveInterval.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0", cfg.OSC.ListenHost, "unset fields keep defaults")
	assert.Equal(t, 256, cfg.Queue.Size)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("LEDSIGNAL_DB", "/var/lib/ledsignal/state.db")

	path := writeConfig(t, `
database:
  path: ${LEDSIGNAL_DB}
scenes:
  path: ${LEDSIGNAL_SCENES:./scenes.json}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/ledsignal/state.db", cfg.Database.Path)
	assert.Equal(t, "./scenes.json", cfg.Scenes.Path, "unset var falls back to default")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
database:
  autosave_interval: soon
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
