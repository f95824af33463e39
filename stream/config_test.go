package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mqtt:
  url: tcp://broker:1883
  topics:
    specs: lesson/specs
canvas:
  width: 640
player:
  lint: false
`), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker:1883", c.Mqtt.URL)
	assert.Equal(t, "lesson/specs", c.Mqtt.Topics.Specs)
	assert.Equal(t, "vistx/frames", c.Mqtt.Topics.Frames, "unset keys keep defaults")
	assert.Equal(t, 640, c.Canvas.Width)
	assert.Equal(t, 360, c.Canvas.Height)
	assert.False(t, c.Player.Lint)
	assert.Equal(t, ":3000", c.HTTP.Addr)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mqtt: [1, 2"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"VISTX_MQTT_URL":      "tcp://env:1883",
		"VISTX_REDIS_DB":      "3",
		"VISTX_CANVAS_HEIGHT": "200",
		"VISTX_PUBLISH_FPS":   "2.5",
		"VISTX_LINT":          "false",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	c := DefaultConfig()
	require.NoError(t, c.ApplyEnv(lookup))
	assert.Equal(t, "tcp://env:1883", c.Mqtt.URL)
	assert.Equal(t, 3, c.Redis.DB)
	assert.Equal(t, 200, c.Canvas.Height)
	assert.Equal(t, 2.5, c.Player.PublishFPS)
	assert.False(t, c.Player.Lint)
	assert.Equal(t, 480, c.Canvas.Width)

	env["VISTX_CANVAS_WIDTH"] = "wide"
	assert.ErrorContains(t, c.ApplyEnv(lookup), "VISTX_CANVAS_WIDTH")
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VISTX_TEST_ONLY=loaded\n"), 0o600))
	t.Setenv("VISTX_TEST_ONLY", "")
	os.Unsetenv("VISTX_TEST_ONLY")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("VISTX_TEST_ONLY"))
}
