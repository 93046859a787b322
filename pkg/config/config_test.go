package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  chat_id: "@mychannel"

schedule:
  cycle_interval: 10m

dispatch:
  delay_min: 2s
  delay_max: 4s
  per_source_cap: 5

novelty:
  cold_start: latest
  window: 48h

state:
  backend: sqlite
  dsn: "file:test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "@mychannel", cfg.Telegram.ChatID)
	assert.Equal(t, 10*time.Minute, cfg.Schedule.CycleInterval)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.DelayMin)
	assert.Equal(t, 4*time.Second, cfg.Dispatch.DelayMax)
	assert.Equal(t, 5, cfg.Dispatch.PerSourceCap)
	assert.Equal(t, "latest", cfg.Novelty.ColdStart)
	assert.Equal(t, 48*time.Hour, cfg.Novelty.Window)
	assert.Equal(t, "sqlite", cfg.State.Backend)
	assert.Equal(t, "file:test.db", cfg.State.DSN)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  chat_id: "@mychannel"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, cfg.Schedule.CycleInterval)
	assert.Equal(t, 3*time.Second, cfg.Schedule.SourcePauseMin)
	assert.Equal(t, 7*time.Second, cfg.Schedule.SourcePauseMax)
	assert.Equal(t, 1, cfg.Schedule.MaxWorkers)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.DelayMin)
	assert.Equal(t, 10*time.Second, cfg.Dispatch.DelayMax)
	assert.Equal(t, 10, cfg.Dispatch.PerSourceCap)
	assert.Equal(t, 5, cfg.Dispatch.SendRetries)
	assert.Equal(t, "FeedRelay/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "window", cfg.Novelty.ColdStart)
	assert.Equal(t, 24*time.Hour, cfg.Novelty.Window)
	assert.Equal(t, 3, cfg.Quarantine.Threshold)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.Equal(t, "cursors.json", cfg.State.Path)
	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "secret-token")

	path := writeConfig(t, `
telegram:
  token: "${TELEGRAM_TOKEN}"
  chat_id: "@mychannel"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Telegram.Token)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing token",
			content: "telegram:\n  chat_id: \"@c\"\n",
			errMsg:  "telegram.token is required",
		},
		{
			name:    "missing chat id",
			content: "telegram:\n  token: \"t\"\n",
			errMsg:  "telegram.chat_id is required",
		},
		{
			name:    "inverted dispatch delays",
			content: "telegram:\n  token: \"t\"\n  chat_id: \"@c\"\ndispatch:\n  delay_min: 10s\n  delay_max: 5s\n",
			errMsg:  "delay_max must be >= delay_min",
		},
		{
			name:    "bad cold start policy",
			content: "telegram:\n  token: \"t\"\n  chat_id: \"@c\"\nnovelty:\n  cold_start: everything\n",
			errMsg:  "novelty.cold_start",
		},
		{
			name:    "bad state backend",
			content: "telegram:\n  token: \"t\"\n  chat_id: \"@c\"\nstate:\n  backend: redis\n",
			errMsg:  "state.backend",
		},
		{
			name:    "tiny novelty window",
			content: "telegram:\n  token: \"t\"\n  chat_id: \"@c\"\nnovelty:\n  window: 5m\n",
			errMsg:  "novelty.window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestGetServerConfig(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "t"
  chat_id: "@c"
server:
  enabled: true
  listen: ":9090"
  timeout: 15s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 15*time.Second, timeout)
}
