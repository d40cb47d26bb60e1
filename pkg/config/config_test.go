package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 11, cfg.BoardSize)
	assert.Zero(t, cfg.InitialTime)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":           "9000",
		"DEBUG":          "true",
		"BOARD_SIZE":     "13",
		"INITIAL_TIME":   "300",
		"CLOCK_INTERVAL": "250ms",
		"BLUE_PLAYER":    "alice",
		"RED_PLAYER":     "RandomBot",
		"API_KEYS":       " k1:alice , k2:RandomBot,, ",
		"FRONTEND_PATH":  "http://localhost:3000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 13, cfg.BoardSize)
	assert.Equal(t, 300*time.Second, cfg.InitialTime)
	assert.Equal(t, 250*time.Millisecond, cfg.ClockInterval)
	assert.Equal(t, "RandomBot", cfg.RedName)
	assert.Equal(t, []string{"k1:alice", "k2:RandomBot"}, cfg.APIKeys)
	assert.Equal(t, "http://localhost:3000", cfg.AllowedOrigin)
}

func TestApplyEnv_Errors(t *testing.T) {
	for _, key := range []string{"DEBUG", "BOARD_SIZE", "QUEUE_CAPACITY", "INITIAL_TIME", "CLOCK_INTERVAL"} {
		t.Run(key, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(map[string]string{key: "not-a-value"}))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestApplyFlags_OverrideEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"PORT": "9000", "BOARD_SIZE": "7"})))
	require.NoError(t, cfg.ApplyFlags([]string{"-port", "7000", "-time", "2m", "-api-keys", "a:x,b:y"}))

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 7, cfg.BoardSize)
	assert.Equal(t, 2*time.Minute, cfg.InitialTime)
	assert.Equal(t, []string{"a:x", "b:y"}, cfg.APIKeys)

	assert.ErrorIs(t, cfg.ApplyFlags([]string{"-unknown"}), ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "small board", mutate: func(c *Config) { c.BoardSize = 2 }},
		{name: "large board", mutate: func(c *Config) { c.BoardSize = 256 }},
		{name: "negative time", mutate: func(c *Config) { c.InitialTime = -time.Second }},
		{name: "same names", mutate: func(c *Config) { c.RedName = c.BlueName }},
		{name: "empty name", mutate: func(c *Config) { c.BlueName = "" }},
		{name: "zero queue", mutate: func(c *Config) { c.QueueCapacity = 0 }},
		{name: "zero interval", mutate: func(c *Config) { c.ClockInterval = 0 }},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HEX_TEST_UNUSED=1\n"), 0o600))

	t.Setenv("BOARD_SIZE", "5")
	cfg, err := Load([]string{"-blue", "carol"}, path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BoardSize)
	assert.Equal(t, "carol", cfg.BlueName)

	_, err = Load(nil, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	t.Setenv("BOARD_SIZE", "1")
	_, err = Load(nil, path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
