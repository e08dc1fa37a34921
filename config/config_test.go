package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) List() []string {
	var envs []string
	for k, v := range m {
		envs = append(envs, k+"="+v)
	}
	return envs
}

func (m mapEnv) Get(key string) string { return m[key] }

func (m mapEnv) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m mapEnv) Unset(key string) error {
	delete(m, key)
	return nil
}

var _ env.Repository = mapEnv{}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("", mapEnv{"HOME": "/home/ada"})
	require.NoError(t, err)

	assert.Equal(t, "https://fileshareb.onrender.com", c.Backend.URL)
	assert.Equal(t, int64(1048576), c.Upload.ChunkSize)
	assert.Equal(t, 0, c.Upload.Retries)
	assert.Equal(t, PrefsModeFile, c.Prefs.Mode)
	assert.Equal(t, "/home/ada/.config/qrshare/prefs.yaml", c.Prefs.Path)
	assert.False(t, c.Analytics.Enabled)
}

func TestLoad_XDGConfigHome(t *testing.T) {
	c, err := Load("", mapEnv{"HOME": "/home/ada", "XDG_CONFIG_HOME": "/cfg"})
	require.NoError(t, err)
	assert.Equal(t, "/cfg/qrshare/prefs.yaml", c.Prefs.Path)
}

func TestLoad_FileThenEnv(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "qrshare.yaml")
	require.NoError(t, os.WriteFile(pth, []byte(`
backend:
  url: https://share.example.com/
upload:
  chunksize: 4096
  retries: 2
  excludes:
    - "*.tmp"
prefs:
  mode: redis
  redis:
    host: cache.internal
`), 0644))

	c, err := Load(pth, mapEnv{
		"HOME":                      "/home/ada",
		"QRSHARE_UPLOAD_RETRIES":    "3",
		"QRSHARE_ANALYTICS_ENABLED": "true",
		"UNRELATED":                 "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://share.example.com", c.Backend.URL)
	assert.Equal(t, int64(4096), c.Upload.ChunkSize)
	assert.Equal(t, 3, c.Upload.Retries)
	assert.Equal(t, []string{"*.tmp"}, c.Upload.Excludes)
	assert.Equal(t, PrefsModeRedis, c.Prefs.Mode)
	assert.Equal(t, "cache.internal", c.Prefs.Redis.Host)
	assert.Equal(t, 6379, c.Prefs.Redis.Port)
	assert.Equal(t, "qrshare:", c.Prefs.Redis.KeyPrefix)
	assert.True(t, c.Analytics.Enabled)

	uc := c.UploadConfig()
	assert.Equal(t, "https://share.example.com", uc.BackendURL)
	assert.Equal(t, int64(4096), uc.ChunkSize)
	assert.Equal(t, 3, uc.Retries)
}

func TestLoad_EnvValuesWithSpaces(t *testing.T) {
	prefsPath := "/Users/Ada Lovelace/Library/Application Support/qrshare/prefs.yaml"

	c, err := Load("", mapEnv{
		"HOME":                    "/Users/Ada Lovelace",
		"QRSHARE_PREFS_PATH":      prefsPath,
		"QRSHARE_UPLOAD_EXCLUDES": "*.tmp  .DS_Store",
	})
	require.NoError(t, err)

	assert.Equal(t, prefsPath, c.Prefs.Path)
	assert.Equal(t, []string{"*.tmp", ".DS_Store"}, c.Upload.Excludes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  mapEnv
	}{
		{name: "backend url", env: mapEnv{"HOME": "/h", "QRSHARE_BACKEND_URL": "notaurl"}},
		{name: "negative chunk size", env: mapEnv{"HOME": "/h", "QRSHARE_UPLOAD_CHUNKSIZE": "-1"}},
		{name: "too many retries", env: mapEnv{"HOME": "/h", "QRSHARE_UPLOAD_RETRIES": "50"}},
		{name: "prefs mode", env: mapEnv{"HOME": "/h", "QRSHARE_PREFS_MODE": "sqlite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("", tt.env)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoad_NoHome(t *testing.T) {
	_, err := Load("", mapEnv{})
	assert.ErrorContains(t, err, "configure prefs.path")

	c, err := Load("", mapEnv{"QRSHARE_PREFS_MODE": "memory"})
	require.NoError(t, err)
	assert.Equal(t, PrefsModeMemory, c.Prefs.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), mapEnv{"HOME": "/h"})
	assert.ErrorContains(t, err, "failed to stat config file")
}
