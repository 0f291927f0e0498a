package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"backend: sqlite\nlog_level: debug\npublic:\n  url: https://api.example.com\n  api_key: k123\n"), 0644)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NotNil(t, cfg.Public)
	assert.Equal(t, "https://api.example.com", cfg.Public.URL)
	assert.Equal(t, "k123", cfg.Public.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Backend)
	assert.Equal(t, BackendFile, cfg.BackendName())
	assert.Nil(t, cfg.Public)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{{bad yaml"), 0644)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: postgres\n"), 0644)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown backend "postgres"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"file", Config{Backend: BackendFile}, false},
		{"sqlite with public", Config{Backend: BackendSQLite, Public: &PublicConfig{URL: "http://x"}}, false},
		{"bad backend", Config{Backend: "redis"}, true},
		{"bad log level", Config{LogLevel: "trace"}, true},
		{"public without url", Config{Public: &PublicConfig{APIKey: "k"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Backend: BackendSQLite, Public: &PublicConfig{URL: "http://localhost:3000", APIKey: "k"}}

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	cfg := &Config{Backend: BackendFile}

	require.NoError(t, Save(dir, cfg))
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestSave_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Save(dir, &Config{Backend: "nope"}))
	assert.NoFileExists(t, filepath.Join(dir, "config.yaml"))
}
