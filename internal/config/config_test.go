package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/nuex/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "nuex.yaml", `
strict: false
log_level: debug
http:
  addr: ":9090"
redis:
  addr: localhost:6379
  db: "2"
  max_len: 500
journal:
  redact: [password, "^ssn"]
state:
  idCounter: 10
  todos:
    - text: milk
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(500), cfg.Redis.MaxLen)
	assert.Equal(t, []string{"password", "^ssn"}, cfg.Journal.Redact)
	assert.Empty(t, cfg.Journal.EncryptionKey)
	// unset keys keep their defaults
	assert.Equal(t, "nuex:commits", cfg.Redis.Stream)
	assert.Equal(t, 10, cfg.State["idCounter"])
	assert.Equal(t, []any{map[string]any{"text": "milk"}}, cfg.State["todos"])
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "nuex.json", `{"strict": true, "http": {"addr": "127.0.0.1:1"}}`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "127.0.0.1:1", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "syntax", file: "bad.yaml", content: "strict: [unclosed"},
		{name: "unknown key", file: "typo.yaml", content: "stirct: true"},
		{name: "wrong type", file: "type.yaml", content: "http: 12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}
