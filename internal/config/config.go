package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when no path is given.
const DefaultPath = "nuex.yaml"

// Config is the configuration of the nuex CLI.
type Config struct {
	Strict   bool           `mapstructure:"strict"`
	LogLevel string         `mapstructure:"log_level"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Journal  JournalConfig  `mapstructure:"journal"`
	State    map[string]any `mapstructure:"state"`
}

// HTTPConfig configures the inspector server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig configures the commit journal. An empty Addr keeps the journal in memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"`
	MaxLen   int64  `mapstructure:"max_len"`
}

// JournalConfig transforms records before they reach the journal backend.
type JournalConfig struct {
	// Redact lists regular expressions; payload keys matching one are masked.
	Redact []string `mapstructure:"redact"`
	// EncryptionKey is a base64 AES-256 key sealing record payloads. Empty disables it.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Strict:   true,
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		Redis:    RedisConfig{Stream: "nuex:commits"},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return Decode(raw)
}

// Decode applies raw settings over the defaults. Unknown keys are errors.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
