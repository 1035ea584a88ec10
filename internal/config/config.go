// Package config loads the service-level configuration recognized by the
// engine: the run timeout, which backend implementation each
// action method should bind to, and the reserved seed field names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeedFieldNames is the default reserved seed field set: the text selection and its decorated form.
var DefaultSeedFieldNames = []string{"paragraph", "decorated_paragraph"}

// DefaultRunTimeoutSeconds mirrors the original service's default run
// budget.
const DefaultRunTimeoutSeconds = 30.0

// Config is the recognized set of options.
type Config struct {
	RunTimeoutSeconds float64  `yaml:"run_timeout_seconds"`
	CompletionBackend string   `yaml:"completion_backend"`
	SpeechBackend     string   `yaml:"speech_backend"`
	ImageBackend      string   `yaml:"image_backend"`
	SeedFieldNames    []string `yaml:"seed_field_names"`
}

// Default returns a Config with the documented defaults filled in.
func Default() Config {
	return Config{
		RunTimeoutSeconds: DefaultRunTimeoutSeconds,
		SeedFieldNames:    append([]string(nil), DefaultSeedFieldNames...),
	}
}

// Load reads a YAML configuration document from path, filling in any
// field left zero-valued with its default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if parsed.RunTimeoutSeconds > 0 {
		cfg.RunTimeoutSeconds = parsed.RunTimeoutSeconds
	}
	if parsed.CompletionBackend != "" {
		cfg.CompletionBackend = parsed.CompletionBackend
	}
	if parsed.SpeechBackend != "" {
		cfg.SpeechBackend = parsed.SpeechBackend
	}
	if parsed.ImageBackend != "" {
		cfg.ImageBackend = parsed.ImageBackend
	}
	if len(parsed.SeedFieldNames) > 0 {
		cfg.SeedFieldNames = parsed.SeedFieldNames
	}
	return cfg, nil
}
