package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the optional file-based configuration for the gateway. It
// covers defaults only; credentials always come from a CredentialSource.
type Settings struct {
	// DefaultModel overrides the built-in default model constant.
	DefaultModel string `yaml:"default_model,omitempty"`

	// AuthMode is the default identity strategy for new sessions.
	AuthMode AuthMode `yaml:"auth_mode,omitempty"`

	// TimeoutSeconds bounds each backend request. Zero keeps client defaults.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// GeminiBaseURL overrides the standard host, e.g. for proxies.
	GeminiBaseURL string `yaml:"gemini_base_url,omitempty"`

	// OpenAIBaseURL overrides the chat-completion host.
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty"`
}

// Timeout returns the configured request timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ResolveOptions builds resolver inputs from the settings, using the file's
// default model as the requested model when the caller supplies none.
func (s *Settings) ResolveOptions(model string) ResolveOptions {
	if model == "" {
		model = s.DefaultModel
	}
	return ResolveOptions{
		Model:    model,
		AuthMode: s.AuthMode,
	}
}

// LoadSettings parses a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if settings.AuthMode != "" && !settings.AuthMode.Known() {
		return nil, fmt.Errorf("unknown auth mode in settings: %s", settings.AuthMode)
	}
	return &settings, nil
}
