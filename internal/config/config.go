package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete kontor configuration
type Config struct {
	LLM  LLMConfig  `yaml:"llm"`
	Host HostConfig `yaml:"host"`
}

// LLMConfig describes the model endpoint and the tool-calling
// convention to use with it
type LLMConfig struct {
	BaseURL       string  `yaml:"base_url"`       // empty = default OpenAI endpoint
	APIKey        string  `yaml:"api_key"`        // supports ${VAR} expansion
	Model         string  `yaml:"model"`          // model name
	Temperature   float32 `yaml:"temperature"`    // sampling temperature
	MaxTokens     int     `yaml:"max_tokens"`     // response token cap
	ToolCallMode  string  `yaml:"tool_call_mode"` // "structured" or "inline"
	ContextWindow int     `yaml:"context_window"` // history entries per model call
}

// HostConfig describes how the chat client spawns its tool host
type HostConfig struct {
	Command string            `yaml:"command"` // executable to run
	Args    []string          `yaml:"args"`    // command arguments
	Env     map[string]string `yaml:"env"`     // extra env vars, ${VAR} supported
}

// Load reads and parses the YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config with fallback to default locations.
// Checks ./kontor.yaml, ./configs/kontor.yaml, ~/.config/kontor/kontor.yaml
// and /etc/kontor/kontor.yaml; a missing config is not an error.
func LoadWithDefaults() (*Config, error) {
	locations := []string{
		"./kontor.yaml",
		"./configs/kontor.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "kontor", "kontor.yaml"))
	}

	locations = append(locations, "/etc/kontor/kontor.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	return &Config{}, nil
}

// Validate checks config correctness
func (c *Config) Validate() error {
	switch c.LLM.ToolCallMode {
	case "", "structured", "inline":
	default:
		return fmt.Errorf("tool_call_mode must be 'structured' or 'inline', got %q", c.LLM.ToolCallMode)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}

	if c.LLM.ContextWindow < 0 {
		return fmt.Errorf("context_window cannot be negative")
	}

	if len(c.Host.Args) > 0 && c.Host.Command == "" {
		return fmt.Errorf("host args given without a command")
	}

	return nil
}
