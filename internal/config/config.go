// Package config loads the persona configuration: cycle bounds, safety
// thresholds, and the generation endpoint. Defaults come from the per-package
// Default*Config constructors; a YAML file overrides them field by field.
package config

// #region imports
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sigmaris-os/persona-core/internal/machine"
	"github.com/sigmaris-os/persona-core/internal/safety"
)

// #endregion imports

// #region types

// LLMConfig points at the OpenAI-compatible generation endpoint.
type LLMConfig struct {
	// APIKeyEnv names the environment variable holding the key, so the key
	// itself never lands in a config file.
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
}

// Config is the full persona configuration.
type Config struct {
	DBPath  string                 `yaml:"db_path"`
	Machine machine.Config         `yaml:"machine"`
	Safety  safety.EvaluatorConfig `yaml:"safety"`
	LLM     LLMConfig              `yaml:"llm"`
}

// #endregion types

// #region defaults

// Default returns the production configuration.
func Default() Config {
	return Config{
		DBPath:  "persona.db",
		Machine: machine.DefaultConfig(),
		Safety:  safety.DefaultEvaluatorConfig(),
		LLM: LLMConfig{
			APIKeyEnv: "OPENAI_API_KEY",
			Model:     "gpt-4o-mini",
		},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML file over the defaults. An empty path returns defaults
// unchanged; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// APIKey resolves the generation API key from the configured environment
// variable. Empty when unset — callers decide whether that is fatal.
func (c Config) APIKey() string {
	if c.LLM.APIKeyEnv == "" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}

// #endregion load
