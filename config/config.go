package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the background and page contexts need.
type Config struct {
	ServerAddr string          `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	LLM        *LLMConfig      `json:"llm,omitempty" yaml:"llm,omitempty"`
	Settings   SettingsConfig  `json:"settings" yaml:"settings"`
	UI         UIConfig        `json:"ui" yaml:"ui"`
	Selection  SelectionConfig `json:"selection" yaml:"selection"`
}

// LLMConfig 描述补全服务；api key 不在这里，由 settings store 提供。
type LLMConfig struct {
	Provider    string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxTokens   int64    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// SettingsConfig selects the settings store backend.
type SettingsConfig struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

type UIConfig struct {
	DebounceMS int `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty"`
	ToastMS    int `json:"toast_ms,omitempty" yaml:"toast_ms,omitempty"`
}

type SelectionConfig struct {
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	BrowserURL string `json:"browser_url,omitempty" yaml:"browser_url,omitempty"`
}

const (
	DefaultServerAddr  = "127.0.0.1:8787"
	DefaultProvider    = "openai"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultDebounce    = 100 * time.Millisecond
	DefaultToast       = 3 * time.Second
)

// Default returns a config with every default applied.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a JSON or YAML config from disk. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the runtime cannot serve.
func (c Config) Validate() error {
	if c.LLM == nil {
		return fmt.Errorf("llm config missing")
	}
	switch c.LLM.Provider {
	case "openai", "mock":
	case "deepseek":
		// DeepSeek 走 OpenAI 兼容接口，需要 base_url。
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	switch c.Settings.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("settings backend %s not supported", c.Settings.Backend)
	}
	switch c.Selection.Source {
	case "primary", "browser":
	default:
		return fmt.Errorf("selection source %s not supported", c.Selection.Source)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.Temperature == nil {
		t := DefaultTemperature
		c.LLM.Temperature = &t
	}
	if c.Settings.Backend == "" {
		c.Settings.Backend = "file"
	}
	if c.Settings.Path == "" && c.Settings.Backend != "memory" {
		c.Settings.Path = defaultSettingsPath(c.Settings.Backend)
	}
	if c.UI.DebounceMS <= 0 {
		c.UI.DebounceMS = int(DefaultDebounce / time.Millisecond)
	}
	if c.UI.ToastMS <= 0 {
		c.UI.ToastMS = int(DefaultToast / time.Millisecond)
	}
	if c.Selection.Source == "" {
		c.Selection.Source = "primary"
	}
}

// Debounce is the window that coalesces keyboard command bursts.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMS) * time.Millisecond
}

// ToastDuration is how long a notification stays up.
func (c Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastMS) * time.Millisecond
}

func defaultSettingsPath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "settings.json"
	if backend == "sqlite" {
		name = "settings.db"
	}
	return filepath.Join(dir, "grammar-enhancer", name)
}
