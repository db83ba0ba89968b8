package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RetrievalConfig holds connection details for the document-retrieval backend.
type RetrievalConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKeyEnv    string `yaml:"api_key_env"`
	DefaultScope string `yaml:"default_scope"`
	TimeoutSecs  int    `yaml:"timeout_secs"`
}

// WebSearchConfig holds connection details for the web-search backend.
// The feature is optional: with no key in the named env var, web search is
// skipped entirely.
type WebSearchConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Engine      string `yaml:"engine"`
	MaxResults  int    `yaml:"max_results"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CompletionConfig holds connection details for the language-model backend.
type CompletionConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	MaxTokens   int    `yaml:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IngestConfig configures document submission defaults.
type IngestConfig struct {
	DefaultMode string `yaml:"default_mode"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	WebSearch  WebSearchConfig  `yaml:"web_search"`
	Completion CompletionConfig `yaml:"completion"`
	Ingest     IngestConfig     `yaml:"ingest"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragaas/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragaas/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragaas", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Retrieval.BaseURL == "" {
		cfg.Retrieval.BaseURL = "https://api.ragie.ai"
	}
	if cfg.Retrieval.APIKeyEnv == "" {
		cfg.Retrieval.APIKeyEnv = "RAGIE_API_KEY"
	}
	if cfg.Retrieval.DefaultScope == "" {
		cfg.Retrieval.DefaultScope = "tutorial"
	}
	if cfg.Retrieval.TimeoutSecs == 0 {
		cfg.Retrieval.TimeoutSecs = 10
	}
	if cfg.WebSearch.BaseURL == "" {
		cfg.WebSearch.BaseURL = "https://serpapi.com"
	}
	if cfg.WebSearch.APIKeyEnv == "" {
		cfg.WebSearch.APIKeyEnv = "SERPAPI_API_KEY"
	}
	if cfg.WebSearch.Engine == "" {
		cfg.WebSearch.Engine = "google"
	}
	if cfg.WebSearch.MaxResults == 0 {
		cfg.WebSearch.MaxResults = 3
	}
	if cfg.WebSearch.TimeoutSecs == 0 {
		cfg.WebSearch.TimeoutSecs = 10
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "ANTHROPIC_API_KEY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "claude-3-sonnet-20240229"
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 1024
	}
	if cfg.Completion.TimeoutSecs == 0 {
		cfg.Completion.TimeoutSecs = 10
	}
	if cfg.Ingest.DefaultMode == "" {
		cfg.Ingest.DefaultMode = "fast"
	}
}
