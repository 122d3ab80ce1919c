package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ramana-ai/ramana/internal/file"
)

var defaultConfig = Config{
	APIHost:        "https://router.huggingface.co/v1",
	APIToken:       "",
	RequestTimeout: 60,
	DefaultModel:   "mistralai/Mistral-7B-Instruct-v0.2:featherless-ai",
	Models: []string{
		"mistralai/Mistral-7B-Instruct-v0.2:featherless-ai",
		"mistralai/Mistral-7B-Instruct-v0.3:featherless-ai",
		"Qwen/Qwen2.5-72B-Instruct:featherless-ai",
	},
	MaxTokens:       256,
	Temperature:     0.7,
	TopP:            0.95,
	HistoryBackend:  "file",
	HistoryFile:     "~/.ramana/chat_history.json",
	HistoryDatabase: "~/.ramana/chat_history.db",
	SessionFile:     "~/.ramana/session.json",
	AuthURL:         "",
	AuthKey:         "",
}

// Config holds configuration for the ramana tool.
type Config struct {
	// The inference router and its bearer token.
	APIHost        string `json:"api_host"`
	APIToken       string `json:"api_token"`
	RequestTimeout int    `json:"request_timeout"`

	// Models the user can pick from.
	DefaultModel string   `json:"default_model"`
	Models       []string `json:"models"`

	// Fixed generation parameters.
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`

	// Conversation history persistence. Backend is "file" or "sqlite".
	HistoryBackend  string `json:"history_backend"`
	HistoryFile     string `json:"history_file"`
	HistoryDatabase string `json:"history_database"`

	// Identity provider.
	AuthURL     string `json:"auth_url"`
	AuthKey     string `json:"auth_key"`
	SessionFile string `json:"session_file"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}

	// Secrets may be supplied through the environment (or a .env file
	// loaded by main) instead of the config file.
	if token := os.Getenv("HF_TOKEN"); token != "" {
		config.APIToken = token
	}
	if url := os.Getenv("RAMANA_AUTH_URL"); url != "" {
		config.AuthURL = url
	}
	if key := os.Getenv("RAMANA_AUTH_KEY"); key != "" {
		config.AuthKey = key
	}

	for _, p := range []*string{&config.HistoryFile, &config.HistoryDatabase, &config.SessionFile} {
		expanded, err := file.ExpandPath(*p)
		if err != nil {
			return nil, errors.Wrap(err, "expanding path")
		}
		*p = expanded
	}
	return config, nil
}

// HasModel returns true if the given model is configured.
func (c *Config) HasModel(model string) bool {
	for _, m := range c.Models {
		if m == model {
			return true
		}
	}
	return false
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
