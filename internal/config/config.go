package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config is the narration builder's fixed configuration record. The
// compiled-in defaults describe the standard demo build; a voiceover.json
// next to the binary and environment variables can override them, in that
// order. Values are passed through to the engines unvalidated.
type Config struct {
	ScriptPath string `json:"script_path" env:"VOICEOVER_SCRIPT"`
	OutputPath string `json:"output_path" env:"VOICEOVER_OUTPUT"`

	Engine  string `json:"engine" env:"VOICEOVER_ENGINE"`
	Voice   string `json:"voice" env:"VOICEOVER_VOICE"`
	RateWPM int    `json:"rate_wpm" env:"VOICEOVER_RATE_WPM"`

	PlayerCommand string `json:"player_command" env:"VOICEOVER_PLAYER"`
	Preview       bool   `json:"preview" env:"VOICEOVER_PREVIEW"`

	HistoryPath string `json:"history_path" env:"VOICEOVER_HISTORY"`

	// OpenAI (engine "openai" only)
	OpenAIAPIKey  string `json:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `json:"openai_base_url" env:"OPENAI_BASE_URL"` // Optional proxy

	Port string `json:"port" env:"PORT"`

	mu sync.RWMutex
}

const ConfigFile = "voiceover.json"

// Default returns the record the tool runs with when nothing overrides it.
func Default() *Config {
	return &Config{
		ScriptPath:    "narration/demo-script.txt",
		OutputPath:    "narration/demo-voiceover.m4a",
		Engine:        "system",
		Voice:         "Daniel",
		RateWPM:       175,
		PlayerCommand: "afplay",
		Preview:       true,
		HistoryPath:   "narration/history.db",
		Port:          "8080",
	}
}

// LoadConfig never fails: a missing or unreadable file and malformed
// overrides fall back to whatever was already set. The CLI's error
// surface is the build itself, not configuration plumbing.
func LoadConfig() *Config {
	cfg := Default()

	// Try loading from file first
	if file, err := os.ReadFile(ConfigFile); err == nil {
		json.Unmarshal(file, cfg)
	}

	// Env vars override both defaults and file values
	env.Parse(cfg)

	return cfg
}

func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigFile, data, 0644)
}
