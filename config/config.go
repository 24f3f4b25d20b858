package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gemini GeminiConfig `yaml:"gemini"`
	Veo    VeoConfig    `yaml:"veo"`
	Music  MusicConfig  `yaml:"music"`
	Upload UploadConfig `yaml:"upload"`
	Paths  PathsConfig  `yaml:"paths"`
}

type GeminiConfig struct {
	Model             string  `yaml:"model"`
	Temperature       float64 `yaml:"temperature"`
	IdeaMaxTokens     int     `yaml:"idea_max_tokens"`
	MetadataMaxTokens int     `yaml:"metadata_max_tokens"`
}

type VeoConfig struct {
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	AspectRatio      string `yaml:"aspect_ratio"`
	DurationSeconds  int    `yaml:"duration_seconds"`
	PollIntervalSec  int    `yaml:"poll_interval_sec"`
	MaxWaitSec       int    `yaml:"max_wait_sec"`
	PersonGeneration string `yaml:"person_generation"`
}

type MusicConfig struct {
	Volume         float64 `yaml:"volume"`
	OriginalVolume float64 `yaml:"original_volume"`
	DefaultTrack   string  `yaml:"default_track"`
}

type UploadConfig struct {
	CategoryID string `yaml:"category_id"`
	Privacy    string `yaml:"privacy"`
}

type PathsConfig struct {
	Output        string `yaml:"output"`
	MusicDir      string `yaml:"music_dir"`
	HistoryFile   string `yaml:"history_file"`
	ClientSecrets string `yaml:"client_secrets"`
	TokenCache    string `yaml:"token_cache"`
}

// Load reads config.yaml and returns a Config struct with defaults applied
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.Temperature == 0 {
		c.Gemini.Temperature = 0.7
	}
	if c.Gemini.IdeaMaxTokens == 0 {
		c.Gemini.IdeaMaxTokens = 500
	}
	if c.Gemini.MetadataMaxTokens == 0 {
		c.Gemini.MetadataMaxTokens = 800
	}
	if c.Veo.Model == "" {
		c.Veo.Model = "veo-2.0-generate-001"
	}
	if c.Veo.AspectRatio == "" {
		c.Veo.AspectRatio = "9:16"
	}
	if c.Veo.DurationSeconds == 0 {
		c.Veo.DurationSeconds = 8
	}
	if c.Veo.PollIntervalSec == 0 {
		c.Veo.PollIntervalSec = 20
	}
	if c.Veo.MaxWaitSec == 0 {
		c.Veo.MaxWaitSec = 600
	}
	if c.Veo.PersonGeneration == "" {
		c.Veo.PersonGeneration = "allow_all"
	}
	if c.Music.Volume == 0 {
		c.Music.Volume = 0.3
	}
	if c.Music.OriginalVolume == 0 {
		c.Music.OriginalVolume = 0.7
	}
	if c.Music.DefaultTrack == "" {
		c.Music.DefaultTrack = "sugar_rush.mp3"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "26" // Howto & Style — best for cooking videos
	}
	if c.Upload.Privacy == "" {
		c.Upload.Privacy = "public"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "generated_videos"
	}
	if c.Paths.MusicDir == "" {
		c.Paths.MusicDir = "music_tracks"
	}
	if c.Paths.HistoryFile == "" {
		c.Paths.HistoryFile = "used_prompts.json"
	}
	if c.Paths.ClientSecrets == "" {
		c.Paths.ClientSecrets = "client_secrets.json"
	}
	if c.Paths.TokenCache == "" {
		c.Paths.TokenCache = "token.json"
	}
}
