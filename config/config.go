// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration for the clip pipeline.
// Credentials are carried here and passed into components at
// construction; no component reads the environment on its own.
type Config struct {
	// TelegramToken is the pre-issued bot credential for the messaging API.
	TelegramToken string `json:"telegram_token"`
	// HFToken is the optional Hugging Face inference credential.
	// When empty the analysis collaborator is skipped entirely.
	HFToken string `json:"hf_token"`
	// YouTubeAPIKey is the optional YouTube Data API key used to enrich
	// status messages with video metadata. Empty disables the lookup.
	YouTubeAPIKey string `json:"youtube_api_key"`

	// YtdlpPath is the path to the yt-dlp executable (default: "yt-dlp")
	YtdlpPath string `json:"ytdlp_path"`
	// FFmpegPath is the path to the ffmpeg executable (default: "ffmpeg")
	FFmpegPath string `json:"ffmpeg_path"`
	// FFprobePath is the path to the ffprobe executable (default: "ffprobe")
	FFprobePath string `json:"ffprobe_path"`

	// WorkDir is the parent directory for per-run scratch directories.
	// Defaults to the system temp directory.
	WorkDir string `json:"work_dir"`

	// DownloadTimeout is the maximum time to wait for the media download.
	DownloadTimeout time.Duration `json:"download_timeout"`
	// TextTimeout bounds lightweight external calls (transcript,
	// analysis, text notifications).
	TextTimeout time.Duration `json:"text_timeout"`
	// MediaTimeout bounds the clip upload to the messaging API.
	MediaTimeout time.Duration `json:"media_timeout"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		YtdlpPath:       "yt-dlp",
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		WorkDir:         os.TempDir(),
		DownloadTimeout: 25 * time.Minute,
		TextTimeout:     30 * time.Second,
		MediaTimeout:    120 * time.Second,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from clipbot.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"clipbot.json",
		filepath.Join(os.Getenv("HOME"), ".config", "clipbot", "clipbot.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("HF_TOKEN"); v != "" {
		c.HFToken = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("CLIPBOT_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("CLIPBOT_FFMPEG_PATH"); v != "" {
		c.FFmpegPath = v
	}
	if v := os.Getenv("CLIPBOT_FFPROBE_PATH"); v != "" {
		c.FFprobePath = v
	}
	if v := os.Getenv("CLIPBOT_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("CLIPBOT_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DownloadTimeout = d
		}
	}
	if v := os.Getenv("CLIPBOT_TEXT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.TextTimeout = d
		}
	}
	if v := os.Getenv("CLIPBOT_MEDIA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MediaTimeout = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram_token is required")
	}
	if c.YtdlpPath == "" {
		return fmt.Errorf("ytdlp_path must not be empty")
	}
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg_path must not be empty")
	}
	if c.FFprobePath == "" {
		return fmt.Errorf("ffprobe_path must not be empty")
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download_timeout must be positive")
	}
	if c.TextTimeout <= 0 {
		return fmt.Errorf("text_timeout must be positive")
	}
	if c.MediaTimeout <= 0 {
		return fmt.Errorf("media_timeout must be positive")
	}
	return nil
}
