package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.YtdlpPath != "yt-dlp" {
		t.Errorf("expected default ytdlp path, got %q", cfg.YtdlpPath)
	}
	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("expected default ffmpeg path, got %q", cfg.FFmpegPath)
	}
	if cfg.TextTimeout != 30*time.Second {
		t.Errorf("expected 30s text timeout, got %v", cfg.TextTimeout)
	}
	if cfg.MediaTimeout != 120*time.Second {
		t.Errorf("expected 120s media timeout, got %v", cfg.MediaTimeout)
	}
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing telegram token")
	}

	cfg.TelegramToken = "123456:abc"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTimeouts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero download timeout", func(c *Config) { c.DownloadTimeout = 0 }},
		{"negative text timeout", func(c *Config) { c.TextTimeout = -time.Second }},
		{"zero media timeout", func(c *Config) { c.MediaTimeout = 0 }},
		{"empty ytdlp path", func(c *Config) { c.YtdlpPath = "" }},
		{"empty ffmpeg path", func(c *Config) { c.FFmpegPath = "" }},
		{"empty ffprobe path", func(c *Config) { c.FFprobePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TelegramToken = "123456:abc"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("HF_TOKEN", "hf-token")
	t.Setenv("CLIPBOT_YTDLP_PATH", "/opt/yt-dlp")
	t.Setenv("CLIPBOT_TEXT_TIMEOUT", "10s")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.TelegramToken != "env-token" {
		t.Errorf("expected env token, got %q", cfg.TelegramToken)
	}
	if cfg.HFToken != "hf-token" {
		t.Errorf("expected hf token, got %q", cfg.HFToken)
	}
	if cfg.YtdlpPath != "/opt/yt-dlp" {
		t.Errorf("expected env ytdlp path, got %q", cfg.YtdlpPath)
	}
	if cfg.TextTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.TextTimeout)
	}
}

func TestLoadFromEnvIgnoresInvalidDuration(t *testing.T) {
	t.Setenv("CLIPBOT_TEXT_TIMEOUT", "not-a-duration")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.TextTimeout != 30*time.Second {
		t.Errorf("expected default kept, got %v", cfg.TextTimeout)
	}
}
