package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"clipbot/analysis"
	"clipbot/clip"
	"clipbot/config"
	"clipbot/media"
	"clipbot/pipeline"
	"clipbot/telegram"
	"clipbot/youtube"
)

// runTimeout bounds the whole job, dominated by the media download.
const runTimeout = 30 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	videoURL, chatID := inputs()
	if videoURL == "" || chatID == "" {
		fmt.Fprintln(os.Stderr, "Usage: clipbot <youtube-url> <chat-id>")
		fmt.Fprintln(os.Stderr, "  (or set CLIPBOT_VIDEO_URL and CLIPBOT_CHAT_ID)")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipbot: %v\n", err)
		return 1
	}

	log := newLogger()

	notifier, err := telegram.NewNotifier(cfg.TelegramToken, log.Named("telegram"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipbot: %v\n", err)
		return 1
	}
	defer notifier.Close()
	notifier.SetTimeouts(cfg.TextTimeout, cfg.MediaTimeout)

	transcripts := youtube.NewTimedtextClient(cfg.TextTimeout)
	defer transcripts.Close()

	downloader := youtube.NewDownloader()
	downloader.Path = cfg.YtdlpPath
	downloader.Timeout = cfg.DownloadTimeout

	selector := clip.NewSelector()
	selector.Log = log.Named("clip")
	if cfg.HFToken != "" {
		analyzer, err := analysis.New(cfg.HFToken, "", cfg.TextTimeout)
		if err != nil {
			log.Warn("analysis disabled", "error", err)
		} else {
			defer analyzer.Close()
			selector.Analyzer = analyzer
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	p := &pipeline.Pipeline{
		Transcripts: transcripts,
		Downloader:  downloader,
		Selector:    selector,
		Assembler:   media.NewAssembler(cfg.FFmpegPath, cfg.FFprobePath, log.Named("media")),
		Notifier:    notifier,
		WorkDir:     cfg.WorkDir,
		Log:         log.Named("pipeline"),
	}
	if cfg.YouTubeAPIKey != "" {
		meta, err := youtube.NewMetadataClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn("metadata lookup disabled", "error", err)
		} else {
			p.Metadata = meta
		}
	}

	result, err := p.Run(ctx, videoURL, chatID)
	if err != nil {
		log.Error("run failed", "error", err)
		return 1
	}

	// Delivery is best-effort: a clip that could not be uploaded still
	// counts as a completed run.
	log.Info("run finished",
		"state", result.State,
		"reason", result.Reason,
		"delivered", result.Delivered,
	)
	return 0
}

// inputs reads the trigger payload from arguments, falling back to the
// environment for containerized runs.
func inputs() (videoURL, chatID string) {
	args := os.Args[1:]
	if len(args) > 0 {
		videoURL = args[0]
	}
	if len(args) > 1 {
		chatID = args[1]
	}
	if videoURL == "" {
		videoURL = os.Getenv("CLIPBOT_VIDEO_URL")
	}
	if chatID == "" {
		chatID = os.Getenv("CLIPBOT_CHAT_ID")
	}
	return videoURL, chatID
}

func newLogger() hclog.Logger {
	level := hclog.LevelFromString(os.Getenv("CLIPBOT_LOG_LEVEL"))
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "clipbot",
		Level: level,
	})
}
