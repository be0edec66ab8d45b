package main

import (
	"os"

	"github.com/joho/godotenv"
	"medvoice-bot/internal/analyzer"
	"medvoice-bot/internal/audio"
	"medvoice-bot/internal/bot"
	"medvoice-bot/internal/config"
	"medvoice-bot/internal/logger"
	"medvoice-bot/internal/transcription"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "medvoice-bot").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.Info("configuration is valid")

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		log.WithError(err).WithField("temp_dir", cfg.TempDir).Fatal("failed to create temp directory")
	}

	if err := audio.CheckFFmpeg(cfg.FFmpegPath); err != nil {
		log.WithError(err).Warn("ffmpeg unavailable, audio conversion will fail")
	}

	processor := audio.NewProcessor(cfg.FFmpegPath, cfg.FFprobePath)
	recognizer := transcription.NewClient(cfg.SaluteURL, cfg.SaluteToken)
	medAnalyzer := analyzer.New(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.GroqTemperature)

	b, err := bot.New(cfg, processor, recognizer, medAnalyzer)
	if err != nil {
		log.WithError(err).Fatal("failed to start bot")
	}

	b.Run()
}
