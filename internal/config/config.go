package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultSaluteURL   = "https://smartspeech.sber.ru/rest/v1/speech:recognize"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds process-wide settings loaded once from the environment.
// It is read-only after Load and passed by reference to collaborators.
type Config struct {
	TelegramToken string

	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	GroqTemperature float32

	SaluteToken string
	SaluteURL   string

	FFmpegPath  string
	FFprobePath string

	TempDir          string
	MaxAudioDuration int // seconds
	MaxSummaryLength int // characters of analysis narrative in the reply
	LogLevel         string
}

// Load builds the configuration from environment variables.
// It fails when any of the required credentials is missing, listing
// every missing variable in the error.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:      getEnv("GROQ_BASE_URL", defaultGroqBaseURL),
		GroqModel:        getEnv("GROQ_MODEL", "llama3-70b-8192"),
		GroqTemperature:  getEnvFloat("GROQ_TEMPERATURE", 0.7),
		SaluteToken:      os.Getenv("SALUTE_SPEECH_TOKEN"),
		SaluteURL:        getEnv("SALUTE_SPEECH_URL", defaultSaluteURL),
		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:      getEnv("FFPROBE_PATH", "ffprobe"),
		TempDir:          getEnv("TEMP_DIR", "temp_audio"),
		MaxAudioDuration: getEnvInt("MAX_AUDIO_DURATION", 300),
		MaxSummaryLength: getEnvInt("MAX_SUMMARY_LENGTH", 1500),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var missing []string
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if cfg.SaluteToken == "" {
		missing = append(missing, "SALUTE_SPEECH_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
