package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"medvoice-bot/internal/config"
	"medvoice-bot/internal/logger"
)

// Bot receives Telegram updates and drives the voice-message pipeline.
// Concurrency between requests belongs to the hosting layer: each
// update is handled in its own goroutine and requests share only the
// read-only configuration.
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	pipeline *pipeline
	cfg      *config.Config
	log      *logger.Logger
}

func New(cfg *config.Config, audio AudioProcessor, stt SpeechRecognizer, anl MedicalAnalyzer) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	sender := newTelegramSender(api)
	return &Bot{
		api:      api,
		sender:   sender,
		pipeline: newPipeline(audio, stt, anl, sender, cfg),
		cfg:      cfg,
		log:      logger.New(),
	}, nil
}

// Run starts long polling and blocks until the updates channel closes.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.WithField("bot", b.api.Self.UserName).Info("bot started, waiting for voice messages")

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithField("panic", r).WithField("chat_id", msg.Chat.ID).Error("message handler panicked")
			_ = b.sender.Send(msg.Chat.ID, msgGenericError)
		}
	}()

	if msg.From == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case msg.Voice != nil || msg.Audio != nil:
		b.handleAudioMessage(msg)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		_ = b.sender.SendReport(msg.Chat.ID, welcomeText)
	case "help":
		_ = b.sender.SendReport(msg.Chat.ID, helpText)
	case "status":
		_ = b.sender.SendReport(msg.Chat.ID, b.statusText())
	}
}

func (b *Bot) statusText() string {
	var sb strings.Builder
	sb.WriteString("🔍 **Проверка статуса сервисов...**\n\n")
	sb.WriteString(credentialLine("Telegram Bot Token", b.cfg.TelegramToken != ""))
	sb.WriteString(credentialLine("Groq API Key", b.cfg.GroqAPIKey != ""))
	sb.WriteString(credentialLine("SaluteSpeech Token", b.cfg.SaluteToken != ""))
	sb.WriteString("\nВсе сервисы готовы к работе! ✅")
	return sb.String()
}

func credentialLine(name string, present bool) string {
	if present {
		return "✅ " + name + "\n"
	}
	return "❌ " + name + "\n"
}

func (b *Bot) handleAudioMessage(msg *tgbotapi.Message) {
	var fileID, ext string
	switch {
	case msg.Voice != nil:
		fileID = msg.Voice.FileID
		ext = ".ogg"
	case msg.Audio != nil:
		fileID = msg.Audio.FileID
		ext = extensionFromName(msg.Audio.FileName)
	}

	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		b.log.WithField("error", err.Error()).Error("failed to resolve telegram file")
		_ = b.sender.Send(msg.Chat.ID, msgFileError)
		return
	}

	b.pipeline.Run(context.Background(), Request{
		ChatID:  msg.Chat.ID,
		UserID:  msg.From.ID,
		FileURL: file.Link(b.api.Token),
		Ext:     ext,
	})
}

// extensionFromName infers the artifact extension from an audio
// filename; .mp3 when the name carries none.
func extensionFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ".mp3"
	}
	return ext
}
