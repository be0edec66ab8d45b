package bot

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// maxMessageLength is the chunk boundary for long reports; below
	// Telegram's hard 4096-character limit.
	maxMessageLength = 4000
	chunkPause       = 500 * time.Millisecond
	sendMaxElapsed   = 15 * time.Second
)

// Sender delivers text messages to a chat.
type Sender interface {
	Send(chatID int64, text string) error
	SendReport(chatID int64, text string) error
}

// telegramSender sends messages through the bot API, retrying transient
// delivery failures with exponential backoff. Pipeline-stage remote
// calls are never retried; only outbound delivery is.
type telegramSender struct {
	api *tgbotapi.BotAPI
}

func newTelegramSender(api *tgbotapi.BotAPI) *telegramSender {
	return &telegramSender{api: api}
}

func (s *telegramSender) Send(chatID int64, text string) error {
	return s.send(chatID, text, false)
}

// SendReport sends a formatted report, chunked at the 4000-character
// boundary with a short pause between chunks to respect rate limits.
func (s *telegramSender) SendReport(chatID int64, text string) error {
	chunks := chunkMessage(text, maxMessageLength)
	for i, chunk := range chunks {
		if err := s.send(chatID, chunk, true); err != nil {
			return err
		}
		if i < len(chunks)-1 {
			time.Sleep(chunkPause)
		}
	}
	return nil
}

func (s *telegramSender) send(chatID int64, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = sendMaxElapsed
	return backoff.Retry(func() error {
		_, err := s.api.Send(msg)
		return err
	}, bo)
}

// chunkMessage splits text into chunks of at most size characters.
// Splitting is by rune so multi-byte text never breaks mid-character.
func chunkMessage(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
