package analyzer

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"medvoice-bot/internal/logger"
)

const (
	requestTimeout      = 30 * time.Second
	maxCompletionTokens = 800

	originalTextLimit = 500 // characters of transcript echoed on success
	failureTextLimit  = 200 // characters echoed in a degraded result
)

const systemPrompt = `Ты - опытный врач общей практики. Твоя задача:
1. Анализировать обращения пациентов
2. Выявлять симптомы и проблемы со здоровьем
3. Структурировать медицинскую информацию
4. Предлагать пути решения

Формат ответа:
📋 ТИП ОБРАЩЕНИЯ: [Симптомы/Диагностика/Лечение/Профилактика/Другое]

🎯 ОСНОВНАЯ ПРОБЛЕМА:
- Краткое описание ключевой проблемы со здоровьем

🩺 МЕДИЦИНСКИЕ ДЕТАЛИ (если указаны):
- Симптомы
- Длительность
- Локализация боли

🔍 ДОПОЛНИТЕЛЬНЫЕ ВОПРОСЫ:
1. ...
2. ...
3. ...

💡 РЕКОМЕНДАЦИИ ВРАЧУ:
- Какие обследования назначить
- Какие препараты рекомендовать
- Что уточнить у пациента

📞 ДАЛЬНЕЙШИЕ ШАГИ:
- Конкретные действия для постановки диагноза

Будь профессиональным, точным и полезным.`

// Result is the outcome of one analysis. Produced once per request,
// never cached or merged.
type Result struct {
	Analysis     string   `json:"analysis"`
	RequestType  string   `json:"request_type"`
	Keywords     []string `json:"keywords"`
	OriginalText string   `json:"original_text"`
}

// Analyzer produces structured medical reports from patient transcripts
// via a chat-completion endpoint.
type Analyzer struct {
	client      *openai.Client
	model       string
	temperature float32
}

func New(apiKey, baseURL, model string, temperature float32) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Analyzer{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

// Analyze sends one chat completion for patientText and assembles the
// result. Any failure yields a degraded result instead of an error;
// callers treat that as a soft failure.
func (a *Analyzer) Analyze(ctx context.Context, patientText string) Result {
	log := logger.New().WithField("module", "analyzer")

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(patientText)},
		},
		Temperature: a.temperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		log.WithError(err).Error("medical analysis failed")
		return failureResult(patientText)
	}
	if len(resp.Choices) == 0 {
		log.Error("analysis service returned no choices")
		return failureResult(patientText)
	}

	analysis := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.WithField("chars", len(analysis)).Info("analysis received")

	return Result{
		Analysis:     analysis,
		RequestType:  Classify(patientText),
		Keywords:     ExtractKeywords(patientText),
		OriginalText: ellipsize(patientText, originalTextLimit),
	}
}

func buildUserPrompt(patientText string) string {
	return "Пациент обратился с жалобой/вопросом:\n\n\"" + patientText + "\"\n\nПроанализируй это обращение по указанной структуре."
}

func failureResult(patientText string) Result {
	runes := []rune(patientText)
	if len(runes) > failureTextLimit {
		patientText = string(runes[:failureTextLimit])
	}
	return Result{
		Analysis:     "Не удалось проанализировать обращение.",
		RequestType:  "Не определен",
		Keywords:     []string{},
		OriginalText: patientText,
	}
}

// ellipsize truncates s to limit characters, appending "..." when
// anything was cut.
func ellipsize(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
