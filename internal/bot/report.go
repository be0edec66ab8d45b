package bot

import (
	"fmt"
	"strings"

	"medvoice-bot/internal/analyzer"
)

// formatReport renders the analysis result as the reply sent to the
// sender. The narrative is capped at maxSummaryLength characters.
func formatReport(res analyzer.Result, maxSummaryLength int) string {
	narrative := res.Analysis
	if runes := []rune(narrative); maxSummaryLength > 0 && len(runes) > maxSummaryLength {
		narrative = string(runes[:maxSummaryLength]) + "..."
	}

	return fmt.Sprintf(
		"📋 **АНАЛИЗ ОБРАЩЕНИЯ ПАЦИЕНТА**\n\n"+
			"%s\n\n"+
			"🔍 **Ключевые слова:** %s\n"+
			"📊 **Тип обращения:** %s\n\n"+
			"🎤 **Распознанный текст (фрагмент):**\n_%s_",
		narrative,
		strings.Join(res.Keywords, ", "),
		res.RequestType,
		res.OriginalText,
	)
}
