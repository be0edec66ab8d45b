package transcription

import "strings"

// corrections are applied in order; later entries see the output of
// earlier ones.
var corrections = []struct{ from, to string }{
	{"к примеру", "например"},
	{"спасибо большое", "спасибо"},
	{"пожалуйста большое", "пожалуйста"},
}

// CleanText collapses runs of whitespace to single spaces and applies
// the fixed colloquialism substitutions. Idempotent on clean text.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.Join(strings.Fields(text), " ")
	for _, c := range corrections {
		cleaned = strings.ReplaceAll(cleaned, c.from, c.to)
	}
	return cleaned
}
