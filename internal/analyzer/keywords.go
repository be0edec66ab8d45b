package analyzer

import "strings"

// requestCategories are matched in order; the first category with any
// matching marker wins.
var requestCategories = []struct {
	label   string
	markers []string
}{
	{"Симптомы", []string{"бол", "боль", "температур", "тошнит", "кашель", "насморк"}},
	{"Диагностика", []string{"обследован", "анализ", "рентген", "узи", "диагноз"}},
	{"Лечение", []string{"леч", "таблетк", "укол", "мазь", "препарат"}},
	{"Профилактика", []string{"профилактик", "прививк", "здоровь", "предупред"}},
	{"Жалоба", []string{"жалоб", "проблем", "недовол", "плох", "ужасн"}},
}

const defaultCategory = "Консультация"

var medicalTerms = []string{
	"боль", "температур", "давлен", "сердц", "голова", "живот",
	"кашель", "насморк", "тошнот", "рвот", "аллерги", "инфекц",
	"препарат", "таблетк", "укол", "мазь", "анализ", "обследован",
}

const maxKeywords = 5

// Classify labels text with a coarse medical intent by case-insensitive
// substring match against the ordered category tables.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range requestCategories {
		for _, marker := range cat.markers {
			if strings.Contains(lower, marker) {
				return cat.label
			}
		}
	}
	return defaultCategory
}

// ExtractKeywords returns up to 5 medical vocabulary terms found in
// text, deduplicated, in vocabulary order.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	keywords := make([]string, 0, maxKeywords)
	seen := make(map[string]bool, maxKeywords)
	for _, term := range medicalTerms {
		if len(keywords) == maxKeywords {
			break
		}
		if seen[term] || !strings.Contains(lower, term) {
			continue
		}
		seen[term] = true
		keywords = append(keywords, term)
	}
	return keywords
}
