package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		resp := map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama3-70b-8192",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeSuccess(t *testing.T) {
	var captured map[string]any
	srv := completionServer(t, "  📋 ТИП ОБРАЩЕНИЯ: Симптомы\nотчет  ", &captured)
	defer srv.Close()

	a := New("test-key", srv.URL, "llama3-70b-8192", 0.7)
	text := "у меня болит голова и температура"
	res := a.Analyze(context.Background(), text)

	assert.Equal(t, "📋 ТИП ОБРАЩЕНИЯ: Симптомы\nотчет", res.Analysis)
	assert.Equal(t, "Симптомы", res.RequestType)
	assert.Equal(t, []string{"температур", "голова"}, res.Keywords)
	assert.Equal(t, text, res.OriginalText)

	require.Equal(t, "llama3-70b-8192", captured["model"])
	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	system := msgs[0].(map[string]any)
	user := msgs[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "врач общей практики")
	assert.Equal(t, "user", user["role"])
	assert.Contains(t, user["content"], text)
}

func TestAnalyzeTruncatesLongTranscript(t *testing.T) {
	srv := completionServer(t, "отчет", nil)
	defer srv.Close()

	a := New("test-key", srv.URL, "llama3-70b-8192", 0.7)
	text := strings.Repeat("ж", 600)
	res := a.Analyze(context.Background(), text)

	runes := []rune(res.OriginalText)
	assert.Len(t, runes, 503)
	assert.True(t, strings.HasSuffix(res.OriginalText, "..."))
}

func TestAnalyzeDegradedResultOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New("test-key", srv.URL, "llama3-70b-8192", 0.7)
	text := strings.Repeat("б", 250)
	res := a.Analyze(context.Background(), text)

	assert.Equal(t, "Не удалось проанализировать обращение.", res.Analysis)
	assert.Equal(t, "Не определен", res.RequestType)
	assert.Empty(t, res.Keywords)
	assert.Len(t, []rune(res.OriginalText), 200)
}

func TestAnalyzeDegradedResultOnUnreachableService(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := New("test-key", url, "llama3-70b-8192", 0.7)
	res := a.Analyze(context.Background(), "болит голова")

	assert.Equal(t, "Не определен", res.RequestType)
	assert.Equal(t, "болит голова", res.OriginalText)
}
