package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudioFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(int64(size)))
	require.NoError(t, f.Close())
	return path
}

func TestRecognizeSuccess(t *testing.T) {
	var gotContentType, gotAuth, gotRequestID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"result": "  болит голова третий день  "}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	text, err := c.Recognize(context.Background(), writeAudioFile(t, 2048))
	require.NoError(t, err)

	assert.Equal(t, "болит голова третий день", text)
	assert.Equal(t, "audio/x-pcm;bit=16;rate=16000", gotContentType)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestRecognizeFreshRequestIDPerCall(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"result": "ок"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	path := writeAudioFile(t, 1024)
	_, err := c.Recognize(context.Background(), path)
	require.NoError(t, err)
	_, err = c.Recognize(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestRecognizeNoResultField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 200}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	_, err := c.Recognize(context.Background(), writeAudioFile(t, 1024))
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestRecognizeEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "   "}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	_, err := c.Recognize(context.Background(), writeAudioFile(t, 1024))
	assert.ErrorIs(t, err, ErrNoSpeech)
}

func TestRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	_, err := c.Recognize(context.Background(), writeAudioFile(t, 1024))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSpeech, "transport failure must stay distinguishable from empty result")
	assert.Contains(t, err.Error(), "500")
}

func TestRecognizeOversizedFileSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token")
	_, err := c.Recognize(context.Background(), writeAudioFile(t, maxFileSize+1))

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, int32(0), calls.Load(), "oversized file must be rejected before any network call")
}

func TestRecognizeMissingFile(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "test-token")
	_, err := c.Recognize(context.Background(), filepath.Join(t.TempDir(), "absent.wav"))
	assert.Error(t, err)
}
