package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"medvoice-bot/internal/logger"
)

var (
	// ErrNoSpeech means the service answered but produced no transcript:
	// the response body had no usable "result" field.
	ErrNoSpeech = errors.New("no speech recognized")
	// ErrFileTooLarge means the audio exceeds the service size limit;
	// no network call is made.
	ErrFileTooLarge = errors.New("audio file too large")
)

const (
	maxFileSize    = 10 << 20 // 10 MB service limit
	requestTimeout = 30 * time.Second
	contentType    = "audio/x-pcm;bit=16;rate=16000"
)

type recognizeResponse struct {
	Result *string `json:"result"`
}

// Client is the SaluteSpeech recognition client. Each call is a single
// POST with the raw PCM bytes as body; there is no retry.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

func NewClient(apiURL, token string) *Client {
	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Recognize sends the WAV file at audioPath to the recognition service
// and returns the transcript. Errors distinguish transport failures
// from ErrNoSpeech and ErrFileTooLarge.
func (c *Client) Recognize(ctx context.Context, audioPath string) (string, error) {
	log := logger.New().WithField("module", "transcription")

	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("%w: %.2f MB", ErrFileTooLarge, float64(info.Size())/(1<<20))
	}

	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(audioData))
	if err != nil {
		return "", fmt.Errorf("build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", uuid.New().String())
	req.Header.Set("Accept", "application/json")

	log.WithField("bytes", len(audioData)).Info("sending audio to recognition service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("recognition service status %d: %s", resp.StatusCode, string(body))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("json decode error: %v body=%s", err, string(body))
	}
	if parsed.Result == nil {
		return "", fmt.Errorf("%w: no result field in response", ErrNoSpeech)
	}

	text := strings.TrimSpace(*parsed.Result)
	if text == "" {
		return "", ErrNoSpeech
	}

	log.WithField("chars", len(text)).Info("speech recognized")
	return text, nil
}
