package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"medvoice-bot/internal/logger"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrFFmpegNotFound    = errors.New("ffmpeg not found")
)

const (
	downloadTimeout = 30 * time.Second
	ffmpegTimeout   = 300 * time.Second
	probeTimeout    = 30 * time.Second

	minDurationSec = 1.0
)

// supportedExtensions are the only input formats the decoder is invoked
// for. Anything else fails before ffmpeg runs.
var supportedExtensions = map[string]bool{
	".ogg": true,
	".oga": true,
	".mp3": true,
	".m4a": true,
	".wav": true,
}

// Processor downloads audio files and converts them to the canonical
// speech-recognition format: mono, 16 kHz, 16-bit PCM WAV.
type Processor struct {
	ffmpegPath  string
	ffprobePath string
	httpClient  *http.Client

	// probe reports the duration of an audio file in seconds. It is a
	// field so validation tests can run without ffprobe installed.
	probe func(path string) (float64, error)
}

func NewProcessor(ffmpegPath, ffprobePath string) *Processor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	p := &Processor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		httpClient:  &http.Client{Timeout: downloadTimeout},
	}
	p.probe = p.ffprobeDuration
	return p
}

// Download fetches url and writes the response body verbatim to dest.
func (p *Processor) Download(ctx context.Context, url, dest string) error {
	log := logger.New().WithField("module", "audio")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download audio: unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(dest)
		return fmt.Errorf("write audio file: %w", err)
	}

	log.WithField("file", dest).WithField("bytes", n).Info("audio downloaded")
	return nil
}

// Transcode converts input to a 16 kHz mono 16-bit PCM WAV at output.
// The codec is picked by file extension; unsupported extensions fail
// without invoking the decoder.
func (p *Processor) Transcode(ctx context.Context, input, output string) error {
	log := logger.New().WithField("module", "audio")

	ext := strings.ToLower(filepath.Ext(input))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	ffmpegCtx, cancel := context.WithTimeout(ctx, ffmpegTimeout)
	defer cancel()

	args := []string{
		"-y",
		"-i", input,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-acodec", "pcm_s16le",
		output,
	}
	cmd := exec.CommandContext(ffmpegCtx, p.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.WithField("args", strings.Join(args, " ")).Debug("running ffmpeg")

	if err := cmd.Run(); err != nil {
		os.Remove(output)
		if ffmpegCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out converting %s", input)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, p.ffmpegPath)
		}
		return fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	log.WithField("file", output).Info("audio converted")
	return nil
}

// Duration reports the length of an audio file in seconds.
func (p *Processor) Duration(path string) (float64, error) {
	return p.probe(path)
}

func (p *Processor) ffprobeDuration(path string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, stderr.String())
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return seconds, nil
}

// Validate checks that path exists and its duration is within
// [1s, maxDuration]. The message is user-facing in every branch.
func (p *Processor) Validate(path string, maxDuration int) (bool, string) {
	log := logger.New().WithField("module", "audio")

	if _, err := os.Stat(path); err != nil {
		return false, "Файл не существует"
	}

	duration, err := p.Duration(path)
	if err != nil {
		log.WithError(err).Error("duration probe failed")
		return false, "Не удалось определить длительность аудио"
	}

	if duration > float64(maxDuration) {
		return false, fmt.Sprintf("Аудио слишком длинное (%.1f сек). Максимум: %d сек", duration, maxDuration)
	}
	if duration < minDurationSec {
		return false, "Аудио слишком короткое"
	}

	return true, fmt.Sprintf("Аудио валидно, длительность: %.1f сек", duration)
}

// CheckFFmpeg verifies the ffmpeg binary is runnable.
func CheckFFmpeg(ffmpegPath string) error {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFFmpegNotFound, ffmpegPath)
		}
		return fmt.Errorf("ffmpeg check failed: %w", err)
	}
	return nil
}
