package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"medvoice-bot/internal/analyzer"
	"medvoice-bot/internal/config"
	"medvoice-bot/internal/logger"
	"medvoice-bot/internal/transcription"
)

// stage names the transitions of one request. The first failed
// transition is terminal; cleanup runs on every exit path.
type stage string

const (
	stageReceived    stage = "received"
	stageDownloaded  stage = "downloaded"
	stageValidated   stage = "validated"
	stageTranscoded  stage = "transcoded"
	stageTranscribed stage = "transcribed"
	stageAnalyzed    stage = "analyzed"
	stageReplied     stage = "replied"
)

// AudioProcessor downloads, validates and transcodes audio artifacts.
type AudioProcessor interface {
	Download(ctx context.Context, url, dest string) error
	Transcode(ctx context.Context, input, output string) error
	Validate(path string, maxDuration int) (bool, string)
}

// SpeechRecognizer converts a canonical WAV file into text.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audioPath string) (string, error)
}

// MedicalAnalyzer produces a structured analysis of a transcript.
// Failures surface as a degraded Result, never as an error.
type MedicalAnalyzer interface {
	Analyze(ctx context.Context, text string) analyzer.Result
}

// Request identifies one incoming voice/audio message.
type Request struct {
	ChatID  int64
	UserID  int64
	FileURL string
	Ext     string // extension of the original artifact, dot included
}

type pipeline struct {
	audio    AudioProcessor
	stt      SpeechRecognizer
	analyzer MedicalAnalyzer
	sender   Sender
	cfg      *config.Config

	now func() time.Time
}

func newPipeline(audio AudioProcessor, stt SpeechRecognizer, anl MedicalAnalyzer, sender Sender, cfg *config.Config) *pipeline {
	return &pipeline{
		audio:    audio,
		stt:      stt,
		analyzer: anl,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run drives one request through the linear pipeline:
// download → validate → transcode → transcribe → analyze → reply.
func (p *pipeline) Run(ctx context.Context, req Request) {
	audioID := fmt.Sprintf("%d_%s", req.UserID, p.now().Format("20060102_150405"))
	log := logger.New().WithVoiceRequest(audioID, req.UserID, req.ChatID)

	originalFile := filepath.Join(p.cfg.TempDir, audioID+req.Ext)
	wavFile := filepath.Join(p.cfg.TempDir, audioID+".wav")

	files := &tempFiles{log: log}
	defer files.cleanup()

	cur := stageReceived
	log.WithField("stage", cur).Debug("request accepted")
	_ = p.sender.Send(req.ChatID, msgProcessing)

	_ = p.sender.Send(req.ChatID, msgDownloading)
	files.add(originalFile)
	if err := p.audio.Download(ctx, req.FileURL, originalFile); err != nil {
		p.fail(log, req.ChatID, stageDownloaded, msgDownloadError, err)
		return
	}
	cur = p.advance(log, stageDownloaded)

	ok, verdict := p.audio.Validate(originalFile, p.cfg.MaxAudioDuration)
	if !ok {
		p.fail(log, req.ChatID, stageValidated, "❌ "+verdict, nil)
		return
	}
	cur = p.advance(log, stageValidated)
	_ = p.sender.Send(req.ChatID, "✅ "+verdict)

	_ = p.sender.Send(req.ChatID, msgConverting)
	files.add(wavFile)
	if err := p.audio.Transcode(ctx, originalFile, wavFile); err != nil {
		p.fail(log, req.ChatID, stageTranscoded, msgConvertError, err)
		return
	}
	cur = p.advance(log, stageTranscoded)

	_ = p.sender.Send(req.ChatID, msgRecognizing)
	recognized, err := p.stt.Recognize(ctx, wavFile)
	if err != nil {
		p.fail(log, req.ChatID, stageTranscribed, msgRecognizeError, err)
		return
	}
	cur = p.advance(log, stageTranscribed)

	cleaned := transcription.CleanText(recognized)
	log.WithField("chars", len(cleaned)).Info("transcript cleaned")

	_ = p.sender.Send(req.ChatID, msgAnalyzing)
	result := p.analyzer.Analyze(ctx, cleaned)
	cur = p.advance(log, stageAnalyzed)

	report := formatReport(result, p.cfg.MaxSummaryLength)
	if err := p.sender.SendReport(req.ChatID, report); err != nil {
		log.WithField("error", err.Error()).Error("failed to deliver report")
		_ = p.sender.Send(req.ChatID, msgAnalysisDone)
		return
	}
	_ = p.sender.Send(req.ChatID, reportSeparator)
	_ = p.sender.Send(req.ChatID, followUpText)

	cur = p.advance(log, stageReplied)
	log.WithField("stage", cur).Info("request completed")
}

func (p *pipeline) advance(log *logrus.Entry, to stage) stage {
	log.WithField("stage", to).Debug("stage complete")
	return to
}

func (p *pipeline) fail(log *logrus.Entry, chatID int64, at stage, userMsg string, err error) {
	entry := log.WithField("stage", at)
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}
	entry.Warn("pipeline aborted")
	_ = p.sender.Send(chatID, userMsg)
}

// tempFiles tracks the audio artifacts of one request. Paths are added
// before the operation that creates them, so cleanup covers partial
// failures too; cleanup tolerates files that were never created.
type tempFiles struct {
	log   *logrus.Entry
	paths []string
}

func (t *tempFiles) add(path string) {
	t.paths = append(t.paths, path)
}

func (t *tempFiles) cleanup() {
	for _, path := range t.paths {
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				t.log.WithField("file", path).WithField("error", err.Error()).Error("failed to remove temp file")
			}
			continue
		}
		t.log.WithField("file", path).Debug("temp file removed")
	}
}
