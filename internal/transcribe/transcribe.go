// Package transcribe adapts the transcription API into the first
// pipeline stage, compressing oversized recordings before upload.
package transcribe

import (
	"context"
	"log/slog"
	"strings"

	"voxum/internal/logging"
	"voxum/internal/media"
	"voxum/internal/pipeline"
	"voxum/internal/services"
)

// Client is the transcription backend surface this stage needs.
type Client interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Compressor shrinks recordings that exceed the upload limit.
type Compressor interface {
	Compress(ctx context.Context, name string, audio []byte) ([]byte, error)
}

// Transcriber implements the transcription stage.
type Transcriber struct {
	client     Client
	compressor Compressor
	logger     *slog.Logger
}

// New constructs the transcription stage.
func New(client Client, compressor Compressor, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		client:     client,
		compressor: compressor,
		logger:     logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Transcribe validates the input, compresses it when oversized, and
// returns the transcript text.
func (t *Transcriber) Transcribe(ctx context.Context, in pipeline.Input) (string, error) {
	if len(in.Audio) == 0 {
		return "", services.Wrap(services.ErrValidation, "transcribe", "validate", "input has no audio content", nil)
	}

	audio := in.Audio
	if len(audio) > media.MaxUploadBytes {
		if t.compressor == nil {
			return "", services.Wrap(services.ErrValidation, "transcribe", "compress", "recording exceeds upload limit and no compressor is configured", nil)
		}
		logging.WithContext(ctx, t.logger).Info("compressing oversized recording",
			logging.String("file", in.Name),
			logging.Int("bytes", len(audio)))
		compressed, err := t.compressor.Compress(ctx, in.Name, audio)
		if err != nil {
			return "", services.Wrap(services.ErrExternalService, "transcribe", "compress", "audio compression failed", err)
		}
		audio = compressed
	}

	text, err := t.client.Transcribe(ctx, in.Name, audio)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "transcribe", "transcribe", "transcription request failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrExternalService, "transcribe", "transcribe", "transcription returned empty text", nil)
	}
	return text, nil
}
