package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"voxum/internal/logging"
)

var commandContext = exec.CommandContext

// Compressor shrinks oversized recordings with ffmpeg. Output is mono
// 16 kHz MP3 at 40 kbps, which keeps speech intelligible for the
// transcription model while cutting the payload well under the limit.
type Compressor struct {
	binary  string
	workDir string
	logger  *slog.Logger
}

// Option configures the compressor.
type Option func(*Compressor)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *Compressor) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// NewCompressor constructs a compressor that stages temporary files under
// workDir.
func NewCompressor(workDir string, logger *slog.Logger, opts ...Option) *Compressor {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Compressor{
		binary:  "ffmpeg",
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "media"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress transcodes audio to the reduced format and returns the new
// bytes. The original name is only used to derive temp file names.
func (c *Compressor) Compress(ctx context.Context, name string, audio []byte) ([]byte, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("no audio to compress")
	}
	if err := os.MkdirAll(c.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if stem == "" {
		stem = "recording"
	}
	inputPath := filepath.Join(c.workDir, stem+".orig"+filepath.Ext(name))
	outputPath := filepath.Join(c.workDir, stem+".compressed.mp3")
	defer os.Remove(inputPath)
	defer os.Remove(outputPath)

	if err := os.WriteFile(inputPath, audio, 0o644); err != nil {
		return nil, fmt.Errorf("stage input: %w", err)
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-ac", "1",
		"-ar", "16000",
		"-b:a", "40k",
		outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 500 {
			detail = detail[len(detail)-500:]
		}
		return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, detail)
	}

	compressed, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read compressed output: %w", err)
	}
	c.logger.Info("audio compressed",
		logging.String("file", name),
		logging.Int("original_bytes", len(audio)),
		logging.Int("compressed_bytes", len(compressed)))
	return compressed, nil
}
