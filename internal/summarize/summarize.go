// Package summarize adapts a text completion backend into the
// summarization stage. The backend is selected once at startup from
// configuration; openai-compatible and Gemini providers are supported.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"voxum/internal/config"
	"voxum/internal/logging"
	"voxum/internal/pipeline"
	"voxum/internal/services"
	"voxum/internal/services/gemini"
	"voxum/internal/services/llm"
)

const defaultPromptTemplate = `You are an assistant that writes concise meeting summaries.
Summarize the following transcript in {language}. Include:

- A short overview paragraph
- Key discussion points
- Decisions made
- Action items, with owners when they are mentioned

Transcript:

`

// Completer is the completion backend surface this stage needs. Both
// llm.Client and gemini.Client satisfy it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NewCompleter resolves the configured summarization provider.
func NewCompleter(cfg *config.Config) (Completer, error) {
	switch cfg.Summary.Provider {
	case "openai":
		opts := []llm.Option{llm.WithModel(cfg.Summary.Model)}
		if cfg.Summary.BaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.Summary.BaseURL))
		}
		return llm.NewClient(cfg.Summary.APIKey, opts...), nil
	case "gemini":
		return gemini.NewClient(cfg.Summary.APIKey, gemini.WithModel(cfg.Summary.Model)), nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Summary.Provider)
	}
}

// Summarizer implements the summarization stage.
type Summarizer struct {
	completer Completer
	language  string
	prompt    string
	logger    *slog.Logger
}

// New constructs the summarization stage. promptPath optionally points
// to a file replacing the built-in prompt; it may reference {language}.
func New(completer Completer, language, promptPath string, logger *slog.Logger) (*Summarizer, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	prompt := defaultPromptTemplate
	if promptPath != "" {
		custom, err := os.ReadFile(promptPath)
		if err != nil {
			return nil, fmt.Errorf("read prompt file: %w", err)
		}
		prompt = strings.TrimSpace(string(custom)) + "\n\n"
	}
	return &Summarizer{
		completer: completer,
		language:  language,
		prompt:    strings.ReplaceAll(prompt, "{language}", language),
		logger:    logging.NewComponentLogger(logger, "summarize"),
	}, nil
}

// Summarize turns transcript text into a structured summary.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (pipeline.Summary, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return pipeline.Summary{}, services.Wrap(services.ErrValidation, "summarize", "validate", "transcript is empty", nil)
	}

	reply, err := s.completer.Complete(ctx, s.prompt+transcript)
	if err != nil {
		return pipeline.Summary{}, services.Wrap(services.ErrExternalService, "summarize", "complete", "summary request failed", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return pipeline.Summary{}, services.Wrap(services.ErrExternalService, "summarize", "complete", "summary backend returned empty text", nil)
	}
	return pipeline.Summary{
		Text:     reply,
		Model:    s.completer.Model(),
		Language: s.language,
	}, nil
}
