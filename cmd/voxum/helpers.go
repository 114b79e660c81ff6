package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"voxum/internal/config"
	"voxum/internal/deliver"
	"voxum/internal/logging"
	"voxum/internal/media"
	"voxum/internal/pipeline"
	"voxum/internal/services/drive"
	"voxum/internal/services/resend"
	"voxum/internal/services/whisper"
	"voxum/internal/summarize"
	"voxum/internal/transcribe"
)

func newLogger(cfg *config.Config, console bool) (*slog.Logger, error) {
	outputs := []string{filepath.Join(cfg.Paths.LogDir, "voxum.log")}
	if console {
		outputs = append([]string{"stdout"}, outputs...)
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

// pipelineDeps bundles the built pipeline with the Drive client the
// watch loop reuses for listing and downloads.
type pipelineDeps struct {
	orchestrator *pipeline.Orchestrator
	driveClient  *drive.Client
}

// buildPipeline wires the three stages from configuration. When
// requireDrive is false a missing Drive credential only disables the
// summary upload instead of failing the whole command.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, requireDrive bool) (*pipelineDeps, error) {
	whisperOpts := []whisper.Option{whisper.WithModel(cfg.Transcription.Model)}
	if cfg.Transcription.BaseURL != "" {
		whisperOpts = append(whisperOpts, whisper.WithBaseURL(cfg.Transcription.BaseURL))
	}
	transcriptionClient := whisper.NewClient(cfg.Transcription.APIKey, whisperOpts...)
	compressor := media.NewCompressor(cfg.Paths.WorkDir, logger, media.WithBinary(cfg.FFmpegBinary()))
	transcriber := transcribe.New(transcriptionClient, compressor, logger)

	completer, err := summarize.NewCompleter(cfg)
	if err != nil {
		return nil, err
	}
	summarizer, err := summarize.New(completer, cfg.Summary.Language, cfg.Summary.PromptPath, logger)
	if err != nil {
		return nil, err
	}

	var driveClient *drive.Client
	if cfg.Drive.FolderID != "" {
		httpClient, err := drive.NewHTTPClient(ctx, cfg.Drive.ClientSecrets, cfg.Drive.TokenPath)
		if err != nil {
			if requireDrive {
				return nil, fmt.Errorf("drive authentication: %w", err)
			}
			logger.Warn("drive unavailable, summary upload disabled",
				logging.Error(err))
		} else {
			driveClient = drive.NewClient(httpClient)
		}
	}

	var uploader deliver.Uploader
	if driveClient != nil {
		uploader = driveClient
	}
	var mailer deliver.Mailer
	if cfg.Email.Enabled {
		mailer = resend.NewClient(cfg.Email.APIKey)
	}
	deliverer := deliver.New(uploader, mailer, deliver.Options{
		FolderID:     cfg.Drive.FolderID,
		EmailEnabled: cfg.Email.Enabled,
		EmailTo:      cfg.Recipients(),
		EmailFrom:    cfg.Email.From,
	}, logger)

	timeouts := pipeline.Timeouts{
		Transcribe: time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
		Summarize:  time.Duration(cfg.Summary.TimeoutSeconds) * time.Second,
		Deliver:    time.Duration(cfg.Drive.RequestTimeout+cfg.Email.RequestTimeout) * time.Second,
	}
	return &pipelineDeps{
		orchestrator: pipeline.NewOrchestrator(transcriber, summarizer, deliverer, timeouts, logger),
		driveClient:  driveClient,
	}, nil
}
