package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"voxum/internal/deps"
	"voxum/internal/logging"
	"voxum/internal/registry"
	"voxum/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the Drive folder and process new recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateForWatch(); err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire watch lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another voxum watch is already running (lock %s)", cfg.LockPath())
			}
			defer lock.Unlock()

			logger, err := newLogger(cfg, true)
			if err != nil {
				return err
			}

			for _, status := range deps.Check(deps.Default(cfg.FFmpegBinary())) {
				if !status.Available {
					logger.Warn("optional dependency missing",
						logging.String("name", status.Name),
						logging.String("detail", status.Detail))
				}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipe, err := buildPipeline(runCtx, cfg, logger, true)
			if err != nil {
				return err
			}
			reg, err := registry.Open(cfg.RegistryPath(), logger)
			if err != nil {
				return fmt.Errorf("open processed registry: %w", err)
			}

			source := watcher.NewDriveSource(pipe.driveClient, cfg.Drive.FolderID)
			poll := watcher.New(
				source,
				pipe.orchestrator,
				reg,
				time.Duration(cfg.Watcher.PollInterval)*time.Second,
				time.Duration(cfg.Watcher.ListTimeoutSeconds)*time.Second,
				logger,
			)

			if cfg.Paths.InboxDir != "" {
				inbox := watcher.NewInbox(cfg.Paths.InboxDir, pipe.orchestrator, reg, logger)
				go func() {
					if err := inbox.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("inbox watch stopped unexpectedly")
					}
				}()
			}

			if err := poll.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	return cmd
}
