package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voxum/internal/media"
	"voxum/internal/pipeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <audio-file>",
		Short: "Run a local recording through the pipeline once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := strings.TrimSpace(args[0])
			audio, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read audio file: %w", err)
			}
			name := filepath.Base(path)
			if !media.IsAudio("", name) {
				return fmt.Errorf("%s does not look like an audio file", name)
			}

			logger, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			pipe, err := buildPipeline(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}

			outcome := pipe.orchestrator.Process(cmd.Context(), pipeline.Input{
				ID:    "local:" + name,
				Name:  name,
				Size:  int64(len(audio)),
				Audio: audio,
			})
			printOutcome(cmd, outcome)
			return outcome.Err()
		},
	}
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome pipeline.Outcome) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(outcome.Stages))
	for _, stage := range outcome.Stages {
		status := "ok"
		details := ""
		if !stage.OK {
			status = "failed"
			details = fmt.Sprintf("%s: %s", stage.Kind, stage.Message)
		}
		rows = append(rows, []string{stage.Name, status, formatDuration(stage.Elapsed), details})
	}

	if isTerminal(out) {
		fmt.Fprintln(out, renderStageTable(rows))
	} else {
		for _, row := range rows {
			fmt.Fprintln(out, strings.TrimSpace(strings.Join(row, "  ")))
		}
	}

	if outcome.OK && outcome.Receipt != nil {
		fmt.Fprintf(out, "Summary written as %s\n", outcome.Receipt.SummaryFilename)
		if outcome.Receipt.DriveFileID != "" {
			fmt.Fprintf(out, "Uploaded to Drive (file id %s)\n", outcome.Receipt.DriveFileID)
		}
		if outcome.Receipt.EmailID != "" {
			fmt.Fprintf(out, "Emailed (message id %s)\n", outcome.Receipt.EmailID)
		}
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(10 * time.Millisecond).String()
}
