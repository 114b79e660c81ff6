package main

import (
	"errors"

	"github.com/spf13/cobra"

	"voxum/internal/services/drive"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to the Google Drive folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Drive.ClientSecrets == "" {
				return errors.New("drive.client_secrets is not configured")
			}
			return drive.Authorize(cmd.Context(), cfg.Drive.ClientSecrets, cfg.Drive.TokenPath, cmd.OutOrStdout())
		},
	}
	return cmd
}
