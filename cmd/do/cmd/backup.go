package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macrolog/macrolog/internal/app"
	"github.com/macrolog/macrolog/internal/config"
)

func BackupCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a JSON snapshot of logs, catalog and goals to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if !cfg.BackupEnabled() {
				return fmt.Errorf("backup storage is not configured (set S3_BUCKET)")
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			url, err := a.BackupService.Run(context.Background(), days)
			if err != nil {
				return err
			}

			fmt.Println("backup written to", url)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 366, "how many days of history to include")
	return cmd
}
