package main

import (
	"os"

	"github.com/macrolog/macrolog/cmd/do/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "do",
		Short: "Operational tools for macrolog",
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.BackupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
