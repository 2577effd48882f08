package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "funnel",
		Short:         "funnel manages recruitment pipelines and ranks incoming résumés",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is CONFIG_PATH or ./configs/config.yaml)")

	rootCmd.AddCommand(
		newRunCmd(),
		newMigrateCmd(),
		newBoardCmd(),
		newMoveCmd(),
		newRankCmd(),
		newAutofillCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
