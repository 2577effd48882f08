package main

import (
	"github.com/maxaizer/recruitment-funnel/internal/config"
	"github.com/maxaizer/recruitment-funnel/internal/repositories"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get(configPath)

			dbContext, err := repositories.NewDbContext(cfg.DB.Driver, cfg.DB.ConnectionString)
			if err != nil {
				return err
			}
			defer dbContext.Close()

			if err := dbContext.Migrate(); err != nil {
				return err
			}
			log.Infof("%s schema is up to date", cfg.DB.Driver)
			return nil
		},
	}
}
