package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMigrateCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(configFilePath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			// InitDB migrates on connect
			_, closeDB, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			logger.Info("database schema is up to date", zap.String("database", cfg.Database.Database))
			return nil
		},
	}

	addConfigFlag(cmd, &configFilePath)
	return cmd
}
