// Package cmd holds the geospy command line.
package cmd

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/config"
	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/logging"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geospy",
		Short: "GEOspy content-gap analysis service",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewSeedCommand())
	rootCmd.AddCommand(NewReportCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	}
	return rootCmd
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", "", "path to a YAML config file")
}

// bootstrap loads and validates the configuration and builds the logger.
func bootstrap(configFilePath string) (*config.GlobalConfig, *zap.Logger, error) {
	cfg, err := config.Load(configFilePath)
	if err != nil {
		return nil, nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func openDB(cfg *config.GlobalConfig, logger *zap.Logger) (*gorm.DB, func(), error) {
	dbConn, err := db.InitDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := dbConn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return dbConn, closeFn, nil
}
