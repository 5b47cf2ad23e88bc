package main

import (
	"ippis-portal/internal/bootstrap"
	"ippis-portal/internal/config"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/connection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "portalctl",
		Short:        "IPPIS admin portal operations",
		SilenceUsage: true,
	}
	cmd.AddCommand(newMigrateCmd(), newCreateUserCmd(), newExportEmployeesCmd())
	return cmd
}

// setup loads the environment the same way the servers do.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := bootstrap.NewLogger(cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	apperror.Init()
	return cfg, logger, nil
}

func connectDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.Retries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}
