package main

import (
	"context"
	"fmt"

	"ippis-portal/internal/activity"
	"ippis-portal/internal/auth"
	"ippis-portal/internal/messaging/kafka"
	"ippis-portal/internal/rbac"
	"ippis-portal/internal/shared/counter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the portal tables and seed the permission catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, closeDB, err := connectDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := migrate(cmd.Context(), db, !skipSeed); err != nil {
				return err
			}
			logger.Info("migration complete", zap.Bool("seeded", !skipSeed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not upsert the permission catalog")
	return cmd
}

func migrate(ctx context.Context, db *gorm.DB, seed bool) error {
	models := []any{&auth.User{}, &counter.CompanyCounter{}, &activity.ActivityLog{}}
	models = append(models, rbac.Models()...)
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.WithContext(ctx).Exec(kafka.OutboxSchema).Error; err != nil {
		return fmt.Errorf("outbox schema: %w", err)
	}

	if !seed {
		return nil
	}
	if err := rbac.NewRepository(db).SeedPermissions(ctx, rbac.DefaultPermissions()); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	return nil
}
