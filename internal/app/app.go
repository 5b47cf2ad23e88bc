package app

import (
	"net/http"

	"ippis-portal/internal/config"
	"ippis-portal/internal/metrics"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the portal database and Redis, then mounts every module on router.
// The returned cleanup closes both connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.Retries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	log.Info("database connection established", zap.String("db", cfg.Database.Name))

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Retries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}

	router.Use(middleware.RequestID(), metrics.Middleware())
	if cfg.Metrics.Enabled {
		metrics.Register(router, cfg.Metrics.Path)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := registerModules(router, cfg, modules{sqlDB: sqlDB, gormDB: gormDB, rdb: rdb}, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}
