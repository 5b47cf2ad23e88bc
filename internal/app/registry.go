package app

import (
	"database/sql"
	"fmt"

	"ippis-portal/internal/activity"
	"ippis-portal/internal/auth"
	"ippis-portal/internal/backend"
	"ippis-portal/internal/bootstrap"
	"ippis-portal/internal/calendar"
	"ippis-portal/internal/config"
	"ippis-portal/internal/dataexchange"
	"ippis-portal/internal/document"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/hrcase"
	"ippis-portal/internal/messaging/kafka"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/organization"
	"ippis-portal/internal/performance"
	"ippis-portal/internal/proxy"
	"ippis-portal/internal/rbac"
	"ippis-portal/internal/rbac/infra"
	"ippis-portal/internal/report"
	"ippis-portal/internal/shared/counter"
	"ippis-portal/internal/shared/optioncache"
	"ippis-portal/internal/user"
	"ippis-portal/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	sqlDB  *sql.DB
	gormDB *gorm.DB
	rdb    *redis.Client
}

func registerModules(router *gin.Engine, cfg *config.Config, m modules, logger *zap.Logger) error {
	// --- Shared infrastructure ---
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIKey, cfg.Backend.Timeout, logger)
	publisher := kafka.NewOutboxPublisher(m.sqlDB, kafka.NewOutboxRepository(m.sqlDB), logger)
	options := optioncache.New(m.rdb, optioncache.DefaultTTL, logger)
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)

	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	idempotency := middleware.Idempotency(m.rdb)

	// --- RBAC core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return fmt.Errorf("rbac enforcer: %w", err)
	}
	rbacService := rbac.NewService(rbac.NewRepository(m.gormDB), enforcer, logger)

	// --- Services ---
	authService := auth.NewService(auth.NewRepository(m.gormDB), rbacService, auditLogger, auth.Options{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, logger)
	userService := user.NewService(user.NewRepository(m.gormDB), publisher, logger)
	employeeService := employee.NewService(employee.NewRepository(client), options, publisher, logger)
	verificationService := verification.NewService(
		verification.NewHTTPProvider(cfg.Verification.URL, cfg.Verification.APIKey, cfg.Verification.Timeout),
		m.rdb,
		cfg.Verification.CacheTTL,
		logger,
	)
	documentService := document.NewService(client, document.Policy{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedMIMEs: cfg.Upload.AllowedMIMEs,
	}, publisher, logger)
	exchangeService := dataexchange.NewService(
		employeeService,
		counter.NewRepository(m.gormDB),
		publisher,
		dataexchange.Options{MaxSize: cfg.Upload.MaxSize},
		logger,
	)
	reportService := report.NewService(report.NewSources(client), logger)
	activityService := activity.NewService(activity.NewRepository(m.gormDB), logger)

	table, err := proxy.LoadTable(cfg.ProxyResourcesFile)
	if err != nil {
		return fmt.Errorf("proxy table: %w", err)
	}
	proxyHandler, err := proxy.NewHandler(table, cfg.Backend.BaseURL, cfg.Backend.APIKey, nil, logger)
	if err != nil {
		return fmt.Errorf("proxy handler: %w", err)
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, logger)

	// --- Routes registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService, authMW, logger)
		rbac.RegisterRoutes(api, rbac.NewHandler(rbacService, logger), rbacService, authMW, logger)
		user.RegisterRoutes(api, user.NewHandler(userService, logger), rbacService, authMW, logger)

		employee.RegisterRoutes(api, employee.NewHandler(employeeService, logger), rbacService, authMW, idempotency, logger)
		hrcase.RegisterRoutes(api, hrcase.NewHandler(hrcase.NewRegistry(client, publisher, logger)), rbacService, authMW, idempotency, logger)
		performance.RegisterRoutes(api, performance.NewHandlers(client, options, publisher, logger), rbacService, authMW, logger)
		calendar.RegisterRoutes(api, calendar.NewHandlers(client, publisher, logger), rbacService, authMW, logger)
		organization.RegisterRoutes(api, organization.NewHandlers(client, options, publisher, logger), rbacService, authMW, logger)

		verification.RegisterRoutes(api, verification.NewHandler(verificationService, logger), rbacService, authMW, logger)
		document.RegisterRoutes(api, document.NewHandler(documentService, cfg.Upload.MaxSize, logger), rbacService, authMW, idempotency, logger)
		dataexchange.RegisterRoutes(api, dataexchange.NewHandler(exchangeService, cfg.Upload.MaxSize, logger), rbacService, authMW, idempotency, logger)
		report.RegisterRoutes(api, report.NewHandler(reportService, logger), rbacService, authMW, logger)
		activity.RegisterRoutes(api, activity.NewHandler(activityService, logger), rbacService, authMW, logger)
		proxy.RegisterRoutes(api, proxyHandler, rbacService, authMW, logger)
	}

	return nil
}
