package app

import (
	"context"
	"time"

	"rh-management/internal/auth"
	"rh-management/internal/employee"
	"rh-management/internal/employeerecord"
	"rh-management/internal/i18n"
	"rh-management/internal/leave"
	"rh-management/internal/messaging/kafka"
	"rh-management/internal/middleware"
	"rh-management/internal/payslip"
	"rh-management/internal/rbac"
	"rh-management/internal/rbac/infra"
	"rh-management/internal/shared/config"
	"rh-management/internal/shared/counter"
	"rh-management/internal/shared/token"
	"rh-management/internal/statistic"
	"rh-management/internal/team"
	"rh-management/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(router *gin.Engine, cfg *config.Config, in *Infra, logger *zap.Logger) error {
	db, gormDB, rdb := in.DB, in.GormDB, in.Redis

	translator, err := i18n.New(cfg.DefaultLocale, logger)
	if err != nil {
		return err
	}
	router.Use(translator.Middleware())

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	middleware.ConfigureTokens(tokens)

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	teamRepo := team.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	recordRepo := employeerecord.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, tokens)
	userService := user.NewService(userRepo, rdb)
	employeeService := employee.NewService(employeeRepo)
	teamService := team.NewService(db, teamRepo, employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, teamRepo, outboxRepo,
		leave.Config{SkipRefundedOnDelete: cfg.LeaveDeleteSkipRefunded},
		leave.WithTranslator(translator),
	)
	recordService := employeerecord.NewService(db, recordRepo, translator)
	payslipService := payslip.NewService(db, payslipRepo, recordRepo, counterRepo,
		payslip.WithTranslator(translator),
	)
	statisticService := statistic.NewService(leaveRepo, employeeRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	userHandler := user.NewHandler(userService)
	employeeHandler := employee.NewHandler(employeeService)
	teamHandler := team.NewHandler(teamService)
	leaveHandler := leave.NewHandler(leaveService)
	recordHandler := employeerecord.NewHandler(recordService)
	payslipHandler := payslip.NewHandler(payslipService)
	statisticHandler := statistic.NewHandler(statisticService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		team.RegisterRoutes(api, teamHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
		employeerecord.RegisterRoutes(api, recordHandler, rbacService, rdb, logger)
		payslip.RegisterRoutes(api, payslipHandler, rbacService, rdb, logger)
		statistic.RegisterRoutes(api, statisticHandler, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, logger)
	}

	return nil
}
