package app

import (
	"database/sql"
	"time"

	"rh-management/internal/middleware"
	"rh-management/internal/shared/config"
	"rh-management/internal/shared/connection"
	"rh-management/internal/shared/migration"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// Infra holds the shared connections of one process.
type Infra struct {
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
}

func connect(cfg *config.Config, withRedis bool) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg, connectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{GormDB: gormDB, DB: sqlDB}
	if withRedis {
		if infra.Redis, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries); err != nil {
			infra.Close()
			return nil, err
		}
	}
	return infra, nil
}

// BuildApp connects the stores, applies migrations and mounts every module
// on router. The returned Infra must be closed by the caller.
func BuildApp(router *gin.Engine, cfg *config.Config) (*Infra, error) {
	logger := zap.L().Named("app")

	infra, err := connect(cfg, true)
	if err != nil {
		return nil, err
	}

	if err := migration.Up(infra.DB, cfg.MigrationsPath); err != nil {
		infra.Close()
		return nil, err
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition", "Content-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())

	if err := registerModules(router, cfg, infra, logger); err != nil {
		infra.Close()
		return nil, err
	}

	logger.Info("modules registered")
	return infra, nil
}
