package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string
	Port   string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	MigrationsPath string

	RedisAddr   string
	KafkaBroker string

	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	CORSAllowedOrigins []string
	DefaultLocale      string

	// HH:MM in UTC at which the daily jobs fire.
	AccrualRunAt string
	// Day of month on which payslip generation is requested.
	PayslipDay int

	// When true, deleting a leave request that was already refunded by a
	// rejection does not credit the balance a second time.
	LeaveDeleteSkipRefunded bool
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env when present, then the process environment, on top of
// the defaults below.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "rh_management")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("DEFAULT_LOCALE", "fr")
	v.SetDefault("ACCRUAL_RUN_AT", "00:00")
	v.SetDefault("PAYSLIP_DAY", 28)
	v.SetDefault("LEAVE_DELETE_SKIP_REFUNDED", false)
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:                  v.GetString("APP_ENV"),
		Port:                    v.GetString("PORT"),
		DBHost:                  v.GetString("DB_HOST"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBPort:                  v.GetString("DB_PORT"),
		DBSSLMode:               v.GetString("DB_SSLMODE"),
		MigrationsPath:          v.GetString("MIGRATIONS_PATH"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		KafkaBroker:             v.GetString("KAFKA_BROKER"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		DefaultLocale:           v.GetString("DEFAULT_LOCALE"),
		AccrualRunAt:            v.GetString("ACCRUAL_RUN_AT"),
		PayslipDay:              v.GetInt("PAYSLIP_DAY"),
		LeaveDeleteSkipRefunded: v.GetBool("LEAVE_DELETE_SKIP_REFUNDED"),
	}

	var err error
	if cfg.JWTAccessTTL, err = time.ParseDuration(v.GetString("JWT_ACCESS_TTL")); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	if cfg.JWTRefreshTTL, err = time.ParseDuration(v.GetString("JWT_REFRESH_TTL")); err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TTL: %w", err)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if _, err := ParseClock(cfg.AccrualRunAt); err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_RUN_AT: %w", err)
	}
	if cfg.PayslipDay < 1 || cfg.PayslipDay > 28 {
		return nil, fmt.Errorf("PAYSLIP_DAY must be between 1 and 28, got %d", cfg.PayslipDay)
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
