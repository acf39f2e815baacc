package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// 販売の書き込み方式
const (
	SaleWriteTransactional = "transactional"
	SaleWriteSequential    = "sequential"
)

// Configはアプリ全体の設定
type Config struct {
	Port          string // サーバーポート（8080）
	AppEnv        string // development/production
	AllowedOrigin string // CORS の Access-Control-Allow-Origin

	Logger    LoggerConfig
	Postgres  PostgresConfig
	Sales     SalesConfig
	Reconcile ReconcileConfig

	AutoMigrate bool
}

type LoggerConfig struct {
	Level    string // debug/info/warn/error
	Encoding string // json/console
}

type PostgresConfig struct {
	URL             string // DATABASE_URL（あれば最優先）
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
}

type SalesConfig struct {
	WriteMode       string // transactional/sequential
	PreventOversell bool
}

type ReconcileConfig struct {
	Interval time.Duration
	Grace    time.Duration
	Repair   bool
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		Logger: LoggerConfig{
			Level:    getEnv("LOGGER_LEVEL", "info"),
			Encoding: getEnv("LOGGER_ENCODING", "json"),
		},
		Postgres: PostgresConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Sales: SalesConfig{
			WriteMode: strings.ToLower(getEnv("SALE_WRITE_MODE", SaleWriteTransactional)),
		},
	}

	var err error
	if cfg.Postgres.MaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.Postgres.MaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Postgres.ConnMaxLifetime, err = getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300); err != nil {
		return Config{}, err
	}
	if cfg.Sales.PreventOversell, err = getEnvBool("PREVENT_OVERSELL", false); err != nil {
		return Config{}, err
	}
	if cfg.AutoMigrate, err = getEnvBool("DB_AUTO_MIGRATE", true); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.Interval, err = getEnvDuration("RECONCILE_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.Grace, err = getEnvDuration("RECONCILE_GRACE", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Reconcile.Repair, err = getEnvBool("RECONCILE_REPAIR", false); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.Postgres.URL == "" {
		if cfg.Postgres.User == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.Postgres.DBName == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}
	switch cfg.Sales.WriteMode {
	case SaleWriteTransactional, SaleWriteSequential:
	default:
		return Config{}, fmt.Errorf("SALE_WRITE_MODE must be %q or %q", SaleWriteTransactional, SaleWriteSequential)
	}
	if cfg.Reconcile.Interval <= 0 {
		return Config{}, fmt.Errorf("RECONCILE_INTERVAL must be > 0")
	}

	return cfg, nil
}

// Addr は ":8080" の形にする
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
