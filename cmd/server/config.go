package main

import (
	"fmt"
	"os"
	"time"

	"mngconsole/internal/domain/account"
)

const (
	idSourcePool = "pool"
	idSourceSQL  = "sql"
)

// IDQueries holds the allocation query of every sequence-keyed table.
type IDQueries struct {
	TopMenuGroup string
	MidMenuGroup string
	LowMenu      string
	Account      string
}

// Config is the server configuration read from the environment.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	DatabaseURL     string
	DBMaxConns      int
	JWTSecret       string
	JWTTTL          time.Duration
	IDSource        string
	IDQueries       IDQueries
	DefaultAccount  account.DefaultAccount
	ShutdownTimeout time.Duration
}

func loadConfig() (Config, error) {
	cfg := Config{
		Port:        getEnv("APP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 20),
		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:      getEnvDuration("JWT_TTL", 8*time.Hour),
		IDSource:    getEnv("ID_SOURCE", idSourcePool),
		IDQueries: IDQueries{
			TopMenuGroup: getEnv("TOP_MENU_ID_QUERY", "SELECT nextval('top_menu_grp_seq')"),
			MidMenuGroup: getEnv("MID_MENU_ID_QUERY", "SELECT nextval('mid_menu_grp_seq')"),
			LowMenu:      getEnv("LOW_MENU_ID_QUERY", "SELECT nextval('low_menu_seq')"),
			Account:      getEnv("ACCOUNT_ID_QUERY", "SELECT nextval('account_seq')"),
		},
		DefaultAccount: account.DefaultAccount{
			AccountID:  getEnv("DEFAULT_ACCOUNT_ID", "admin"),
			Name:       getEnv("DEFAULT_ACCOUNT_NAME", "Administrator"),
			Password:   getEnv("DEFAULT_ACCOUNT_PASSWORD", "asdf1234"),
			HpNum:      os.Getenv("DEFAULT_ACCOUNT_HP_NUM"),
			Address:    os.Getenv("DEFAULT_ACCOUNT_ADDRESS"),
			AddrDetail: os.Getenv("DEFAULT_ACCOUNT_ADDR_DETAIL"),
			PostNum:    os.Getenv("DEFAULT_ACCOUNT_POST_NUM"),
		},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("required environment variable DATABASE_URL not set")
	}
	if cfg.IDSource != idSourcePool && cfg.IDSource != idSourceSQL {
		return cfg, fmt.Errorf("ID_SOURCE must be %q or %q, got %q", idSourcePool, idSourceSQL, cfg.IDSource)
	}
	if cfg.DBMaxConns < 1 {
		return cfg, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.DBMaxConns)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
