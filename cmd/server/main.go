// Package main is the entry point for the management console API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	coreidgen "mngconsole/internal/core/idgen"
	"mngconsole/internal/domain/account"
	"mngconsole/internal/domain/menu"
	v1 "mngconsole/internal/infrastructure/http/v1"
	"mngconsole/internal/infrastructure/idgen"
	"mngconsole/internal/infrastructure/storage/postgres"
	"mngconsole/internal/infrastructure/storage/postgres/entity_repo"
	"mngconsole/internal/infrastructure/storage/postgres/migrations"
	"mngconsole/pkg/logger"
)

const version = "0.1.0"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting mngconsole server", "version", version, "id_source", cfg.IDSource)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	if poolCfg.MinConns > poolCfg.MaxConns {
		poolCfg.MinConns = poolCfg.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	db := pool.OpenDB()
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	postgres.LogPoolStats(ctx, pool.Pool)

	// --- Identifier allocators ---
	ids, err := newAllocators(cfg, pool, db, log)
	if err != nil {
		// Misconfiguration is never retried.
		log.Fatalw("failed to configure id allocators", "error", err, "config_error", coreidgen.IsConfigError(err))
	}

	// --- Services ---
	txm := postgres.NewTxManager(pool)

	jwtCfg := account.DefaultJWTConfig(cfg.JWTSecret)
	jwtCfg.AccessTokenTTL = cfg.JWTTTL
	accounts := account.NewService(
		entity_repo.NewAccountRepo(txm),
		ids.account,
		txm,
		account.NewJWTService(jwtCfg),
		account.DefaultServiceConfig(),
	)

	menus := menu.NewService(
		entity_repo.NewTopMenuRepo(txm),
		entity_repo.NewMidMenuRepo(txm),
		entity_repo.NewLowMenuRepo(txm),
		ids.menus,
		txm,
	)

	created, err := accounts.EnsureDefaultAccount(ctx, cfg.DefaultAccount)
	if err != nil {
		log.Fatalw("failed to ensure default account", "error", err)
	}
	if created {
		log.Infow("default account created", "account_id", cfg.DefaultAccount.AccountID)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Database: pool,
		Logger:   log,
		Accounts: accounts,
		Menus:    menus,
		Version:  version,
		IDSource: cfg.IDSource,
		Debug:    cfg.Env == "development",
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

type allocators struct {
	menus   menu.Allocators
	account coreidgen.Allocator
}

// newAllocators builds one allocator per sequence over the configured connection source.
func newAllocators(cfg Config, pool *postgres.Pool, db *sql.DB, log *logger.Logger) (allocators, error) {
	var src idgen.ConnSource = idgen.NewPoolSource(pool.Pool)
	if cfg.IDSource == idSourceSQL {
		src = idgen.NewSQLSource(db)
	}

	build := func(name, query string) (coreidgen.Allocator, error) {
		tracer := otel.Tracer("mngconsole/idgen",
			trace.WithInstrumentationAttributes(attribute.String("sequence", name)))
		a, err := idgen.New(coreidgen.Config{Query: query}, src,
			idgen.WithLogger(log.With("sequence", name)),
			idgen.WithTracer(tracer),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return a, nil
	}

	var out allocators
	var err error
	if out.menus.Top, err = build("top_menu_grp", cfg.IDQueries.TopMenuGroup); err != nil {
		return out, err
	}
	if out.menus.Mid, err = build("mid_menu_grp", cfg.IDQueries.MidMenuGroup); err != nil {
		return out, err
	}
	if out.menus.Low, err = build("low_menu", cfg.IDQueries.LowMenu); err != nil {
		return out, err
	}
	if out.account, err = build("account", cfg.IDQueries.Account); err != nil {
		return out, err
	}
	return out, nil
}
