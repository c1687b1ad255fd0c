// Package main provides an operator CLI for the identifier allocator.
// Usage: idgen next --query "SELECT nextval('account_seq')" [--decimal] [--n 5]
//
//	idgen migrate
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	coreidgen "mngconsole/internal/core/idgen"
	"mngconsole/internal/infrastructure/idgen"
	"mngconsole/internal/infrastructure/storage/postgres"
	"mngconsole/internal/infrastructure/storage/postgres/migrations"
	"mngconsole/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "next":
		opts, err := parseNextArgs(os.Args[2:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			fmt.Println(`Usage: idgen next --query "<sql>" [--decimal] [--n <count>]`)
			os.Exit(1)
		}
		runNext(ctx, opts)
	case "migrate":
		runMigrate(ctx)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Management Console ID Allocator CLI

Usage:
  idgen <command> [options]

Commands:
  next      Allocate identifiers with a query
  migrate   Create sequences and tables
  help      Show this help

Environment Variables:
  DATABASE_URL   Connection string for the console database (required)
  ID_SOURCE      pool (default) or sql

Examples:
  idgen next --query "SELECT nextval('account_seq')"
  idgen next --query "SELECT nextval('low_menu_seq')" --n 5
  idgen next --query "SELECT 12345678901234567890.5" --decimal
  idgen migrate`)
}

type nextOptions struct {
	query   string
	decimal bool
	count   int
}

func parseNextArgs(args []string) (nextOptions, error) {
	opts := nextOptions{count: 1}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--query", "-query":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--query needs a value")
			}
			opts.query = args[i+1]
			i++
		case "--decimal", "-decimal":
			opts.decimal = true
		case "--n", "-n":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--n needs a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 1 {
				return opts, fmt.Errorf("--n must be a positive integer, got %q", args[i+1])
			}
			opts.count = n
			i++
		default:
			return opts, fmt.Errorf("unknown option %q", args[i])
		}
	}
	if opts.query == "" {
		return opts, fmt.Errorf("--query is required")
	}
	return opts, nil
}

func getPool(ctx context.Context) *postgres.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("Error: DATABASE_URL environment variable is required")
		os.Exit(1)
	}

	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.ApplicationName = "mngconsole-idgen"
	cfg.MinConns = 0
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return pool
}

func runNext(ctx context.Context, opts nextOptions) {
	pool := getPool(ctx)
	defer pool.Close()

	var src idgen.ConnSource = idgen.NewPoolSource(pool.Pool)
	if os.Getenv("ID_SOURCE") == "sql" {
		db := pool.OpenDB()
		defer db.Close()
		src = idgen.NewSQLSource(db)
	}

	alloc, err := idgen.New(coreidgen.Config{Query: opts.query}, src, idgen.WithLogger(logger.NewNop()))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := allocate(ctx, alloc, opts, os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// allocate prints opts.count identifiers, one per line.
func allocate(ctx context.Context, alloc coreidgen.Allocator, opts nextOptions, w io.Writer) error {
	for i := 0; i < opts.count; i++ {
		if opts.decimal {
			d, err := alloc.NextDecimalID(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, d.String())
			continue
		}
		n, err := alloc.NextLongID(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, n)
	}
	return nil
}

func runMigrate(ctx context.Context) {
	pool := getPool(ctx)
	defer pool.Close()

	db := pool.OpenDB()
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied.")
}
