// Package migrations creates the console schema: identifier sequences,
// menu tables and the account table. Every statement is idempotent, so Apply
// runs on each server start.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"mngconsole/pkg/logger"
)

//go:embed sql/*.sql
var files embed.FS

// Statement is one DDL statement and the file it came from.
type Statement struct {
	File string
	SQL  string
}

// Statements returns every statement in file order.
func Statements() ([]Statement, error) {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []Statement
	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stripComments(stmt)) == "" {
				continue
			}
			out = append(out, Statement{File: name, SQL: strings.TrimSpace(stmt)})
		}
	}
	return out, nil
}

func stripComments(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Apply executes all statements against db in order.
func Apply(ctx context.Context, db *sql.DB) error {
	stmts, err := Statements()
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			return fmt.Errorf("apply %s: %w", s.File, err)
		}
	}
	logger.Info(ctx, "schema migrations applied", "statements", len(stmts))
	return nil
}
