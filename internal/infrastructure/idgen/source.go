package idgen

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is the single-row result of a query. Both pgx.Row and *sql.Row satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Conn is a connection borrowed from a ConnSource for one allocation.
type Conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	// Release hands the connection back to its source.
	Release()
}

// ConnSource hands out connections. Pooling, health checks and
// transaction boundaries are the source's business, not the allocator's.
type ConnSource interface {
	Acquire(ctx context.Context) (Conn, error)
}

// --- pgxpool ---

// PoolSource borrows connections from a pgxpool.Pool.
type PoolSource struct {
	pool *pgxpool.Pool
}

// NewPoolSource creates a ConnSource backed by pgxpool.
func NewPoolSource(pool *pgxpool.Pool) *PoolSource {
	return &PoolSource{pool: pool}
}

// Acquire implements ConnSource.
func (s *PoolSource) Acquire(ctx context.Context) (Conn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &poolConn{conn: conn}, nil
}

type poolConn struct {
	conn *pgxpool.Conn
}

func (c *poolConn) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

func (c *poolConn) Release() {
	c.conn.Release()
}

// --- database/sql ---

// SQLSource borrows dedicated connections from a database/sql pool.
// In production the *sql.DB is usually stdlib.OpenDBFromPool(pool).
type SQLSource struct {
	db *sql.DB
}

// NewSQLSource creates a ConnSource backed by database/sql.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Acquire implements ConnSource.
func (s *SQLSource) Acquire(ctx context.Context) (Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn}, nil
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.conn.QueryRowContext(ctx, query, args...)
}

// Release returns the connection to the database/sql pool.
// The error is ignored: a failed close only means the pool discards it.
func (c *sqlConn) Release() {
	_ = c.conn.Close()
}

var (
	_ ConnSource = (*PoolSource)(nil)
	_ ConnSource = (*SQLSource)(nil)
	_ Row        = (pgx.Row)(nil)
	_ Row        = (*sql.Row)(nil)
)
