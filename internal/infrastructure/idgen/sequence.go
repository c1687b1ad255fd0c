// Package idgen provides the database-sequence implementation of identifier allocation.
// This is the infrastructure layer - it implements core/idgen.Allocator interface.
package idgen

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	coreidgen "mngconsole/internal/core/idgen"
	"mngconsole/pkg/logger"
)

// SequenceAllocator requests every id with a configured query, typically
// "SELECT nextval('...')". It does not pool batches of ids; each call is one
// connection checkout and one round-trip.
//
// Lifecycle: Unconfigured until Init succeeds, Configured forever after.
type SequenceAllocator struct {
	src    ConnSource
	query  atomic.Pointer[string]
	log    *logger.Logger
	tracer trace.Tracer
}

// Ensure compile-time interface compliance.
var _ coreidgen.Allocator = (*SequenceAllocator)(nil)

// Option customizes a SequenceAllocator.
type Option func(*SequenceAllocator)

// WithLogger sets the logger used for request/failure logging.
func WithLogger(log *logger.Logger) Option {
	return func(a *SequenceAllocator) {
		a.log = log
	}
}

// WithTracer sets the tracer used for allocation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *SequenceAllocator) {
		a.tracer = tracer
	}
}

// NewSequenceAllocator creates an unconfigured allocator. Call Init before use.
func NewSequenceAllocator(src ConnSource, opts ...Option) *SequenceAllocator {
	a := &SequenceAllocator{
		src:    src,
		log:    logger.Default(),
		tracer: otel.Tracer("mngconsole/idgen"),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("idgen")
	return a
}

// New creates and initializes an allocator in one step.
func New(cfg coreidgen.Config, src ConnSource, opts ...Option) (*SequenceAllocator, error) {
	if src == nil {
		return nil, coreidgen.NewConfigError(coreidgen.ErrNotInitialized)
	}
	a := NewSequenceAllocator(src, opts...)
	if err := a.Init(cfg.Query); err != nil {
		return nil, err
	}
	return a, nil
}

// Init stores the allocation query. It succeeds exactly once.
func (a *SequenceAllocator) Init(query string) error {
	if a == nil {
		return coreidgen.NewConfigError(coreidgen.ErrNotInitialized)
	}
	if strings.TrimSpace(query) == "" {
		return coreidgen.NewConfigError(coreidgen.ErrMissingQuery)
	}
	if !a.query.CompareAndSwap(nil, &query) {
		return coreidgen.NewConfigError(coreidgen.ErrAlreadyInitialized)
	}
	return nil
}

// Query returns the configured query, or "" while unconfigured.
func (a *SequenceAllocator) Query() string {
	if a == nil {
		return ""
	}
	if q := a.query.Load(); q != nil {
		return *q
	}
	return ""
}

// NextLongID implements Allocator.
func (a *SequenceAllocator) NextLongID(ctx context.Context) (int64, error) {
	var id int64
	if err := a.next(ctx, "long", &id); err != nil {
		return 0, err
	}
	return id, nil
}

// NextDecimalID implements Allocator.
func (a *SequenceAllocator) NextDecimalID(ctx context.Context) (decimal.Decimal, error) {
	var id decimal.Decimal
	if err := a.next(ctx, "decimal", &id); err != nil {
		return decimal.Zero, err
	}
	return id, nil
}

// NextLongIDForTable implements Allocator. Only the empty table is supported.
func (a *SequenceAllocator) NextLongIDForTable(ctx context.Context, table string) (int64, error) {
	if table != "" {
		return 0, unsupportedTable(table)
	}
	return a.NextLongID(ctx)
}

// NextDecimalIDForTable implements Allocator. Only the empty table is supported.
func (a *SequenceAllocator) NextDecimalIDForTable(ctx context.Context, table string) (decimal.Decimal, error) {
	if table != "" {
		return decimal.Zero, unsupportedTable(table)
	}
	return a.NextDecimalID(ctx)
}

// next borrows a connection, runs the query and scans the first column into dest.
// The connection is released on every path.
func (a *SequenceAllocator) next(ctx context.Context, kind string, dest any) error {
	query := a.Query()
	if query == "" || a.src == nil {
		return coreidgen.NewConfigError(coreidgen.ErrNotInitialized)
	}

	ctx, span := a.tracer.Start(ctx, "idgen.next",
		trace.WithAttributes(
			attribute.String("idgen.kind", kind),
			attribute.String("db.statement", query),
		))
	defer span.End()

	log := a.log.WithContext(ctx)
	log.Debugw("requesting an id", "query", query, "kind", kind)

	err := a.scanOne(ctx, query, dest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Errorw("unable to allocate an id", "query", query, "kind", kind, "error", err)
		return err
	}
	return nil
}

func (a *SequenceAllocator) scanOne(ctx context.Context, query string, dest any) error {
	conn, err := a.src.Acquire(ctx)
	if err != nil {
		return coreidgen.NewAllocationError(coreidgen.ErrConnectionUnavailable, err)
	}
	defer conn.Release()

	err = conn.QueryRow(ctx, query).Scan(dest)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return coreidgen.NewAllocationError(coreidgen.ErrNoRowReturned, nil)
	default:
		return coreidgen.NewAllocationError(coreidgen.ErrQueryFailed, err)
	}
}

func unsupportedTable(table string) error {
	return &coreidgen.AllocationError{Kind: coreidgen.ErrUnsupportedOperation, Table: table}
}
