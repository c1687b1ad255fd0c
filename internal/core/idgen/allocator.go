// Package idgen provides domain contracts for sequence-backed identifier allocation.
// Implementations live in infrastructure layer.
package idgen

import (
	"context"

	"github.com/shopspring/decimal"
)

// Allocator issues identifiers from an external sequence-like source.
// This is the domain contract - implementations live in infrastructure layer.
//
// Implementations must not batch or cache values: every call is a fresh
// round-trip, and uniqueness under concurrency is a property of the backing
// sequence, not of the allocator.
type Allocator interface {
	// NextLongID returns the next identifier as a 64-bit integer.
	NextLongID(ctx context.Context) (int64, error)

	// NextDecimalID returns the next identifier as an arbitrary-precision decimal.
	// Use when the range exceeds int64 or the sequence is NUMERIC.
	NextDecimalID(ctx context.Context) (decimal.Decimal, error)

	// NextLongIDForTable is the table-scoped variant of NextLongID.
	// Strategies without per-table sequences reject a non-empty table
	// with ErrUnsupportedOperation and treat "" as NextLongID.
	NextLongIDForTable(ctx context.Context, table string) (int64, error)

	// NextDecimalIDForTable is the table-scoped variant of NextDecimalID.
	NextDecimalIDForTable(ctx context.Context, table string) (decimal.Decimal, error)
}

// Config holds allocator configuration.
type Config struct {
	// Query is executed on every allocation. It must return exactly one row
	// with one numeric column, e.g. "SELECT nextval('account_seq')".
	Query string
}
