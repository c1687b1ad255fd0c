package idgen

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	NextLongIDFunc            func(ctx context.Context) (int64, error)
	NextDecimalIDFunc         func(ctx context.Context) (decimal.Decimal, error)
	NextLongIDForTableFunc    func(ctx context.Context, table string) (int64, error)
	NextDecimalIDForTableFunc func(ctx context.Context, table string) (decimal.Decimal, error)
}

// NextLongID implements Allocator.
func (m *MockAllocator) NextLongID(ctx context.Context) (int64, error) {
	if m.NextLongIDFunc != nil {
		return m.NextLongIDFunc(ctx)
	}
	return 1, nil
}

// NextDecimalID implements Allocator.
func (m *MockAllocator) NextDecimalID(ctx context.Context) (decimal.Decimal, error) {
	if m.NextDecimalIDFunc != nil {
		return m.NextDecimalIDFunc(ctx)
	}
	return decimal.NewFromInt(1), nil
}

// NextLongIDForTable implements Allocator.
func (m *MockAllocator) NextLongIDForTable(ctx context.Context, table string) (int64, error) {
	if m.NextLongIDForTableFunc != nil {
		return m.NextLongIDForTableFunc(ctx, table)
	}
	if table != "" {
		return 0, &AllocationError{Kind: ErrUnsupportedOperation, Table: table}
	}
	return m.NextLongID(ctx)
}

// NextDecimalIDForTable implements Allocator.
func (m *MockAllocator) NextDecimalIDForTable(ctx context.Context, table string) (decimal.Decimal, error) {
	if m.NextDecimalIDForTableFunc != nil {
		return m.NextDecimalIDForTableFunc(ctx, table)
	}
	if table != "" {
		return decimal.Zero, &AllocationError{Kind: ErrUnsupportedOperation, Table: table}
	}
	return m.NextDecimalID(ctx)
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
