// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
)

// --- Filter & Pagination ---

const (
	DefaultRowCount = 10
	MaxRowCount     = 100
)

// ListFilter is the paging request shared by every management list.
// Current is 1-based; RowCount is the page size.
type ListFilter struct {
	Current  int
	RowCount int

	// Search is a contains-match applied to the entity's searchable columns.
	Search string

	// ParentSeq restricts child menus to one parent group.
	ParentSeq *int64

	// OrderBy is a column name, "-column" for descending.
	OrderBy string
}

// Normalize clamps paging values into range.
func (f ListFilter) Normalize() ListFilter {
	if f.Current < 1 {
		f.Current = 1
	}
	if f.RowCount < 1 {
		f.RowCount = DefaultRowCount
	}
	if f.RowCount > MaxRowCount {
		f.RowCount = MaxRowCount
	}
	return f
}

// Offset returns the number of rows to skip.
func (f ListFilter) Offset() int {
	n := f.Normalize()
	return (n.Current - 1) * n.RowCount
}

// ListResult is one page of results, shaped like the console's grid protocol.
type ListResult[T any] struct {
	Total   int64 `json:"total"`
	Current int   `json:"current"`
	Record  int   `json:"record"`
	Rows    []T   `json:"rows"`
}

// NewListResult fills the paging echo fields from the filter.
func NewListResult[T any](filter ListFilter, total int64, rows []T) ListResult[T] {
	n := filter.Normalize()
	if rows == nil {
		rows = []T{}
	}
	return ListResult[T]{
		Total:   total,
		Current: n.Current,
		Record:  n.RowCount,
		Rows:    rows,
	}
}

// --- Entities & Repositories ---

// Entity is a record keyed by an allocated sequence number.
// A zero key means the record has not been stored yet.
type Entity interface {
	Key() int64
	SetKey(seq int64)
	Validate(ctx context.Context) error
}

// Repository defines the storage operations shared by all console entities.
type Repository[T Entity] interface {
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Get(ctx context.Context, seq int64) (T, error)
	Delete(ctx context.Context, seq int64) error
	Exists(ctx context.Context, seq int64) (bool, error)
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	BeforeUpdate HookEvent = "before_update"
	BeforeDelete HookEvent = "before_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: make(map[HookEvent][]Hook[T])}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
