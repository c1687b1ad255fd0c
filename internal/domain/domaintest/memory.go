// Package domaintest provides in-memory repositories for service tests.
package domaintest

import (
	"context"
	"sort"
	"sync"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/domain"
)

// MemoryRepository is a map-backed domain.Repository.
// Match decides whether an entity passes the filter's search and parent
// conditions; a nil Match accepts everything.
type MemoryRepository[T domain.Entity] struct {
	mu    sync.Mutex
	items map[int64]T
	Match func(entity T, filter domain.ListFilter) bool

	// CreateErr, when set, fails every Create.
	CreateErr error
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository[T domain.Entity]() *MemoryRepository[T] {
	return &MemoryRepository[T]{items: make(map[int64]T)}
}

var _ domain.Repository[domain.Entity] = (*MemoryRepository[domain.Entity])(nil)

func (r *MemoryRepository[T]) Create(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if _, ok := r.items[entity.Key()]; ok {
		return apperror.NewDuplicate("entity", "seq", "")
	}
	r.items[entity.Key()] = entity
	return nil
}

func (r *MemoryRepository[T]) Update(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[entity.Key()]; !ok {
		return apperror.NewNotFound("entity", entity.Key())
	}
	r.items[entity.Key()] = entity
	return nil
}

func (r *MemoryRepository[T]) Get(ctx context.Context, seq int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[seq]
	if !ok {
		return e, apperror.NewNotFound("entity", seq)
	}
	return e, nil
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, seq int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[seq]; !ok {
		return apperror.NewNotFound("entity", seq)
	}
	delete(r.items, seq)
	return nil
}

func (r *MemoryRepository[T]) Exists(ctx context.Context, seq int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[seq]
	return ok, nil
}

// All returns every stored entity ordered by key.
func (r *MemoryRepository[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (r *MemoryRepository[T]) matching(filter domain.ListFilter) []T {
	var out []T
	for _, e := range r.All() {
		if r.Match == nil || r.Match(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

func (r *MemoryRepository[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	all := r.matching(filter)
	n := filter.Normalize()
	start := min(n.Offset(), len(all))
	end := min(start+n.RowCount, len(all))
	return domain.NewListResult(n, int64(len(all)), all[start:end]), nil
}

func (r *MemoryRepository[T]) Count(ctx context.Context, filter domain.ListFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}
