package domain

import (
	"context"
	"fmt"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/core/idgen"
	"mngconsole/internal/core/tx"
	"mngconsole/pkg/logger"
)

// EntityService provides Save/Get/Delete/List for sequence-keyed entities.
// New records get their key from the Allocator before the insert transaction.
type EntityService[T Entity] struct {
	repo       Repository[T]
	txManager  tx.ReadOnlyManager
	ids        idgen.Allocator
	hooks      *HookRegistry[T]
	entityName string
}

// EntityServiceConfig configures the entity service.
type EntityServiceConfig[T Entity] struct {
	Repo       Repository[T]
	TxManager  tx.ReadOnlyManager
	IDs        idgen.Allocator
	EntityName string
}

// NewEntityService creates a new entity service.
func NewEntityService[T Entity](cfg EntityServiceConfig[T]) *EntityService[T] {
	txm := cfg.TxManager
	if txm == nil {
		txm = tx.Passthrough{}
	}
	return &EntityService[T]{
		repo:       cfg.Repo,
		txManager:  txm,
		ids:        cfg.IDs,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *EntityService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *EntityService[T]) normalizeValidationErr(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *EntityService[T]) normalizeGetErr(err error, key any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, key)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("key", key)
}

// Save inserts the entity when its key is zero, otherwise updates it.
func (s *EntityService[T]) Save(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}
	if entity.Key() == 0 {
		return s.create(ctx, entity)
	}
	return s.update(ctx, entity)
}

func (s *EntityService[T]) create(ctx context.Context, entity T) error {
	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return err
	}

	seq, err := s.ids.NextLongID(ctx)
	if err != nil {
		return idgen.ToAppError(err)
	}
	entity.SetKey(seq)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		// The allocated key is burned; sequences never hand it out again.
		entity.SetKey(0)
		return err
	}

	logger.Info(ctx, "entity created", "entity", s.entityName, "seq", seq)
	return nil
}

func (s *EntityService[T]) update(ctx context.Context, entity T) error {
	if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			if apperror.IsAppError(err) {
				return err
			}
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Get retrieves an entity by its sequence key.
func (s *EntityService[T]) Get(ctx context.Context, seq int64) (T, error) {
	entity, err := s.repo.Get(ctx, seq)
	if err != nil {
		return entity, s.normalizeGetErr(err, seq)
	}
	return entity, nil
}

// Delete removes an entity after running before-delete hooks.
func (s *EntityService[T]) Delete(ctx context.Context, seq int64) error {
	entity, err := s.repo.Get(ctx, seq)
	if err != nil {
		return s.normalizeGetErr(err, seq)
	}
	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, seq); err != nil {
			if apperror.IsAppError(err) {
				return err
			}
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Exists reports whether an entity with the key is stored.
func (s *EntityService[T]) Exists(ctx context.Context, seq int64) (bool, error) {
	return s.repo.Exists(ctx, seq)
}

// List returns one page of entities.
func (s *EntityService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	var result ListResult[T]
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.repo.List(ctx, filter.Normalize())
		return err
	})
	return result, err
}

// Count returns the number of entities matching the filter, ignoring paging.
func (s *EntityService[T]) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}
