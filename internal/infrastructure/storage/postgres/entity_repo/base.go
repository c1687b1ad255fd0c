// Package entity_repo provides PostgreSQL repositories for the console's
// sequence-keyed entities.
package entity_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/domain"
	"mngconsole/internal/infrastructure/storage/postgres"
)

// Table describes how an entity maps onto its table.
type Table struct {
	Name string
	// KeyColumn holds the allocated sequence number.
	KeyColumn string
	// ParentColumn is filtered by ListFilter.ParentSeq; empty if the table has no parent.
	ParentColumn string
	// SearchColumns are matched with ILIKE '%phrase%'.
	SearchColumns []string
	// Immutable columns are written on insert only.
	Immutable    []string
	DefaultOrder string
}

// BaseRepo provides common CRUD operations for sequence-keyed entities.
// Embed this in specific repositories.
type BaseRepo[T domain.Entity] struct {
	txm        *postgres.TxManager
	table      Table
	selectCols []string
	newFn      func() T
}

// NewBaseRepo creates a base repository. Columns are taken from T's db tags.
func NewBaseRepo[T domain.Entity](txm *postgres.TxManager, table Table, newFn func() T) *BaseRepo[T] {
	return &BaseRepo[T]{
		txm:        txm,
		table:      table,
		selectCols: postgres.ExtractDBColumns[T](),
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts a new entity using its "db" tags.
func (r *BaseRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.PickColumns(postgres.StructToMap(entity), r.selectCols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := r.Builder().Insert(r.table.Name).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.translateWriteErr(err, entity.Key())
	}
	return nil
}

// Update rewrites every mutable column of the entity.
func (r *BaseRepo[T]) Update(ctx context.Context, entity T) error {
	exclude := append([]string{r.table.KeyColumn}, r.table.Immutable...)
	data := postgres.PickColumns(postgres.StructToMap(entity), r.selectCols, exclude...)

	sql, args, err := r.Builder().
		Update(r.table.Name).
		SetMap(data).
		Where(squirrel.Eq{r.table.KeyColumn: entity.Key()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.translateWriteErr(err, entity.Key())
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table.Name, entity.Key())
	}
	return nil
}

func (r *BaseRepo[T]) translateWriteErr(err error, key int64) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperror.NewConflict("record already exists").
				WithDetail("entity", r.table.Name).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case "23503":
			return apperror.NewNotFound("parent of "+r.table.Name, key).WithCause(err)
		case "22001":
			return apperror.NewValidation("value too long").
				WithDetail("entity", r.table.Name).
				WithDetail("column", pgErr.ColumnName).
				WithCause(err)
		}
	}
	return fmt.Errorf("write %s: %w", r.table.Name, err)
}

func (r *BaseRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().Select(r.selectCols...).From(r.table.Name)
}

// Get retrieves an entity by key.
func (r *BaseRepo[T]) Get(ctx context.Context, seq int64) (T, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{r.table.KeyColumn: seq}).Limit(1), seq)
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.table.Name, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.table.Name, err)
	}
	return entity, nil
}

// Exists checks if an entity with the key exists.
func (r *BaseRepo[T]) Exists(ctx context.Context, seq int64) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{r.table.KeyColumn: seq})
}

// ExistsWhere checks if any row matches cond.
func (r *BaseRepo[T]) ExistsWhere(ctx context.Context, cond squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.Builder().Select("1").From(r.table.Name).Where(cond).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", r.table.Name, err)
	}
	return true, nil
}

// Delete performs physical removal.
func (r *BaseRepo[T]) Delete(ctx context.Context, seq int64) error {
	sql, args, err := r.Builder().
		Delete(r.table.Name).
		Where(squirrel.Eq{r.table.KeyColumn: seq}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("record is still referenced").
				WithDetail("entity", r.table.Name).
				WithDetail("key", seq).
				WithCause(err)
		}
		return fmt.Errorf("delete %s: %w", r.table.Name, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.table.Name, seq)
	}
	return nil
}

// applyFilter adds the search phrase and parent conditions.
func (r *BaseRepo[T]) applyFilter(q squirrel.SelectBuilder, filter domain.ListFilter) squirrel.SelectBuilder {
	if phrase := strings.TrimSpace(filter.Search); phrase != "" && len(r.table.SearchColumns) > 0 {
		pattern := "%" + escapeLike(phrase) + "%"
		or := make(squirrel.Or, 0, len(r.table.SearchColumns))
		for _, col := range r.table.SearchColumns {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	if filter.ParentSeq != nil && r.table.ParentColumn != "" {
		q = q.Where(squirrel.Eq{r.table.ParentColumn: *filter.ParentSeq})
	}
	return q
}

func parentFilter(seq int64) domain.ListFilter {
	return domain.ListFilter{ParentSeq: &seq}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *BaseRepo[T]) countQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	return r.applyFilter(r.Builder().Select("COUNT(*)").From(r.table.Name), filter)
}

func (r *BaseRepo[T]) listQuery(filter domain.ListFilter) (squirrel.SelectBuilder, error) {
	filter = filter.Normalize()
	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return squirrel.SelectBuilder{}, err
	}
	return r.applyFilter(r.baseSelect(), filter).
		OrderBy(orderBy, r.table.KeyColumn+" ASC").
		Limit(uint64(filter.RowCount)).
		Offset(uint64(filter.Offset())), nil
}

// Count returns the number of rows matching the filter.
func (r *BaseRepo[T]) Count(ctx context.Context, filter domain.ListFilter) (int64, error) {
	sql, args, err := r.countQuery(filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.Name, err)
	}
	return total, nil
}

// List retrieves one page of entities plus the total count.
func (r *BaseRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return domain.ListResult[T]{}, err
	}

	q, err := r.listQuery(filter)
	if err != nil {
		return domain.ListResult[T]{}, err
	}
	rows, err := r.Select(ctx, q)
	if err != nil {
		return domain.ListResult[T]{}, err
	}
	return domain.NewListResult(filter, total, rows), nil
}

// Select executes q and scans every row.
func (r *BaseRepo[T]) Select(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var items []T
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.Name, err)
	}
	return items, nil
}

func (r *BaseRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return r.table.DefaultOrder, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}
	field = strings.TrimSpace(field)

	for _, col := range r.selectCols {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
}
