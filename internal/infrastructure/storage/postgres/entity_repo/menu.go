package entity_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"mngconsole/internal/domain/menu"
	"mngconsole/internal/infrastructure/storage/postgres"
)

var menuSearchColumns = []string{"name", "url", "description"}

// TopMenuRepo implements menu.TopRepository.
type TopMenuRepo struct {
	*BaseRepo[*menu.TopMenuGroup]
}

// NewTopMenuRepo creates the top_menu_grp repository.
func NewTopMenuRepo(txm *postgres.TxManager) *TopMenuRepo {
	return &TopMenuRepo{NewBaseRepo(txm, Table{
		Name:          "top_menu_grp",
		KeyColumn:     "top_menu_grp_seq",
		SearchColumns: menuSearchColumns,
		Immutable:     []string{"reg_date", "reg_id"},
		DefaultOrder:  "ord ASC",
	}, func() *menu.TopMenuGroup { return &menu.TopMenuGroup{} })}
}

// ListEnabled returns enabled groups ordered by ord.
func (r *TopMenuRepo) ListEnabled(ctx context.Context) ([]*menu.TopMenuGroup, error) {
	return r.Select(ctx, r.baseSelect().Where(squirrel.Eq{"enabled": true}).OrderBy("ord ASC", "top_menu_grp_seq ASC"))
}

// MidMenuRepo implements menu.MidRepository.
type MidMenuRepo struct {
	*BaseRepo[*menu.MidMenuGroup]
}

// NewMidMenuRepo creates the mid_menu_grp repository.
func NewMidMenuRepo(txm *postgres.TxManager) *MidMenuRepo {
	return &MidMenuRepo{NewBaseRepo(txm, Table{
		Name:          "mid_menu_grp",
		KeyColumn:     "mid_menu_grp_seq",
		ParentColumn:  "tmg_seq",
		SearchColumns: menuSearchColumns,
		Immutable:     []string{"reg_date", "reg_id"},
		DefaultOrder:  "ord ASC",
	}, func() *menu.MidMenuGroup { return &menu.MidMenuGroup{} })}
}

// ListEnabled returns enabled groups ordered by ord.
func (r *MidMenuRepo) ListEnabled(ctx context.Context) ([]*menu.MidMenuGroup, error) {
	return r.Select(ctx, r.baseSelect().Where(squirrel.Eq{"enabled": true}).OrderBy("ord ASC", "mid_menu_grp_seq ASC"))
}

// CountByTop counts mid groups under a top group.
func (r *MidMenuRepo) CountByTop(ctx context.Context, topSeq int64) (int64, error) {
	return r.Count(ctx, parentFilter(topSeq))
}

// LowMenuRepo implements menu.LowRepository.
type LowMenuRepo struct {
	*BaseRepo[*menu.LowMenu]
}

// NewLowMenuRepo creates the low_menu repository.
func NewLowMenuRepo(txm *postgres.TxManager) *LowMenuRepo {
	return &LowMenuRepo{NewBaseRepo(txm, Table{
		Name:          "low_menu",
		KeyColumn:     "low_menu_seq",
		ParentColumn:  "mid_menu_grp_seq",
		SearchColumns: menuSearchColumns,
		Immutable:     []string{"reg_date", "reg_id"},
		DefaultOrder:  "ord ASC",
	}, func() *menu.LowMenu { return &menu.LowMenu{} })}
}

// ListEnabled returns enabled menus ordered by ord.
func (r *LowMenuRepo) ListEnabled(ctx context.Context) ([]*menu.LowMenu, error) {
	return r.Select(ctx, r.baseSelect().Where(squirrel.Eq{"enabled": true}).OrderBy("ord ASC", "low_menu_seq ASC"))
}

var (
	_ menu.TopRepository = (*TopMenuRepo)(nil)
	_ menu.MidRepository = (*MidMenuRepo)(nil)
	_ menu.LowRepository = (*LowMenuRepo)(nil)
)
