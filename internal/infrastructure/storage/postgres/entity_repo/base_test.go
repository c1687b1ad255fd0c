package entity_repo

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/domain"
)

func TestColumnsFromTags(t *testing.T) {
	low := NewLowMenuRepo(nil)
	assert.Equal(t, []string{
		"low_menu_seq", "mid_menu_grp_seq", "name", "url", "description", "enabled", "ord",
		"reg_date", "reg_id", "upd_date", "upd_id",
	}, low.selectCols)

	acc := NewAccountRepo(nil)
	assert.Contains(t, acc.selectCols, "password")
	assert.Contains(t, acc.selectCols, "addr_detail")
}

func TestListQuery(t *testing.T) {
	repo := NewMidMenuRepo(nil)
	parent := int64(3)

	tests := []struct {
		name      string
		filter    domain.ListFilter
		wantWhere string
		wantTail  string
		wantArgs  []any
	}{
		{
			name:     "first page defaults",
			filter:   domain.ListFilter{},
			wantTail: "ORDER BY ord ASC, mid_menu_grp_seq ASC LIMIT 10 OFFSET 0",
		},
		{
			name:      "search and parent",
			filter:    domain.ListFilter{Current: 3, RowCount: 20, Search: "user", ParentSeq: &parent},
			wantWhere: "WHERE (name ILIKE $1 OR url ILIKE $2 OR description ILIKE $3) AND tmg_seq = $4",
			wantTail:  "ORDER BY ord ASC, mid_menu_grp_seq ASC LIMIT 20 OFFSET 40",
			wantArgs:  []any{"%user%", "%user%", "%user%", int64(3)},
		},
		{
			name:     "descending order",
			filter:   domain.ListFilter{OrderBy: "-name"},
			wantTail: "ORDER BY name DESC, mid_menu_grp_seq ASC LIMIT 10 OFFSET 0",
		},
		{
			name:      "like wildcards are escaped",
			filter:    domain.ListFilter{Search: "50%_off"},
			wantWhere: "WHERE (name ILIKE $1 OR url ILIKE $2 OR description ILIKE $3)",
			wantArgs:  []any{`%50\%\_off%`, `%50\%\_off%`, `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.listQuery(tt.filter)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)

			assert.Contains(t, sql, "FROM mid_menu_grp")
			if tt.wantWhere != "" {
				assert.Contains(t, sql, tt.wantWhere)
			} else {
				assert.NotContains(t, sql, "WHERE")
			}
			if tt.wantTail != "" {
				assert.Contains(t, sql, tt.wantTail)
			}
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestListQuery_RejectsUnknownOrderColumn(t *testing.T) {
	repo := NewTopMenuRepo(nil)

	_, err := repo.listQuery(domain.ListFilter{OrderBy: "name; DROP TABLE account"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCountQuery_AccountSearchColumns(t *testing.T) {
	repo := NewAccountRepo(nil)

	sql, args, err := repo.countQuery(domain.ListFilter{Search: "010"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COUNT(*) FROM account WHERE (account_id ILIKE $1 OR name ILIKE $2 OR tel_num ILIKE $3 OR hp_num ILIKE $4 OR address ILIKE $5 OR addr_detail ILIKE $6 OR post_num ILIKE $7)",
		sql)
	assert.Len(t, args, 7)
}

func TestCountQuery_ParentIgnoredWithoutParentColumn(t *testing.T) {
	repo := NewTopMenuRepo(nil)

	sql, _, err := repo.countQuery(parentFilter(9)).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM top_menu_grp", sql)
}

func TestTranslateWriteErr(t *testing.T) {
	repo := NewAccountRepo(nil)

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "account_account_id_key"}, apperror.CodeConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, apperror.CodeNotFound},
		{"value too long", &pgconn.PgError{Code: "22001", ColumnName: "post_num"}, apperror.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.translateWriteErr(tt.err, 3)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("other errors stay internal", func(t *testing.T) {
		err := repo.translateWriteErr(errors.New("connection reset"), 3)
		_, ok := apperror.AsAppError(err)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "write account")
	})
}
