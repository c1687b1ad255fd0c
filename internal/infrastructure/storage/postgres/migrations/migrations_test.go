package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements_Order(t *testing.T) {
	stmts, err := Statements()
	require.NoError(t, err)
	require.NotEmpty(t, stmts)

	// sequences come first, the account table last
	assert.Contains(t, stmts[0].SQL, "CREATE SEQUENCE IF NOT EXISTS top_menu_grp_seq")
	assert.Contains(t, stmts[len(stmts)-1].SQL, "CREATE TABLE IF NOT EXISTS account")

	var sequences int
	for _, s := range stmts {
		assert.NotContains(t, s.SQL, ";")
		if regexp.MustCompile(`CREATE SEQUENCE`).MatchString(s.SQL) {
			sequences++
		}
	}
	assert.Equal(t, 4, sequences)
}

func TestApplyExecutesAllMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stmts, err := Statements()
	require.NoError(t, err)
	for range stmts {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Apply(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStopsOnFirstError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE SEQUENCE").WillReturnError(errors.New("permission denied for schema public"))

	err = Apply(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql/001_sequences.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
