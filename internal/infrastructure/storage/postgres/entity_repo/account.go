package entity_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"mngconsole/internal/domain/account"
	"mngconsole/internal/infrastructure/storage/postgres"
)

// AccountRepo implements account.Repository.
type AccountRepo struct {
	*BaseRepo[*account.Account]
}

// NewAccountRepo creates the account repository.
func NewAccountRepo(txm *postgres.TxManager) *AccountRepo {
	return &AccountRepo{NewBaseRepo(txm, Table{
		Name:      "account",
		KeyColumn: "account_seq",
		SearchColumns: []string{
			"account_id", "name", "tel_num", "hp_num", "address", "addr_detail", "post_num",
		},
		Immutable:    []string{"account_id", "reg_date"},
		DefaultOrder: "account_seq ASC",
	}, func() *account.Account { return &account.Account{} })}
}

// GetByAccountID retrieves an account by login id.
func (r *AccountRepo) GetByAccountID(ctx context.Context, accountID string) (*account.Account, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"account_id": accountID}).Limit(1), accountID)
}

// ExistsByAccountID checks if the login id is taken.
func (r *AccountRepo) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"account_id": accountID})
}

var _ account.Repository = (*AccountRepo)(nil)
