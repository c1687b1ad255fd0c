package account

import (
	"context"

	"mngconsole/internal/domain"
)

// Repository stores accounts. List searches accountId, name, telNum, hpNum,
// address, addrDetail and postNum.
type Repository interface {
	domain.Repository[*Account]

	// GetByAccountID returns apperror NotFound when no account matches.
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	ExistsByAccountID(ctx context.Context, accountID string) (bool, error)
}
