package context

import (
	"context"
)

// AccountContext is the authenticated operator of the management console.
type AccountContext struct {
	AccountSeq int64
	AccountID  string
	Name       string
}

type accountContextKey struct{}

// WithAccount adds AccountContext to context.
func WithAccount(ctx context.Context, account *AccountContext) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// GetAccount returns AccountContext from context.
func GetAccount(ctx context.Context) *AccountContext {
	if v, ok := ctx.Value(accountContextKey{}).(*AccountContext); ok {
		return v
	}
	return nil
}

// GetAccountID returns the login id of the current operator or empty string.
// Used to stamp regId/updId audit columns.
func GetAccountID(ctx context.Context) string {
	if a := GetAccount(ctx); a != nil {
		return a.AccountID
	}
	return ""
}
