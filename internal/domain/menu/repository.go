package menu

import (
	"context"

	"mngconsole/internal/domain"
)

// TopRepository stores top menu groups.
type TopRepository interface {
	domain.Repository[*TopMenuGroup]
	ListEnabled(ctx context.Context) ([]*TopMenuGroup, error)
}

// MidRepository stores mid menu groups.
type MidRepository interface {
	domain.Repository[*MidMenuGroup]
	ListEnabled(ctx context.Context) ([]*MidMenuGroup, error)
	CountByTop(ctx context.Context, topSeq int64) (int64, error)
}

// LowRepository stores low menus.
type LowRepository interface {
	domain.Repository[*LowMenu]
	ListEnabled(ctx context.Context) ([]*LowMenu, error)
}
