package menu

import (
	"context"
	"fmt"
	"time"

	"mngconsole/internal/core/apperror"
	appctx "mngconsole/internal/core/context"
	"mngconsole/internal/core/idgen"
	"mngconsole/internal/core/tx"
	"mngconsole/internal/domain"
)

// Allocators hands out keys per menu level. Each level has its own sequence.
type Allocators struct {
	Top idgen.Allocator
	Mid idgen.Allocator
	Low idgen.Allocator
}

// Service provides business logic for the menu hierarchy.
type Service struct {
	Top *domain.EntityService[*TopMenuGroup]
	Mid *domain.EntityService[*MidMenuGroup]
	Low *domain.EntityService[*LowMenu]

	topRepo TopRepository
	midRepo MidRepository
	lowRepo LowRepository
	txm     tx.ReadOnlyManager
	now     func() time.Time
}

// NewService wires the three levels and their integrity hooks.
func NewService(top TopRepository, mid MidRepository, low LowRepository, ids Allocators, txm tx.ReadOnlyManager) *Service {
	if txm == nil {
		txm = tx.Passthrough{}
	}
	svc := &Service{
		Top: domain.NewEntityService(domain.EntityServiceConfig[*TopMenuGroup]{
			Repo: top, TxManager: txm, IDs: ids.Top, EntityName: "top menu group",
		}),
		Mid: domain.NewEntityService(domain.EntityServiceConfig[*MidMenuGroup]{
			Repo: mid, TxManager: txm, IDs: ids.Mid, EntityName: "mid menu group",
		}),
		Low: domain.NewEntityService(domain.EntityServiceConfig[*LowMenu]{
			Repo: low, TxManager: txm, IDs: ids.Low, EntityName: "low menu",
		}),
		topRepo: top,
		midRepo: mid,
		lowRepo: low,
		txm:     txm,
		now:     time.Now,
	}

	svc.Top.Hooks().On(domain.BeforeCreate, func(ctx context.Context, m *TopMenuGroup) error {
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), true)
		return nil
	})
	svc.Top.Hooks().On(domain.BeforeUpdate, func(ctx context.Context, m *TopMenuGroup) error {
		stored, err := svc.Top.Get(ctx, m.Seq)
		if err != nil {
			return err
		}
		m.KeepRegistration(stored.Audit)
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), false)
		return nil
	})
	svc.Top.Hooks().On(domain.BeforeDelete, svc.ensureTopHasNoChildren)

	svc.Mid.Hooks().On(domain.BeforeCreate, func(ctx context.Context, m *MidMenuGroup) error {
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), true)
		return svc.ensureTopExists(ctx, m.TopSeq)
	})
	svc.Mid.Hooks().On(domain.BeforeUpdate, func(ctx context.Context, m *MidMenuGroup) error {
		stored, err := svc.Mid.Get(ctx, m.Seq)
		if err != nil {
			return err
		}
		m.KeepRegistration(stored.Audit)
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), false)
		return svc.ensureTopExists(ctx, m.TopSeq)
	})
	svc.Mid.Hooks().On(domain.BeforeDelete, svc.ensureMidHasNoChildren)

	svc.Low.Hooks().On(domain.BeforeCreate, func(ctx context.Context, m *LowMenu) error {
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), true)
		return svc.ensureMidExists(ctx, m.MidSeq)
	})
	svc.Low.Hooks().On(domain.BeforeUpdate, func(ctx context.Context, m *LowMenu) error {
		stored, err := svc.Low.Get(ctx, m.Seq)
		if err != nil {
			return err
		}
		m.KeepRegistration(stored.Audit)
		m.Stamp(appctx.GetAccountID(ctx), svc.now(), false)
		return svc.ensureMidExists(ctx, m.MidSeq)
	})

	return svc
}

func (s *Service) ensureTopExists(ctx context.Context, seq int64) error {
	ok, err := s.topRepo.Exists(ctx, seq)
	if err != nil {
		return fmt.Errorf("check top menu group: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("top menu group", seq)
	}
	return nil
}

func (s *Service) ensureMidExists(ctx context.Context, seq int64) error {
	ok, err := s.midRepo.Exists(ctx, seq)
	if err != nil {
		return fmt.Errorf("check mid menu group: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("mid menu group", seq)
	}
	return nil
}

func (s *Service) ensureTopHasNoChildren(ctx context.Context, m *TopMenuGroup) error {
	n, err := s.midRepo.CountByTop(ctx, m.Seq)
	if err != nil {
		return fmt.Errorf("count mid menu groups: %w", err)
	}
	if n > 0 {
		return apperror.NewConflict("top menu group still has mid menu groups").
			WithDetail("topMenuGrpSeq", m.Seq).
			WithDetail("children", n)
	}
	return nil
}

func (s *Service) ensureMidHasNoChildren(ctx context.Context, m *MidMenuGroup) error {
	n, err := s.CountLowMenus(ctx, domain.ListFilter{ParentSeq: &m.Seq})
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflict("mid menu group still has low menus").
			WithDetail("midMenuGrpSeq", m.Seq).
			WithDetail("children", n)
	}
	return nil
}

// CountLowMenus counts low menus matching the search phrase and parent filter.
func (s *Service) CountLowMenus(ctx context.Context, filter domain.ListFilter) (int64, error) {
	n, err := s.lowRepo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count low menus: %w", err)
	}
	return n, nil
}

// Tree returns the enabled menu hierarchy. Repositories return each level
// sorted by ord, and that order is kept. The three levels are read from one snapshot.
func (s *Service) Tree(ctx context.Context) ([]*TopMenuGroup, error) {
	var (
		tops []*TopMenuGroup
		mids []*MidMenuGroup
		lows []*LowMenu
	)
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if tops, err = s.topRepo.ListEnabled(ctx); err != nil {
			return fmt.Errorf("list top menu groups: %w", err)
		}
		if mids, err = s.midRepo.ListEnabled(ctx); err != nil {
			return fmt.Errorf("list mid menu groups: %w", err)
		}
		if lows, err = s.lowRepo.ListEnabled(ctx); err != nil {
			return fmt.Errorf("list low menus: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return BuildTree(tops, mids, lows), nil
}

// BuildTree attaches children to their parents. Orphans are dropped.
func BuildTree(tops []*TopMenuGroup, mids []*MidMenuGroup, lows []*LowMenu) []*TopMenuGroup {
	midBySeq := make(map[int64]*MidMenuGroup, len(mids))
	for _, m := range mids {
		m.LowMenus = nil
		midBySeq[m.Seq] = m
	}
	for _, l := range lows {
		if parent, ok := midBySeq[l.MidSeq]; ok {
			parent.LowMenus = append(parent.LowMenus, l)
		}
	}

	topBySeq := make(map[int64]*TopMenuGroup, len(tops))
	for _, t := range tops {
		t.MidMenuGroups = nil
		topBySeq[t.Seq] = t
	}
	for _, m := range mids {
		if parent, ok := topBySeq[m.TopSeq]; ok {
			parent.MidMenuGroups = append(parent.MidMenuGroups, m)
		}
	}
	return tops
}
