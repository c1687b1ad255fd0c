// Package menu manages the console's three-level navigation:
// top menu groups contain mid menu groups, which contain low menus.
package menu

import (
	"context"
	"time"
	"unicode/utf8"

	"mngconsole/internal/core/apperror"
)

// Column limits.
const (
	MaxNameLen        = 30
	MaxURLLen         = 255
	MaxDescriptionLen = 120
	MaxIconNameLen    = 50
)

// Audit holds registration/update stamps shared by all menu tables.
type Audit struct {
	RegDate time.Time  `db:"reg_date" json:"regDate"`
	RegID   string     `db:"reg_id" json:"regId"`
	UpdDate *time.Time `db:"upd_date" json:"updDate,omitempty"`
	UpdID   string     `db:"upd_id" json:"updId,omitempty"`
}

// Stamp sets the registration fields on insert or the update fields otherwise.
func (a *Audit) Stamp(accountID string, now time.Time, insert bool) {
	if insert {
		a.RegDate = now
		a.RegID = accountID
		return
	}
	a.UpdDate = &now
	a.UpdID = accountID
}

// KeepRegistration copies the insert stamps of the stored row. Updates never
// rewrite reg_date or reg_id.
func (a *Audit) KeepRegistration(stored Audit) {
	a.RegDate = stored.RegDate
	a.RegID = stored.RegID
}

// TopMenuGroup is a first-level navigation entry.
type TopMenuGroup struct {
	Seq         int64  `db:"top_menu_grp_seq" json:"topMenuGrpSeq"`
	Name        string `db:"name" json:"name"`
	URL         string `db:"url" json:"url"`
	Description string `db:"description" json:"description"`
	Enabled     bool   `db:"enabled" json:"enabled"`
	IconName    string `db:"icon_nm" json:"iconNm"`
	Ord         int    `db:"ord" json:"ord"`
	Audit

	MidMenuGroups []*MidMenuGroup `db:"-" json:"midMenuGrp,omitempty"`
}

func (m *TopMenuGroup) Key() int64       { return m.Seq }
func (m *TopMenuGroup) SetKey(seq int64) { m.Seq = seq }

// Validate implements domain.Entity.
func (m *TopMenuGroup) Validate(ctx context.Context) error {
	return validateCommon(m.Name, m.URL, m.Description, m.IconName)
}

// MidMenuGroup is a second-level entry under a TopMenuGroup.
type MidMenuGroup struct {
	Seq         int64  `db:"mid_menu_grp_seq" json:"midMenuGrpSeq"`
	TopSeq      int64  `db:"tmg_seq" json:"tmgSeq"`
	Name        string `db:"name" json:"name"`
	URL         string `db:"url" json:"url"`
	Description string `db:"description" json:"description"`
	Enabled     bool   `db:"enabled" json:"enabled"`
	IconName    string `db:"icon_nm" json:"iconNm"`
	Ord         int    `db:"ord" json:"ord"`
	Audit

	LowMenus []*LowMenu `db:"-" json:"lowMenu,omitempty"`
}

func (m *MidMenuGroup) Key() int64       { return m.Seq }
func (m *MidMenuGroup) SetKey(seq int64) { m.Seq = seq }

// Validate implements domain.Entity.
func (m *MidMenuGroup) Validate(ctx context.Context) error {
	if m.TopSeq <= 0 {
		return apperror.NewValidation("top menu group is required").WithDetail("field", "tmgSeq")
	}
	return validateCommon(m.Name, m.URL, m.Description, m.IconName)
}

// LowMenu is a leaf entry under a MidMenuGroup.
type LowMenu struct {
	Seq         int64  `db:"low_menu_seq" json:"lowMenuSeq"`
	MidSeq      int64  `db:"mid_menu_grp_seq" json:"midMenuGrpSeq"`
	Name        string `db:"name" json:"name"`
	URL         string `db:"url" json:"url"`
	Description string `db:"description" json:"description"`
	Enabled     bool   `db:"enabled" json:"enabled"`
	Ord         int    `db:"ord" json:"ord"`
	Audit
}

func (m *LowMenu) Key() int64       { return m.Seq }
func (m *LowMenu) SetKey(seq int64) { m.Seq = seq }

// Validate implements domain.Entity.
func (m *LowMenu) Validate(ctx context.Context) error {
	if m.MidSeq <= 0 {
		return apperror.NewValidation("mid menu group is required").WithDetail("field", "midMenuGrpSeq")
	}
	return validateCommon(m.Name, m.URL, m.Description, "")
}

func validateCommon(name, url, description, icon string) error {
	if name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"name", name, MaxNameLen},
		{"url", url, MaxURLLen},
		{"description", description, MaxDescriptionLen},
		{"iconNm", icon, MaxIconNameLen},
	}
	for _, c := range checks {
		if utf8.RuneCountInString(c.value) > c.max {
			return apperror.NewValidation(c.field+" is too long").
				WithDetail("field", c.field).
				WithDetail("max", c.max)
		}
	}
	return nil
}
