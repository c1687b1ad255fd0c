package dto

import (
	"mngconsole/internal/domain/menu"
)

// TopMenuGroupRequest is the body of top menu group create and update.
type TopMenuGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	IconName    string `json:"iconNm"`
	Ord         int    `json:"ord"`
}

// ToEntity builds the domain entity.
func (r TopMenuGroupRequest) ToEntity(seq int64) *menu.TopMenuGroup {
	return &menu.TopMenuGroup{
		Seq:         seq,
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Enabled:     r.Enabled,
		IconName:    r.IconName,
		Ord:         r.Ord,
	}
}

// MidMenuGroupRequest is the body of mid menu group create and update.
type MidMenuGroupRequest struct {
	TopSeq      int64  `json:"tmgSeq" binding:"required"`
	Name        string `json:"name" binding:"required"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	IconName    string `json:"iconNm"`
	Ord         int    `json:"ord"`
}

func (r MidMenuGroupRequest) ToEntity(seq int64) *menu.MidMenuGroup {
	return &menu.MidMenuGroup{
		Seq:         seq,
		TopSeq:      r.TopSeq,
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Enabled:     r.Enabled,
		IconName:    r.IconName,
		Ord:         r.Ord,
	}
}

// LowMenuRequest is the body of low menu create and update.
type LowMenuRequest struct {
	MidSeq      int64  `json:"midMenuGrpSeq" binding:"required"`
	Name        string `json:"name" binding:"required"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Ord         int    `json:"ord"`
}

func (r LowMenuRequest) ToEntity(seq int64) *menu.LowMenu {
	return &menu.LowMenu{
		Seq:         seq,
		MidSeq:      r.MidSeq,
		Name:        r.Name,
		URL:         r.URL,
		Description: r.Description,
		Enabled:     r.Enabled,
		Ord:         r.Ord,
	}
}
