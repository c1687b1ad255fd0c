package dto

import (
	"time"

	"mngconsole/internal/domain/account"
)

// AccountRequest is the body of account create and update.
// Password is optional on update; empty keeps the stored hash.
type AccountRequest struct {
	AccountID  string `json:"accountId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password"`
	TelNum     string `json:"telNum"`
	HpNum      string `json:"hpNum"`
	Address    string `json:"address"`
	AddrDetail string `json:"addrDetail"`
	PostNum    string `json:"postNum"`
	Enabled    *bool  `json:"enabled"`
}

// ToAccount builds the domain entity. seq is zero for a new account.
func (r AccountRequest) ToAccount(seq int64) *account.Account {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &account.Account{
		Seq:        seq,
		AccountID:  r.AccountID,
		Name:       r.Name,
		TelNum:     r.TelNum,
		HpNum:      r.HpNum,
		Address:    r.Address,
		AddrDetail: r.AddrDetail,
		PostNum:    r.PostNum,
		Enabled:    enabled,
	}
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	AccountSeq int64      `json:"accountSeq"`
	AccountID  string     `json:"accountId"`
	Name       string     `json:"name"`
	TelNum     string     `json:"telNum"`
	HpNum      string     `json:"hpNum"`
	Address    string     `json:"address"`
	AddrDetail string     `json:"addrDetail"`
	PostNum    string     `json:"postNum"`
	Enabled    bool       `json:"enabled"`
	RegDate    time.Time  `json:"regDate"`
	UpdDate    *time.Time `json:"updDate,omitempty"`
}

// FromAccount maps the domain entity. The password hash is never copied.
func FromAccount(a *account.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		AccountSeq: a.Seq,
		AccountID:  a.AccountID,
		Name:       a.Name,
		TelNum:     a.TelNum,
		HpNum:      a.HpNum,
		Address:    a.Address,
		AddrDetail: a.AddrDetail,
		PostNum:    a.PostNum,
		Enabled:    a.Enabled,
		RegDate:    a.RegDate,
		UpdDate:    a.UpdDate,
	}
}
