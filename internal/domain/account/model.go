// Package account manages console operators: storage, password hashing,
// the bootstrap admin account and login tokens.
package account

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"mngconsole/internal/core/apperror"
)

// Column limits of the account table.
const (
	MaxNameLen         = 50
	MaxPasswordHashLen = 100
	MaxPhoneLen        = 20
	MaxAddressLen      = 255
	MaxPostNumLen      = 10
)

var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)

// Account is a console operator.
type Account struct {
	Seq        int64      `db:"account_seq" json:"accountSeq"`
	AccountID  string     `db:"account_id" json:"accountId"`
	Name       string     `db:"name" json:"name"`
	Password   string     `db:"password" json:"-"`
	TelNum     string     `db:"tel_num" json:"telNum"`
	HpNum      string     `db:"hp_num" json:"hpNum"`
	Address    string     `db:"address" json:"address"`
	AddrDetail string     `db:"addr_detail" json:"addrDetail"`
	PostNum    string     `db:"post_num" json:"postNum"`
	Enabled    bool       `db:"enabled" json:"enabled"`
	RegDate    time.Time  `db:"reg_date" json:"regDate"`
	UpdDate    *time.Time `db:"upd_date" json:"updDate,omitempty"`
}

func (a *Account) Key() int64       { return a.Seq }
func (a *Account) SetKey(seq int64) { a.Seq = seq }

// Validate implements domain.Entity.
func (a *Account) Validate(ctx context.Context) error {
	if !accountIDPattern.MatchString(a.AccountID) {
		return apperror.NewValidation("accountId must be 3-32 letters, digits, '.', '_' or '-'").
			WithDetail("field", "accountId")
	}
	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if a.Password == "" {
		return apperror.NewValidation("password is required").WithDetail("field", "password")
	}
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"name", a.Name, MaxNameLen},
		{"password", a.Password, MaxPasswordHashLen},
		{"telNum", a.TelNum, MaxPhoneLen},
		{"hpNum", a.HpNum, MaxPhoneLen},
		{"address", a.Address, MaxAddressLen},
		{"addrDetail", a.AddrDetail, MaxAddressLen},
		{"postNum", a.PostNum, MaxPostNumLen},
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

// CanLogin checks if the account may authenticate.
func (a *Account) CanLogin() error {
	if !a.Enabled {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// DefaultAccount describes the admin created on an empty account table.
type DefaultAccount struct {
	AccountID  string
	Name       string
	Password   string
	HpNum      string
	Address    string
	AddrDetail string
	PostNum    string
}

// LoginResult is returned by Authenticate.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Account     *Account  `json:"account"`
}
