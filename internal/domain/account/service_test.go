package account

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mngconsole/internal/core/apperror"
	appctx "mngconsole/internal/core/context"
	"mngconsole/internal/core/idgen"
	"mngconsole/internal/domain"
	"mngconsole/internal/domain/domaintest"
)

type memRepo struct {
	*domaintest.MemoryRepository[*Account]
}

func newMemRepo() memRepo {
	r := memRepo{domaintest.NewMemoryRepository[*Account]()}
	r.Match = func(a *Account, f domain.ListFilter) bool {
		if f.Search == "" {
			return true
		}
		for _, v := range []string{a.AccountID, a.Name, a.TelNum, a.HpNum, a.Address, a.AddrDetail, a.PostNum} {
			if strings.Contains(v, f.Search) {
				return true
			}
		}
		return false
	}
	return r
}

func (r memRepo) GetByAccountID(ctx context.Context, accountID string) (*Account, error) {
	for _, a := range r.All() {
		if a.AccountID == accountID {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("account", accountID)
}

func (r memRepo) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	_, err := r.GetByAccountID(ctx, accountID)
	return err == nil, nil
}

func newTestService(t *testing.T) (*Service, memRepo, *idgen.MockAllocator) {
	t.Helper()
	repo := newMemRepo()
	var seq atomic.Int64
	ids := &idgen.MockAllocator{
		NextLongIDFunc: func(ctx context.Context) (int64, error) { return seq.Add(1), nil },
	}
	cfg := DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	svc := NewService(repo, ids, nil, NewJWTService(DefaultJWTConfig("test-secret")), cfg)
	return svc, repo, ids
}

func defaultAdmin() DefaultAccount {
	return DefaultAccount{AccountID: "admin", Name: "Administrator", Password: "asdf1234", Address: "Seoul"}
}

func TestEnsureDefaultAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := t.Context()

	created, err := svc.EnsureDefaultAccount(ctx, defaultAdmin())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefaultAccount(ctx, defaultAdmin())
	require.NoError(t, err)
	assert.False(t, created, "second call must not create another account")

	all := repo.All()
	require.Len(t, all, 1)
	admin := all[0]
	assert.Equal(t, int64(1), admin.Seq)
	assert.True(t, admin.Enabled)
	assert.NotEqual(t, "asdf1234", admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("asdf1234")))
}

func TestEnsureDefaultAccount_AllocatorDown(t *testing.T) {
	svc, repo, ids := newTestService(t)
	ids.NextLongIDFunc = func(ctx context.Context) (int64, error) {
		return 0, idgen.NewAllocationError(idgen.ErrNoRowReturned, nil)
	}

	_, err := svc.EnsureDefaultAccount(t.Context(), defaultAdmin())
	assert.ErrorIs(t, err, idgen.ErrNoRowReturned)
	assert.Empty(t, repo.All())
}

func TestSave_Create(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := t.Context()

	a, err := svc.Save(ctx, &Account{AccountID: "operator", Name: "Op"}, "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Seq)
	assert.False(t, a.RegDate.IsZero())

	_, err = svc.Save(ctx, &Account{AccountID: "operator", Name: "Dup"}, "secret-pass")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestSave_CreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name     string
		account  Account
		password string
		field    string
	}{
		{"short password", Account{AccountID: "op1", Name: "Op"}, "short", "password"},
		{"bad account id", Account{AccountID: "a b", Name: "Op"}, "secret-pass", "accountId"},
		{"no name", Account{AccountID: "op1"}, "secret-pass", "name"},
		{"long name", Account{AccountID: "op1", Name: strings.Repeat("n", MaxNameLen+1)}, "secret-pass", "name"},
		{"long phone", Account{AccountID: "op1", Name: "Op", TelNum: strings.Repeat("1", MaxPhoneLen+1)}, "secret-pass", "telNum"},
		{"long mobile", Account{AccountID: "op1", Name: "Op", HpNum: strings.Repeat("1", MaxPhoneLen+1)}, "secret-pass", "hpNum"},
		{"long address", Account{AccountID: "op1", Name: "Op", Address: strings.Repeat("a", MaxAddressLen+1)}, "secret-pass", "address"},
		{"long address detail", Account{AccountID: "op1", Name: "Op", AddrDetail: strings.Repeat("a", MaxAddressLen+1)}, "secret-pass", "addrDetail"},
		{"long post number", Account{AccountID: "op1", Name: "Op", PostNum: strings.Repeat("0", MaxPostNumLen+1)}, "secret-pass", "postNum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.account
			_, err := svc.Save(t.Context(), &a, tt.password)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestValidate_CountsRunesNotBytes(t *testing.T) {
	a := &Account{
		AccountID: "op1",
		Name:      strings.Repeat("관", MaxNameLen),
		Password:  "hash",
		Address:   strings.Repeat("서", MaxAddressLen),
		PostNum:   strings.Repeat("0", MaxPostNumLen),
	}
	require.NoError(t, a.Validate(t.Context()))

	a.Name += "관"
	appErr, ok := apperror.AsAppError(a.Validate(t.Context()))
	require.True(t, ok)
	assert.Equal(t, "name", appErr.Details["field"])
	assert.Equal(t, MaxNameLen, appErr.Details["max"])
}

func TestSave_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := t.Context()

	created, err := svc.Save(ctx, &Account{AccountID: "operator", Name: "Op"}, "secret-pass")
	require.NoError(t, err)
	hash := created.Password

	updated, err := svc.Save(ctx, &Account{Seq: created.Seq, AccountID: "operator", Name: "Operator", TelNum: "02-000"}, "")
	require.NoError(t, err)
	assert.Equal(t, hash, updated.Password)
	assert.Equal(t, created.RegDate, updated.RegDate)
	require.NotNil(t, updated.UpdDate)

	stored, err := repo.GetByAccountID(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, "Operator", stored.Name)

	_, err = svc.Save(ctx, &Account{Seq: created.Seq, AccountID: "renamed", Name: "x"}, "")
	assert.Error(t, err)
}

func TestList_SearchesAllContactFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := t.Context()

	seed := []Account{
		{AccountID: "kim01", Name: "Kim", HpNum: "010-1111-2222"},
		{AccountID: "lee02", Name: "Lee", Address: "Busan"},
		{AccountID: "park03", Name: "Park", PostNum: "111-222"},
	}
	for i := range seed {
		_, err := svc.Save(ctx, &seed[i], "secret-pass")
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, domain.ListFilter{Current: 1, RowCount: 10, Search: "222"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 10, res.Record)

	res, err = svc.List(ctx, domain.ListFilter{Current: 2, RowCount: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "park03", res.Rows[0].AccountID)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := t.Context()
	_, err := svc.EnsureDefaultAccount(ctx, defaultAdmin())
	require.NoError(t, err)

	res, err := svc.Authenticate(ctx, "admin", "asdf1234")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	acc, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", acc.AccountID)
	assert.Equal(t, int64(1), acc.AccountSeq)

	for _, tc := range [][2]string{{"admin", "wrong"}, {"nobody", "asdf1234"}} {
		_, err := svc.Authenticate(ctx, tc[0], tc[1])
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	}
}

func TestAuthenticate_DisabledAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := t.Context()
	_, err := svc.Save(ctx, &Account{AccountID: "off", Name: "Off", Enabled: false}, "secret-pass")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "off", "secret-pass")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestDeleteByAccountID(t *testing.T) {
	svc, repo, _ := newTestService(t)
	_, err := svc.EnsureDefaultAccount(t.Context(), defaultAdmin())
	require.NoError(t, err)
	_, err = svc.Save(t.Context(), &Account{AccountID: "temp", Name: "Temp"}, "secret-pass")
	require.NoError(t, err)

	self := appctx.WithAccount(t.Context(), &appctx.AccountContext{AccountID: "admin"})
	err = svc.DeleteByAccountID(self, "admin")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	require.NoError(t, svc.DeleteByAccountID(self, "temp"))
	assert.Len(t, repo.All(), 1)

	err = svc.DeleteByAccountID(self, "temp")
	assert.True(t, apperror.IsNotFound(err))
}

func TestJWT_RejectsForeignSecretAndExpiry(t *testing.T) {
	a := &Account{Seq: 9, AccountID: "admin", Name: "Admin"}

	issuer := NewJWTService(DefaultJWTConfig("one"))
	token, _, err := issuer.GenerateAccessToken(a)
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("two")).ValidateToken(token)
	assert.Error(t, err)

	late := NewJWTService(DefaultJWTConfig("one"))
	late.now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	_, err = late.ValidateToken(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}
