package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/core/idgen"
	"mngconsole/internal/domain"
	"mngconsole/internal/domain/account"
	"mngconsole/internal/domain/domaintest"
	"mngconsole/internal/domain/menu"
	"mngconsole/internal/infrastructure/storage/postgres"
	"mngconsole/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- in-memory repositories ---

type accountRepo struct {
	*domaintest.MemoryRepository[*account.Account]
}

func (r accountRepo) GetByAccountID(ctx context.Context, accountID string) (*account.Account, error) {
	for _, a := range r.All() {
		if a.AccountID == accountID {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("account", accountID)
}

func (r accountRepo) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	_, err := r.GetByAccountID(ctx, accountID)
	return err == nil, nil
}

type topRepo struct {
	*domaintest.MemoryRepository[*menu.TopMenuGroup]
}

func (r topRepo) ListEnabled(ctx context.Context) ([]*menu.TopMenuGroup, error) {
	return enabled(r.All(), func(m *menu.TopMenuGroup) bool { return m.Enabled }), nil
}

type midRepo struct {
	*domaintest.MemoryRepository[*menu.MidMenuGroup]
}

func (r midRepo) ListEnabled(ctx context.Context) ([]*menu.MidMenuGroup, error) {
	return enabled(r.All(), func(m *menu.MidMenuGroup) bool { return m.Enabled }), nil
}

func (r midRepo) CountByTop(ctx context.Context, topSeq int64) (int64, error) {
	var n int64
	for _, m := range r.All() {
		if m.TopSeq == topSeq {
			n++
		}
	}
	return n, nil
}

type lowRepo struct {
	*domaintest.MemoryRepository[*menu.LowMenu]
}

func (r lowRepo) ListEnabled(ctx context.Context) ([]*menu.LowMenu, error) {
	return enabled(r.All(), func(m *menu.LowMenu) bool { return m.Enabled }), nil
}

func enabled[T any](all []T, keep func(T) bool) []T {
	var out []T
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func sequence(start int64) *idgen.MockAllocator {
	var n atomic.Int64
	n.Store(start - 1)
	return &idgen.MockAllocator{
		NextLongIDFunc: func(ctx context.Context) (int64, error) { return n.Add(1), nil },
	}
}

type fakeDB struct {
	pingErr error
}

func (f fakeDB) Ping(ctx context.Context) error { return f.pingErr }
func (f fakeDB) Stats() postgres.PoolStats     { return postgres.PoolStats{MaxConns: 20, IdleConns: 2} }

// --- harness ---

type harness struct {
	t      *testing.T
	router *gin.Engine
	token  string
	topIDs *idgen.MockAllocator
}

func newHarness(t *testing.T, db fakeDB) *harness {
	t.Helper()

	accRepo := accountRepo{domaintest.NewMemoryRepository[*account.Account]()}
	accRepo.Match = func(a *account.Account, f domain.ListFilter) bool {
		return f.Search == "" || strings.Contains(a.AccountID, f.Search) || strings.Contains(a.Name, f.Search)
	}
	cfg := account.DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	accounts := account.NewService(accRepo, sequence(1), nil, account.NewJWTService(account.DefaultJWTConfig("test-secret")), cfg)

	mids := midRepo{domaintest.NewMemoryRepository[*menu.MidMenuGroup]()}
	mids.Match = func(m *menu.MidMenuGroup, f domain.ListFilter) bool {
		return f.ParentSeq == nil || m.TopSeq == *f.ParentSeq
	}
	topIDs := sequence(1)
	menus := menu.NewService(
		topRepo{domaintest.NewMemoryRepository[*menu.TopMenuGroup]()},
		mids,
		lowRepo{domaintest.NewMemoryRepository[*menu.LowMenu]()},
		menu.Allocators{Top: topIDs, Mid: sequence(100), Low: sequence(1000)},
		nil,
	)

	_, err := accounts.EnsureDefaultAccount(t.Context(), account.DefaultAccount{
		AccountID: "admin", Name: "Administrator", Password: "asdf1234",
	})
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database: db,
		Logger:   logger.NewNop(),
		Accounts: accounts,
		Menus:    menus,
		Version:  "test",
		IDSource: "pool",
	})
	return &harness{t: t, router: router, topIDs: topIDs}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login() {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"accountId": "admin", "password": "asdf1234"})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(h.t, "Bearer", resp.TokenType)
	h.token = resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// --- tests ---

func TestHealth(t *testing.T) {
	h := newHarness(t, fakeDB{})

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/ready", nil).Code)

	info := decode[map[string]any](t, h.do(http.MethodGet, "/health/info", nil))
	assert.Equal(t, "pool", info["id_source"])
	db, ok := info["database"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 20, db["maxConns"])

	down := newHarness(t, fakeDB{pingErr: errors.New("connection refused")})
	w := down.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAuth_RequiresToken(t *testing.T) {
	h := newHarness(t, fakeDB{})

	w := h.do(http.MethodGet, "/api/v1/mng/menu-tree", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.CodeUnauthorized, decode[errorBody](t, w).Code)

	h.token = "not-a-jwt"
	w = h.do(http.MethodGet, "/api/v1/mng/menu-tree", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	h.token = ""
	w = h.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"accountId": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"accountId": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuth_Me(t *testing.T) {
	h := newHarness(t, fakeDB{})
	h.login()

	w := h.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "admin", me["accountId"])
	assert.NotContains(t, me, "password")
}

func TestMenus_CRUDAndTree(t *testing.T) {
	h := newHarness(t, fakeDB{})
	h.login()

	w := h.do(http.MethodPost, "/api/v1/mng/config/top-menu-groups", map[string]any{"name": "System", "enabled": true, "ord": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	top := decode[menu.TopMenuGroup](t, w)
	assert.Equal(t, int64(1), top.Seq)
	assert.Equal(t, "admin", top.RegID)

	w = h.do(http.MethodPost, "/api/v1/mng/config/mid-menu-groups", map[string]any{"tmgSeq": top.Seq, "name": "Config", "enabled": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mid := decode[menu.MidMenuGroup](t, w)
	assert.Equal(t, int64(100), mid.Seq)

	w = h.do(http.MethodPost, "/api/v1/mng/config/low-menus", map[string]any{"midMenuGrpSeq": mid.Seq, "name": "Users", "url": "/mng/config/users", "enabled": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1000), decode[menu.LowMenu](t, w).Seq)

	w = h.do(http.MethodPost, "/api/v1/mng/config/low-menus", map[string]any{"midMenuGrpSeq": 999, "name": "Orphan"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/v1/mng/config/mid-menu-groups?parentSeq=1&current=1&rowCount=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.ListResult[menu.MidMenuGroup]](t, w)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Current)
	assert.Equal(t, 5, page.Record)

	w = h.do(http.MethodGet, "/api/v1/mng/config/low-menus/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/v1/mng/menu-tree", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decode[struct {
		Items []menu.TopMenuGroup `json:"items"`
	}](t, w)
	require.Len(t, tree.Items, 1)
	require.Len(t, tree.Items[0].MidMenuGroups, 1)
	require.Len(t, tree.Items[0].MidMenuGroups[0].LowMenus, 1)
	assert.Equal(t, "Users", tree.Items[0].MidMenuGroups[0].LowMenus[0].Name)

	w = h.do(http.MethodPut, "/api/v1/mng/config/top-menu-groups/1", map[string]any{"name": "Settings", "enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[menu.TopMenuGroup](t, w)
	assert.Equal(t, "Settings", updated.Name)
	assert.False(t, updated.RegDate.IsZero(), "registration date must survive an update")
	assert.Equal(t, "admin", updated.RegID)
	assert.Equal(t, "admin", updated.UpdID)

	w = h.do(http.MethodDelete, "/api/v1/mng/config/top-menu-groups/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/v1/mng/config/top-menu-groups/1", nil).Code)
}

func TestMenus_InvalidRequests(t *testing.T) {
	h := newHarness(t, fakeDB{})
	h.login()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"non numeric key", http.MethodGet, "/api/v1/mng/config/top-menu-groups/abc", nil, http.StatusBadRequest},
		{"zero key", http.MethodDelete, "/api/v1/mng/config/low-menus/0", nil, http.StatusBadRequest},
		{"unknown key", http.MethodGet, "/api/v1/mng/config/top-menu-groups/42", nil, http.StatusNotFound},
		{"update unknown key", http.MethodPut, "/api/v1/mng/config/top-menu-groups/42", map[string]any{"name": "x"}, http.StatusNotFound},
		{"missing name", http.MethodPost, "/api/v1/mng/config/top-menu-groups", map[string]any{"url": "/x"}, http.StatusBadRequest},
		{"name too long", http.MethodPost, "/api/v1/mng/config/top-menu-groups", map[string]any{"name": strings.Repeat("n", 31)}, http.StatusBadRequest},
		{"row count too large", http.MethodGet, "/api/v1/mng/config/low-menus?rowCount=500", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestMenus_AllocationFailureIsServiceUnavailable(t *testing.T) {
	h := newHarness(t, fakeDB{})
	h.login()
	h.topIDs.NextLongIDFunc = func(ctx context.Context) (int64, error) {
		return 0, idgen.NewAllocationError(idgen.ErrConnectionUnavailable, errors.New("pool closed"))
	}

	w := h.do(http.MethodPost, "/api/v1/mng/config/top-menu-groups", map[string]any{"name": "System"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, apperror.CodeIDAllocation, body.Code)
	assert.NotContains(t, w.Body.String(), "pool closed")

	w = h.do(http.MethodGet, "/api/v1/mng/config/top-menu-groups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[domain.ListResult[menu.TopMenuGroup]](t, w).Total)
}

func TestUsers_CRUD(t *testing.T) {
	h := newHarness(t, fakeDB{})
	h.login()
	const users = "/api/v1/mng/config/users"

	w := h.do(http.MethodPost, users, map[string]any{"accountId": "operator", "name": "Op", "password": "secret-pass", "hpNum": "010-1234-5678"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, created["accountSeq"])
	assert.Equal(t, true, created["enabled"])
	assert.NotContains(t, created, "password")

	w = h.do(http.MethodPost, users, map[string]any{"accountId": "operator", "name": "Dup", "password": "secret-pass"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodGet, users+"?search=oper", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[domain.ListResult[map[string]any]](t, w).Total)

	w = h.do(http.MethodPut, users+"/operator", map[string]any{"accountId": "renamed", "name": "Op"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, users+"/operator", map[string]any{"accountId": "operator", "name": "Op", "postNum": "12345678901"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "postNum")

	w = h.do(http.MethodPut, users+"/operator", map[string]any{"accountId": "operator", "name": "Operator", "enabled": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, w)["enabled"])

	w = h.do(http.MethodGet, users+"/operator", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Operator", decode[map[string]any](t, w)["name"])

	w = h.do(http.MethodDelete, users+"/admin", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, users+"/operator", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, users+"/operator", nil).Code)
}

func TestTraceHeaders(t *testing.T) {
	h := newHarness(t, fakeDB{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}
