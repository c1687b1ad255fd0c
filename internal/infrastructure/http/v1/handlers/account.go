package handlers

import (
	"github.com/gin-gonic/gin"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/domain"
	"mngconsole/internal/domain/account"
	"mngconsole/internal/infrastructure/http/v1/dto"
)

// AccountHandler manages console operators. Accounts are addressed by login id.
type AccountHandler struct {
	*BaseHandler
	service *account.Service
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(base *BaseHandler, service *account.Service) *AccountHandler {
	return &AccountHandler{BaseHandler: base, service: service}
}

// List handles GET /mng/config/users
func (h *AccountHandler) List(c *gin.Context) {
	filter, ok := h.BindListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	rows := make([]*dto.AccountResponse, len(result.Rows))
	for i, a := range result.Rows {
		rows[i] = dto.FromAccount(a)
	}
	h.OK(c, domain.ListResult[*dto.AccountResponse]{
		Total:   result.Total,
		Current: result.Current,
		Record:  result.Record,
		Rows:    rows,
	})
}

// Get handles GET /mng/config/users/:key
func (h *AccountHandler) Get(c *gin.Context) {
	a, err := h.service.GetByAccountID(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAccount(a))
}

// Create handles POST /mng/config/users
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Save(c.Request.Context(), req.ToAccount(0), req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromAccount(a))
}

// Update handles PUT /mng/config/users/:key
func (h *AccountHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := c.Param("key")

	var req dto.AccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.AccountID != accountID {
		h.Error(c, apperror.NewValidation("accountId cannot be changed").WithDetail("field", "accountId"))
		return
	}

	existing, err := h.service.GetByAccountID(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	a, err := h.service.Save(ctx, req.ToAccount(existing.Seq), req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAccount(a))
}

// Delete handles DELETE /mng/config/users/:key
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteByAccountID(c.Request.Context(), c.Param("key")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
