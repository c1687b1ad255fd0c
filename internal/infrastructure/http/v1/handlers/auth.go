package handlers

import (
	"github.com/gin-gonic/gin"

	"mngconsole/internal/core/apperror"
	"mngconsole/internal/domain/account"
	"mngconsole/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *account.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *account.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Authenticate(c.Request.Context(), req.AccountID, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromLoginResult(result))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	accountID := h.GetAccountID(c)
	if accountID == "" {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	a, err := h.service.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAccount(a))
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}
