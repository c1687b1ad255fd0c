package handlers

import (
	"github.com/gin-gonic/gin"

	"mngconsole/internal/domain/menu"
	"mngconsole/internal/infrastructure/http/v1/dto"
)

type (
	TopMenuGroupHandler = EntityHandler[*menu.TopMenuGroup, dto.TopMenuGroupRequest]
	MidMenuGroupHandler = EntityHandler[*menu.MidMenuGroup, dto.MidMenuGroupRequest]
	LowMenuHandler      = EntityHandler[*menu.LowMenu, dto.LowMenuRequest]
)

// MenuHandler serves the cross-level menu endpoints.
type MenuHandler struct {
	*BaseHandler
	service *menu.Service

	Top *TopMenuGroupHandler
	Mid *MidMenuGroupHandler
	Low *LowMenuHandler
}

// NewMenuHandler creates handlers for all three menu levels.
func NewMenuHandler(base *BaseHandler, service *menu.Service) *MenuHandler {
	return &MenuHandler{
		BaseHandler: base,
		service:     service,
		Top:         NewEntityHandler[*menu.TopMenuGroup, dto.TopMenuGroupRequest](base, service.Top),
		Mid:         NewEntityHandler[*menu.MidMenuGroup, dto.MidMenuGroupRequest](base, service.Mid),
		Low:         NewEntityHandler[*menu.LowMenu, dto.LowMenuRequest](base, service.Low),
	}
}

// Tree handles GET /mng/menu-tree
func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": tree})
}

// CountLowMenus handles GET /mng/config/low-menus/count
func (h *MenuHandler) CountLowMenus(c *gin.Context) {
	filter, ok := h.BindListFilter(c)
	if !ok {
		return
	}

	n, err := h.service.CountLowMenus(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CountResponse{Count: n})
}
