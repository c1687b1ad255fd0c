package handlers

import (
	"github.com/gin-gonic/gin"

	"mngconsole/internal/domain"
)

// EntityRequest is a request body that can build its entity.
type EntityRequest[T any] interface {
	ToEntity(seq int64) T
}

// EntityHandler provides generic CRUD handlers for sequence-keyed entities.
type EntityHandler[T domain.Entity, R EntityRequest[T]] struct {
	*BaseHandler
	service *domain.EntityService[T]
}

// NewEntityHandler creates a handler over service.
func NewEntityHandler[T domain.Entity, R EntityRequest[T]](base *BaseHandler, service *domain.EntityService[T]) *EntityHandler[T, R] {
	return &EntityHandler[T, R]{BaseHandler: base, service: service}
}

// List handles GET /{entity}?current=&rowCount=&search=
func (h *EntityHandler[T, R]) List(c *gin.Context) {
	filter, ok := h.BindListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /{entity}/:key
func (h *EntityHandler[T, R]) Get(c *gin.Context) {
	seq, ok := h.ParseKey(c)
	if !ok {
		return
	}

	entity, err := h.service.Get(c.Request.Context(), seq)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Create handles POST /{entity}. The key is allocated by the service.
func (h *EntityHandler[T, R]) Create(c *gin.Context) {
	var req R
	if !h.BindJSON(c, &req) {
		return
	}

	entity := req.ToEntity(0)
	if err := h.service.Save(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entity)
}

// Update handles PUT /{entity}/:key
func (h *EntityHandler[T, R]) Update(c *gin.Context) {
	seq, ok := h.ParseKey(c)
	if !ok {
		return
	}

	var req R
	if !h.BindJSON(c, &req) {
		return
	}

	entity := req.ToEntity(seq)
	if err := h.service.Save(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Delete handles DELETE /{entity}/:key
func (h *EntityHandler[T, R]) Delete(c *gin.Context) {
	seq, ok := h.ParseKey(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), seq); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
