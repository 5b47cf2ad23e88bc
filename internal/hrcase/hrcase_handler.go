package hrcase

import (
	"net/http"

	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry Registry
}

func NewHandler(registry Registry) *Handler {
	return &Handler{registry: registry}
}

// Permission resolves :kind into the RBAC resource. Unknown kinds answer 404.
func (h *Handler) Permission(c *gin.Context) (string, string, bool) {
	kind := c.Param("kind")
	if _, ok := h.registry[kind]; !ok {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Unknown case kind", gin.H{"kinds": h.registry.KindNames()})
		return "", "", false
	}
	return kind, middleware.ActionForMethod(c.Request.Method), true
}

func (h *Handler) Kinds(c *gin.Context) {
	response.Success(c, http.StatusOK, h.registry.KindNames(), nil)
}

func (h *Handler) List(c *gin.Context)   { h.registry[c.Param("kind")].List(c) }
func (h *Handler) Get(c *gin.Context)    { h.registry[c.Param("kind")].Get(c) }
func (h *Handler) Create(c *gin.Context) { h.registry[c.Param("kind")].Create(c) }
func (h *Handler) Update(c *gin.Context) { h.registry[c.Param("kind")].Update(c) }
func (h *Handler) Delete(c *gin.Context) { h.registry[c.Param("kind")].Delete(c) }
