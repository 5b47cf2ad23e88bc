package activity

import (
	"net/http"
	"strconv"

	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("activity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			crud.WriteError(c, h.logger, apperror.InvalidField("Limit"))
			return
		}
		limit = n
	}

	logs, err := h.service.List(c.Request.Context(), c.GetString("company_id"), limit)
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, logs, nil)
}
