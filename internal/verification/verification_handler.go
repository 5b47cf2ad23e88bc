package verification

import (
	"net/http"

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
	l := zap.L().Named("verification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("verification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) VerifyNIN(c *gin.Context) {
	var req VerifyNINRequest
	if !crud.BindJSON(c, h.logger, &req) {
		return
	}

	res, err := h.service.VerifyNIN(c.Request.Context(), req)
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
