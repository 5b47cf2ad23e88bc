package calendar

import (
	"net/http"

	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedHandler struct {
	service FeedService
	logger  *zap.Logger
}

func NewFeedHandler(service FeedService, logger ...*zap.Logger) *FeedHandler {
	l := zap.L().Named("calendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.handler")
	}
	return &FeedHandler{service: service, logger: l}
}

func (h *FeedHandler) Feed(c *gin.Context) {
	entries, err := h.service.Feed(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, entries, nil)
}
