package crud

import (
	"net/http"
	"strings"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Validator is implemented by request payloads with checks binding tags cannot express.
type Validator interface {
	Validate() error
}

// Handler serves one backend collection. C and U are the create and update payloads.
type Handler[T Record, C any, U any] struct {
	service Service[T]
	filters []string
	logger  *zap.Logger
}

// NewHandler builds a handler; filters lists the query parameters passed through to the backend.
func NewHandler[T Record, C any, U any](service Service[T], name string, filters []string, logger ...*zap.Logger) *Handler[T, C, U] {
	l := zap.L().Named(name + ".handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(name + ".handler")
	}
	return &Handler[T, C, U]{service: service, filters: filters, logger: l}
}

func (h *Handler[T, C, U]) writeError(c *gin.Context, err error) {
	WriteError(c, h.logger, err)
}

// WriteError renders err as an envelope with the status apperror.ToHTTP picks.
func WriteError(c *gin.Context, logger *zap.Logger, err error) {
	httpErr := apperror.ToHTTP(err)
	logger.Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// BindJSON binds and validates a payload, writing a 400 on failure.
func BindJSON(c *gin.Context, logger *zap.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, mapped.Message, nil)
		return false
	}
	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			WriteError(c, logger, err)
			return false
		}
	}
	return true
}

// ListQueryFrom reads page, page_size, q and the allowed filters from the query string.
func ListQueryFrom(c *gin.Context, filters []string) backend.ListQuery {
	page, pageSize := response.PageParams(c)
	q := backend.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("q")),
	}
	for _, f := range filters {
		if v := strings.TrimSpace(c.Query(f)); v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[f] = v
		}
	}
	return q
}

func (h *Handler[T, C, U]) List(c *gin.Context) {
	q := ListQueryFrom(c, h.filters)
	items, meta, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	pm := response.NewPaginationMeta(meta.Total, q.Page, q.PageSize)
	response.Success(c, http.StatusOK, items, &pm)
}

func (h *Handler[T, C, U]) Options(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts, nil)
}

func (h *Handler[T, C, U]) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

func (h *Handler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !BindJSON(c, h.logger, &req) {
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item, nil)
}

func (h *Handler[T, C, U]) Update(c *gin.Context) {
	var req U
	if !BindJSON(c, h.logger, &req) {
		return
	}

	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

func (h *Handler[T, C, U]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
