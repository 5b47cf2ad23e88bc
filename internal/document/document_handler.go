package document

import (
	"errors"
	"net/http"

	documenterrors "ippis-portal/internal/document/errors"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for the form fields and boundaries around the file.
const multipartOverhead = 1 << 20

var ListFilters = []string{"employee_id", "category"}

type Handler struct {
	service Service
	maxSize int64
	logger  *zap.Logger
}

func NewHandler(service Service, maxSize int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("document.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.handler")
	}
	return &Handler{service: service, maxSize: maxSize, logger: l}
}

func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			crud.WriteError(c, h.logger, documenterrors.ErrFileTooLarge)
		default:
			crud.WriteError(c, h.logger, documenterrors.ErrFileRequired)
		}
		return
	}
	if fh.Size > h.maxSize {
		crud.WriteError(c, h.logger, documenterrors.ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	defer f.Close()

	doc, err := h.service.Upload(c.Request.Context(), UploadInput{
		EmployeeID: c.PostForm("employee_id"),
		Category:   c.PostForm("category"),
		FileName:   fh.Filename,
		Content:    f,
	})
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, doc, nil)
}

func (h *Handler) List(c *gin.Context) {
	q := crud.ListQueryFrom(c, ListFilters)
	docs, meta, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	pm := response.NewPaginationMeta(meta.Total, q.Page, q.PageSize)
	response.Success(c, http.StatusOK, docs, &pm)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
