package report

import (
	"bytes"
	"fmt"
	"net/http"

	reporterrors "ippis-portal/internal/report/errors"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, nil)
}

func (h *Handler) ExportSummary(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	write, contentType := WriteXLSX, contentTypeXLSX
	switch format {
	case "xlsx":
	case "pdf":
		write, contentType = WritePDF, contentTypePDF
	default:
		crud.WriteError(c, h.logger, reporterrors.ErrUnsupportedFormat)
		return
	}

	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := write(s, &buf); err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	name := fmt.Sprintf("summary-%s.%s", s.GeneratedAt.Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
