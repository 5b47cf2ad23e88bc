package dataexchange

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	dataexchangeerrors "ippis-portal/internal/dataexchange/errors"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/shared/crud"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	maxSize int64
	logger  *zap.Logger
}

func NewHandler(service Service, maxSize int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dataexchange.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dataexchange.handler")
	}
	return &Handler{service: service, maxSize: maxSize, logger: l}
}

func (h *Handler) ImportEmployees(c *gin.Context) {
	if h.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+(1<<20))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			crud.WriteError(c, h.logger, dataexchangeerrors.ErrFileTooLarge)
			return
		}
		crud.WriteError(c, h.logger, dataexchangeerrors.ErrFileRequired)
		return
	}
	f, err := fh.Open()
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	defer f.Close()

	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", c.PostForm("dry_run")))
	h.logger.Debug("http import employees",
		zap.String("company_id", c.GetString("company_id")),
		zap.String("file_name", fh.Filename),
		zap.Bool("dry_run", dryRun),
	)

	res, err := h.service.ImportEmployees(c.Request.Context(), c.GetString("company_id"), ImportInput{
		FileName: fh.Filename,
		Content:  f,
		DryRun:   dryRun,
	})
	if err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ExportEmployees(c *gin.Context) {
	if format := c.DefaultQuery("format", "xlsx"); format != "xlsx" {
		crud.WriteError(c, h.logger, dataexchangeerrors.ErrUnsupportedFormat)
		return
	}
	q := crud.ListQueryFrom(c, employee.ListFilters)

	var buf bytes.Buffer
	if _, err := h.service.ExportEmployees(c.Request.Context(), q, &buf); err != nil {
		crud.WriteError(c, h.logger, err)
		return
	}

	name := fmt.Sprintf("employees-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, ContentTypeXLSX, buf.Bytes())
}
