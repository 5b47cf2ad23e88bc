package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"ippis-portal/internal/metrics"
	"ippis-portal/internal/middleware"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	table     *Table
	target    *url.URL
	apiKey    string
	transport http.RoundTripper
	logger    *zap.Logger
}

func NewHandler(table *Table, baseURL, apiKey string, transport http.RoundTripper, logger ...*zap.Logger) (*Handler, error) {
	l := zap.L().Named("proxy.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("proxy.handler")
	}
	target, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Handler{table: table, target: target, apiKey: apiKey, transport: transport, logger: l}, nil
}

// Permission resolves :name into the table's permission. Unknown names answer 404, methods
// outside the table 405 and dot segments in the suffix 400.
func (h *Handler) Permission(c *gin.Context) (string, string, bool) {
	res, ok := h.table.Lookup(c.Param("name"))
	if !ok {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Unknown proxy resource", nil)
		return "", "", false
	}
	if !res.Allows(c.Request.Method) {
		c.Header("Allow", strings.Join(res.Methods, ", "))
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed for this resource", nil)
		return "", "", false
	}
	if hasDotSegment(c.Param("path")) {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Proxy path must not contain dot segments", nil)
		return "", "", false
	}
	return res.Permission, middleware.ActionForMethod(c.Request.Method), true
}

// hasDotSegment reports whether the decoded suffix could climb out of the upstream prefix.
func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

// escapedSuffix returns the still-encoded part of the incoming path after /proxy/<name>.
func escapedSuffix(u *url.URL, name string) string {
	escaped := u.EscapedPath()
	marker := "/proxy/" + name
	i := strings.Index(escaped, marker)
	if i < 0 {
		return ""
	}
	return escaped[i+len(marker):]
}

func (h *Handler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.table.Resources(), nil)
}

// Serve forwards the request verbatim and streams the upstream answer back unchanged.
func (h *Handler) Serve(c *gin.Context) {
	res, ok := h.table.Lookup(c.Param("name"))
	if !ok {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Unknown proxy resource", nil)
		return
	}
	suffix := c.Param("path")
	if hasDotSegment(suffix) {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Proxy path must not contain dot segments", nil)
		return
	}

	ctx := c.Request.Context()
	log := contextutil.GetLogger(ctx, h.logger)
	start := time.Now()
	metricName := "proxy:" + res.Name

	rp := &httputil.ReverseProxy{
		Transport: h.transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = h.target.Scheme
			pr.Out.URL.Host = h.target.Host
			pr.Out.URL.Path = h.target.Path + res.UpstreamPath + suffix
			// An invalid RawPath is ignored by EscapedPath, which then re-encodes Path.
			pr.Out.URL.RawPath = h.target.EscapedPath() + res.UpstreamPath + escapedSuffix(pr.In.URL, res.Name)
			pr.Out.URL.RawQuery = pr.In.URL.RawQuery
			pr.Out.Host = h.target.Host

			pr.Out.Header.Del("Cookie")
			pr.SetXForwarded()
			pr.Out.Header.Del("X-API-Key")
			if token := contextutil.GetAccessToken(ctx); token != "" {
				pr.Out.Header.Set("Authorization", "Bearer "+token)
			} else if h.apiKey != "" {
				pr.Out.Header.Set("X-API-Key", h.apiKey)
			}
			md := contextutil.ExtractMetadata(ctx)
			if md.RequestID != "" {
				pr.Out.Header.Set("X-Request-ID", md.RequestID)
			}
			if md.CompanyID != "" {
				pr.Out.Header.Set("X-Organisation-ID", md.CompanyID)
			}
			if md.UserID != "" {
				pr.Out.Header.Set("X-Portal-User", md.UserID)
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			metrics.ObserveBackend(metricName, c.Request.Method, resp.StatusCode, time.Since(start))
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			metrics.ObserveBackend(metricName, r.Method, 0, time.Since(start))
			log.Error("proxy upstream unreachable",
				zap.String("resource", res.Name),
				zap.String("method", r.Method),
				zap.Error(err),
			)
			response.Error(c, http.StatusBadGateway, apperror.CodeUpstreamError, apperror.ErrBadGateway.Message, nil)
		},
	}

	log.Debug("proxy forward",
		zap.String("resource", res.Name),
		zap.String("method", c.Request.Method),
		zap.String("path", suffix),
	)
	rp.ServeHTTP(c.Writer, c.Request)
}
