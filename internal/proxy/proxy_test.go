package proxy_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ippis-portal/internal/domain"
	"ippis-portal/internal/proxy"
	"ippis-portal/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tableYAML = `
resources:
  - name: payslips
    upstream_path: /payroll/payslips/
    methods: [get]
    permission: report
  - name: queries
    upstream_path: /queries
    methods: [GET, POST]
`

type perms map[string]bool

func (p perms) Enforce(_ context.Context, req domain.EnforceRequest) (bool, error) {
	return p[req.Resource+":"+req.Action], nil
}

func withIdentity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Set("role", "HR")
	ctx := contextutil.WithCompanyID(c.Request.Context(), "MDA-FMOH")
	ctx = contextutil.WithAccessToken(ctx, "portal-jwt")
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// recorder adds CloseNotify, which gin's writer asserts on when ReverseProxy serves through it.
type recorder struct {
	*httptest.ResponseRecorder
}

func (recorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() *recorder { return &recorder{httptest.NewRecorder()} }

type seenRequest struct {
	Method string
	Path   string
	URI    string
	Query  string
	Header http.Header
	Body   string
}

func setup(t *testing.T, baseURL string, p perms) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table, err := proxy.ParseTable([]byte(tableYAML))
	require.NoError(t, err)
	h, err := proxy.NewHandler(table, baseURL, "svc-key", nil, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	proxy.RegisterRoutes(r.Group("/api/v1"), h, p, withIdentity, zap.NewNop())
	return r
}

func upstream(t *testing.T, seen *seenRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*seen = seenRequest{Method: r.Method, Path: r.URL.Path, URI: r.RequestURI, Query: r.URL.RawQuery, Header: r.Header.Clone(), Body: string(b)}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "ippis")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"raw":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseTable(t *testing.T) {
	table, err := proxy.ParseTable([]byte(tableYAML))
	require.NoError(t, err)

	res, ok := table.Lookup("payslips")
	require.True(t, ok)
	assert.Equal(t, "/payroll/payslips", res.UpstreamPath)
	assert.Equal(t, []string{"GET"}, res.Methods)

	q, _ := table.Lookup("queries")
	assert.Equal(t, "queries", q.Permission)
	assert.Len(t, table.Resources(), 2)

	cases := map[string]string{
		"duplicate":  "resources:\n  - {name: a, upstream_path: /a}\n  - {name: a, upstream_path: /b}\n",
		"no slash":   "resources:\n  - {name: a, upstream_path: a}\n",
		"bad method": "resources:\n  - {name: a, upstream_path: /a, methods: [TRACE]}\n",
		"empty name": "resources:\n  - {name: ' ', upstream_path: /a}\n",
		"not yaml":   "resources: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := proxy.ParseTable([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestNewHandler_InvalidBaseURL(t *testing.T) {
	table, _ := proxy.ParseTable([]byte(tableYAML))
	_, err := proxy.NewHandler(table, "not a url", "", nil)
	assert.Error(t, err)
}

func TestServe_PassThrough(t *testing.T) {
	var seen seenRequest
	srv := upstream(t, &seen)
	r := setup(t, srv.URL, perms{"queries:create": true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proxy/queries/q-1/replies?draft=1&x=a%20b", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", "access_token=secret")
	req.Header.Set("X-Request-ID", "rid-9")
	req.Header.Set("Connection", "X-Drop")
	req.Header.Set("X-Drop", "1")
	w := newRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"raw":true}`, w.Body.String())
	assert.Equal(t, "ippis", w.Header().Get("X-Upstream"))

	assert.Equal(t, http.MethodPost, seen.Method)
	assert.Equal(t, "/queries/q-1/replies", seen.Path)
	assert.Equal(t, "draft=1&x=a%20b", seen.Query)
	assert.Equal(t, `{"text":"hi"}`, seen.Body)
	assert.Empty(t, seen.Header.Get("Cookie"))
	assert.Empty(t, seen.Header.Get("X-Drop"))
	assert.Empty(t, seen.Header.Get("X-API-Key"))
	assert.Equal(t, "Bearer portal-jwt", seen.Header.Get("Authorization"))
	assert.Equal(t, "rid-9", seen.Header.Get("X-Request-ID"))
	assert.Equal(t, "MDA-FMOH", seen.Header.Get("X-Organisation-ID"))
	assert.Equal(t, "user-1", seen.Header.Get("X-Portal-User"))
	assert.NotEmpty(t, seen.Header.Get("X-Forwarded-For"))
}

func TestServe_RootOfResource(t *testing.T) {
	var seen seenRequest
	srv := upstream(t, &seen)
	r := setup(t, srv.URL, perms{"report:read": true})

	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy/payslips", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/payroll/payslips", seen.Path)
}

func TestServe_Rejections(t *testing.T) {
	var seen seenRequest
	srv := upstream(t, &seen)
	r := setup(t, srv.URL, perms{"report:read": true})

	decode := func(w *recorder) map[string]any {
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	t.Run("unknown resource", func(t *testing.T) {
		w := newRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy/nope/1", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, false, decode(w)["ok"])
	})

	t.Run("method not in table", func(t *testing.T) {
		w := newRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/proxy/payslips/1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET", w.Header().Get("Allow"))
	})

	t.Run("no permission", func(t *testing.T) {
		w := newRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy/queries", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.Empty(t, seen.Method, "rejected requests must not reach the backend")
}

func TestServe_RejectsDotSegments(t *testing.T) {
	var seen seenRequest
	srv := upstream(t, &seen)
	r := setup(t, srv.URL, perms{"report:read": true})

	for _, target := range []string{
		"/api/v1/proxy/payslips/../../users/1",
		"/api/v1/proxy/payslips/%2e%2e/%2e%2e/users/1",
		"/api/v1/proxy/payslips/2024/./../x",
	} {
		t.Run(target, func(t *testing.T) {
			w := newRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, seen.Method)
}

func TestServe_KeepsEncodedSlash(t *testing.T) {
	var seen seenRequest
	srv := upstream(t, &seen)
	r := setup(t, srv.URL, perms{"report:read": true})

	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy/payslips/2024%2F05?x=1", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/payroll/payslips/2024%2F05?x=1", seen.URI)
}

func TestServe_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	r := setup(t, base, perms{"report:read": true})
	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy/payslips/1", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_ERROR", body["error"].(map[string]any)["code"])
}

func TestList(t *testing.T) {
	r := setup(t, "http://backend.local", perms{})
	w := newRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/proxy", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "payslips")
}
