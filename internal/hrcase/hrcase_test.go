package hrcase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/events"
	"ippis-portal/internal/hrcase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type rbacByResource map[string]bool

func (r rbacByResource) Enforce(_ context.Context, req domain.EnforceRequest) (bool, error) {
	return r[req.Resource+":"+req.Action], nil
}

func withIdentity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Set("role", "HR")
	c.Next()
}

func passThrough(c *gin.Context) { c.Next() }

type backendCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

func setup(t *testing.T, perms rbacByResource) (*gin.Engine, *recordingPublisher, *[]backendCall) {
	t.Helper()
	var calls []backendCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := backendCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &call.Body)
		}
		calls = append(calls, call)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/transfers":
			_, _ = w.Write([]byte(`{"data":[{"id":"tr-1","employee_id":"emp-1","to_department_id":"dep-2","transfer_date":"2024-01-10"}],"meta":{"total":1,"page":1,"page_size":10}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/awards":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"aw-1","employee_id":"emp-1","award_type":"Long Service","date":"2024-05-01"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/warnings/wr-404":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"warning not found"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(srv.Close)

	gin.SetMode(gin.TestMode)
	publisher := &recordingPublisher{}
	client := backend.NewClient(srv.URL, "key", 5*time.Second)
	registry := hrcase.NewRegistry(client, publisher, zap.NewNop())

	r := gin.New()
	hrcase.RegisterRoutes(r.Group("/api/v1"), hrcase.NewHandler(registry), perms, withIdentity, passThrough, zap.NewNop())
	return r, publisher, &calls
}

func TestCases_List(t *testing.T) {
	r, _, calls := setup(t, rbacByResource{"transfer:read": true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/transfer?employee_id=emp-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"tr-1"`)
	require.Len(t, *calls, 1)
	assert.Equal(t, "/transfers", (*calls)[0].Path)
	assert.Contains(t, (*calls)[0].Query, "employee_id=emp-1")
}

func TestCases_UnknownKind(t *testing.T) {
	r, _, calls := setup(t, rbacByResource{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/promotion", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown case kind")
	assert.Empty(t, *calls)
}

func TestCases_Create(t *testing.T) {
	r, publisher, calls := setup(t, rbacByResource{"award:create": true})

	t.Run("forwards and enqueues activity", func(t *testing.T) {
		body := `{"employee_id":"emp-1","award_type":"Long Service","cash_price":50000,"date":"2024-05-01"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/award", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, *calls, 1)
		assert.Equal(t, "/awards", (*calls)[0].Path)
		assert.Equal(t, "Long Service", (*calls)[0].Body["award_type"])

		require.Len(t, publisher.events, 1)
		assert.Equal(t, events.CaseCreated, publisher.events[0].EventType)
		assert.Equal(t, "award", publisher.events[0].Resource)
		assert.Equal(t, "aw-1", publisher.events[0].ResourceID)
	})

	t.Run("invalid date never reaches backend", func(t *testing.T) {
		body := `{"employee_id":"emp-1","award_type":"Long Service","date":"01/05/2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/award", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, *calls, 1)
	})

	t.Run("permission is per kind", func(t *testing.T) {
		body := `{"employee_id":"emp-1","purpose":"Audit","place":"Kano","start_date":"2024-05-01","end_date":"2024-05-03"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/travel", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "travel:create")
	})
}

func TestCases_UpstreamNotFound(t *testing.T) {
	r, _, _ := setup(t, rbacByResource{"warning:read": true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/warning/wr-404", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "warning not found")
}

func TestRequestValidation(t *testing.T) {
	assert.NoError(t, hrcase.TravelRequest{StartDate: "2024-05-01", EndDate: "2024-05-01"}.Validate())
	assert.Error(t, hrcase.TravelRequest{StartDate: "2024-05-03", EndDate: "2024-05-01"}.Validate())
	assert.Error(t, hrcase.ResignationRequest{NoticeDate: "2024-06-01", ResignationDate: "2024-05-01"}.Validate())
	assert.NoError(t, hrcase.TerminationRequest{TerminationDate: "2024-05-01"}.Validate())
	assert.Error(t, hrcase.TransferRequest{FromDepartmentID: "d1", ToDepartmentID: "d1", TransferDate: "2024-01-01"}.Validate())
	assert.NoError(t, hrcase.TransferRequest{FromDepartmentID: "d1", ToDepartmentID: "d2", TransferDate: "2024-01-01"}.Validate())
}

func TestKinds(t *testing.T) {
	r, _, _ := setup(t, rbacByResource{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"award", "complaint", "resignation", "termination", "transfer", "travel", "warning"}, res.Data)
}
