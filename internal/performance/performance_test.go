package performance_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/events"
	"ippis-portal/internal/performance"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type allowAll struct{}

func (allowAll) Enforce(context.Context, domain.EnforceRequest) (bool, error) { return true, nil }

func withIdentity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Set("role", "HR")
	c.Next()
}

func TestGoalRequest_Validate(t *testing.T) {
	base := performance.GoalRequest{StartDate: "2024-01-01", EndDate: "2024-12-31", Progress: 40, Status: "in_progress"}
	assert.NoError(t, base.Validate())

	r := base
	r.EndDate = "2023-12-31"
	assert.Error(t, r.Validate())

	r = base
	r.StartDate = "2024/01/01"
	assert.Error(t, r.Validate())

	r = base
	r.Status = "completed"
	assert.Error(t, r.Validate())
	r.Progress = 100
	assert.NoError(t, r.Validate())
}

func TestRoutes(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		switch r.URL.Path {
		case "/goal-types":
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"gt-1","name":"Service Delivery"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":"gt-1","name":"Service Delivery"},{"id":"gt-2","name":"Capacity"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	gin.SetMode(gin.TestMode)
	client := backend.NewClient(srv.URL, "", 5*time.Second)
	r := gin.New()
	performance.RegisterRoutes(r.Group("/api/v1"), performance.NewHandlers(client, nil, events.NoopPublisher{}, zap.NewNop()), allowAll{}, withIdentity, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/goal-types/options", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Capacity"`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/goal-types", bytes.NewBufferString(`{"name":"Service Delivery"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "POST /goal-types", gotPath)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/goals", bytes.NewBufferString(`{"employee_id":"e","goal_type_id":"gt-1","title":"t","start_date":"2024-01-01","end_date":"2024-02-01","progress":120}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
