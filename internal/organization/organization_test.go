package organization_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/events"
	"ippis-portal/internal/organization"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/optioncache"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type allowAll struct{}

func (allowAll) Enforce(context.Context, domain.EnforceRequest) (bool, error) { return true, nil }

// identity mirrors what the auth middleware puts on the request.
func identity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Request = c.Request.WithContext(contextutil.WithCompanyID(c.Request.Context(), "MDA-FMOH"))
	c.Next()
}

func TestOptionsKeyPrefix(t *testing.T) {
	assert.Equal(t, "org:designation:options:", organization.OptionsKeyPrefix("designation"))
}

func TestRoutes_OptionsCachedAndInvalidated(t *testing.T) {
	backendCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls++
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/locations":
			_, _ = w.Write([]byte(`{"data":[{"id":"loc-1","name":"Garki","state":"FCT"}],"meta":{"total":1}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/locations":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"loc-2","name":"Ikeja","state":"Lagos"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	rdb, redisMock := redismock.NewClientMock()
	key := "org:location:options:MDA-FMOH"
	want := []optioncache.Option{{ID: "loc-1", Label: "Garki, FCT"}}
	payload, _ := json.Marshal(want)
	redisMock.ExpectGet(key).RedisNil()
	redisMock.ExpectSet(key, payload, time.Hour).SetVal("OK")
	redisMock.ExpectDel(key).SetVal(1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	client := backend.NewClient(srv.URL, "", 5*time.Second)
	handlers := organization.NewHandlers(client, optioncache.New(rdb, time.Hour), events.NoopPublisher{}, zap.NewNop())
	organization.RegisterRoutes(r.Group("/api/v1"), handlers, allowAll{}, identity, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/locations/options", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Garki, FCT")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/locations", bytes.NewBufferString(`{"name":"Ikeja","state":"Lagos"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, 2, backendCalls)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRoutes_AllKindsMounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	client := backend.NewClient(srv.URL, "", 5*time.Second)
	organization.RegisterRoutes(r.Group("/api/v1"), organization.NewHandlers(client, nil, nil), allowAll{}, identity, zap.NewNop())

	for _, path := range []string{"/companies", "/departments", "/designations", "/locations", "/projects"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1"+path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProjectRequest_Validate(t *testing.T) {
	assert.NoError(t, organization.ProjectRequest{Name: "p"}.Validate())
	assert.NoError(t, organization.ProjectRequest{StartDate: "2024-01-01", EndDate: "2024-06-30"}.Validate())
	assert.Error(t, organization.ProjectRequest{StartDate: "2024-06-30", EndDate: "2024-01-01"}.Validate())
	assert.Error(t, organization.ProjectRequest{StartDate: "June"}.Validate())
}
