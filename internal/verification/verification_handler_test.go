package verification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ippis-portal/internal/domain"
	"ippis-portal/internal/verification"
	verificationerrors "ippis-portal/internal/verification/errors"
	"ippis-portal/internal/verification/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
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

func newRouter(svc verification.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	verification.RegisterRoutes(r.Group("/api/v1"), verification.NewHandler(svc, zap.NewNop()), allowAll{}, withIdentity, zap.NewNop())
	return r
}

func TestHandler_VerifyNIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	r := newRouter(svc)

	svc.EXPECT().VerifyNIN(gomock.Any(), verification.VerifyNINRequest{
		NIN: testNIN, FirstName: "Amina", LastName: "Bello",
	}).Return(verification.Result{NIN: testNIN, Verified: true, FullName: "Amina Bello"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verification/nin",
		strings.NewReader(`{"nin":"12345678901","first_name":"Amina","last_name":"Bello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":true`)
	assert.Contains(t, w.Body.String(), `"full_name":"Amina Bello"`)
}

func TestHandler_VerifyNIN_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(svc *mock.MockService)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing names",
			body:       `{"nin":"12345678901"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "malformed nin",
			body:       `{"nin":"1234","first_name":"a","last_name":"b"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "provider down",
			body: `{"nin":"12345678901","first_name":"a","last_name":"b"}`,
			setup: func(svc *mock.MockService) {
				svc.EXPECT().VerifyNIN(gomock.Any(), gomock.Any()).
					Return(verification.Result{}, verificationerrors.ErrProviderUnavailable)
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mock.NewMockService(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/verification/nin", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}
