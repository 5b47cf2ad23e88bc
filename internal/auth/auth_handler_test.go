package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ippis-portal/internal/auth"
	autherrors "ippis-portal/internal/auth/errors"
	authMock "ippis-portal/internal/auth/mock"
	"ippis-portal/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withClaims(userID, companyID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("company_id", companyID)
		c.Set("role", role)
		c.Next()
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, auth.CookieOptions{})
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	reqBody := auth.LoginRequest{Email: "amaka@fmoh.gov.ng", Password: "password123"}
	body, _ := json.Marshal(reqBody)

	t.Run("web client gets cookies", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return("access-token", "refresh-token", auth.AuthResponse{ID: "u-1", Email: reqBody.Email, CompanyID: "MDA-FMOH"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, auth.RefreshTokenCookie, cookies[1].Name)

		res := decodeEnvelope(t, w)
		assert.Equal(t, true, res["ok"])
		data := res["data"].(map[string]any)
		assert.Equal(t, reqBody.Email, data["user"].(map[string]any)["email"])
		assert.Equal(t, "access-token", data["access_token"])
	})

	t.Run("api client gets no cookies", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return("access-token", "refresh-token", auth.AuthResponse{ID: "u-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "curl/8.0")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, false, res["ok"])
	})

	t.Run("bad payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, auth.CookieOptions{})
	router := setupAuthRouter()
	router.POST("/refresh", handler.RefreshToken)

	t.Run("cookie for web", func(t *testing.T) {
		mockService.EXPECT().
			RefreshToken(gomock.Any(), "cookie-refresh").
			Return("new-access", "new-refresh", auth.AuthResponse{ID: "u-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("X-Client-Type", "WEB")
		req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "cookie-refresh"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, w.Result().Cookies(), 2)
	})

	t.Run("body for api", func(t *testing.T) {
		mockService.EXPECT().
			RefreshToken(gomock.Any(), "body-refresh").
			Return("new-access", "new-refresh", auth.AuthResponse{ID: "u-1"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"body-refresh"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, "NO_REFRESH_TOKEN", res["error"].(map[string]any)["code"])
	})

	t.Run("rejected token", func(t *testing.T) {
		mockService.EXPECT().
			RefreshToken(gomock.Any(), "stale").
			Return("", "", auth.AuthResponse{}, autherrors.ErrInvalidRefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"stale"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, auth.CookieOptions{})

	payload := func(extra string) *bytes.Buffer {
		return bytes.NewBufferString(`{"email":"new@fmoh.gov.ng","name":"New","password":"password123"` + extra + `}`)
	}

	t.Run("company forced to caller's", func(t *testing.T) {
		router := setupAuthRouter()
		router.POST("/register", withClaims("u-admin", "MDA-FMOH", "HR"), handler.Register)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req auth.RegisterRequest) (auth.AuthResponse, error) {
				assert.Equal(t, "MDA-FMOH", req.CompanyID)
				return auth.AuthResponse{ID: "u-new", CompanyID: req.CompanyID}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/register", payload(`,"company_id":"MDA-OTHER"`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("superadmin may target another company", func(t *testing.T) {
		router := setupAuthRouter()
		router.POST("/register", withClaims("u-root", "MDA-ROOT", domain.RoleSuperAdmin), handler.Register)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req auth.RegisterRequest) (auth.AuthResponse, error) {
				assert.Equal(t, "MDA-OTHER", req.CompanyID)
				return auth.AuthResponse{ID: "u-new"}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/register", payload(`,"company_id":"MDA-OTHER"`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("only superadmin creates superadmin", func(t *testing.T) {
		router := setupAuthRouter()
		router.POST("/register", withClaims("u-admin", "MDA-FMOH", "HR"), handler.Register)

		req := httptest.NewRequest(http.MethodPost, "/register", payload(`,"role":"SUPERADMIN"`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("superadmin check ignores case", func(t *testing.T) {
		router := setupAuthRouter()
		router.POST("/register", withClaims("u-admin", "MDA-FMOH", "HR"), handler.Register)

		req := httptest.NewRequest(http.MethodPost, "/register", payload(`,"role":" superadmin "`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		router := setupAuthRouter()
		router.POST("/register", withClaims("u-admin", "MDA-FMOH", "HR"), handler.Register)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(auth.AuthResponse{}, autherrors.ErrEmailAlreadyRegistered)

		req := httptest.NewRequest(http.MethodPost, "/register", payload(""))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_MeAndPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, auth.CookieOptions{})
	router := setupAuthRouter()
	router.Use(withClaims("u-1", "MDA-FMOH", "HR"))
	router.GET("/me", handler.Me)
	router.PUT("/password", handler.ChangePassword)
	router.POST("/logout", handler.Logout)

	t.Run("me", func(t *testing.T) {
		mockService.EXPECT().GetMe(gomock.Any(), "u-1").Return(&auth.AuthResponse{ID: "u-1", Name: "Amaka"}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		res := decodeEnvelope(t, w)
		assert.Equal(t, "Amaka", res["data"].(map[string]any)["name"])
	})

	t.Run("me unknown user", func(t *testing.T) {
		mockService.EXPECT().GetMe(gomock.Any(), "u-1").Return(nil, autherrors.ErrUserNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("change password", func(t *testing.T) {
		mockService.EXPECT().
			ChangePassword(gomock.Any(), "u-1", auth.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}).
			Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/password", bytes.NewBufferString(`{"current_password":"old-password","new_password":"new-password"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("same password rejected by binding", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/password", bytes.NewBufferString(`{"current_password":"same-pass1","new_password":"same-pass1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("logout clears cookies", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		for _, c := range w.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge)
		}
	})
}
