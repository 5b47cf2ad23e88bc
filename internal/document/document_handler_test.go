package document_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/document"
	documenterrors "ippis-portal/internal/document/errors"
	"ippis-portal/internal/document/mock"
	"ippis-portal/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type allowAll struct{}

func (allowAll) Enforce(context.Context, domain.EnforceRequest) (bool, error) { return true, nil }

func withIdentity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Next()
}

func passThrough(c *gin.Context) { c.Next() }

func newRouter(svc document.Service, maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	document.RegisterRoutes(r.Group("/api/v1"), document.NewHandler(svc, maxSize, zap.NewNop()),
		allowAll{}, withIdentity, passThrough, zap.NewNop())
	return r
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = part.Write(content)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestHandler_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in document.UploadInput) (document.Document, error) {
			assert.Equal(t, "emp-1", in.EmployeeID)
			assert.Equal(t, "certificate", in.Category)
			assert.Equal(t, "cert.pdf", in.FileName)
			b, _ := io.ReadAll(in.Content)
			assert.Equal(t, pdfBytes, b)
			return document.Document{ID: "doc-1", FileName: "cert.pdf"}, nil
		})

	body, ct := multipartBody(t, map[string]string{"employee_id": "emp-1", "category": "certificate"}, "cert.pdf", pdfBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	newRouter(svc, 1024).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"doc-1"`)
}

func TestHandler_Upload_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		body, ct := multipartBody(t, map[string]string{"employee_id": "emp-1"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newRouter(mock.NewMockService(ctrl), 1024).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("file over the limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		body, ct := multipartBody(t, map[string]string{"employee_id": "emp-1"}, "big.pdf", bytes.Repeat([]byte("a"), 4096))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newRouter(mock.NewMockService(ctrl), 1024).ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("unsupported type from service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(document.Document{}, documenterrors.ErrUnsupportedType)

		body, ct := multipartBody(t, map[string]string{"employee_id": "emp-1", "category": "c"}, "a.exe", []byte("MZ"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		newRouter(svc, 1024).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestHandler_ListAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	r := newRouter(svc, 1024)

	svc.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q backend.ListQuery) ([]document.Document, backend.ListMeta, error) {
			assert.Equal(t, "emp-1", q.Filters["employee_id"])
			return []document.Document{{ID: "doc-1"}}, backend.ListMeta{Total: 1}, nil
		})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents?employee_id=emp-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	svc.EXPECT().Delete(gomock.Any(), "doc-9").Return(documenterrors.ErrDocumentNotFound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/doc-9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
