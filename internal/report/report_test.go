package report_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/calendar"
	"ippis-portal/internal/domain"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/organization"
	"ippis-portal/internal/report"
	"ippis-portal/internal/report/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeLister[T any] struct {
	items []T
	err   error
}

func (f fakeLister[T]) ListAll(context.Context, backend.ListQuery, int) ([]T, error) {
	return f.items, f.err
}

func sources() report.Sources {
	return report.Sources{
		Employees: fakeLister[employee.Employee]{items: []employee.Employee{
			{ID: "1", DepartmentID: "dep-1", Status: "active", Gender: "female"},
			{ID: "2", DepartmentID: "dep-1", Status: "active", Gender: "male"},
			{ID: "3", DepartmentID: "dep-2", Status: "Retired", Gender: "female"},
			{ID: "4", Status: "active"},
		}},
		Departments: fakeLister[organization.Department]{items: []organization.Department{
			{ID: "dep-1", Name: "Finance"},
		}},
		Leaves: fakeLister[calendar.Leave]{items: []calendar.Leave{
			{ID: "l1", Status: "approved"},
			{ID: "l2", Status: "pending"},
			{ID: "l3", Status: "approved"},
		}},
		Cases: map[string]report.Lister[report.CaseRecord]{
			"complaint": fakeLister[report.CaseRecord]{items: []report.CaseRecord{
				{ID: "c1", Status: "open"}, {ID: "c2", Status: "investigating"}, {ID: "c3", Status: "resolved"},
			}},
			"award": fakeLister[report.CaseRecord]{items: []report.CaseRecord{{ID: "a1"}}},
		},
	}
}

func TestSummary(t *testing.T) {
	s, err := report.NewService(sources(), zap.NewNop()).Summary(context.Background())
	require.NoError(t, err)

	assert.False(t, s.GeneratedAt.IsZero())
	assert.Equal(t, 4, s.Headcount.Total)
	assert.Equal(t, []report.Bucket{
		{Key: "dep-1", Label: "Finance", Count: 2},
		{Key: "dep-2", Label: "dep-2", Count: 1},
		{Key: "unassigned", Label: "Unassigned", Count: 1},
	}, s.Headcount.ByDepartment)
	assert.Equal(t, []report.Bucket{
		{Key: "active", Label: "Active", Count: 3},
		{Key: "retired", Label: "Retired", Count: 1},
	}, s.Headcount.ByStatus)
	assert.Equal(t, "female", s.Headcount.ByGender[0].Key)
	assert.Equal(t, 2, s.Headcount.ByGender[0].Count)

	assert.Equal(t, []report.CaseCount{
		{Kind: "award", Total: 1, Open: 0},
		{Kind: "complaint", Total: 3, Open: 2},
	}, s.Cases)
	assert.Equal(t, []report.Bucket{
		{Key: "approved", Label: "Approved", Count: 2},
		{Key: "pending", Label: "Pending", Count: 1},
	}, s.LeaveByStatus)
}

func TestSummary_LabelsMultiByteValues(t *testing.T) {
	src := sources()
	src.Employees = fakeLister[employee.Employee]{items: []employee.Employee{
		{ID: "1", Status: "Écarté"},
	}}

	s, err := report.NewService(src, zap.NewNop()).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []report.Bucket{{Key: "écarté", Label: "Écarté", Count: 1}}, s.Headcount.ByStatus)
}

func TestSummary_SourceFailureFailsReport(t *testing.T) {
	src := sources()
	src.Leaves = fakeLister[calendar.Leave]{err: errors.New("backend down")}

	_, err := report.NewService(src, zap.NewNop()).Summary(context.Background())
	assert.EqualError(t, err, "backend down")
}

func sampleSummary() report.Summary {
	s, _ := report.NewService(sources(), zap.NewNop()).Summary(context.Background())
	s.GeneratedAt = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return s
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WritePDF(sampleSummary(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-1.4"))
	assert.True(t, strings.HasSuffix(out, "%%EOF"))
	assert.Contains(t, out, "(Total headcount: 4) Tj")
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "/Count 1")
}

func TestWritePDF_EscapesAndTruncates(t *testing.T) {
	s := sampleSummary()
	for i := 0; i < 80; i++ {
		s.Headcount.ByDepartment = append(s.Headcount.ByDepartment, report.Bucket{Key: "k", Label: "Dept (Lagos) é", Count: 1})
	}
	var buf bytes.Buffer
	require.NoError(t, report.WritePDF(s, &buf))

	assert.Contains(t, buf.String(), `Dept \(Lagos\) ?`)
	assert.Contains(t, buf.String(), "... (truncated)")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(sampleSummary(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "IPPIS Portal - Summary Report", rows[0][0])
	assert.Equal(t, []string{"Total headcount", "4"}, rows[2])

	cases, err := f.GetRows("Cases")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Kind", "Total", "Open"}, {"award", "1", "0"}, {"complaint", "3", "2"}}, cases)
}

type allowAll struct{}

func (allowAll) Enforce(context.Context, domain.EnforceRequest) (bool, error) { return true, nil }

func withIdentity(c *gin.Context) {
	c.Set("user_id", "user-1")
	c.Set("company_id", "MDA-FMOH")
	c.Next()
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	svc.EXPECT().Summary(gomock.Any()).Return(sampleSummary(), nil).Times(3)

	r := gin.New()
	report.RegisterRoutes(r.Group("/api/v1"), report.NewHandler(svc, zap.NewNop()), allowAll{}, withIdentity, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":4`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary/export?format=pdf", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "summary-20240601.pdf")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary/export", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary/export?format=doc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
