package report

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/calendar"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/hrcase"
	"ippis-portal/internal/organization"
	"ippis-portal/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pageSize    = 100
	maxParallel = 4
	unassigned  = "unassigned"
)

// openStatuses are the case states still awaiting action.
var openStatuses = map[string]bool{
	"open":          true,
	"pending":       true,
	"investigating": true,
	"acknowledged":  true,
}

type Lister[T any] interface {
	ListAll(ctx context.Context, q backend.ListQuery, pageSize int) ([]T, error)
}

type Sources struct {
	Employees   Lister[employee.Employee]
	Departments Lister[organization.Department]
	Leaves      Lister[calendar.Leave]
	Cases       map[string]Lister[CaseRecord]
}

func NewSources(client *backend.Client) Sources {
	cases := make(map[string]Lister[CaseRecord], len(hrcase.Kinds))
	for kind, path := range hrcase.Kinds {
		cases[kind] = backend.NewResource[CaseRecord](client, kind, path)
	}
	return Sources{
		Employees:   backend.NewResource[employee.Employee](client, "employee", "/employees"),
		Departments: backend.NewResource[organization.Department](client, "department", "/departments"),
		Leaves:      backend.NewResource[calendar.Leave](client, "leave", "/leaves"),
		Cases:       cases,
	}
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type service struct {
	src    Sources
	now    func() time.Time
	logger *zap.Logger
}

func NewService(src Sources, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{src: src, now: time.Now, logger: l}
}

// Summary fetches every source concurrently; any failure fails the whole report.
func (s *service) Summary(ctx context.Context) (Summary, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	start := time.Now()

	var (
		emps   []employee.Employee
		depts  []organization.Department
		leaves []calendar.Leave
		mu     sync.Mutex
		cases  = make([]CaseCount, 0, len(s.src.Cases))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	g.Go(func() (err error) {
		emps, err = s.src.Employees.ListAll(gctx, backend.ListQuery{}, pageSize)
		return err
	})
	g.Go(func() (err error) {
		depts, err = s.src.Departments.ListAll(gctx, backend.ListQuery{}, pageSize)
		return err
	})
	g.Go(func() (err error) {
		leaves, err = s.src.Leaves.ListAll(gctx, backend.ListQuery{}, pageSize)
		return err
	})
	for kind, lister := range s.src.Cases {
		g.Go(func() error {
			records, err := lister.ListAll(gctx, backend.ListQuery{}, pageSize)
			if err != nil {
				return err
			}
			cc := CaseCount{Kind: kind, Total: len(records)}
			for _, r := range records {
				if openStatuses[strings.ToLower(r.Status)] {
					cc.Open++
				}
			}
			mu.Lock()
			cases = append(cases, cc)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("build summary failed", zap.Error(err))
		return Summary{}, err
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Kind < cases[j].Kind })

	deptNames := make(map[string]string, len(depts))
	for _, d := range depts {
		deptNames[d.ID] = d.Name
	}

	summary := Summary{
		GeneratedAt: s.now().UTC(),
		Headcount: Headcount{
			Total: len(emps),
			ByDepartment: countBy(emps, func(e employee.Employee) (string, string) {
				if e.DepartmentID == "" {
					return unassigned, "Unassigned"
				}
				if name, ok := deptNames[e.DepartmentID]; ok {
					return e.DepartmentID, name
				}
				return e.DepartmentID, e.DepartmentID
			}),
			ByStatus: countBy(emps, func(e employee.Employee) (string, string) { return keyLabel(e.Status) }),
			ByGender: countBy(emps, func(e employee.Employee) (string, string) { return keyLabel(e.Gender) }),
		},
		Cases:         cases,
		LeaveByStatus: countBy(leaves, func(l calendar.Leave) (string, string) { return keyLabel(l.Status) }),
	}

	log.Info("summary built",
		zap.Int("employees", len(emps)),
		zap.Int("leaves", len(leaves)),
		zap.Duration("took", time.Since(start)),
	)
	return summary, nil
}

func keyLabel(v string) (string, string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return unassigned, "Unassigned"
	}
	first, size := utf8.DecodeRuneInString(v)
	return v, string(unicode.ToUpper(first)) + v[size:]
}

// countBy groups items and orders buckets by count, then key.
func countBy[T any](items []T, key func(T) (string, string)) []Bucket {
	idx := map[string]int{}
	buckets := []Bucket{}
	for _, it := range items {
		k, label := key(it)
		i, ok := idx[k]
		if !ok {
			i = len(buckets)
			idx[k] = i
			buckets = append(buckets, Bucket{Key: k, Label: label})
		}
		buckets[i].Count++
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
