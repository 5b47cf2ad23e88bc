package employee

import (
	"context"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/optioncache"

	"go.uber.org/zap"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	exportPageSize           = 100
)

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (Employee, error)
	List(ctx context.Context, q backend.ListQuery) ([]Employee, backend.ListMeta, error)
	ListAll(ctx context.Context, q backend.ListQuery) ([]Employee, error)
	GetOptions(ctx context.Context, companyID string) ([]optioncache.Option, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo      Repository
	cache     *optioncache.Cache
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(repo Repository, cache *optioncache.Cache, publisher events.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if cache == nil {
		cache = optioncache.New(nil, 0, l)
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (Employee, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("staff_id", req.StaffID),
	)

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.logger.Warn("create employee validation failed", zap.String("request_id", rid), zap.Error(err))
		return Employee{}, err
	}

	empl, err := s.repo.Create(ctx, req)
	if err != nil {
		s.logger.Error("create employee backend failed", zap.String("request_id", rid), zap.Error(err))
		return Employee{}, mapBackendError(err)
	}

	s.cache.Invalidate(ctx, GetEmployeeOptionsKey(companyID))
	s.publish(ctx, events.EmployeeCreated, empl.ID, empl.FullName()+" created")

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID),
	)
	return empl, nil
}

func (s *service) List(ctx context.Context, q backend.ListQuery) ([]Employee, backend.ListMeta, error) {
	s.logger.Debug("list employees requested",
		zap.Int("page", q.Page),
		zap.Int("page_size", q.PageSize),
		zap.String("search", q.Search),
	)
	items, meta, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, backend.ListMeta{}, mapBackendError(err)
	}
	return items, meta, nil
}

func (s *service) ListAll(ctx context.Context, q backend.ListQuery) ([]Employee, error) {
	items, err := s.repo.ListAll(ctx, q, exportPageSize)
	if err != nil {
		s.logger.Error("list all employees failed", zap.Error(err))
		return nil, mapBackendError(err)
	}
	return items, nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]optioncache.Option, error) {
	return s.cache.Get(ctx, GetEmployeeOptionsKey(companyID), func(ctx context.Context) ([]optioncache.Option, error) {
		emps, err := s.repo.ListAll(ctx, backend.ListQuery{Filters: map[string]string{"status": "active"}}, exportPageSize)
		if err != nil {
			return nil, mapBackendError(err)
		}
		opts := make([]optioncache.Option, len(emps))
		for i, e := range emps {
			label := e.FullName()
			if e.StaffID != "" {
				label += " (" + e.StaffID + ")"
			}
			opts[i] = optioncache.Option{ID: e.ID, Label: label}
		}
		return opts, nil
	})
}

func (s *service) GetByID(ctx context.Context, id string) (Employee, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))
	empl, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return Employee{}, mapBackendError(err)
	}
	return empl, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (Employee, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	create := CreateEmployeeRequest(req)
	create.Normalize()
	if err := create.Validate(); err != nil {
		return Employee{}, err
	}

	empl, err := s.repo.Update(ctx, id, UpdateEmployeeRequest(create))
	if err != nil {
		s.logger.Error("update employee backend failed", zap.String("employee_id", id), zap.Error(err))
		return Employee{}, mapBackendError(err)
	}

	s.cache.Invalidate(ctx, GetEmployeeOptionsKey(companyID))
	s.publish(ctx, events.EmployeeUpdated, id, empl.FullName()+" updated")

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return empl, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapBackendError(err)
	}

	s.cache.Invalidate(ctx, GetEmployeeOptionsKey(companyID))
	s.publish(ctx, events.EmployeeDeleted, id, "employee "+id+" deleted")

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}
