package dataexchange

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ippis-portal/internal/backend"
	dataexchangeerrors "ippis-portal/internal/dataexchange/errors"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/apperror"
	"ippis-portal/internal/shared/contextutil"
	"ippis-portal/internal/shared/counter"

	"go.uber.org/zap"
)

const (
	BatchPrefix    = "IMP"
	DefaultMaxRows = 5000
)

//go:generate mockgen -source=dataexchange_service.go -destination=mock/dataexchange_service_mock.go -package=mock
type Service interface {
	ImportEmployees(ctx context.Context, companyID string, in ImportInput) (ImportResult, error)
	ExportEmployees(ctx context.Context, q backend.ListQuery, w io.Writer) (int, error)
}

type Options struct {
	MaxSize int64
	MaxRows int
}

type service struct {
	employees employee.Service
	counters  counter.Repository
	publisher events.Publisher
	opts      Options
	logger    *zap.Logger
}

func NewService(employees employee.Service, counters counter.Repository, publisher events.Publisher, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("dataexchange.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dataexchange.service")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}
	return &service{employees: employees, counters: counters, publisher: publisher, opts: opts, logger: l}
}

// ImportEmployees validates every row and, unless DryRun is set, creates the valid ones one
// at a time. A failing row never stops the batch.
func (s *service) ImportEmployees(ctx context.Context, companyID string, in ImportInput) (ImportResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if in.Content == nil {
		return ImportResult{}, dataexchangeerrors.ErrFileRequired
	}

	reader := in.Content
	if s.opts.MaxSize > 0 {
		reader = io.LimitReader(in.Content, s.opts.MaxSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import: %w", err)
	}
	if s.opts.MaxSize > 0 && int64(len(data)) > s.opts.MaxSize {
		return ImportResult{}, dataexchangeerrors.ErrFileTooLarge
	}

	rows, err := ReadRows(data, in.FileName, s.opts.MaxRows)
	if err != nil {
		log.Warn("import file rejected", zap.String("file_name", in.FileName), zap.Error(err))
		return ImportResult{}, err
	}

	idx, missing := columnIndex(rows[0])
	if len(missing) > 0 {
		return ImportResult{}, apperror.New(dataexchangeerrors.ErrMissingColumns.Code,
			dataexchangeerrors.ErrMissingColumns.Message+": "+strings.Join(missing, ", "),
			dataexchangeerrors.ErrMissingColumns.HTTPStatus)
	}

	result := ImportResult{DryRun: in.DryRun, Errors: []RowError{}}
	if !in.DryRun {
		n, err := s.counters.GetNextValue(ctx, companyID, counter.TypeImportBatch)
		if err != nil {
			log.Error("allocate import batch number failed", zap.Error(err))
			return ImportResult{}, err
		}
		result.BatchNo = counter.Format(BatchPrefix, n)
	}

	seen := map[string]int{}
	for i, row := range rows[1:] {
		rowNo := i + 2
		if isBlank(row) {
			continue
		}
		result.Total++

		req, err := rowToRequest(row, idx)
		if err != nil {
			result.fail(rowNo, apperror.ToHTTP(err).Message)
			continue
		}
		if dup := duplicateOf(seen, req, rowNo); dup != "" {
			result.fail(rowNo, dup)
			continue
		}

		if in.DryRun {
			continue
		}
		if _, err := s.employees.Create(ctx, companyID, req); err != nil {
			result.fail(rowNo, apperror.ToHTTP(err).Message)
			continue
		}
		result.Created++
	}

	if !in.DryRun {
		ev := events.NewActivityEvent(ctx, events.EmployeeImportCompleted, "import", result.BatchNo,
			fmt.Sprintf("Import %s: %d created, %d failed", result.BatchNo, result.Created, result.Failed))
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Error("publish import event failed", zap.String("batch_no", result.BatchNo), zap.Error(err))
		}
	}

	log.Info("employee import finished",
		zap.String("batch_no", result.BatchNo),
		zap.Bool("dry_run", in.DryRun),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// duplicateOf reports a repeated staff ID, NIN or email within the same file.
func duplicateOf(seen map[string]int, req employee.CreateEmployeeRequest, rowNo int) string {
	keys := []struct{ label, value string }{
		{"staff ID", req.StaffID},
		{"NIN", req.NIN},
		{"email", req.Email},
	}
	for _, k := range keys {
		key := k.label + ":" + k.value
		if first, ok := seen[key]; ok {
			return fmt.Sprintf("Duplicate %s %s (first seen on row %d)", k.label, k.value, first)
		}
	}
	for _, k := range keys {
		seen[k.label+":"+k.value] = rowNo
	}
	return ""
}
