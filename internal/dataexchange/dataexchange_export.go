package dataexchange

import (
	"context"
	"fmt"
	"io"

	"ippis-portal/internal/backend"
	"ippis-portal/internal/employee"
	"ippis-portal/internal/shared/contextutil"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Employees"

var exportColumns = []string{
	"Staff ID", "NIN", "First Name", "Middle Name", "Last Name", "Email", "Phone", "Gender",
	"Date of Birth", "Date of First Appointment", "Department ID", "Designation ID",
	"Location ID", "Grade Level", "Step", "Status",
}

func exportRow(e employee.Employee) []any {
	return []any{
		e.StaffID, e.NIN, e.FirstName, e.MiddleName, e.LastName, e.Email, e.Phone, e.Gender,
		e.DateOfBirth, e.DateOfFirstAppointment, e.DepartmentID, e.DesignationID,
		e.LocationID, e.GradeLevel, e.Step, e.Status,
	}
}

// ExportEmployees writes every employee matching q as an XLSX workbook and returns the row count.
func (s *service) ExportEmployees(ctx context.Context, q backend.ListQuery, w io.Writer) (int, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	emps, err := s.employees.ListAll(ctx, q)
	if err != nil {
		return 0, err
	}
	if err := WriteEmployeesXLSX(emps, w); err != nil {
		log.Error("write employee export failed", zap.Error(err))
		return 0, err
	}
	log.Info("employee export written", zap.Int("rows", len(emps)))
	return len(emps), nil
}

func WriteEmployeesXLSX(emps []employee.Employee, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = excelize.Cell{StyleID: bold, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, e := range emps {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cellName, exportRow(e)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
