package dataexchange

import (
	"strconv"
	"strings"
	"time"

	"ippis-portal/internal/employee"
	"ippis-portal/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/xuri/excelize/v2"
)

// headerAliases maps normalised spreadsheet headers onto employee fields.
var headerAliases = map[string]string{
	"staff_id":                  "staff_id",
	"staff_no":                  "staff_id",
	"ippis_no":                  "staff_id",
	"ippis_number":              "staff_id",
	"nin":                       "nin",
	"first_name":                "first_name",
	"firstname":                 "first_name",
	"middle_name":               "middle_name",
	"other_names":               "middle_name",
	"last_name":                 "last_name",
	"lastname":                  "last_name",
	"surname":                   "last_name",
	"email":                     "email",
	"email_address":             "email",
	"phone":                     "phone",
	"phone_number":              "phone",
	"gender":                    "gender",
	"sex":                       "gender",
	"date_of_birth":             "date_of_birth",
	"dob":                       "date_of_birth",
	"birth_date":                "date_of_birth",
	"date_of_first_appointment": "date_of_first_appointment",
	"first_appointment":         "date_of_first_appointment",
	"dofa":                      "date_of_first_appointment",
	"department_id":             "department_id",
	"designation_id":            "designation_id",
	"location_id":               "location_id",
	"grade_level":               "grade_level",
	"gl":                        "grade_level",
	"step":                      "step",
	"status":                    "status",
}

var requiredColumns = []string{"staff_id", "nin", "first_name", "last_name", "email", "date_of_birth", "date_of_first_appointment"}

func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "", "/", "_").Replace(h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return strings.Trim(h, "_")
}

// columnIndex maps employee field to column position. Unknown headers are ignored.
func columnIndex(header []string) (map[string]int, []string) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if field, ok := headerAliases[NormalizeHeader(h)]; ok {
			if _, dup := idx[field]; !dup {
				idx[field] = i
			}
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return idx, missing
}

func cell(row []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var dateLayouts = []string{
	employee.DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2 Jan 2006",
	"02-Jan-2006",
	"January 2, 2006",
	"2006-01-02T15:04:05",
}

// NormalizeDate accepts ISO dates, common day-first layouts and Excel serial numbers.
func NormalizeDate(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < 1 || serial > 2958465 {
			return "", false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return t.Format(employee.DateLayout), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(employee.DateLayout), true
		}
	}
	return "", false
}

func atoi(v string) (int, bool) {
	if v == "" {
		return 0, true
	}
	v = strings.TrimPrefix(strings.ToUpper(v), "GL")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// rowToRequest builds and validates one employee from a data row.
func rowToRequest(row []string, idx map[string]int) (employee.CreateEmployeeRequest, error) {
	req := employee.CreateEmployeeRequest{
		StaffID:       cell(row, idx, "staff_id"),
		NIN:           cell(row, idx, "nin"),
		FirstName:     cell(row, idx, "first_name"),
		MiddleName:    cell(row, idx, "middle_name"),
		LastName:      cell(row, idx, "last_name"),
		Email:         cell(row, idx, "email"),
		Phone:         cell(row, idx, "phone"),
		Gender:        strings.ToLower(cell(row, idx, "gender")),
		DepartmentID:  cell(row, idx, "department_id"),
		DesignationID: cell(row, idx, "designation_id"),
		LocationID:    cell(row, idx, "location_id"),
		Status:        strings.ToLower(cell(row, idx, "status")),
	}
	switch req.Gender {
	case "m":
		req.Gender = "male"
	case "f":
		req.Gender = "female"
	}

	for field, dst := range map[string]*string{
		"date_of_birth":             &req.DateOfBirth,
		"date_of_first_appointment": &req.DateOfFirstAppointment,
	} {
		raw := cell(row, idx, field)
		if d, ok := NormalizeDate(raw); ok {
			*dst = d
		} else {
			*dst = raw
		}
	}

	var ok bool
	if req.GradeLevel, ok = atoi(cell(row, idx, "grade_level")); !ok {
		return req, apperror.InvalidField("Grade Level")
	}
	if req.Step, ok = atoi(cell(row, idx, "step")); !ok {
		return req, apperror.InvalidField("Step")
	}

	req.Normalize()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return req, apperror.MapValidationError(err)
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}
