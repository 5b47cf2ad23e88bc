package employee

import (
	"regexp"
	"strings"
	"time"

	employeeerrors "ippis-portal/internal/employee/errors"
)

const DateLayout = "2006-01-02"

var ninPattern = regexp.MustCompile(`^\d{11}$`)

// Employee mirrors the backend /employees record.
type Employee struct {
	ID                     string `json:"id"`
	StaffID                string `json:"staff_id"`
	NIN                    string `json:"nin"`
	FirstName              string `json:"first_name"`
	MiddleName             string `json:"middle_name,omitempty"`
	LastName               string `json:"last_name"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone,omitempty"`
	Gender                 string `json:"gender,omitempty"`
	DateOfBirth            string `json:"date_of_birth,omitempty"`
	DateOfFirstAppointment string `json:"date_of_first_appointment,omitempty"`
	CompanyID              string `json:"company_id,omitempty"`
	DepartmentID           string `json:"department_id,omitempty"`
	DesignationID          string `json:"designation_id,omitempty"`
	LocationID             string `json:"location_id,omitempty"`
	GradeLevel             int    `json:"grade_level,omitempty"`
	Step                   int    `json:"step,omitempty"`
	Status                 string `json:"status,omitempty"`
	Photo                  string `json:"photo,omitempty"`
}

func (e Employee) RecordID() string { return e.ID }

func (e Employee) RecordLabel() string { return e.FullName() }

func (e Employee) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.FirstName, e.MiddleName, e.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type CreateEmployeeRequest struct {
	StaffID                string `json:"staff_id" binding:"required"`
	NIN                    string `json:"nin" binding:"required"`
	FirstName              string `json:"first_name" binding:"required"`
	MiddleName             string `json:"middle_name"`
	LastName               string `json:"last_name" binding:"required"`
	Email                  string `json:"email" binding:"required,email"`
	Phone                  string `json:"phone"`
	Gender                 string `json:"gender" binding:"omitempty,oneof=male female"`
	DateOfBirth            string `json:"date_of_birth" binding:"required"`
	DateOfFirstAppointment string `json:"date_of_first_appointment" binding:"required"`
	DepartmentID           string `json:"department_id"`
	DesignationID          string `json:"designation_id"`
	LocationID             string `json:"location_id"`
	GradeLevel             int    `json:"grade_level" binding:"omitempty,min=1,max=17"`
	Step                   int    `json:"step" binding:"omitempty,min=1,max=15"`
	Status                 string `json:"status" binding:"omitempty,oneof=active suspended retired terminated"`
}

// Validate covers the checks binding tags cannot express.
func (r CreateEmployeeRequest) Validate() error {
	if !ninPattern.MatchString(r.NIN) {
		return employeeerrors.ErrInvalidNIN
	}
	if !validDate(r.DateOfBirth) {
		return employeeerrors.ErrInvalidDateOfBirth
	}
	if !validDate(r.DateOfFirstAppointment) {
		return employeeerrors.ErrInvalidAppointmentDate
	}
	return nil
}

// UpdateEmployeeRequest is a full replacement, same as the backend PUT.
type UpdateEmployeeRequest CreateEmployeeRequest

func (r UpdateEmployeeRequest) Validate() error {
	return CreateEmployeeRequest(r).Validate()
}

func validDate(v string) bool {
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

// Normalize trims the identity fields and lowercases the email before it reaches the backend.
func (r *CreateEmployeeRequest) Normalize() {
	r.StaffID = strings.TrimSpace(r.StaffID)
	r.NIN = strings.TrimSpace(r.NIN)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Status == "" {
		r.Status = "active"
	}
}
