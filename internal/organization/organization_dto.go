package organization

import (
	"time"

	"ippis-portal/internal/shared/apperror"
)

// Company is an MDA (ministry, department or agency) on IPPIS.
type Company struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Code               string `json:"code"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	IsActive           bool   `json:"is_active"`
}

func (c Company) RecordID() string    { return c.ID }
func (c Company) RecordLabel() string { return c.Name }

type CompanyRequest struct {
	Name               string `json:"name" binding:"required,max=200"`
	Code               string `json:"code" binding:"required,max=20"`
	Email              string `json:"email" binding:"omitempty,email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	RegistrationNumber string `json:"registration_number"`
	IsActive           *bool  `json:"is_active"`
}

type Department struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HeadID      string `json:"head_id,omitempty"`
}

func (d Department) RecordID() string    { return d.ID }
func (d Department) RecordLabel() string { return d.Name }

type DepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
	HeadID      string `json:"head_id"`
}

type Designation struct {
	ID             string `json:"id"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
}

func (d Designation) RecordID() string    { return d.ID }
func (d Designation) RecordLabel() string { return d.Name }

type DesignationRequest struct {
	DepartmentID string `json:"department_id" binding:"required"`
	Name         string `json:"name" binding:"required,max=150"`
	Description  string `json:"description"`
}

type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	State   string `json:"state,omitempty"`
	LGA     string `json:"lga,omitempty"`
}

func (l Location) RecordID() string { return l.ID }
func (l Location) RecordLabel() string {
	if l.State != "" {
		return l.Name + ", " + l.State
	}
	return l.Name
}

type LocationRequest struct {
	Name    string `json:"name" binding:"required,max=150"`
	Address string `json:"address"`
	State   string `json:"state"`
	LGA     string `json:"lga"`
}

type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ClientName  string  `json:"client_name,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (p Project) RecordID() string    { return p.ID }
func (p Project) RecordLabel() string { return p.Name }

type ProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description"`
	ClientName  string  `json:"client_name"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      float64 `json:"budget" binding:"gte=0"`
	Status      string  `json:"status" binding:"omitempty,oneof=planned active on_hold completed"`
}

func (r ProjectRequest) Validate() error {
	var start, end time.Time
	var err error
	if r.StartDate != "" {
		if start, err = time.Parse("2006-01-02", r.StartDate); err != nil {
			return apperror.InvalidField("Start Date")
		}
	}
	if r.EndDate != "" {
		if end, err = time.Parse("2006-01-02", r.EndDate); err != nil {
			return apperror.InvalidField("End Date")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return apperror.InvalidField("End Date")
	}
	return nil
}
