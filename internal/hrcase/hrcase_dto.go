package hrcase

import (
	"time"

	"ippis-portal/internal/shared/apperror"
)

const dateLayout = "2006-01-02"

func checkDate(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, v); err != nil {
		return apperror.InvalidField(field)
	}
	return nil
}

// checkRange requires end on or after start; both must already be valid dates.
func checkRange(startField, start, endField, end string) error {
	if err := checkDate(startField, start); err != nil {
		return err
	}
	if err := checkDate(endField, end); err != nil {
		return err
	}
	if start != "" && end != "" && end < start {
		return apperror.InvalidField(endField)
	}
	return nil
}

type Transfer struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name,omitempty"`
	FromDepartmentID string `json:"from_department_id,omitempty"`
	ToDepartmentID   string `json:"to_department_id"`
	FromLocationID   string `json:"from_location_id,omitempty"`
	ToLocationID     string `json:"to_location_id,omitempty"`
	TransferDate     string `json:"transfer_date"`
	Reason           string `json:"reason,omitempty"`
	Status           string `json:"status,omitempty"`
}

func (t Transfer) RecordID() string    { return t.ID }
func (t Transfer) RecordLabel() string { return "transfer of " + nameOr(t.EmployeeName, t.EmployeeID) }

type TransferRequest struct {
	EmployeeID       string `json:"employee_id" binding:"required"`
	FromDepartmentID string `json:"from_department_id"`
	ToDepartmentID   string `json:"to_department_id" binding:"required"`
	FromLocationID   string `json:"from_location_id"`
	ToLocationID     string `json:"to_location_id"`
	TransferDate     string `json:"transfer_date" binding:"required"`
	Reason           string `json:"reason"`
	Status           string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (r TransferRequest) Validate() error {
	if r.FromDepartmentID != "" && r.FromDepartmentID == r.ToDepartmentID &&
		r.FromLocationID == r.ToLocationID {
		return apperror.InvalidField("To Department Id")
	}
	return checkDate("Transfer Date", r.TransferDate)
}

type Complaint struct {
	ID                string `json:"id"`
	ComplainantID     string `json:"complainant_id"`
	ComplainantName   string `json:"complainant_name,omitempty"`
	AgainstEmployeeID string `json:"against_employee_id"`
	AgainstName       string `json:"against_name,omitempty"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	ComplaintDate     string `json:"complaint_date"`
	Status            string `json:"status,omitempty"`
}

func (c Complaint) RecordID() string    { return c.ID }
func (c Complaint) RecordLabel() string { return "complaint: " + c.Title }

type ComplaintRequest struct {
	ComplainantID     string `json:"complainant_id" binding:"required"`
	AgainstEmployeeID string `json:"against_employee_id" binding:"required,nefield=ComplainantID"`
	Title             string `json:"title" binding:"required,max=200"`
	Description       string `json:"description"`
	ComplaintDate     string `json:"complaint_date" binding:"required"`
	Status            string `json:"status" binding:"omitempty,oneof=open investigating resolved dismissed"`
}

func (r ComplaintRequest) Validate() error {
	return checkDate("Complaint Date", r.ComplaintDate)
}

type Warning struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Subject      string `json:"subject"`
	Description  string `json:"description,omitempty"`
	WarningDate  string `json:"warning_date"`
	IssuedBy     string `json:"issued_by,omitempty"`
	Status       string `json:"status,omitempty"`
}

func (w Warning) RecordID() string    { return w.ID }
func (w Warning) RecordLabel() string { return "warning: " + w.Subject }

type WarningRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required"`
	Subject     string `json:"subject" binding:"required,max=200"`
	Description string `json:"description"`
	WarningDate string `json:"warning_date" binding:"required"`
	IssuedBy    string `json:"issued_by"`
	Status      string `json:"status" binding:"omitempty,oneof=open acknowledged closed"`
}

func (r WarningRequest) Validate() error {
	return checkDate("Warning Date", r.WarningDate)
}

type Termination struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name,omitempty"`
	TerminationType string `json:"termination_type"`
	NoticeDate      string `json:"notice_date,omitempty"`
	TerminationDate string `json:"termination_date"`
	Reason          string `json:"reason,omitempty"`
	Status          string `json:"status,omitempty"`
}

func (t Termination) RecordID() string { return t.ID }
func (t Termination) RecordLabel() string {
	return "termination of " + nameOr(t.EmployeeName, t.EmployeeID)
}

type TerminationRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required"`
	TerminationType string `json:"termination_type" binding:"required,oneof=dismissal retirement death redundancy other"`
	NoticeDate      string `json:"notice_date"`
	TerminationDate string `json:"termination_date" binding:"required"`
	Reason          string `json:"reason"`
	Status          string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (r TerminationRequest) Validate() error {
	return checkRange("Notice Date", r.NoticeDate, "Termination Date", r.TerminationDate)
}

type Resignation struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name,omitempty"`
	NoticeDate      string `json:"notice_date"`
	ResignationDate string `json:"resignation_date"`
	Reason          string `json:"reason,omitempty"`
	Status          string `json:"status,omitempty"`
}

func (r Resignation) RecordID() string { return r.ID }
func (r Resignation) RecordLabel() string {
	return "resignation of " + nameOr(r.EmployeeName, r.EmployeeID)
}

type ResignationRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required"`
	NoticeDate      string `json:"notice_date" binding:"required"`
	ResignationDate string `json:"resignation_date" binding:"required"`
	Reason          string `json:"reason"`
	Status          string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (r ResignationRequest) Validate() error {
	return checkRange("Notice Date", r.NoticeDate, "Resignation Date", r.ResignationDate)
}

type Award struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	AwardType    string  `json:"award_type"`
	Gift         string  `json:"gift,omitempty"`
	CashPrice    float64 `json:"cash_price,omitempty"`
	Date         string  `json:"date"`
	Description  string  `json:"description,omitempty"`
}

func (a Award) RecordID() string { return a.ID }
func (a Award) RecordLabel() string {
	return a.AwardType + " for " + nameOr(a.EmployeeName, a.EmployeeID)
}

type AwardRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required"`
	AwardType   string  `json:"award_type" binding:"required"`
	Gift        string  `json:"gift"`
	CashPrice   float64 `json:"cash_price" binding:"gte=0"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description"`
}

func (r AwardRequest) Validate() error {
	return checkDate("Date", r.Date)
}

type Travel struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Purpose        string  `json:"purpose"`
	Place          string  `json:"place"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	ExpectedBudget float64 `json:"expected_budget,omitempty"`
	ActualBudget   float64 `json:"actual_budget,omitempty"`
	Status         string  `json:"status,omitempty"`
}

func (t Travel) RecordID() string    { return t.ID }
func (t Travel) RecordLabel() string { return "travel to " + t.Place }

type TravelRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required"`
	Purpose        string  `json:"purpose" binding:"required"`
	Place          string  `json:"place" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required"`
	EndDate        string  `json:"end_date" binding:"required"`
	ExpectedBudget float64 `json:"expected_budget" binding:"gte=0"`
	ActualBudget   float64 `json:"actual_budget" binding:"gte=0"`
	Status         string  `json:"status" binding:"omitempty,oneof=pending approved rejected completed"`
}

func (r TravelRequest) Validate() error {
	return checkRange("Start Date", r.StartDate, "End Date", r.EndDate)
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
