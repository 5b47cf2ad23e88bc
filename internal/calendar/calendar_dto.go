package calendar

import (
	"strings"
	"time"

	calendarerrors "ippis-portal/internal/calendar/errors"
)

const dateLayout = "2006-01-02"

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end,omitempty"`
	AllDay      bool   `json:"all_day"`
	Color       string `json:"color,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (e Event) RecordID() string    { return e.ID }
func (e Event) RecordLabel() string { return e.Title }

type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	Category    string `json:"category"`
}

func (r EventRequest) Validate() error {
	start, err := parseTime(r.Start)
	if err != nil {
		return err
	}
	if r.End == "" {
		return nil
	}
	end, err := parseTime(r.End)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return calendarerrors.ErrInvalidDateRange
	}
	return nil
}

type Leave struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
}

func (l Leave) RecordID() string { return l.ID }
func (l Leave) RecordLabel() string {
	name := l.EmployeeName
	if name == "" {
		name = l.EmployeeID
	}
	return name + " (" + strings.ToLower(l.LeaveType) + " leave)"
}

type LeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=annual sick casual maternity paternity study"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
	Status     string `json:"status" binding:"omitempty,oneof=pending approved rejected"`
}

func (r LeaveRequest) Validate() error {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return calendarerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return calendarerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return calendarerrors.ErrInvalidDateRange
	}
	return nil
}

// FeedEntry is one item of the merged calendar feed. End is exclusive.
type FeedEntry struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"all_day"`
	Color    string    `json:"color,omitempty"`
	Category string    `json:"category,omitempty"`
	Source   string    `json:"source"`
}

// parseTime accepts a plain date or an RFC3339 timestamp.
func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, calendarerrors.ErrInvalidDateFormat
}
