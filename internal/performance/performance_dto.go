package performance

import (
	"net/http"
	"time"

	"ippis-portal/internal/shared/apperror"
)

type GoalType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (g GoalType) RecordID() string    { return g.ID }
func (g GoalType) RecordLabel() string { return g.Name }

type GoalTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type Goal struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	GoalTypeID   string `json:"goal_type_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Progress     int    `json:"progress"`
	Status       string `json:"status"`
}

func (g Goal) RecordID() string    { return g.ID }
func (g Goal) RecordLabel() string { return g.Title }

type GoalRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required"`
	GoalTypeID  string `json:"goal_type_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Progress    int    `json:"progress" binding:"min=0,max=100"`
	Status      string `json:"status" binding:"omitempty,oneof=not_started in_progress completed cancelled"`
}

func (r GoalRequest) Validate() error {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return apperror.InvalidField("Start Date")
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return apperror.InvalidField("End Date")
	}
	if end.Before(start) {
		return apperror.New(apperror.CodeInvalidInput, "End Date must not be before Start Date", http.StatusBadRequest)
	}
	if r.Status == "completed" && r.Progress != 100 {
		return apperror.New(apperror.CodeInvalidInput, "A completed goal must have 100% progress", http.StatusBadRequest)
	}
	return nil
}
