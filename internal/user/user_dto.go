package user

import (
	"time"

	"ippis-portal/internal/auth"
)

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

func mapToResponse(u auth.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		CompanyID: u.CompanyID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.EmployeeID != nil {
		resp.EmployeeID = *u.EmployeeID
	}
	return resp
}
