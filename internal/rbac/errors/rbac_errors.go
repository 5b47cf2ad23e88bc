package rbacerrors

import (
	"ippis-portal/internal/shared/apperror"
	"net/http"
)

var (
	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Role not found",
		http.StatusNotFound,
	)
	ErrRoleAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Role with the same name already exists",
		http.StatusConflict,
	)
	ErrUnknownPermission = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown permission, expected <resource>:<action>",
		http.StatusBadRequest,
	)
	ErrReservedRoleName = apperror.New(
		apperror.CodeInvalidInput,
		"Role name SUPERADMIN is reserved",
		http.StatusBadRequest,
	)
	ErrCrossCompany = apperror.New(
		apperror.CodeForbidden,
		"Cannot query another organisation",
		http.StatusForbidden,
	)
)
