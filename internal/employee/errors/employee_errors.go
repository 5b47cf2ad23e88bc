package employeeerrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An employee with the same staff ID, NIN or email already exists",
		http.StatusConflict,
	)
	ErrInvalidNIN = apperror.New(
		apperror.CodeInvalidInput,
		"NIN must be exactly 11 digits",
		http.StatusBadRequest,
	)
	ErrInvalidDateOfBirth = apperror.New(
		apperror.CodeInvalidInput,
		"Date of birth must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidAppointmentDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date of first appointment must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
