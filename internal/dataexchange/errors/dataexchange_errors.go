package dataexchangeerrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var (
	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"An import file is required",
		http.StatusBadRequest,
	)
	ErrUnsupportedFile = apperror.New(
		apperror.CodeInvalidInput,
		"Import files must be .xlsx, .xls or .csv",
		http.StatusUnsupportedMediaType,
	)
	ErrUnreadableFile = apperror.New(
		apperror.CodeInvalidInput,
		"The import file could not be read",
		http.StatusBadRequest,
	)
	ErrEmptyFile = apperror.New(
		apperror.CodeInvalidInput,
		"The import file has no data rows",
		http.StatusBadRequest,
	)
	ErrTooManyRows = apperror.New(
		apperror.CodeInvalidInput,
		"The import file has too many rows",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeTooLarge,
		"The import file exceeds the size limit",
		http.StatusRequestEntityTooLarge,
	)
	ErrMissingColumns = apperror.New(
		apperror.CodeInvalidInput,
		"The import file is missing required columns",
		http.StatusBadRequest,
	)
	ErrUnsupportedFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported export format",
		http.StatusBadRequest,
	)
)
