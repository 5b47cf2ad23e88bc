package documenterrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var (
	ErrDocumentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Document not found",
		http.StatusNotFound,
	)
	ErrFileRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A file is required",
		http.StatusBadRequest,
	)
	ErrEmptyFile = apperror.New(
		apperror.CodeInvalidInput,
		"The uploaded file is empty",
		http.StatusBadRequest,
	)
	ErrFileTooLarge = apperror.New(
		apperror.CodeTooLarge,
		"The uploaded file exceeds the size limit",
		http.StatusRequestEntityTooLarge,
	)
	ErrUnsupportedType = apperror.New(
		apperror.CodeInvalidInput,
		"This file type is not allowed",
		http.StatusUnsupportedMediaType,
	)
	ErrEmployeeRequired = apperror.RequiredField("Employee ID")
	ErrCategoryRequired = apperror.RequiredField("Category")
)
