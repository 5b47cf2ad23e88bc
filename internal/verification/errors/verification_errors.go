package verificationerrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var (
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
	ErrProviderUnavailable = apperror.New(
		apperror.CodeUpstreamError,
		"The NIN verification service is unavailable",
		http.StatusBadGateway,
	)
	ErrNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"NIN verification is not configured",
		http.StatusServiceUnavailable,
	)
)
