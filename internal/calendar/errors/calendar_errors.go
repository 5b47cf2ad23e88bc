package calendarerrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD or RFC3339",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start must be before or equal to end",
		http.StatusBadRequest,
	)
	ErrFeedRangeTooLarge = apperror.New(
		apperror.CodeInvalidInput,
		"calendar feed range must not exceed 366 days",
		http.StatusBadRequest,
	)
)
