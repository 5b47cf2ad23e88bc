package reporterrors

import (
	"net/http"

	"ippis-portal/internal/shared/apperror"
)

var ErrUnsupportedFormat = apperror.New(
	apperror.CodeInvalidInput,
	"Report format must be xlsx or pdf",
	http.StatusBadRequest,
)
