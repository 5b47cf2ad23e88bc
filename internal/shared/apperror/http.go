package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// upstreamStatus is satisfied by backend.UpstreamError without importing it.
type upstreamStatus interface {
	StatusCode() int
	UpstreamMessage() string
}

func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	var up upstreamStatus
	if errors.As(err, &up) {
		status := up.StatusCode()
		if status >= 400 && status < 500 {
			msg := up.UpstreamMessage()
			if msg == "" {
				msg = http.StatusText(status)
			}
			return HTTPError{
				Status:  status,
				Code:    CodeUpstreamError,
				Message: msg,
			}
		}
		return HTTPError{
			Status:  ErrBadGateway.HTTPStatus,
			Code:    ErrBadGateway.Code,
			Message: ErrBadGateway.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
