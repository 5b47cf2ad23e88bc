package employee

import (
	"errors"
	"net/http"

	"ippis-portal/internal/backend"
	employeeerrors "ippis-portal/internal/employee/errors"
)

// mapBackendError turns the backend's 404/409 into employee errors; other statuses pass through.
func mapBackendError(err error) error {
	if err == nil {
		return nil
	}

	var upErr *backend.UpstreamError
	if errors.As(err, &upErr) {
		switch upErr.Status {
		case http.StatusNotFound:
			return employeeerrors.ErrEmployeeNotFound
		case http.StatusConflict:
			return employeeerrors.ErrEmployeeAlreadyExists
		}
	}

	return err
}
