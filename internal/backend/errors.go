package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UpstreamError is returned for every failed backend call. Status is 0 when the request never
// got a response (dial error, timeout, cancelled context).
type UpstreamError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: %d", e.Method, e.Path, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns 502 for transport failures so callers never see 0.
func (e *UpstreamError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

func (e *UpstreamError) UpstreamMessage() string { return e.Message }

func IsNotFound(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up) && up.Status == http.StatusNotFound
}

// extractMessage understands {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}.
func extractMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
