package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a single-row query matches no rows.
var ErrNotFound = errors.New("no matching row")

// APIError is a non-2xx response from the hosted service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// PostgREST answers 406 when a single-row request matches zero rows.
		return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusNotAcceptable
	}
	return false
}

// parseAPIError decodes the error body shapes used by GoTrue and PostgREST.
func parseAPIError(status int, body []byte) error {
	var payload struct {
		Code             string `json:"code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Msg
	}
	if msg == "" {
		msg = payload.ErrorDescription
	}
	return &APIError{Status: status, Code: payload.Code, Message: msg}
}
