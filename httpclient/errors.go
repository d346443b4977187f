package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies a failed request. Callers branch on the kind, never on
// raw status codes.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServerError  Kind = "server_error"
	KindNetworkError Kind = "network_error"
	KindUnknown      Kind = "unknown"
)

// Error is the single error type returned by Client for failed requests.
type Error struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so
// errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindFromStatus maps an HTTP status code to an error kind.
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	}
	if status >= 500 {
		return KindServerError
	}
	return KindUnknown
}

// KindOf reports the kind of err; errors not produced here are unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Title is the heading shown above an error of the given kind.
func Title(kind Kind) string {
	switch kind {
	case KindBadRequest:
		return "Invalid Request"
	case KindUnauthorized:
		return "Authentication Required"
	case KindForbidden:
		return "Access Denied"
	case KindNotFound:
		return "Not Found"
	case KindValidation:
		return "Validation Error"
	case KindServerError:
		return "Server Error"
	case KindNetworkError:
		return "Network Error"
	default:
		return "Error"
	}
}

const maxErrorBody = 64 << 10

// errorFromResponse classifies a non-2xx response. The body is read on a
// best-effort basis; any failure falls back to the status line.
func errorFromResponse(resp *http.Response) *Error {
	message := fmt.Sprintf("HTTP %d %s", resp.StatusCode, statusText(resp))
	if m, ok := extractMessage(resp); ok {
		message = m
	}
	return &Error{
		Kind:    KindFromStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: message,
	}
}

func extractMessage(resp *http.Response) (string, bool) {
	if resp.Body == nil || !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", false
	}
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	msg, ok := payload.Error.(string)
	if !ok || msg == "" {
		return "", false
	}
	return msg, true
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
