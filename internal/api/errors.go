// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrFetchFailed matches every *FetchError: transport failures and
	// non-2xx backend responses.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidArgument is a caller-side contract violation detected
	// before any network call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized means the backend rejected the credentials. The
	// session must be cleared.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse is a body that is neither a data envelope nor
	// a bare value of the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrMalformedTree is a category payload that cannot form a forest,
	// such as a slug shared by several categories.
	ErrMalformedTree = errors.New("malformed tree response")

	// ErrNotFound is returned for lookups with no match, and matches a
	// FetchError carrying a 404.
	ErrNotFound = errors.New("not found")
)

// FetchError describes a failed backend call.
type FetchError struct {
	Method  string
	Path    string
	Status  int    // 0 when the request never got a response
	Message string // backend message or HTTP status text
	Err     error  // transport error, if any
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Is makes errors.Is(err, ErrFetchFailed) true for every FetchError and
// errors.Is(err, ErrNotFound) true for 404s.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// invalidArgument builds an ErrInvalidArgument with a reason.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsUnauthorized reports whether a backend response means the session has
// expired: HTTP 401 regardless of body, or a JSON body carrying
// success=false and message "Unauthorized" under any status.
func IsUnauthorized(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	var marker struct {
		Success *bool           `json:"success"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &marker); err != nil {
		return false
	}
	if marker.Success == nil || *marker.Success {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(decodeMessage(marker.Message)), "unauthorized")
}

// errorMessage extracts the user-facing message of a failed response.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := decodeMessage(payload.Message); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// decodeMessage reads a message field that is either a string or a list
// of strings (validation errors).
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}
