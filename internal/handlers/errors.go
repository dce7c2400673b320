package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"toolstore/internal/api"
	"toolstore/internal/catalog"
	"toolstore/internal/middleware"
)

// statusFor maps an error from the api or catalog packages to an HTTP
// status and a client-safe message.
func statusFor(err error) (int, string) {
	var fe *api.FetchError
	switch {
	case errors.Is(err, api.ErrInvalidArgument), errors.Is(err, catalog.ErrInvalidParent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, api.ErrMalformedResponse), errors.Is(err, api.ErrMalformedTree):
		return http.StatusBadGateway, "backend returned a malformed response"
	case errors.As(err, &fe) && fe.Status >= 400 && fe.Status < 500:
		return fe.Status, fe.Message
	case errors.Is(err, api.ErrFetchFailed):
		return http.StatusBadGateway, "backend unavailable"
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusBadGateway, "backend rejected the request"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// fail answers err on a public endpoint. Nothing is written when the
// client has already gone away.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
		return
	}
	status, msg := statusFor(err)
	logFailure(r, status, err)
	writeError(w, status, msg)
}

func logFailure(r *http.Request, status int, err error) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
		return
	}
	slog.Warn("request failed", attrs...)
}
