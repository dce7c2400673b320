package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"toolstore/internal/api"
	"toolstore/internal/catalog"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{"invalid argument", fmt.Errorf("%w: empty slug", api.ErrInvalidArgument), http.StatusBadRequest, ""},
		{"invalid parent", catalog.ErrInvalidParent, http.StatusBadRequest, ""},
		{"not found", &api.FetchError{Method: "GET", Path: "/product/1", Status: 404, Message: "gone"}, http.StatusNotFound, "not found"},
		{"malformed", api.ErrMalformedTree, http.StatusBadGateway, "backend returned a malformed response"},
		{"backend conflict", &api.FetchError{Method: "DELETE", Path: "/catalogue/1", Status: 409, Message: "in use"}, http.StatusConflict, "in use"},
		{"backend down", &api.FetchError{Method: "GET", Path: "/product", Err: errors.New("connection refused")}, http.StatusBadGateway, "backend unavailable"},
		{"unauthorized", api.ErrUnauthorized, http.StatusBadGateway, "backend rejected the request"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := statusFor(tt.err)
			if status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
			if tt.msg != "" && msg != tt.msg {
				t.Errorf("message = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestFail_ClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/products/latest", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	err := &api.FetchError{Method: "GET", Path: "/product/latest", Err: context.Canceled}
	fail(rec, req, err)

	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want nothing written", rec.Body.String())
	}
	if len(rec.Header()) != 0 {
		t.Errorf("headers = %v, want none", rec.Header())
	}
}

func TestFail_CanceledUpstreamStillAnswers(t *testing.T) {
	// The request itself is live, so a cancellation from elsewhere is an
	// ordinary failure.
	req := httptest.NewRequest(http.MethodGet, "/products/latest", nil)
	rec := httptest.NewRecorder()

	fail(rec, req, fmt.Errorf("latest: %w", context.Canceled))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected an error body")
	}
}
