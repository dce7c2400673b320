// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	return nil
}

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		handler := NewCSRF(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

		c := csrfCookie(rr)
		if c == nil {
			t.Fatal("CSRF cookie not set")
		}
		if c.Secure != secure {
			t.Errorf("cookie Secure: got %v, want %v", c.Secure, secure)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
		}
		if len(c.Value) != csrfTokenLength*2 {
			t.Errorf("token length = %d", len(c.Value))
		}
	}
}

func TestCSRFRejectsStateMutationWithoutToken(t *testing.T) {
	handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

	for _, method := range []string{http.MethodPost, http.MethodPatch, http.MethodDelete} {
		req := httptest.NewRequest(method, "/admin/categories", nil)
		req.AddCookie(csrfCookie(getRR))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("%s without token: got %d, want 403", method, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("Content-Type = %q, want JSON", ct)
		}
	}
}

func TestCSRFAcceptsValidToken(t *testing.T) {
	handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	cookie := csrfCookie(getRR)

	postReq := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"email":"a"}`))
	postReq.Header.Set("Content-Type", "application/json")
	postReq.AddCookie(cookie)
	postReq.Header.Set(CSRFHeaderName, cookie.Value)
	postRR := httptest.NewRecorder()
	handler.ServeHTTP(postRR, postReq)

	if postRR.Code != http.StatusOK {
		t.Errorf("POST with valid token: got %d, want 200", postRR.Code)
	}
}

func TestCSRFRejectsWrongToken(t *testing.T) {
	handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "expected"})
	req.Header.Set(CSRFHeaderName, "forged")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rr.Code)
	}
}

func TestCSRFAcceptsFormFieldToken(t *testing.T) {
	handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	form := url.Values{CSRFFormField: {"form-token"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "form-token"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("POST with form token: got %d, want 200", rr.Code)
	}
}

func TestCSRFTokenFromCtx(t *testing.T) {
	t.Run("token is set in context on GET", func(t *testing.T) {
		var ctxToken string
		handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxToken = CSRFTokenFromCtx(r.Context())
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/login", nil))

		if ctxToken == "" || ctxToken != csrfCookie(rr).Value {
			t.Errorf("context token %q does not match cookie", ctxToken)
		}
	})

	t.Run("reuses existing cookie", func(t *testing.T) {
		var ctxToken string
		handler := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxToken = CSRFTokenFromCtx(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if ctxToken != "existing" {
			t.Errorf("context token = %q, want existing", ctxToken)
		}
		if csrfCookie(rr) != nil {
			t.Error("no new cookie should be issued when one exists")
		}
	})

	t.Run("empty when not in context", func(t *testing.T) {
		if token := CSRFTokenFromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()); token != "" {
			t.Errorf("expected empty string, got %q", token)
		}
	})
}
