// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api is the HTTP client for the catalog backend. It owns the
// request primitives (bearer auth, envelope unwrapping, unauthorized
// detection, error extraction) and one service per backend resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"toolstore/internal/models"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 15 * time.Second

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 8 << 20

// Client talks to the backend REST API rooted at a base URL.
// All methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	Categories     *CategoryService
	Products       *ProductService
	Articles       *Resource[models.Article]
	Catalogues     *Resource[models.Catalogue]
	ServiceCenters *Resource[models.ServiceCenter]
	Auth           *AuthService
}

// New creates a client for the backend at baseURL. A zero timeout uses
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}

	c.Categories = &CategoryService{Resource: newResource[models.Category](c, "/category")}
	c.Products = &ProductService{Resource: newResource[models.Product](c, "/product")}
	c.Articles = newResource[models.Article](c, "/article")
	c.Catalogues = newResource[models.Catalogue](c, "/catalogue")
	c.ServiceCenters = newResource[models.ServiceCenter](c, "/service-center")
	c.Auth = &AuthService{client: c}
	return c
}

// BaseURL returns the backend base URL without a trailing slash. Relative
// image URLs are resolved against it.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request and returns the body of a 2xx response. A
// non-empty token is sent as a bearer credential; in, when non-nil, is
// sent as a JSON body.
func (c *Client) do(ctx context.Context, method, path, token string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{Method: method, Path: path, Status: resp.StatusCode, Message: "read body", Err: err}
	}

	slog.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	// Checked before the status range: the backend sometimes reports an
	// expired token with a 200.
	if IsUnauthorized(resp.StatusCode, respBody) {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, respBody),
		}
	}
	return respBody, nil
}

// get fetches path anonymously and unwraps the payload into T.
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return zero, err
	}
	out, err := Unwrap[T](body)
	if err != nil {
		return zero, fmt.Errorf("GET %s: %w", path, err)
	}
	return out, nil
}

// send performs an authenticated write. An empty response body yields a
// nil result without error.
func send[T any](ctx context.Context, c *Client, method, path, token string, in any) (*T, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	out, err := Unwrap[T](body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return &out, nil
}

// requireToken rejects authenticated calls attempted without credentials.
func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return invalidArgument("missing auth token")
	}
	return nil
}
