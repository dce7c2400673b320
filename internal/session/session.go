// Package session provides Valkey-backed admin sessions. A session holds
// the backend auth token and is identified by a secure cookie; a second,
// short-lived cookie mirrors the token for cheap presence checks.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"toolstore/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ts_session"

	// TokenCookieName is the short-lived cookie mirroring the auth token.
	TokenCookieName = "ts_token"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// TokenCookieTTL bounds the token mirror cookie.
	TokenCookieTTL = time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload stored in Valkey.
type Data struct {
	models.AuthSession
	CreatedAt time.Time `json:"created_at"`
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks cookies as HTTPS-only.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create stores a new session for an authenticated user and sets both
// cookies on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, auth *models.AuthSession) (string, error) {
	if !auth.Authenticated() {
		return "", errors.New("session create: no auth token")
	}

	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data := Data{AuthSession: *auth, CreatedAt: time.Now()}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, s.cookie(CookieName, id, s.ttl))
	http.SetCookie(w, s.cookie(TokenCookieName, auth.Token, TokenCookieTTL))

	return id, nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	if !data.Authenticated() {
		return nil, nil
	}

	return &data, nil
}

// Destroy removes the session from Valkey and expires both cookies. It is
// safe to call without a session.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if cookie, cerr := r.Cookie(CookieName); cerr == nil && cookie.Value != "" {
		if derr := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); derr != nil {
			err = fmt.Errorf("session destroy: %w", derr)
		}
	}

	// Expire the cookies immediately, even if Valkey failed.
	http.SetCookie(w, s.cookie(CookieName, "", -1))
	http.SetCookie(w, s.cookie(TokenCookieName, "", -1))

	return err
}

// cookie builds a session cookie. A negative ttl expires it.
func (s *Store) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
