package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"toolstore/internal/api"
	"toolstore/internal/catalog"
	"toolstore/internal/i18n"
	"toolstore/internal/listing"
	"toolstore/internal/middleware"
	"toolstore/internal/models"
	"toolstore/internal/session"
)

// backendCall is one request seen by the fake backend.
type backendCall struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// fakeBackend is an httptest server with per-route handlers and a log of
// every call it received.
type fakeBackend struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []backendCall
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}
	fb.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.calls = append(fb.calls, backendCall{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		fb.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.Close)
	return fb
}

// on registers a canned response for pattern.
func (fb *fakeBackend) on(pattern string, status int, body string) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	})
}

// find returns the calls matching method and path.
func (fb *fakeBackend) find(method, path string) []backendCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []backendCall
	for _, c := range fb.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.calls)
}

// fakeSessions records session lifecycle calls.
type fakeSessions struct {
	mu        sync.Mutex
	created   []*models.AuthSession
	destroyed int
	createErr error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, auth *models.AuthSession) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, auth)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid"})
	return "sid", nil
}

func (f *fakeSessions) Destroy(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", MaxAge: -1})
	return nil
}

// countingCache is an in-memory catalog.TreeCache.
type countingCache struct {
	mu          sync.Mutex
	tree        []models.CategoryNode
	ok          bool
	invalidated int
}

func (c *countingCache) Get(context.Context) ([]models.CategoryNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree, c.ok
}

func (c *countingCache) Set(_ context.Context, tree []models.CategoryNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree, c.ok = tree, true
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree, c.ok = nil, false
	c.invalidated++
}

// testEnv wires the handler groups to a fake backend.
type testEnv struct {
	backend  *fakeBackend
	client   *api.Client
	cache    *countingCache
	sessions *fakeSessions
	public   *Public
	auth     *Auth
	admin    *Admin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tr, err := i18n.Load()
	if err != nil {
		t.Fatalf("i18n.Load: %v", err)
	}
	fb := newFakeBackend(t)
	client := api.New(fb.URL, 0)
	cache := &countingCache{}
	resolver := catalog.NewResolver(client.Categories, client.Categories, cache)
	sessions := &fakeSessions{}

	return &testEnv{
		backend:  fb,
		client:   client,
		cache:    cache,
		sessions: sessions,
		public:   NewPublic(client, resolver, listing.New(client.Products, client.BaseURL()), tr, false),
		auth:     NewAuth(client.Auth, sessions, tr),
		admin:    NewAdmin(client, resolver, sessions),
	}
}

// withParams attaches chi route parameters to r.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asAdmin attaches a logged-in session to r.
func asAdmin(r *http.Request) *http.Request {
	data := &session.Data{AuthSession: models.AuthSession{ID: "u1", Email: "admin@example.com", Token: "tok"}}
	return r.WithContext(middleware.WithSession(r.Context(), data))
}

func inLang(r *http.Request, lang i18n.Lang) *http.Request {
	return r.WithContext(middleware.WithLang(r.Context(), lang))
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

const treeBody = `{"data":[
	{"id":"1","name":"Power Tools","slug":"power-tools","parentId":null,"children":[
		{"id":"2","name":"Angle Grinders","slug":"angle-grinders","parentId":"1"},
		{"id":"3","name":"Drills","slug":"drills","parentId":"1","children":[
			{"id":"4","name":"Hammer Drills","slug":"hammer-drills","parentId":"3"}
		]}
	]},
	{"id":"5","name":"Accessories","slug":"accessories","parentId":null}
]}`

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func formRequest(target, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}
