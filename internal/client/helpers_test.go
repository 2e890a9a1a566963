package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// recordedRequest is what the fake API saw.
type recordedRequest struct {
	Method        string
	Path          string
	Query         map[string]string
	Body          map[string]interface{}
	Authorization string
}

// fakeAPI serves canned responses keyed by "METHOD path" and records every
// request it receives.
type fakeAPI struct {
	mu        sync.Mutex
	server    *httptest.Server
	routes    map[string]fakeRoute
	requests  []recordedRequest
	tokenHits int
}

type fakeRoute struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{routes: map[string]fakeRoute{}}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) handle(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.routes[method+" "+path] = fakeRoute{status: status, body: body}
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.URL.Path == "/oauth/v2/token" {
		a.tokenHits++
	}

	rec := recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         map[string]string{},
		Authorization: r.Header.Get("Authorization"),
	}

	for key := range r.URL.Query() {
		rec.Query[key] = r.URL.Query().Get(key)
	}

	if data, _ := io.ReadAll(r.Body); len(data) > 0 && r.Header.Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(data, &rec.Body)
	}

	a.requests = append(a.requests, rec)

	route, ok := a.routes[r.Method+" "+r.URL.Path]
	if !ok {
		route = fakeRoute{status: http.StatusNotFound, body: `{"code":"not_found","message":"No route."}`}
	}

	if route.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(route.status)
	_, _ = io.WriteString(w, route.body)
}

func (a *fakeAPI) last() recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.requests) == 0 {
		return recordedRequest{}
	}

	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) tokenRequests() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.tokenHits
}

func (a *fakeAPI) config() *rides.Config {
	return &rides.Config{APIHost: a.server.URL, AuthHost: a.server.URL}
}

// newTestClient creates a client pointed at api.
func newTestClient(t *testing.T, api *fakeAPI, session *rides.Session) *Client {
	t.Helper()

	client, err := New(session, api.config())
	require.NoError(t, err)

	return client
}

func serverTokenSession(t *testing.T) *rides.Session {
	t.Helper()

	session, err := rides.NewServerTokenSession("server-token")
	require.NoError(t, err)

	return session
}

func oauthSession(t *testing.T, token string, expiresIn time.Duration) *rides.Session {
	t.Helper()

	session, err := rides.NewOAuth2Session(&rides.OAuth2Credential{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://app/cb",
		AccessToken:  token,
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(expiresIn),
		Scopes:       rides.NewScopeSet("profile", "request"),
		GrantType:    rides.GrantAuthorizationCode,
	})
	require.NoError(t, err)

	return session
}

func ptr[T any](v T) *T {
	return &v
}
