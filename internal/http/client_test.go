package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ridehttp "github.com/fivetwenty-io/rides/internal/http"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) add(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.add("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.add("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.add("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.add("error", msg, fields) }

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		out = append(out, entry["msg"].(string))
	}

	return out
}

func serverSession(t *testing.T) *rides.Session {
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
		AccessToken:  token,
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(expiresIn),
		GrantType:    rides.GrantAuthorizationCode,
	})
	require.NoError(t, err)

	return session
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Execute(t *testing.T) {
	t.Parallel()

	t.Run("GET sends args as query", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1.2/products", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "latitude=37.7&longitude=-122.4", r.URL.RawQuery)
			assert.Equal(t, "Token server-token", r.Header.Get("Authorization"))
			assert.Equal(t, "Go Rides SDK v0.6.0", r.Header.Get("X-Rides-User-Agent"))
			assert.Empty(t, r.Header.Get("Content-Type"))

			body, _ := io.ReadAll(r.Body)
			assert.Empty(t, body)

			w.Header().Set("X-Rate-Limit-Remaining", "42")
			writeJSON(w, http.StatusOK, `{"products":[]}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)
		session := serverSession(t)

		resp, used, err := client.Execute(context.Background(), session, &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/products",
			Args:   map[string]any{"latitude": 37.7, "longitude": -122.4},
		})
		require.NoError(t, err)
		assert.Same(t, session, used)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 42, resp.RateLimit.Remaining)
	})

	t.Run("GET keeps nil args as empty query values", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "limit=10&offset=", r.URL.RawQuery)
			assert.True(t, r.URL.Query().Has("offset"))

			writeJSON(w, http.StatusOK, `{"history":[]}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		resp, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/history",
			Args:   map[string]any{"offset": nil, "limit": 10},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("POST sends args as JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Empty(t, r.URL.RawQuery)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"latitude": 37.7, "longitude": -122.4}, body)

			writeJSON(w, http.StatusAccepted, `{"request_id":"abc"}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		resp, _, err := client.Execute(context.Background(), oauthSession(t, "access", time.Hour), &ridehttp.Request{
			Method: http.MethodPost,
			Path:   "v1.2/requests",
			Args:   map[string]any{"latitude": 37.7, "longitude": -122.4},
		})
		require.NoError(t, err)
		assert.Equal(t, 202, resp.StatusCode)
	})

	t.Run("unsupported method", func(t *testing.T) {
		t.Parallel()

		client := ridehttp.NewClient("api.example.com")

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: "HEAD",
			Path:   "v1.2/products",
		})

		var illegal *rides.IllegalStateError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, "Unsupported HTTP Method.", illegal.Message)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		session, err := rides.NewServerTokenSession("bad token!")
		require.NoError(t, err)

		client := ridehttp.NewClient("api.example.com")

		_, _, err = client.Execute(context.Background(), session, &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/products",
		})

		var illegal *rides.IllegalStateError
		require.ErrorAs(t, err, &illegal)
		assert.Equal(t, "Invalid token_type or token.", illegal.Message)
	})

	t.Run("client error keeps response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"code":"unauthorized","message":"Invalid OAuth 2.0 credentials provided."}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		resp, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/me",
		})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 401, resp.StatusCode)

		var clientErr *rides.ClientError
		require.ErrorAs(t, err, &clientErr)
		require.Len(t, clientErr.Errors, 1)
		assert.Equal(t, 401, clientErr.Errors[0].Status)
		assert.Equal(t, "unauthorized", clientErr.Errors[0].Code)
	})

	t.Run("surge conflict", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, `{
				"meta":{"surge_confirmation":{"href":"https://example.com/surge/1","surge_confirmation_id":"s1"}},
				"errors":[{"status":409,"code":"surge","title":"Surge pricing is in effect."}]
			}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodPost,
			Path:   "v1.2/requests",
			Args:   map[string]any{"product_id": "p1"},
		})

		var surgeErr *rides.SurgeError
		require.ErrorAs(t, err, &surgeErr)
		assert.Equal(t, "s1", surgeErr.SurgeConfirmationID)
		assert.Equal(t, "https://example.com/surge/1", surgeErr.SurgeConfirmationHref)
	})

	t.Run("server error is not retried", func(t *testing.T) {
		t.Parallel()

		var (
			mu       sync.Mutex
			attempts int
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			attempts++
			mu.Unlock()

			writeJSON(w, http.StatusInternalServerError,
				`{"code":"internal_server_error","message":"Unexpected internal server error occurred."}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/products",
		})

		var serverErr *rides.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, "internal_server_error", serverErr.Detail.Code)

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, attempts)
	})

	t.Run("unknown error body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL)

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/products",
		})

		var unknown *rides.UnknownHTTPError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, 502, unknown.Response.StatusCode)
	})

	t.Run("transport failure is wrapped", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := ridehttp.NewClient(server.URL)

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
			Method: http.MethodGet,
			Path:   "v1.2/products",
		})
		require.Error(t, err)

		var apiErr rides.APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("nil session", func(t *testing.T) {
		t.Parallel()

		client := ridehttp.NewClient("api.example.com")

		_, _, err := client.Execute(context.Background(), nil, &ridehttp.Request{Method: http.MethodGet})
		require.Error(t, err)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_FreshnessGate(t *testing.T) {
	t.Parallel()

	t.Run("stale session is refreshed before sending", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		stale := oauthSession(t, "stale-token", time.Minute)
		fresh := oauthSession(t, "fresh-token", time.Hour)

		refreshed := 0
		client := ridehttp.NewClient(server.URL, ridehttp.WithRefresher(
			func(_ context.Context, session *rides.Session) (*rides.Session, error) {
				refreshed++

				assert.Same(t, stale, session)

				return fresh, nil
			}))

		_, used, err := client.Execute(context.Background(), stale, &ridehttp.Request{Method: http.MethodGet, Path: "v1.2/me"})
		require.NoError(t, err)
		assert.Same(t, fresh, used)
		assert.Equal(t, 1, refreshed)
	})

	t.Run("fresh session is not refreshed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL, ridehttp.WithRefresher(
			func(context.Context, *rides.Session) (*rides.Session, error) {
				t.Fatal("refresher must not be called")

				return nil, nil
			}))

		session := oauthSession(t, "access", time.Hour)

		_, used, err := client.Execute(context.Background(), session, &ridehttp.Request{Method: http.MethodGet, Path: "v1.2/me"})
		require.NoError(t, err)
		assert.Same(t, session, used)
	})

	t.Run("server token sessions are never refreshed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		client := ridehttp.NewClient(server.URL, ridehttp.WithRefresher(
			func(context.Context, *rides.Session) (*rides.Session, error) {
				t.Fatal("refresher must not be called")

				return nil, nil
			}))

		_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{Method: http.MethodGet, Path: "v1.2/products"})
		require.NoError(t, err)
	})

	t.Run("refresh failure aborts the call", func(t *testing.T) {
		t.Parallel()

		refreshErr := rides.NewIllegalStateError("implicit Grant Type does not support Refresh Tokens.")
		client := ridehttp.NewClient("api.example.com", ridehttp.WithRefresher(
			func(context.Context, *rides.Session) (*rides.Session, error) {
				return nil, refreshErr
			}))

		stale := oauthSession(t, "stale-token", -time.Minute)

		resp, used, err := client.Execute(context.Background(), stale, &ridehttp.Request{Method: http.MethodGet, Path: "v1.2/me"})
		require.Error(t, err)
		assert.ErrorIs(t, err, refreshErr)
		assert.Nil(t, resp)
		assert.Same(t, stale, used)
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"result":"ok"}`)
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := ridehttp.NewClient(server.URL, ridehttp.WithLogger(logger), ridehttp.WithDebug(true))

	_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{Method: http.MethodGet, Path: "v1.2/products"})
	require.NoError(t, err)

	messages := logger.messages()
	assert.Contains(t, messages, "HTTP Request")
	assert.Contains(t, messages, "HTTP Response")

	for _, entry := range logger.logs {
		fields, _ := entry["fields"].(map[string]interface{})
		for _, value := range fields {
			assert.NotContains(t, fmtValue(value), "server-token")
		}
	}
}

func fmtValue(v interface{}) string {
	b, _ := json.Marshal(v)

	return string(b)
}

func TestClient_PostForm(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/v2/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		writeJSON(w, http.StatusBadRequest, `{"error":"invalid_client"}`)
	}))
	defer server.Close()

	client := ridehttp.NewClient(server.URL)

	resp, err := client.PostForm(context.Background(), "oauth/v2/token", url.Values{"grant_type": {"client_credentials"}})
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Bad Request", resp.Reason)
}

func TestClient_PostQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/v2/revoke", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := ridehttp.NewClient(server.URL)

	resp, err := client.PostQuery(context.Background(), "oauth/v2/revoke", url.Values{"token": {"tok"}})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)

	return http.DefaultTransport.RoundTrip(req)
}

func TestClient_WithTimeoutKeepsCallerClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	transport := &countingTransport{}
	shared := &http.Client{Transport: transport}

	client := ridehttp.NewClient(server.URL, ridehttp.WithHTTPClient(shared), ridehttp.WithTimeout(3*time.Second))

	_, _, err := client.Execute(context.Background(), serverSession(t), &ridehttp.Request{
		Method: http.MethodGet,
		Path:   "v1.2/products",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), transport.calls.Load())
	assert.Zero(t, shared.Timeout)
}
