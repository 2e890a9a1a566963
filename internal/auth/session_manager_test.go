package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	mu    sync.Mutex
	saved map[string]*rides.OAuth2Credential
	err   error
}

func (p *memoryPersister) SaveCredential(profile string, cred *rides.OAuth2Credential) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	if p.saved == nil {
		p.saved = map[string]*rides.OAuth2Credential{}
	}

	p.saved[profile] = cred

	return nil
}

type warnLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *warnLogger) Debug(string, map[string]interface{}) {}
func (l *warnLogger) Info(string, map[string]interface{})  {}
func (l *warnLogger) Error(string, map[string]interface{}) {}

func (l *warnLogger) Warn(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.warns = append(l.warns, msg)
}

func sessionExpiringIn(t *testing.T, token string, d time.Duration) *rides.Session {
	t.Helper()

	session, err := rides.NewOAuth2Session(&rides.OAuth2Credential{
		ClientID:     "client",
		AccessToken:  token,
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(d),
		GrantType:    rides.GrantAuthorizationCode,
	})
	require.NoError(t, err)

	return session
}

func TestSessionManager_Session(t *testing.T) {
	t.Parallel()

	t.Run("fresh session is returned as-is", func(t *testing.T) {
		t.Parallel()

		current := sessionExpiringIn(t, "fresh", time.Hour)
		manager := NewSessionManager(current, func(context.Context, *rides.Session) (*rides.Session, error) {
			t.Fatal("refresh should not be called")

			return nil, nil
		})

		got, err := manager.Session(context.Background())
		require.NoError(t, err)
		assert.Same(t, current, got)
	})

	t.Run("stale session is refreshed and persisted", func(t *testing.T) {
		t.Parallel()

		persister := &memoryPersister{}
		manager := NewSessionManager(sessionExpiringIn(t, "stale", time.Minute),
			func(context.Context, *rides.Session) (*rides.Session, error) {
				return sessionExpiringIn(t, "renewed", time.Hour), nil
			},
			WithPersister(persister, "work"))

		got, err := manager.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "renewed", got.Token())
		require.Contains(t, persister.saved, "work")
		assert.Equal(t, "renewed", persister.saved["work"].AccessToken)
		assert.WithinDuration(t, time.Now().Add(time.Hour), manager.ExpiresAt(), 5*time.Second)
	})

	t.Run("concurrent callers refresh once", func(t *testing.T) {
		t.Parallel()

		var calls int32

		manager := NewSessionManager(sessionExpiringIn(t, "stale", 0),
			func(context.Context, *rides.Session) (*rides.Session, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)

				return sessionExpiringIn(t, "renewed", time.Hour), nil
			})

		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				got, err := manager.Session(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, "renewed", got.Token())
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("refresh failure is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		manager := NewSessionManager(sessionExpiringIn(t, "stale", 0),
			func(context.Context, *rides.Session) (*rides.Session, error) { return nil, boom })

		_, err := manager.Session(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("persist failure is logged, not returned", func(t *testing.T) {
		t.Parallel()

		logger := &warnLogger{}
		manager := NewSessionManager(sessionExpiringIn(t, "stale", 0),
			func(context.Context, *rides.Session) (*rides.Session, error) {
				return sessionExpiringIn(t, "renewed", time.Hour), nil
			},
			WithPersister(&memoryPersister{err: errors.New("disk full")}, "default"),
			WithManagerLogger(logger))

		_, err := manager.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Failed to persist refreshed credential"}, logger.warns)
	})

	t.Run("server token sessions are never refreshed", func(t *testing.T) {
		t.Parallel()

		session, err := rides.NewServerTokenSession("server")
		require.NoError(t, err)

		manager := NewSessionManager(session, nil)

		got, err := manager.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "server", got.Token())
		assert.True(t, manager.ExpiresAt().IsZero())
	})

	t.Run("nil session", func(t *testing.T) {
		t.Parallel()

		_, err := NewSessionManager(nil, nil).Session(context.Background())
		assert.ErrorIs(t, err, constants.ErrNilSession)
	})
}

func TestSessionManager_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("without refresher", func(t *testing.T) {
		t.Parallel()

		_, err := NewSessionManager(sessionExpiringIn(t, "a", time.Hour), nil).Refresh(context.Background())
		assert.ErrorIs(t, err, constants.ErrNoRefresher)
	})

	t.Run("forces refresh of a fresh session", func(t *testing.T) {
		t.Parallel()

		manager := NewSessionManager(sessionExpiringIn(t, "a", time.Hour),
			func(context.Context, *rides.Session) (*rides.Session, error) {
				return sessionExpiringIn(t, "b", time.Hour), nil
			})

		got, err := manager.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "b", got.Token())

		manager.SetSession(sessionExpiringIn(t, "c", time.Hour))

		got, err = manager.Session(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "c", got.Token())
	})
}
