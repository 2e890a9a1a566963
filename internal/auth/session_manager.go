package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/rides/internal/constants"
	ridehttp "github.com/fivetwenty-io/rides/internal/http"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// CredentialPersister saves refreshed credentials.
type CredentialPersister interface {
	SaveCredential(profile string, cred *rides.OAuth2Credential) error
}

// SessionManager hands out fresh sessions, refreshing under a lock when the
// current one is stale and persisting the result.
type SessionManager struct {
	session   *rides.Session
	refresh   ridehttp.SessionRefresher
	persister CredentialPersister
	profile   string
	logger    rides.Logger
	mutex     sync.RWMutex
}

// SessionManagerOption configures a SessionManager.
type SessionManagerOption func(*SessionManager)

// WithPersister persists refreshed credentials under profile.
func WithPersister(persister CredentialPersister, profile string) SessionManagerOption {
	return func(m *SessionManager) {
		m.persister = persister
		m.profile = profile
	}
}

// WithManagerLogger sets the logger used to report persistence failures.
func WithManagerLogger(logger rides.Logger) SessionManagerOption {
	return func(m *SessionManager) {
		m.logger = logger
	}
}

// NewSessionManager creates a manager for session. refresh may be nil, in
// which case stale sessions are returned unchanged.
func NewSessionManager(session *rides.Session, refresh ridehttp.SessionRefresher, opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		session: session,
		refresh: refresh,
		profile: constants.DefaultProfile,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Session returns a session that is not stale, refreshing if necessary.
func (m *SessionManager) Session(ctx context.Context) (*rides.Session, error) {
	m.mutex.RLock()
	session := m.session
	m.mutex.RUnlock()

	if session == nil {
		return nil, constants.ErrNilSession
	}

	if !session.IsOAuth2() || !session.IsStale() || m.refresh == nil {
		return session, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.session == nil {
		return nil, constants.ErrNilSession
	}

	// Another caller may have refreshed while we waited.
	if m.session != session && !m.session.IsStale() {
		return m.session, nil
	}

	return m.refreshLocked(ctx)
}

// Refresh forces a refresh of the current session.
func (m *SessionManager) Refresh(ctx context.Context) (*rides.Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.session == nil {
		return nil, constants.ErrNilSession
	}

	if m.refresh == nil {
		return nil, constants.ErrNoRefresher
	}

	return m.refreshLocked(ctx)
}

// SetSession replaces the managed session, for example after the client
// refreshed it in its own request pipeline.
func (m *SessionManager) SetSession(session *rides.Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.session = session
}

// ExpiresAt returns the expiry of the current OAuth 2.0 credential, or the
// zero time for server-token sessions.
func (m *SessionManager) ExpiresAt() time.Time {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.session == nil || !m.session.IsOAuth2() {
		return time.Time{}
	}

	return m.session.OAuth2Credential().ExpiresAt
}

// Persist saves session's credential through the configured persister.
func (m *SessionManager) Persist(session *rides.Session) error {
	if m.persister == nil || session == nil || !session.IsOAuth2() {
		return nil
	}

	err := m.persister.SaveCredential(m.profile, session.OAuth2Credential())
	if err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	return nil
}

func (m *SessionManager) refreshLocked(ctx context.Context) (*rides.Session, error) {
	fresh, err := m.refresh(ctx, m.session)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	m.session = fresh

	if err := m.Persist(fresh); err != nil && m.logger != nil {
		// A failed save does not fail the caller.
		m.logger.Warn("Failed to persist refreshed credential", map[string]interface{}{
			"profile": m.profile,
			"error":   err.Error(),
		})
	}

	return fresh, nil
}
