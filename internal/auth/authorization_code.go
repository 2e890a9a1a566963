package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// WithStateToken uses state instead of a generated CSRF token.
func WithStateToken(state string) GrantOption {
	return func(g *grantBase) {
		g.fixedState = state
		g.stateEnabled = true
	}
}

// WithoutStateToken disables CSRF state generation and checking.
func WithoutStateToken() GrantOption {
	return func(g *grantBase) {
		g.fixedState = ""
		g.stateEnabled = false
	}
}

// AuthorizationCodeGrant runs the three-legged authorization code flow.
// The user is sent to AuthorizationURL, and the URL they are redirected back
// to is passed to Session.
type AuthorizationCodeGrant struct {
	grantBase

	clientSecret string
	redirectURL  string
	consumed     bool
	mu           sync.Mutex
}

// NewAuthorizationCodeGrant creates an authorization code grant.
func NewAuthorizationCodeGrant(clientID, clientSecret, redirectURL string, scopes []string, opts ...GrantOption) *AuthorizationCodeGrant {
	return &AuthorizationCodeGrant{
		grantBase:    newGrantBase(clientID, scopes, opts),
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
	}
}

// StateToken returns the CSRF token of the pending authorization request.
func (g *AuthorizationCodeGrant) StateToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateToken
}

// AuthorizationURL returns the URL the user must visit to grant access.
// A new state token is generated unless one was supplied or state is
// disabled.
func (g *AuthorizationCodeGrant) AuthorizationURL() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consumed = false

	switch {
	case !g.stateEnabled:
		g.stateToken = ""
	case g.fixedState != "":
		g.stateToken = g.fixedState
	default:
		state, err := GenerateStateToken(constants.StateTokenLength)
		if err != nil {
			return "", err
		}

		g.stateToken = state
	}

	return g.authorizationURL(constants.ResponseTypeCode, g.redirectURL, g.stateToken)
}

// Session validates the redirect URL and exchanges its authorization code
// for a session.
func (g *AuthorizationCodeGrant) Session(ctx context.Context, redirectURL string) (*rides.Session, error) {
	params, err := extractParams(redirectURL, false)
	if err != nil {
		return nil, err
	}

	if err := g.verifyState(params); err != nil {
		return nil, err
	}

	code, hasCode := params["code"]
	errValue, hasError := params["error"]

	switch {
	case hasCode && hasError:
		return nil, rides.NewIllegalStateError("Code and Error query params code and error can not both be set.")
	case !hasCode && !hasError:
		return nil, rides.NewIllegalStateError("Neither query parameter code or error is set.")
	case hasError:
		return nil, rides.NewIllegalStateError(errValue)
	}

	resp, err := g.tokens.RequestAccessToken(ctx, TokenRequest{
		GrantType:    string(rides.GrantAuthorizationCode),
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		Code:         code,
		RedirectURL:  g.redirectURL,
	})
	if err != nil {
		return nil, err
	}

	cred, err := CredentialFromResponse(resp, rides.GrantAuthorizationCode, g.clientID, g.clientSecret, g.redirectURL)
	if err != nil {
		return nil, err
	}

	return rides.NewOAuth2Session(cred)
}

// verifyState checks the callback state against the pending token. The
// token, supplied or generated, is consumed once checked, so a callback is
// accepted at most once per AuthorizationURL call.
func (g *AuthorizationCodeGrant) verifyState(params map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.stateEnabled {
		return nil
	}

	state, ok := params["state"]
	if !ok {
		return rides.NewIllegalStateError("Bad Request. Missing state parameter.")
	}

	expected := g.stateToken
	if expected == "" && !g.consumed {
		expected = g.fixedState
	}

	g.stateToken = ""
	g.consumed = true

	if expected == "" || state != expected {
		return rides.NewIllegalStateError(fmt.Sprintf("CSRF Error. Expected %s, got %s", expected, state))
	}

	return nil
}
