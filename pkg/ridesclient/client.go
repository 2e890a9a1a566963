package ridesclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rides/internal/auth"
	"github.com/fivetwenty-io/rides/internal/client"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// Grant types returned by the constructors below.
type (
	AuthorizationCodeGrant = auth.AuthorizationCodeGrant
	ImplicitGrant          = auth.ImplicitGrant
	ClientCredentialsGrant = auth.ClientCredentialsGrant
	GrantOption            = auth.GrantOption
)

// WithStateToken makes an authorization code grant use state instead of a
// generated CSRF token.
func WithStateToken(state string) GrantOption {
	return auth.WithStateToken(state)
}

// WithoutStateToken disables CSRF state checking. Only use it when the
// state travels through another channel.
func WithoutStateToken() GrantOption {
	return auth.WithoutStateToken()
}

// New creates a client bound to session.
func New(session *rides.Session, config *rides.Config) (rides.Client, error) {
	cli, err := client.New(session, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithServerToken creates a client that authenticates with the app's
// server token.
func NewWithServerToken(serverToken string, config *rides.Config) (rides.Client, error) {
	session, err := rides.NewServerTokenSession(serverToken)
	if err != nil {
		return nil, err
	}

	return New(session, config)
}

// NewAuthorizationCodeGrant creates an authorization code grant. config
// only contributes the auth host and HTTP settings and may be nil.
func NewAuthorizationCodeGrant(clientID, clientSecret, redirectURL string, scopes []string, config *rides.Config, opts ...GrantOption) *AuthorizationCodeGrant {
	return auth.NewAuthorizationCodeGrant(clientID, clientSecret, redirectURL, scopes, grantOptions(config, opts)...)
}

// NewImplicitGrant creates an implicit grant.
func NewImplicitGrant(clientID, redirectURL string, scopes []string, config *rides.Config) *ImplicitGrant {
	return auth.NewImplicitGrant(clientID, redirectURL, scopes, grantOptions(config, nil)...)
}

// NewClientCredentialsGrant creates a client credentials grant.
func NewClientCredentialsGrant(clientID, clientSecret string, scopes []string, config *rides.Config) *ClientCredentialsGrant {
	return auth.NewClientCredentialsGrant(clientID, clientSecret, scopes, grantOptions(config, nil)...)
}

// RefreshAccessToken exchanges cred for a fresh session.
func RefreshAccessToken(ctx context.Context, cred *rides.OAuth2Credential, config *rides.Config) (*rides.Session, error) {
	return tokenClient(config).RefreshAccessToken(ctx, cred)
}

// RevokeAccessToken revokes cred's access token.
func RevokeAccessToken(ctx context.Context, cred *rides.OAuth2Credential, config *rides.Config) error {
	return tokenClient(config).RevokeAccessToken(ctx, cred)
}

func tokenClient(config *rides.Config) *auth.TokenClient {
	if config == nil {
		config = &rides.Config{}
	}

	return auth.NewTokenClient(config.AuthHost, client.HTTPOptions(config)...)
}

func grantOptions(config *rides.Config, opts []GrantOption) []GrantOption {
	base := []GrantOption{auth.WithTokenClient(tokenClient(config))}

	if config != nil && config.AuthHost != "" {
		base = append(base, auth.WithAuthHost(config.AuthHost))
	}

	return append(base, opts...)
}
