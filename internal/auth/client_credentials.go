package auth

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// ClientCredentialsGrant exchanges the app's own credentials for an access
// token. No user interaction or redirect URL is involved.
type ClientCredentialsGrant struct {
	grantBase

	clientSecret string
}

// NewClientCredentialsGrant creates a client credentials grant.
func NewClientCredentialsGrant(clientID, clientSecret string, scopes []string, opts ...GrantOption) *ClientCredentialsGrant {
	return &ClientCredentialsGrant{
		grantBase:    newGrantBase(clientID, scopes, opts),
		clientSecret: clientSecret,
	}
}

// Session requests an access token from the token endpoint.
func (g *ClientCredentialsGrant) Session(ctx context.Context) (*rides.Session, error) {
	resp, err := g.tokens.RequestAccessToken(ctx, TokenRequest{
		GrantType:    string(rides.GrantClientCredentials),
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		Scopes:       g.scopes,
	})
	if err != nil {
		return nil, err
	}

	cred, err := CredentialFromResponse(resp, rides.GrantClientCredentials, g.clientID, g.clientSecret, "")
	if err != nil {
		return nil, err
	}

	return rides.NewOAuth2Session(cred)
}
