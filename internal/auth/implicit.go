package auth

import (
	"context"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// ImplicitGrant runs the implicit flow. The access token arrives in the
// fragment of the redirect URL, so no token endpoint call is made and the
// resulting credential cannot be refreshed.
type ImplicitGrant struct {
	grantBase

	redirectURL string
}

// NewImplicitGrant creates an implicit grant.
func NewImplicitGrant(clientID, redirectURL string, scopes []string, opts ...GrantOption) *ImplicitGrant {
	return &ImplicitGrant{
		grantBase:   newGrantBase(clientID, scopes, append(opts, WithoutStateToken())),
		redirectURL: redirectURL,
	}
}

// AuthorizationURL returns the URL the user must visit to grant access.
func (g *ImplicitGrant) AuthorizationURL() (string, error) {
	return g.authorizationURL(constants.ResponseTypeToken, g.redirectURL, "")
}

// Session builds a session from the fragment of the redirect URL.
func (g *ImplicitGrant) Session(_ context.Context, redirectURL string) (*rides.Session, error) {
	params, err := extractParams(redirectURL, true)
	if err != nil {
		return nil, err
	}

	if errValue, ok := params["error"]; ok {
		return nil, rides.NewIllegalStateError(errValue)
	}

	accessToken := params["access_token"]
	if accessToken == "" {
		return nil, rides.NewIllegalStateError("Missing access_token in redirect URL.")
	}

	expiresIn, err := parseExpiresIn(params["expires_in"])
	if err != nil {
		return nil, err
	}

	cred := rides.NewOAuth2Credential(rides.OAuth2CredentialParams{
		ClientID:    g.clientID,
		RedirectURL: g.redirectURL,
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
		Scopes:      rides.ParseScopes(params["scope"]),
		GrantType:   rides.GrantImplicit,
	})

	return rides.NewOAuth2Session(cred)
}
