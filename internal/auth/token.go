package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/rides/internal/constants"
	ridehttp "github.com/fivetwenty-io/rides/internal/http"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// TokenRequest holds the fields posted to the token endpoint. Empty fields
// are not sent.
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Scopes       rides.ScopeSet
	Code         string
	RedirectURL  string
	RefreshToken string
}

func (r TokenRequest) form() url.Values {
	form := url.Values{}

	set := func(key, value string) {
		if value != "" {
			form.Set(key, value)
		}
	}

	set("grant_type", r.GrantType)
	set("client_id", r.ClientID)
	set("client_secret", r.ClientSecret)
	set("scope", r.Scopes.String())
	set("code", r.Code)
	set("redirect_uri", r.RedirectURL)
	set("refresh_token", r.RefreshToken)

	return form
}

// TokenClient talks to the OAuth 2.0 token and revoke endpoints.
type TokenClient struct {
	http *ridehttp.Client
}

// NewTokenClient creates a token client for authHost. An empty host selects
// the production auth host.
func NewTokenClient(authHost string, opts ...ridehttp.Option) *TokenClient {
	if authHost == "" {
		authHost = constants.AuthHost
	}

	opts = append([]ridehttp.Option{ridehttp.WithTimeout(constants.ShortHTTPTimeout)}, opts...)

	return &TokenClient{http: ridehttp.NewClient(authHost, opts...)}
}

// Host returns the auth host.
func (c *TokenClient) Host() string {
	return c.http.Host()
}

// RequestAccessToken posts req to the token endpoint. Only HTTP 200
// succeeds; any other status is classified into a client error.
func (c *TokenClient) RequestAccessToken(ctx context.Context, req TokenRequest) (*rides.Response, error) {
	resp, err := c.http.PostForm(ctx, constants.TokenPath, req.form())
	if err != nil {
		return nil, fmt.Errorf("failed to request access token: %w", err)
	}

	if resp.StatusCode != 200 {
		return resp, rides.NewClientError(resp, fmt.Sprintf("Failed to request access token: %s.", resp.Reason))
	}

	return resp, nil
}

// RevokeAccessToken revokes the credential's access token.
func (c *TokenClient) RevokeAccessToken(ctx context.Context, cred *rides.OAuth2Credential) error {
	if cred == nil {
		return constants.ErrNilCredential
	}

	params := url.Values{}
	params.Set("token", cred.AccessToken)
	params.Set("client_id", cred.ClientID)

	if cred.ClientSecret != "" {
		params.Set("client_secret", cred.ClientSecret)
	}

	resp, err := c.http.PostQuery(ctx, constants.RevokePath, params)
	if err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if resp.StatusCode != 200 {
		return rides.NewClientError(resp, fmt.Sprintf("Failed to revoke access token: %s.", resp.Reason))
	}

	return nil
}

// RefreshAccessToken obtains a new session for cred. Authorization code
// credentials use their refresh token, client credentials repeat the
// exchange, and implicit credentials cannot be refreshed.
func (c *TokenClient) RefreshAccessToken(ctx context.Context, cred *rides.OAuth2Credential) (*rides.Session, error) {
	if cred == nil {
		return nil, constants.ErrNilCredential
	}

	var req TokenRequest

	switch cred.GrantType {
	case rides.GrantAuthorizationCode:
		req = TokenRequest{
			GrantType:    constants.GrantRefreshToken,
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			RedirectURL:  cred.RedirectURL,
			RefreshToken: cred.RefreshToken,
		}
	case rides.GrantClientCredentials:
		req = TokenRequest{
			GrantType:    string(rides.GrantClientCredentials),
			ClientID:     cred.ClientID,
			ClientSecret: cred.ClientSecret,
			Scopes:       cred.Scopes,
		}
	default:
		return nil, rides.NewIllegalStateError(
			fmt.Sprintf("%s Grant Type does not support Refresh Tokens.", cred.GrantType))
	}

	resp, err := c.RequestAccessToken(ctx, req)
	if err != nil {
		return nil, err
	}

	redirectURL := cred.RedirectURL
	if cred.GrantType == rides.GrantClientCredentials {
		redirectURL = ""
	}

	fresh, err := CredentialFromResponse(resp, cred.GrantType, cred.ClientID, cred.ClientSecret, redirectURL)
	if err != nil {
		return nil, err
	}

	return rides.NewOAuth2Session(fresh)
}

// Refresher adapts RefreshAccessToken to the request pipeline.
func (c *TokenClient) Refresher() ridehttp.SessionRefresher {
	return func(ctx context.Context, session *rides.Session) (*rides.Session, error) {
		return c.RefreshAccessToken(ctx, session.OAuth2Credential())
	}
}

// tokenPayload is the body of a successful token response.
type tokenPayload struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    flexibleInt64 `json:"expires_in"`
	Scope        string        `json:"scope"`
	TokenType    string        `json:"token_type"`
}

// flexibleInt64 accepts a JSON number or a numeric string. Values outside
// the int64 range saturate.
type flexibleInt64 int64

func (f *flexibleInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0

		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid expires_in %q: %w", s, err)
	}

	switch {
	case math.IsNaN(v):
		*f = 0
	case v >= math.MaxInt64:
		*f = math.MaxInt64
	case v <= math.MinInt64:
		*f = math.MinInt64
	default:
		*f = flexibleInt64(v)
	}

	return nil
}

// CredentialFromResponse builds a credential from a token endpoint
// response. Non-200 responses are classified into a client error.
func CredentialFromResponse(resp *rides.Response, grantType rides.GrantType, clientID, clientSecret, redirectURL string) (*rides.OAuth2Credential, error) {
	if resp.StatusCode != 200 {
		return nil, rides.NewClientError(resp, fmt.Sprintf("Error with Access Token Request: %s", resp.Reason))
	}

	var payload tokenPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if payload.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	return rides.NewOAuth2Credential(rides.OAuth2CredentialParams{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    int64(payload.ExpiresIn),
		Scopes:       rides.ParseScopes(payload.Scope),
		GrantType:    grantType,
	}), nil
}
