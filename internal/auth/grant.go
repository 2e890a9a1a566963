package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/rides/internal/constants"
	ridehttp "github.com/fivetwenty-io/rides/internal/http"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"golang.org/x/oauth2"
)

// Static errors for err113 compliance.
var (
	ErrMissingAccessToken = errors.New("token response is missing access_token")
)

// GrantOption configures a grant.
type GrantOption func(*grantBase)

// WithTokenClient sets the client used for the token endpoint. By default
// a client for the grant's auth host is created.
func WithTokenClient(tokens *TokenClient) GrantOption {
	return func(g *grantBase) {
		g.tokens = tokens
	}
}

// WithAuthHost overrides the auth host used to build authorization URLs and
// to reach the token endpoint.
func WithAuthHost(host string) GrantOption {
	return func(g *grantBase) {
		g.authHost = host
	}
}

// WithHTTPOptions passes options to the default token client.
func WithHTTPOptions(opts ...ridehttp.Option) GrantOption {
	return func(g *grantBase) {
		g.httpOpts = append(g.httpOpts, opts...)
	}
}

// grantBase holds what every grant shares: the app identity, the requested
// scopes and the token endpoint client.
type grantBase struct {
	clientID string
	scopes   rides.ScopeSet
	authHost string
	tokens   *TokenClient
	httpOpts []ridehttp.Option

	// authorization code grant only
	stateToken   string
	fixedState   string
	stateEnabled bool
}

func newGrantBase(clientID string, scopes []string, opts []GrantOption) grantBase {
	g := grantBase{
		clientID:     clientID,
		scopes:       rides.NewScopeSet(scopes...),
		authHost:     constants.AuthHost,
		stateEnabled: true,
	}

	for _, opt := range opts {
		opt(&g)
	}

	if g.tokens == nil {
		g.tokens = NewTokenClient(g.authHost, g.httpOpts...)
	}

	return g
}

// Scopes returns a copy of the requested scopes.
func (g *grantBase) Scopes() rides.ScopeSet {
	return g.scopes.Clone()
}

// TokenClient returns the token endpoint client used by the grant.
func (g *grantBase) TokenClient() *TokenClient {
	return g.tokens
}

// authorizationURL builds the authorize URL for responseType. An empty state
// is omitted.
func (g *grantBase) authorizationURL(responseType, redirectURL, state string) (string, error) {
	if responseType != constants.ResponseTypeCode && responseType != constants.ResponseTypeToken {
		return "", rides.NewIllegalStateError(fmt.Sprintf("%s is not a valid response type.", responseType))
	}

	cfg := &oauth2.Config{
		ClientID:    g.clientID,
		RedirectURL: redirectURL,
		Scopes:      g.scopes.Slice(),
		Endpoint: oauth2.Endpoint{
			AuthURL: ridehttp.BuildURL(g.authHost, constants.AuthorizePath, nil),
		},
	}

	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", responseType)), nil
}

// extractParams returns the first value of each parameter in the query
// string, or in the fragment when fromFragment is set.
func extractParams(redirectURL string, fromFragment bool) (map[string]string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, rides.NewIllegalStateError(fmt.Sprintf("Invalid redirect URL: %v", err))
	}

	raw := u.RawQuery
	if fromFragment {
		raw = u.EscapedFragment()
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, rides.NewIllegalStateError(fmt.Sprintf("Invalid redirect URL parameters: %v", err))
	}

	params := make(map[string]string, len(values))

	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}

	return params, nil
}

func parseExpiresIn(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, rides.NewIllegalStateError(fmt.Sprintf("Invalid expires_in value %q.", value))
	}

	return seconds, nil
}
