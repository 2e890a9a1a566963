package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rides/internal/auth"
	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/internal/http"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// Client implements the rides.Client interface. It owns the session and
// rebinds it whenever the request pipeline refreshes it.
type Client struct {
	httpClient *http.Client
	tokens     *auth.TokenClient
	session    *rides.Session
	onRefresh  rides.SessionRefreshFunc
	logger     rides.Logger

	// Resource clients
	products  *ProductsClient
	estimates *EstimatesClient
	rides     *RidesClient
	rider     *RiderClient
	sandbox   *SandboxClient
	driver    *DriverClient
	business  *BusinessClient
}

// APIHost returns the API host selected by config.
func APIHost(config *rides.Config) string {
	switch {
	case config.APIHost != "":
		return config.APIHost
	case config.Sandbox:
		return constants.SandboxAPIHost
	default:
		return constants.APIHost
	}
}

// HTTPOptions builds HTTP client options from config.
func HTTPOptions(config *rides.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	return httpOpts
}

// New creates a client bound to session.
func New(session *rides.Session, config *rides.Config) (*Client, error) {
	if session == nil {
		return nil, constants.ErrNilSession
	}

	if config == nil {
		config = &rides.Config{}
	}

	httpOpts := HTTPOptions(config)
	tokens := auth.NewTokenClient(config.AuthHost, httpOpts...)

	client := &Client{
		httpClient: http.NewClient(APIHost(config), append(httpOpts, http.WithRefresher(tokens.Refresher()))...),
		tokens:     tokens,
		session:    session,
		onRefresh:  config.OnSessionRefresh,
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.products = &ProductsClient{client: c}
	c.estimates = &EstimatesClient{client: c}
	c.rides = &RidesClient{client: c}
	c.rider = &RiderClient{client: c}
	c.sandbox = &SandboxClient{client: c}
	c.driver = &DriverClient{client: c}
	c.business = &BusinessClient{client: c}
}

// Session implements rides.Client.Session.
func (c *Client) Session() *rides.Session {
	return c.session
}

// Host returns the API host.
func (c *Client) Host() string {
	return c.httpClient.Host()
}

// TokenClient returns the client used for refresh and revoke.
func (c *Client) TokenClient() *auth.TokenClient {
	return c.tokens
}

// Do implements rides.Client.Do.
func (c *Client) Do(ctx context.Context, method, path string, args map[string]any) (*rides.Response, error) {
	resp, session, err := c.httpClient.Execute(ctx, c.session, &http.Request{
		Method: method,
		Path:   path,
		Args:   args,
	})

	c.bind(ctx, session)

	return resp, err
}

// RefreshOAuthCredential implements rides.Client.RefreshOAuthCredential.
func (c *Client) RefreshOAuthCredential(ctx context.Context) error {
	if !c.session.IsOAuth2() || !c.session.IsStale() {
		return nil
	}

	fresh, err := c.tokens.RefreshAccessToken(ctx, c.session.OAuth2Credential())
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}

	c.bind(ctx, fresh)

	return nil
}

// RevokeOAuthCredential implements rides.Client.RevokeOAuthCredential.
func (c *Client) RevokeOAuthCredential(ctx context.Context) error {
	if !c.session.IsOAuth2() {
		return nil
	}

	return c.tokens.RevokeAccessToken(ctx, c.session.OAuth2Credential())
}

func (c *Client) bind(ctx context.Context, session *rides.Session) {
	if session == nil || session == c.session {
		return
	}

	c.session = session

	if c.logger != nil {
		c.logger.Info("OAuth 2.0 session refreshed", map[string]interface{}{
			"expires_at": session.OAuth2Credential().ExpiresAt,
		})
	}

	if c.onRefresh != nil {
		c.onRefresh(ctx, session)
	}
}

// Resource client accessors

// Products implements rides.Client.Products.
func (c *Client) Products() rides.ProductsClient {
	return c.products
}

// Estimates implements rides.Client.Estimates.
func (c *Client) Estimates() rides.EstimatesClient {
	return c.estimates
}

// Rides implements rides.Client.Rides.
func (c *Client) Rides() rides.RidesClient {
	return c.rides
}

// Rider implements rides.Client.Rider.
func (c *Client) Rider() rides.RiderClient {
	return c.rider
}

// Sandbox implements rides.Client.Sandbox.
func (c *Client) Sandbox() rides.SandboxClient {
	return c.sandbox
}

// Driver implements rides.Client.Driver.
func (c *Client) Driver() rides.DriverClient {
	return c.driver
}

// Business implements rides.Client.Business.
func (c *Client) Business() rides.BusinessClient {
	return c.business
}

// fetch sends a call and decodes its body into a new T.
func fetch[T any](ctx context.Context, c *Client, method, path string, args map[string]any) (*T, *rides.Response, error) {
	resp, err := c.Do(ctx, method, path, args)
	if err != nil {
		return nil, resp, err
	}

	var out T

	err = resp.Decode(&out)
	if err != nil {
		return nil, resp, fmt.Errorf("parsing %s response: %w", path, err)
	}

	return &out, resp, nil
}
