package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/hashicorp/go-retryablehttp"
)

// SessionRefresher exchanges a stale session for a fresh one.
type SessionRefresher func(ctx context.Context, session *rides.Session) (*rides.Session, error)

// Client sends requests to one host.
type Client struct {
	host       string
	httpClient *retryablehttp.Client
	refresher  SessionRefresher
	handlers   []ResponseHandler
	logger     rides.Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger rides.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithTimeout sets the timeout on a copy of the underlying *http.Client,
// leaving a client passed to WithHTTPClient untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			httpClient := *c.httpClient.HTTPClient
			httpClient.Timeout = timeout
			c.httpClient.HTTPClient = &httpClient
		}
	}
}

// WithRefresher sets the function used to renew stale OAuth 2.0 sessions.
func WithRefresher(refresher SessionRefresher) Option {
	return func(c *Client) {
		c.refresher = refresher
	}
}

// WithHandlers replaces the response handler chain.
func WithHandlers(handlers ...ResponseHandler) Option {
	return func(c *Client) {
		c.handlers = handlers
	}
}

// NewClient creates a client for host. Requests are never retried.
func NewClient(host string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		host:       host,
		httpClient: retryClient,
		handlers:   DefaultHandlers(),
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil && client.debug {
		retryClient.Logger = NewLeveledLogger(client.logger)
	}

	return client
}

// Host returns the host the client talks to.
func (c *Client) Host() string {
	return c.host
}

// Execute runs the request pipeline: it refreshes a stale OAuth 2.0 session,
// builds and sends the request, and classifies the response. The returned
// session is the one the request was sent with; callers must keep it when it
// differs from the one passed in.
func (c *Client) Execute(ctx context.Context, session *rides.Session, req *Request) (*rides.Response, *rides.Session, error) {
	if session == nil {
		return nil, nil, constants.ErrNilSession
	}

	session, err := c.ensureFresh(ctx, session)
	if err != nil {
		return nil, session, err
	}

	headers, err := BuildHeaders(req.Method, session)
	if err != nil {
		return nil, session, err
	}

	for k, v := range req.Headers {
		headers[k] = v
	}

	body, params, err := GenerateData(req.Method, req.Args)
	if err != nil {
		return nil, session, err
	}

	resp, err := c.send(ctx, req.Method, BuildURL(c.host, req.Path, params), headers, body)
	if err != nil {
		return nil, session, err
	}

	return resp, session, RunHandlers(resp, c.handlers)
}

// PostForm sends an unauthenticated form POST and returns the response
// without running the handler chain.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*rides.Response, error) {
	headers := map[string]string{constants.HeaderContentType: constants.ContentTypeForm}

	return c.send(ctx, http.MethodPost, BuildURL(c.host, path, nil), headers, []byte(form.Encode()))
}

// PostQuery sends an unauthenticated POST carrying params in the query
// string and returns the response without running the handler chain.
func (c *Client) PostQuery(ctx context.Context, path string, params url.Values) (*rides.Response, error) {
	u := BuildURL(c.host, path, nil)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	return c.send(ctx, http.MethodPost, u, nil, nil)
}

func (c *Client) ensureFresh(ctx context.Context, session *rides.Session) (*rides.Session, error) {
	if !session.IsOAuth2() || !session.IsStale() || c.refresher == nil {
		return session, nil
	}

	c.logDebug("Refreshing stale session", map[string]interface{}{
		"grant_type": string(session.OAuth2Credential().GrantType),
	})

	fresh, err := c.refresher(ctx, session)
	if err != nil {
		return session, fmt.Errorf("failed to refresh session: %w", err)
	}

	return fresh, nil
}

func (c *Client) send(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) (*rides.Response, error) {
	var reqBody interface{}
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	c.logDebug("HTTP Request", map[string]interface{}{
		"method": method,
		"url":    redactQuery(httpReq.URL),
	})

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	resp, err := rides.NewResponse(httpResp)
	if err != nil {
		return nil, err
	}

	c.logDebug("HTTP Response", map[string]interface{}{
		"status":               resp.StatusCode,
		"rate_limit_remaining": resp.RateLimit.Remaining,
	})

	return resp, nil
}

func (c *Client) logDebug(msg string, fields map[string]interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

// noRetry never retries; it only surfaces context cancellation.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return false, nil
}

var sensitiveParams = []string{"token", "client_secret", "code", "refresh_token"}

// redactQuery hides secrets carried in the query string.
func redactQuery(u *url.URL) string {
	if u.RawQuery == "" {
		return u.String()
	}

	query := u.Query()

	for _, key := range sensitiveParams {
		if query.Has(key) {
			query.Set(key, "REDACTED")
		}
	}

	redacted := *u
	redacted.RawQuery = query.Encode()

	return redacted.String()
}
