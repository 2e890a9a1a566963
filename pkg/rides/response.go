package rides

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Rate limit headers returned by the API.
const (
	HeaderRateLimitLimit     = "X-Rate-Limit-Limit"
	HeaderRateLimitRemaining = "X-Rate-Limit-Remaining"
	HeaderRateLimitReset     = "X-Rate-Limit-Reset"
)

// RateLimit holds the values of the X-Rate-Limit-* headers. Missing headers
// leave the corresponding field at its zero value.
type RateLimit struct {
	Limit     int       `json:"limit"     yaml:"limit"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Reset     time.Time `json:"reset"     yaml:"reset"`
}

// Response is the normalized result of an API call.
type Response struct {
	StatusCode int
	// Reason is the HTTP reason phrase, e.g. "Unauthorized".
	Reason  string
	Headers http.Header
	Body    []byte
	// JSON is the decoded body, or nil when the body is not valid JSON.
	JSON      any
	RateLimit RateLimit
}

// NewResponse reads and closes the body of resp and normalizes it.
func NewResponse(resp *http.Response) (*Response, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return BuildResponse(resp.StatusCode, reasonPhrase(resp), resp.Header, body), nil
}

// BuildResponse assembles a Response from its parts.
func BuildResponse(statusCode int, reason string, headers http.Header, body []byte) *Response {
	if headers == nil {
		headers = http.Header{}
	}

	if reason == "" {
		reason = http.StatusText(statusCode)
	}

	r := &Response{
		StatusCode: statusCode,
		Reason:     reason,
		Headers:    headers,
		Body:       body,
		RateLimit:  parseRateLimit(headers),
	}

	var parsed any
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		r.JSON = parsed
	}

	return r
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func reasonPhrase(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if strings.HasPrefix(resp.Status, prefix) {
		return strings.TrimPrefix(resp.Status, prefix)
	}

	return http.StatusText(resp.StatusCode)
}

func parseRateLimit(headers http.Header) RateLimit {
	var rl RateLimit

	if v, err := strconv.Atoi(headers.Get(HeaderRateLimitLimit)); err == nil {
		rl.Limit = v
	}

	if v, err := strconv.Atoi(headers.Get(HeaderRateLimitRemaining)); err == nil {
		rl.Remaining = v
	}

	if v, err := strconv.ParseInt(headers.Get(HeaderRateLimitReset), 10, 64); err == nil {
		rl.Reset = time.Unix(v, 0)
	}

	return rl
}
