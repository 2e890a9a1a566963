package rides

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

// Default messages used when an error is built without one.
const (
	DefaultClientErrorMessage = "The request contains bad syntax or cannot be filled " +
		"due to a fault from the client sending the request."
	DefaultServerErrorMessage = "The server encounter an error or is unable to process the request."
	DefaultSurgeErrorMessage  = "Surge pricing is currently in effect for this product. " +
		"User must confirm surge by visiting the confirmation url."
)

// Known API error codes.
const (
	ErrorCodeDistanceExceeded    = "distance_exceeded"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeValidationFailed    = "validation_failed"
	ErrorCodeInternalServerError = "internal_server_error"
	ErrorCodeServiceUnavailable  = "service_unavailable"
	ErrorCodeSurge               = "surge"
	ErrorCodeSamePickupDropoff   = "same_pickup_dropoff"
)

var errorCodeDescriptions = map[string]string{
	ErrorCodeDistanceExceeded:    "Distance between two points exceeds 100 miles.",
	ErrorCodeUnauthorized:        "Invalid OAuth 2.0 credentials provided.",
	ErrorCodeValidationFailed:    "Invalid request.",
	ErrorCodeInternalServerError: "Unexpected internal server error occurred.",
	ErrorCodeServiceUnavailable:  "Service temporarily unavailable.",
	ErrorCodeSurge:               "Surge pricing is in effect.",
	ErrorCodeSamePickupDropoff:   "Pickup and Dropoff can't be the same.",
}

// ErrorCodeDescription returns a human readable description of a known
// error code, or "" when the code is not known.
func ErrorCodeDescription(code string) string {
	return errorCodeDescriptions[code]
}

// Static errors for err113 compliance.
var (
	ErrNotJSON           = errors.New("response is not JSON")
	ErrUnrecognizedShape = errors.New("unrecognized error body")
)

// APIError is implemented by every error the SDK classifies. The set of
// implementations is closed: *IllegalStateError, *ClientError, *ServerError,
// *SurgeError and *UnknownHTTPError.
type APIError interface {
	error
	apiError()
}

// ErrorDetails is the uniform form of a single API error entry.
type ErrorDetails struct {
	Status int    `json:"status" yaml:"status"`
	Code   string `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
}

// String implements fmt.Stringer.
func (d ErrorDetails) String() string {
	return fmt.Sprintf("ErrorDetails: %d %s %s", d.Status, d.Code, d.Title)
}

// IllegalStateError reports that the SDK or the caller is not in a state
// that allows the requested operation.
type IllegalStateError struct {
	Message string
}

// NewIllegalStateError creates an IllegalStateError.
func NewIllegalStateError(message string) *IllegalStateError {
	return &IllegalStateError{Message: message}
}

// Error implements the error interface.
func (e *IllegalStateError) Error() string {
	return e.Message
}

func (e *IllegalStateError) apiError() {}

// ClientError is returned for 4xx responses and carries every error entry
// from the body.
type ClientError struct {
	Message  string
	Errors   []ErrorDetails
	Meta     map[string]any
	Response *Response
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return describe(e.Message, e.Errors)
}

func (e *ClientError) apiError() {}

// FirstError returns the first error entry or nil.
func (e *ClientError) FirstError() *ErrorDetails {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// ServerError is returned for 5xx responses and carries a single error entry.
type ServerError struct {
	Message  string
	Detail   ErrorDetails
	Meta     map[string]any
	Response *Response
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return describe(e.Message, []ErrorDetails{e.Detail})
}

func (e *ServerError) apiError() {}

// SurgeError is a ClientError for a 409 response whose error code is
// "surge". The caller must send the rider to SurgeConfirmationHref and retry
// with the resulting confirmation id.
type SurgeError struct {
	*ClientError

	SurgeConfirmationID   string
	SurgeConfirmationHref string
}

// Error implements the error interface.
func (e *SurgeError) Error() string {
	return e.ClientError.Error()
}

// Unwrap exposes the embedded ClientError to errors.As.
func (e *SurgeError) Unwrap() error {
	return e.ClientError
}

func (e *SurgeError) apiError() {}

// UnknownHTTPError is returned when a failed response body matches none of
// the known error shapes.
type UnknownHTTPError struct {
	Response *Response
}

// Error implements the error interface.
func (e *UnknownHTTPError) Error() string {
	if e.Response == nil {
		return "unknown HTTP error"
	}

	return fmt.Sprintf("unknown HTTP error: %d %s", e.Response.StatusCode, e.Response.Reason)
}

func (e *UnknownHTTPError) apiError() {}

// NewClientError classifies a 4xx response. When the body shape is not
// recognized an *UnknownHTTPError is returned instead.
func NewClientError(resp *Response, message string) APIError {
	if message == "" {
		message = DefaultClientErrorMessage
	}

	details, meta, err := adaptResponse(resp)
	if err != nil {
		return &UnknownHTTPError{Response: resp}
	}

	return &ClientError{Message: message, Errors: details, Meta: meta, Response: resp}
}

// NewServerError classifies a 5xx response. Only the first error entry is
// kept. When the body shape is not recognized an *UnknownHTTPError is
// returned instead.
func NewServerError(resp *Response, message string) APIError {
	if message == "" {
		message = DefaultServerErrorMessage
	}

	details, meta, err := adaptResponse(resp)
	if err != nil {
		return &UnknownHTTPError{Response: resp}
	}

	return &ServerError{Message: message, Detail: details[0], Meta: meta, Response: resp}
}

// NewSurgeError classifies a surge 409 response. The confirmation id and
// href are read from meta.surge_confirmation.
func NewSurgeError(resp *Response, message string) APIError {
	if message == "" {
		message = DefaultSurgeErrorMessage
	}

	classified := NewClientError(resp, message)

	clientErr, ok := classified.(*ClientError)
	if !ok {
		return classified
	}

	surgeErr := &SurgeError{ClientError: clientErr}

	if confirmation, ok := clientErr.Meta["surge_confirmation"].(map[string]any); ok {
		surgeErr.SurgeConfirmationID = stringValue(confirmation["surge_confirmation_id"])
		surgeErr.SurgeConfirmationHref = stringValue(confirmation["href"])
	}

	return surgeErr
}

// IsSurgeResponse reports whether resp is a 409 whose first error code is
// "surge".
func IsSurgeResponse(resp *Response) bool {
	if resp == nil || resp.StatusCode != http.StatusConflict {
		return false
	}

	body, ok := resp.JSON.(map[string]any)
	if !ok {
		return false
	}

	entries, ok := body["errors"].([]any)
	if !ok || len(entries) == 0 {
		return false
	}

	first, ok := entries[0].(map[string]any)
	if !ok {
		return false
	}

	return stringValue(first["code"]) == ErrorCodeSurge
}

// adaptResponse converts an error body into ErrorDetails and metadata.
func adaptResponse(resp *Response) ([]ErrorDetails, map[string]any, error) {
	if resp == nil || !isJSONContentType(resp.Headers.Get("Content-Type")) {
		return nil, nil, ErrNotJSON
	}

	body, ok := resp.JSON.(map[string]any)
	if !ok {
		return nil, nil, ErrUnrecognizedShape
	}

	if entries, ok := body["errors"].([]any); ok && len(entries) > 0 {
		return adaptErrorList(entries, body)
	}

	if code := stringValue(body["code"]); code != "" {
		if message := stringValue(body["message"]); message != "" {
			meta := without(body, "code", "message")

			return []ErrorDetails{{Status: resp.StatusCode, Code: code, Title: message}}, meta, nil
		}
	}

	if title := stringValue(body["error"]); title != "" {
		meta := without(body, "error")

		return []ErrorDetails{{Status: resp.StatusCode, Code: resp.Reason, Title: title}}, meta, nil
	}

	return nil, nil, ErrUnrecognizedShape
}

func adaptErrorList(entries []any, body map[string]any) ([]ErrorDetails, map[string]any, error) {
	details := make([]ErrorDetails, 0, len(entries))

	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, nil, ErrUnrecognizedShape
		}

		details = append(details, ErrorDetails{
			Status: intValue(fields["status"]),
			Code:   stringValue(fields["code"]),
			Title:  stringValue(fields["title"]),
		})
	}

	meta, _ := body["meta"].(map[string]any)

	return details, meta, nil
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "application/json"
}

func without(body map[string]any, keys ...string) map[string]any {
	meta := make(map[string]any, len(body))
	for k, v := range body {
		meta[k] = v
	}

	for _, k := range keys {
		delete(meta, k)
	}

	return meta
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func intValue(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case json.Number:
		n, _ := val.Int64()

		return int(n)
	case string:
		n, _ := strconv.Atoi(val)

		return n
	default:
		return 0
	}
}

func describe(message string, details []ErrorDetails) string {
	if len(details) == 0 {
		return message
	}

	first := details[0]
	if first.Code == "" && first.Title == "" {
		return message
	}

	return fmt.Sprintf("%s (%d %s: %s)", message, first.Status, first.Code, first.Title)
}

// IsIllegalState checks if the error is an IllegalStateError.
func IsIllegalState(err error) bool {
	var target *IllegalStateError

	return errors.As(err, &target)
}

// IsSurge checks if the error is a SurgeError.
func IsSurge(err error) bool {
	var target *SurgeError

	return errors.As(err, &target)
}

// IsUnknownHTTP checks if the error is an UnknownHTTPError.
func IsUnknownHTTP(err error) bool {
	var target *UnknownHTTPError

	return errors.As(err, &target)
}

// IsUnauthorized checks if the error is a 401 or carries the
// "unauthorized" error code.
func IsUnauthorized(err error) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}

	if clientErr.Response != nil && clientErr.Response.StatusCode == http.StatusUnauthorized {
		return true
	}

	for _, detail := range clientErr.Errors {
		if detail.Code == ErrorCodeUnauthorized || detail.Status == http.StatusUnauthorized {
			return true
		}
	}

	return false
}
