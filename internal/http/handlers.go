package http

import (
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// ResponseHandler inspects a response and returns a classified error, or
// nil to pass it on to the next handler.
type ResponseHandler func(resp *rides.Response) error

// SurgeHandler turns a 409 surge conflict into a *rides.SurgeError.
func SurgeHandler(resp *rides.Response) error {
	if rides.IsSurgeResponse(resp) {
		return rides.NewSurgeError(resp, "")
	}

	return nil
}

// ErrorHandler turns 4xx responses into a *rides.ClientError and 5xx
// responses into a *rides.ServerError.
func ErrorHandler(resp *rides.Response) error {
	switch {
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		return rides.NewClientError(resp, "")
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return rides.NewServerError(resp, "")
	default:
		return nil
	}
}

// DefaultHandlers is the chain used for API calls.
func DefaultHandlers() []ResponseHandler {
	return []ResponseHandler{SurgeHandler, ErrorHandler}
}

// RunHandlers applies handlers in order and returns the first error.
func RunHandlers(resp *rides.Response, handlers []ResponseHandler) error {
	for _, handler := range handlers {
		if err := handler(resp); err != nil {
			return err
		}
	}

	return nil
}
