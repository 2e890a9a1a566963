package client

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// DriverClient implements rides.DriverClient.
type DriverClient struct {
	client *Client
}

func driverPageArgs(params *rides.DriverPageParams) map[string]any {
	args := map[string]any{}
	if params == nil {
		return args
	}

	setPtr(args, "offset", params.Offset)
	setPtr(args, "limit", params.Limit)
	setPtr(args, "from_time", params.FromTime)
	setPtr(args, "to_time", params.ToTime)

	return args
}

// Profile implements rides.DriverClient.Profile.
func (c *DriverClient) Profile(ctx context.Context) (*rides.DriverProfile, *rides.Response, error) {
	return fetch[rides.DriverProfile](ctx, c.client, "GET", "v1/partners/me", nil)
}

// Trips implements rides.DriverClient.Trips.
func (c *DriverClient) Trips(ctx context.Context, params *rides.DriverPageParams) (*rides.DriverTripList, *rides.Response, error) {
	return fetch[rides.DriverTripList](ctx, c.client, "GET", "v1/partners/trips", driverPageArgs(params))
}

// Payments implements rides.DriverClient.Payments.
func (c *DriverClient) Payments(ctx context.Context, params *rides.DriverPageParams) (*rides.DriverPaymentList, *rides.Response, error) {
	return fetch[rides.DriverPaymentList](ctx, c.client, "GET", "v1/partners/payments", driverPageArgs(params))
}
