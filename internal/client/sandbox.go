package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// SandboxClient implements rides.SandboxClient.
type SandboxClient struct {
	client *Client
}

// UpdateRide implements rides.SandboxClient.UpdateRide. status must be one
// of the known ride statuses.
func (c *SandboxClient) UpdateRide(ctx context.Context, rideID, status string) (*rides.Response, error) {
	if !rides.ValidRideStatus(status) {
		return nil, rides.NewIllegalStateError(fmt.Sprintf("%s is not a valid product status.", status))
	}

	args := map[string]any{"status": status}

	return c.client.Do(ctx, "PUT", "v1.2/sandbox/requests/"+rideID, args)
}

// UpdateProduct implements rides.SandboxClient.UpdateProduct.
func (c *SandboxClient) UpdateProduct(ctx context.Context, productID string, update *rides.SandboxProductUpdate) (*rides.Response, error) {
	args := map[string]any{}

	if update != nil {
		setPtr(args, "surge_multiplier", update.SurgeMultiplier)
		setPtr(args, "drivers_available", update.DriversAvailable)
	}

	return c.client.Do(ctx, "PUT", "v1.2/sandbox/products/"+productID, args)
}

// UpdateDriverTrips implements rides.SandboxClient.UpdateDriverTrips.
func (c *SandboxClient) UpdateDriverTrips(ctx context.Context, update *rides.SandboxDriverTripsUpdate) (*rides.Response, error) {
	trips := []rides.DriverTrip{}
	if update != nil && update.Trips != nil {
		trips = update.Trips
	}

	return c.client.Do(ctx, "PUT", "v1/sandbox/partners/trips", map[string]any{"trips": trips})
}
