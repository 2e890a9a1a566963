package client

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// RidesClient implements rides.RidesClient.
type RidesClient struct {
	client *Client
}

func rideRequestArgs(req *rides.RideRequest) map[string]any {
	args := map[string]any{}
	if req == nil {
		return args
	}

	setString(args, "product_id", req.ProductID)
	setPtr(args, "start_latitude", req.StartLatitude)
	setPtr(args, "start_longitude", req.StartLongitude)
	setString(args, "start_place_id", req.StartPlaceID)
	setString(args, "start_address", req.StartAddress)
	setString(args, "start_nickname", req.StartNickname)
	setPtr(args, "end_latitude", req.EndLatitude)
	setPtr(args, "end_longitude", req.EndLongitude)
	setString(args, "end_place_id", req.EndPlaceID)
	setString(args, "end_address", req.EndAddress)
	setString(args, "end_nickname", req.EndNickname)
	setPtr(args, "seat_count", req.SeatCount)
	setString(args, "fare_id", req.FareID)
	setString(args, "surge_confirmation_id", req.SurgeConfirmationID)
	setString(args, "payment_method_id", req.PaymentMethodID)

	return args
}

// Estimate implements rides.RidesClient.Estimate.
func (c *RidesClient) Estimate(ctx context.Context, req *rides.RideRequest) (*rides.RideEstimate, *rides.Response, error) {
	return fetch[rides.RideEstimate](ctx, c.client, "POST", "v1.2/requests/estimate", rideRequestArgs(req))
}

// Request implements rides.RidesClient.Request. A ride on a surging
// product fails with *rides.SurgeError until the rider has accepted the
// surge and the request is repeated with its SurgeConfirmationID.
func (c *RidesClient) Request(ctx context.Context, req *rides.RideRequest) (*rides.Ride, *rides.Response, error) {
	return fetch[rides.Ride](ctx, c.client, "POST", "v1.2/requests", rideRequestArgs(req))
}

// Get implements rides.RidesClient.Get.
func (c *RidesClient) Get(ctx context.Context, rideID string) (*rides.Ride, *rides.Response, error) {
	return fetch[rides.Ride](ctx, c.client, "GET", "v1.2/requests/"+rideID, nil)
}

// Current implements rides.RidesClient.Current.
func (c *RidesClient) Current(ctx context.Context) (*rides.Ride, *rides.Response, error) {
	return fetch[rides.Ride](ctx, c.client, "GET", "v1.2/requests/current", nil)
}

// Update implements rides.RidesClient.Update.
func (c *RidesClient) Update(ctx context.Context, rideID string, update *rides.RideUpdate) (*rides.Response, error) {
	args := map[string]any{}

	if update != nil {
		setPtr(args, "end_latitude", update.EndLatitude)
		setPtr(args, "end_longitude", update.EndLongitude)
		setString(args, "end_address", update.EndAddress)
		setString(args, "end_nickname", update.EndNickname)
		setString(args, "end_place_id", update.EndPlaceID)
	}

	return c.client.Do(ctx, "PATCH", "v1.2/requests/"+rideID, args)
}

// Cancel implements rides.RidesClient.Cancel.
func (c *RidesClient) Cancel(ctx context.Context, rideID string) (*rides.Response, error) {
	return c.client.Do(ctx, "DELETE", "v1.2/requests/"+rideID, nil)
}

// CancelCurrent implements rides.RidesClient.CancelCurrent.
func (c *RidesClient) CancelCurrent(ctx context.Context) (*rides.Response, error) {
	return c.client.Do(ctx, "DELETE", "v1.2/requests/current", nil)
}

// Map implements rides.RidesClient.Map.
func (c *RidesClient) Map(ctx context.Context, rideID string) (*rides.RideMap, *rides.Response, error) {
	return fetch[rides.RideMap](ctx, c.client, "GET", "v1.2/requests/"+rideID+"/map", nil)
}

// Receipt implements rides.RidesClient.Receipt.
func (c *RidesClient) Receipt(ctx context.Context, rideID string) (*rides.RideReceipt, *rides.Response, error) {
	return fetch[rides.RideReceipt](ctx, c.client, "GET", "v1.2/requests/"+rideID+"/receipt", nil)
}
