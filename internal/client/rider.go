package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// RiderClient implements rides.RiderClient.
type RiderClient struct {
	client *Client
}

// Profile implements rides.RiderClient.Profile.
func (c *RiderClient) Profile(ctx context.Context) (*rides.RiderProfile, *rides.Response, error) {
	return fetch[rides.RiderProfile](ctx, c.client, "GET", "v1.2/me", nil)
}

// History implements rides.RiderClient.History.
func (c *RiderClient) History(ctx context.Context, params *rides.PageParams) (*rides.RideHistory, *rides.Response, error) {
	args := map[string]any{}

	if params != nil {
		setPtr(args, "offset", params.Offset)
		setPtr(args, "limit", params.Limit)
	}

	return fetch[rides.RideHistory](ctx, c.client, "GET", "v1.2/history", args)
}

// Promotions implements rides.RiderClient.Promotions.
func (c *RiderClient) Promotions(ctx context.Context, params *rides.PriceEstimateParams) (*rides.Promotion, *rides.Response, error) {
	return fetch[rides.Promotion](ctx, c.client, "GET", "v1.2/promotions", priceArgs(params))
}

// PaymentMethods implements rides.RiderClient.PaymentMethods.
func (c *RiderClient) PaymentMethods(ctx context.Context) (*rides.PaymentMethodList, *rides.Response, error) {
	return fetch[rides.PaymentMethodList](ctx, c.client, "GET", "v1.2/payment-methods", nil)
}

// Place implements rides.RiderClient.Place.
func (c *RiderClient) Place(ctx context.Context, placeID string) (*rides.Place, *rides.Response, error) {
	if err := validatePlace(placeID); err != nil {
		return nil, nil, err
	}

	return fetch[rides.Place](ctx, c.client, "GET", "v1.2/places/"+placeID, nil)
}

// SetPlace implements rides.RiderClient.SetPlace.
func (c *RiderClient) SetPlace(ctx context.Context, placeID, address string) (*rides.Place, *rides.Response, error) {
	if err := validatePlace(placeID); err != nil {
		return nil, nil, err
	}

	args := map[string]any{"address": address}

	return fetch[rides.Place](ctx, c.client, "PUT", "v1.2/places/"+placeID, args)
}

func validatePlace(placeID string) error {
	if placeID != rides.PlaceHome && placeID != rides.PlaceWork {
		return rides.NewIllegalStateError(fmt.Sprintf("%s is not a valid place id.", placeID))
	}

	return nil
}
