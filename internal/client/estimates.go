package client

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// EstimatesClient implements rides.EstimatesClient.
type EstimatesClient struct {
	client *Client
}

func priceArgs(params *rides.PriceEstimateParams) map[string]any {
	args := map[string]any{}
	if params == nil {
		return args
	}

	args["start_latitude"] = params.StartLatitude
	args["start_longitude"] = params.StartLongitude
	args["end_latitude"] = params.EndLatitude
	args["end_longitude"] = params.EndLongitude
	setPtr(args, "seat_count", params.SeatCount)

	return args
}

// Price implements rides.EstimatesClient.Price.
func (c *EstimatesClient) Price(ctx context.Context, params *rides.PriceEstimateParams) (*rides.PriceEstimateList, *rides.Response, error) {
	return fetch[rides.PriceEstimateList](ctx, c.client, "GET", "v1.2/estimates/price", priceArgs(params))
}

// Time implements rides.EstimatesClient.Time.
func (c *EstimatesClient) Time(ctx context.Context, params *rides.TimeEstimateParams) (*rides.TimeEstimateList, *rides.Response, error) {
	args := map[string]any{}

	if params != nil {
		args["start_latitude"] = params.StartLatitude
		args["start_longitude"] = params.StartLongitude
		setString(args, "product_id", params.ProductID)
	}

	return fetch[rides.TimeEstimateList](ctx, c.client, "GET", "v1.2/estimates/time", args)
}
