package client

import (
	"context"

	"github.com/fivetwenty-io/rides/pkg/rides"
)

// ProductsClient implements rides.ProductsClient.
type ProductsClient struct {
	client *Client
}

// List implements rides.ProductsClient.List.
func (c *ProductsClient) List(ctx context.Context, latitude, longitude float64) (*rides.ProductList, *rides.Response, error) {
	args := map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
	}

	return fetch[rides.ProductList](ctx, c.client, "GET", "v1.2/products", args)
}

// Get implements rides.ProductsClient.Get.
func (c *ProductsClient) Get(ctx context.Context, productID string) (*rides.Product, *rides.Response, error) {
	return fetch[rides.Product](ctx, c.client, "GET", "v1.2/products/"+productID, nil)
}
