//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/fivetwenty-io/rides/pkg/ridesclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerToken_ProductsAndEstimates(t *testing.T) {
	config := LoadTestConfig()
	config.RequireServerToken(t)

	ctx := context.Background()

	client, err := ridesclient.NewWithServerToken(config.ServerToken, &rides.Config{Sandbox: true})
	require.NoError(t, err)

	products, resp, err := client.Products().List(ctx, config.Latitude, config.Longitude)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.NotEmpty(t, products.Products)

	product, _, err := client.Products().Get(ctx, products.Products[0].ProductID)
	require.NoError(t, err)
	assert.Equal(t, products.Products[0].ProductID, product.ProductID)

	times, _, err := client.Estimates().Time(ctx, &rides.TimeEstimateParams{
		StartLatitude:  config.Latitude,
		StartLongitude: config.Longitude,
	})
	require.NoError(t, err)
	assert.NotNil(t, times)
}

func TestSandbox_RideLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.RequireAccessToken(t)

	ctx := context.Background()
	client := config.SandboxClient(t)

	products, _, err := client.Products().List(ctx, config.Latitude, config.Longitude)
	require.NoError(t, err)
	require.NotEmpty(t, products.Products)

	lat, lng := config.Latitude, config.Longitude
	ride, _, err := client.Rides().Request(ctx, &rides.RideRequest{
		ProductID:      products.Products[0].ProductID,
		StartLatitude:  &lat,
		StartLongitude: &lng,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = client.Rides().Cancel(context.Background(), ride.RequestID)
	})

	for _, status := range []string{rides.RideStatusAccepted, rides.RideStatusArriving} {
		_, err := client.Sandbox().UpdateRide(ctx, ride.RequestID, status)
		require.NoError(t, err, fmt.Sprintf("moving ride to %s", status))

		current, _, err := client.Rides().Get(ctx, ride.RequestID)
		require.NoError(t, err)
		assert.Equal(t, status, current.Status)
	}
}

func TestCLI_ServerTokenProducts(t *testing.T) {
	config := LoadTestConfig()
	config.RequireServerToken(t)
	config.RequireBinary(t)

	runner := NewCommandRunner(config, t)

	_, stderr, err := runner.Run("config", "set", "server_token", config.ServerToken)
	require.NoError(t, err, stderr)

	stdout, stderr, err := runner.Run("products", "--sandbox", "--output", "json",
		"--lat", fmt.Sprint(config.Latitude), "--lng", fmt.Sprint(config.Longitude))
	require.NoError(t, err, stderr)

	var list rides.ProductList
	AssertJSONOutput(t, stdout, &list)
	assert.NotEmpty(t, list.Products)
}
