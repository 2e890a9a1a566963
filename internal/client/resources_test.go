package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceCalls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
		call   func(context.Context, *Client) error
		query  map[string]string
		sent   map[string]interface{}
	}{
		{
			name: "products list", method: "GET", path: "/v1.2/products", status: http.StatusOK,
			body: `{"products":[{"product_id":"p-1","display_name":"Black"}]}`,
			call: func(ctx context.Context, c *Client) error {
				list, _, err := c.Products().List(ctx, 37.775, -122.418)
				if err == nil {
					assert.Equal(t, "Black", list.Products[0].DisplayName)
				}

				return err
			},
			query: map[string]string{"latitude": "37.775", "longitude": "-122.418"},
		},
		{
			name: "product", method: "GET", path: "/v1.2/products/p-1", status: http.StatusOK,
			body: `{"product_id":"p-1"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Products().Get(ctx, "p-1")

				return err
			},
		},
		{
			name: "price estimate", method: "GET", path: "/v1.2/estimates/price", status: http.StatusOK,
			body: `{"prices":[{"product_id":"p-1","estimate":"$10-12"}]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Estimates().Price(ctx, &rides.PriceEstimateParams{
					StartLatitude: 1.5, StartLongitude: 2, EndLatitude: 3, EndLongitude: 4, SeatCount: ptr(2),
				})

				return err
			},
			query: map[string]string{
				"start_latitude": "1.5", "start_longitude": "2",
				"end_latitude": "3", "end_longitude": "4", "seat_count": "2",
			},
		},
		{
			name: "time estimate without product", method: "GET", path: "/v1.2/estimates/time", status: http.StatusOK,
			body: `{"times":[]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Estimates().Time(ctx, &rides.TimeEstimateParams{StartLatitude: 1, StartLongitude: 2})

				return err
			},
			query: map[string]string{"start_latitude": "1", "start_longitude": "2"},
		},
		{
			name: "ride estimate", method: "POST", path: "/v1.2/requests/estimate", status: http.StatusOK,
			body: `{"fare":{"fare_id":"f-1","value":5.5},"pickup_estimate":3}`,
			call: func(ctx context.Context, c *Client) error {
				est, _, err := c.Rides().Estimate(ctx, &rides.RideRequest{
					ProductID: "p-1", StartLatitude: ptr(1.0), StartLongitude: ptr(2.0), EndPlaceID: "work",
				})
				if err == nil {
					assert.Equal(t, "f-1", est.Fare.FareID)
				}

				return err
			},
			sent: map[string]interface{}{
				"product_id": "p-1", "start_latitude": 1.0, "start_longitude": 2.0, "end_place_id": "work",
			},
		},
		{
			name: "ride request", method: "POST", path: "/v1.2/requests", status: http.StatusAccepted,
			body: `{"request_id":"r-1","status":"processing"}`,
			call: func(ctx context.Context, c *Client) error {
				ride, _, err := c.Rides().Request(ctx, &rides.RideRequest{
					ProductID: "p-1", StartPlaceID: "home", EndPlaceID: "work", SurgeConfirmationID: "sc-1",
				})
				if err == nil {
					assert.Equal(t, "processing", ride.Status)
				}

				return err
			},
			sent: map[string]interface{}{
				"product_id": "p-1", "start_place_id": "home", "end_place_id": "work", "surge_confirmation_id": "sc-1",
			},
		},
		{
			name: "ride details", method: "GET", path: "/v1.2/requests/r-1", status: http.StatusOK,
			body: `{"request_id":"r-1"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rides().Get(ctx, "r-1")

				return err
			},
		},
		{
			name: "update ride", method: "PATCH", path: "/v1.2/requests/r-1", status: http.StatusNoContent,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Rides().Update(ctx, "r-1", &rides.RideUpdate{EndAddress: "1 Market St"})

				return err
			},
			sent: map[string]interface{}{"end_address": "1 Market St"},
		},
		{
			name: "cancel ride", method: "DELETE", path: "/v1.2/requests/r-1", status: http.StatusNoContent,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Rides().Cancel(ctx, "r-1")

				return err
			},
		},
		{
			name: "cancel current ride", method: "DELETE", path: "/v1.2/requests/current", status: http.StatusNoContent,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Rides().CancelCurrent(ctx)

				return err
			},
		},
		{
			name: "ride map", method: "GET", path: "/v1.2/requests/r-1/map", status: http.StatusOK,
			body: `{"request_id":"r-1","href":"https://map"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rides().Map(ctx, "r-1")

				return err
			},
		},
		{
			name: "ride receipt", method: "GET", path: "/v1.2/requests/r-1/receipt", status: http.StatusOK,
			body: `{"request_id":"r-1","total_charged":"$5.92"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rides().Receipt(ctx, "r-1")

				return err
			},
		},
		{
			name: "history", method: "GET", path: "/v1.2/history", status: http.StatusOK,
			body: `{"offset":0,"limit":5,"count":1,"history":[{"request_id":"r-1"}]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rider().History(ctx, &rides.PageParams{Limit: ptr(5)})

				return err
			},
			query: map[string]string{"limit": "5"},
		},
		{
			name: "promotions", method: "GET", path: "/v1.2/promotions", status: http.StatusOK,
			body: `{"display_text":"Free ride up to $15"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rider().Promotions(ctx, &rides.PriceEstimateParams{StartLatitude: 1})

				return err
			},
		},
		{
			name: "payment methods", method: "GET", path: "/v1.2/payment-methods", status: http.StatusOK,
			body: `{"payment_methods":[],"last_used":"pm-1"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rider().PaymentMethods(ctx)

				return err
			},
		},
		{
			name: "home address", method: "GET", path: "/v1.2/places/home", status: http.StatusOK,
			body: `{"address":"1 Main St"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rider().Place(ctx, rides.PlaceHome)

				return err
			},
		},
		{
			name: "set work address", method: "PUT", path: "/v1.2/places/work", status: http.StatusOK,
			body: `{"address":"2 Main St"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Rider().SetPlace(ctx, rides.PlaceWork, "2 Main St")

				return err
			},
			sent: map[string]interface{}{"address": "2 Main St"},
		},
		{
			name: "sandbox ride status", method: "PUT", path: "/v1.2/sandbox/requests/r-1", status: http.StatusNoContent,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Sandbox().UpdateRide(ctx, "r-1", rides.RideStatusAccepted)

				return err
			},
			sent: map[string]interface{}{"status": "accepted"},
		},
		{
			name: "sandbox product", method: "PUT", path: "/v1.2/sandbox/products/p-1", status: http.StatusNoContent,
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Sandbox().UpdateProduct(ctx, "p-1", &rides.SandboxProductUpdate{SurgeMultiplier: ptr(2.2)})

				return err
			},
			sent: map[string]interface{}{"surge_multiplier": 2.2},
		},
		{
			name: "driver profile", method: "GET", path: "/v1/partners/me", status: http.StatusOK,
			body: `{"driver_id":"d-1"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Driver().Profile(ctx)

				return err
			},
		},
		{
			name: "driver trips", method: "GET", path: "/v1/partners/trips", status: http.StatusOK,
			body: `{"count":0,"trips":[]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Driver().Trips(ctx, &rides.DriverPageParams{Offset: ptr(10), FromTime: ptr(int64(1500000000))})

				return err
			},
			query: map[string]string{"offset": "10", "from_time": "1500000000"},
		},
		{
			name: "driver payments", method: "GET", path: "/v1/partners/payments", status: http.StatusOK,
			body: `{"count":0,"payments":[]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Driver().Payments(ctx, nil)

				return err
			},
		},
		{
			name: "business receipt", method: "GET", path: "/v1/business/trips/t-1/receipt", status: http.StatusOK,
			body: `{"trip_uuid":"t-1"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Business().TripReceipt(ctx, "t-1")

				return err
			},
		},
		{
			name: "business receipt pdf", method: "GET", path: "/v1/business/trips/t-1/receipt/pdf_url", status: http.StatusOK,
			body: `{"url":"https://pdf"}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Business().TripReceiptPDFURL(ctx, "t-1")

				return err
			},
		},
		{
			name: "business invoices", method: "GET", path: "/v1/business/trips/t-1/invoice_urls", status: http.StatusOK,
			body: `{"invoices":[{"url":"https://inv","invoice_type":"TRIP"}]}`,
			call: func(ctx context.Context, c *Client) error {
				_, _, err := c.Business().TripInvoiceURLs(ctx, "t-1")

				return err
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI(t)
			api.handle(tt.method, tt.path, tt.status, tt.body)

			client := newTestClient(t, api, oauthSession(t, "token", time.Hour))

			require.NoError(t, tt.call(context.Background(), client))

			req := api.last()
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, "Bearer token", req.Authorization)

			for key, want := range tt.query {
				assert.Equal(t, want, req.Query[key], key)
			}

			for key, want := range tt.sent {
				assert.Equal(t, want, req.Body[key], key)
			}
		})
	}
}

func TestResourceCalls_OmitNilArguments(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	api.handle("POST", "/v1.2/requests", http.StatusAccepted, `{"request_id":"r-1"}`)
	api.handle("GET", "/v1.2/history", http.StatusOK, `{"history":[]}`)

	client := newTestClient(t, api, oauthSession(t, "token", time.Hour))

	_, _, err := client.Rides().Request(context.Background(), &rides.RideRequest{ProductID: "p-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"product_id": "p-1"}, api.last().Body)

	_, _, err = client.Rider().History(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, api.last().Query)
}

func TestSandboxClient_UpdateRide_InvalidStatus(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	client := newTestClient(t, api, oauthSession(t, "token", time.Hour))

	_, err := client.Sandbox().UpdateRide(context.Background(), "r-1", "teleporting")

	var illegal *rides.IllegalStateError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "teleporting is not a valid product status.", illegal.Message)
	assert.Empty(t, api.last().Path)
}

func TestRiderClient_Place_InvalidID(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	client := newTestClient(t, api, oauthSession(t, "token", time.Hour))

	_, _, err := client.Rider().Place(context.Background(), "school")
	assert.True(t, rides.IsIllegalState(err))

	_, _, err = client.Rider().SetPlace(context.Background(), "school", "x")
	assert.True(t, rides.IsIllegalState(err))
}

func TestSandboxClient_UpdateDriverTrips(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t)
	api.handle("PUT", "/v1/sandbox/partners/trips", http.StatusNoContent, "")

	client := newTestClient(t, api, oauthSession(t, "token", time.Hour))

	_, err := client.Sandbox().UpdateDriverTrips(context.Background(), &rides.SandboxDriverTripsUpdate{
		Trips: []rides.DriverTrip{{TripID: "t-1", Status: "completed"}},
	})
	require.NoError(t, err)

	trips, ok := api.last().Body["trips"].([]interface{})
	require.True(t, ok)
	require.Len(t, trips, 1)
	assert.Equal(t, "t-1", trips[0].(map[string]interface{})["trip_id"])
}
