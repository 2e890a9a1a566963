package rides

import (
	"context"
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// SessionRefreshFunc is called after the client replaced a stale session
// with a refreshed one.
type SessionRefreshFunc func(ctx context.Context, session *Session)

// Config represents client configuration for building a rides.Client.
//
// # Hosts
//
// APIHost and AuthHost default to the production hosts. When Sandbox is
// true and APIHost is empty the sandbox API host is used instead. A host
// without a scheme is reached over https.
//
// # Token freshness
//
// Before every request the client checks whether an OAuth 2.0 session is
// stale and, if so, refreshes it through the token endpoint on AuthHost.
// Server token sessions are never refreshed. Refreshing is not synchronized;
// wrap the client with an external lock if it is shared between goroutines.
type Config struct {
	// Sandbox: send API calls to the sandbox host.
	Sandbox bool
	// APIHost: overrides the API host (e.g., "api.example.com").
	APIHost string
	// AuthHost: overrides the OAuth 2.0 host used for refresh and revoke.
	AuthHost string

	// HTTPTimeout: per-request timeout of the underlying HTTP client.
	HTTPTimeout time.Duration
	// HTTPClient: optional base HTTP client, e.g. one with a custom transport.
	HTTPClient *http.Client
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// OnSessionRefresh: optional hook invoked with every refreshed session,
	// typically used to persist the new credential.
	OnSessionRefresh SessionRefreshFunc
}

// RedirectFlow is an OAuth 2.0 grant that sends the user to the
// authorization page and completes on the redirect callback.
type RedirectFlow interface {
	AuthorizationURL() (string, error)
	Session(ctx context.Context, redirectURL string) (*Session, error)
}

// ClientCredentialsFlow is an OAuth 2.0 grant that needs no user interaction.
type ClientCredentialsFlow interface {
	Session(ctx context.Context) (*Session, error)
}

// ProductsClient lists the products available at a location.
type ProductsClient interface {
	List(ctx context.Context, latitude, longitude float64) (*ProductList, *Response, error)
	Get(ctx context.Context, productID string) (*Product, *Response, error)
}

// EstimatesClient provides price and pickup time estimates.
type EstimatesClient interface {
	Price(ctx context.Context, params *PriceEstimateParams) (*PriceEstimateList, *Response, error)
	Time(ctx context.Context, params *TimeEstimateParams) (*TimeEstimateList, *Response, error)
}

// RidesClient manages ride requests.
type RidesClient interface {
	Estimate(ctx context.Context, req *RideRequest) (*RideEstimate, *Response, error)
	Request(ctx context.Context, req *RideRequest) (*Ride, *Response, error)
	Get(ctx context.Context, rideID string) (*Ride, *Response, error)
	Current(ctx context.Context) (*Ride, *Response, error)
	Update(ctx context.Context, rideID string, update *RideUpdate) (*Response, error)
	Cancel(ctx context.Context, rideID string) (*Response, error)
	CancelCurrent(ctx context.Context) (*Response, error)
	Map(ctx context.Context, rideID string) (*RideMap, *Response, error)
	Receipt(ctx context.Context, rideID string) (*RideReceipt, *Response, error)
}

// RiderClient exposes data about the authorized rider.
type RiderClient interface {
	Profile(ctx context.Context) (*RiderProfile, *Response, error)
	History(ctx context.Context, params *PageParams) (*RideHistory, *Response, error)
	Promotions(ctx context.Context, params *PriceEstimateParams) (*Promotion, *Response, error)
	PaymentMethods(ctx context.Context) (*PaymentMethodList, *Response, error)
	Place(ctx context.Context, placeID string) (*Place, *Response, error)
	SetPlace(ctx context.Context, placeID, address string) (*Place, *Response, error)
}

// SandboxClient drives the sandbox environment.
type SandboxClient interface {
	UpdateRide(ctx context.Context, rideID, status string) (*Response, error)
	UpdateProduct(ctx context.Context, productID string, update *SandboxProductUpdate) (*Response, error)
	UpdateDriverTrips(ctx context.Context, update *SandboxDriverTripsUpdate) (*Response, error)
}

// DriverClient exposes data about the authorized driver.
type DriverClient interface {
	Profile(ctx context.Context) (*DriverProfile, *Response, error)
	Trips(ctx context.Context, params *DriverPageParams) (*DriverTripList, *Response, error)
	Payments(ctx context.Context, params *DriverPageParams) (*DriverPaymentList, *Response, error)
}

// BusinessClient exposes trip receipts for business accounts.
type BusinessClient interface {
	TripReceipt(ctx context.Context, tripID string) (*BusinessReceipt, *Response, error)
	TripReceiptPDFURL(ctx context.Context, tripID string) (*ReceiptPDF, *Response, error)
	TripInvoiceURLs(ctx context.Context, tripID string) (*InvoiceURLList, *Response, error)
}

// Client is an authenticated API client that owns a Session.
type Client interface {
	Products() ProductsClient
	Estimates() EstimatesClient
	Rides() RidesClient
	Rider() RiderClient
	Sandbox() SandboxClient
	Driver() DriverClient
	Business() BusinessClient

	// Session returns the session currently bound to the client.
	Session() *Session
	// RefreshOAuthCredential refreshes the session when it is stale.
	RefreshOAuthCredential(ctx context.Context) error
	// RevokeOAuthCredential revokes the session's access token. It does
	// nothing for server token sessions.
	RevokeOAuthCredential(ctx context.Context) error
	// Do sends an arbitrary API call through the request pipeline.
	Do(ctx context.Context, method, path string, args map[string]any) (*Response, error)
}
