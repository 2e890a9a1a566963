package rides

// Known statuses of a ride request, used by the sandbox to move a ride
// through its lifecycle.
const (
	RideStatusProcessing     = "processing"
	RideStatusAccepted       = "accepted"
	RideStatusArriving       = "arriving"
	RideStatusInProgress     = "in_progress"
	RideStatusDriverCanceled = "driver_canceled"
	RideStatusCompleted      = "completed"
)

// ValidRideStatus reports whether status is one of the known ride statuses.
func ValidRideStatus(status string) bool {
	switch status {
	case RideStatusProcessing, RideStatusAccepted, RideStatusArriving,
		RideStatusInProgress, RideStatusDriverCanceled, RideStatusCompleted:
		return true
	default:
		return false
	}
}

// Saved place identifiers.
const (
	PlaceHome = "home"
	PlaceWork = "work"
)

// PriceDetails describes how a product is priced.
type PriceDetails struct {
	Base            float64      `json:"base"              yaml:"base"`
	Minimum         float64      `json:"minimum"           yaml:"minimum"`
	CostPerMinute   float64      `json:"cost_per_minute"   yaml:"cost_per_minute"`
	CostPerDistance float64      `json:"cost_per_distance" yaml:"cost_per_distance"`
	DistanceUnit    string       `json:"distance_unit"     yaml:"distance_unit"`
	CancellationFee float64      `json:"cancellation_fee"  yaml:"cancellation_fee"`
	CurrencyCode    string       `json:"currency_code"     yaml:"currency_code"`
	ServiceFees     []ServiceFee `json:"service_fees"      yaml:"service_fees"`
}

// ServiceFee is a named fee added to a fare.
type ServiceFee struct {
	Name string  `json:"name" yaml:"name"`
	Fee  float64 `json:"fee"  yaml:"fee"`
}

// Product is a ride product such as a standard or a large vehicle.
type Product struct {
	ProductID    string        `json:"product_id"              yaml:"product_id"`
	DisplayName  string        `json:"display_name"            yaml:"display_name"`
	Description  string        `json:"description"             yaml:"description"`
	Capacity     int           `json:"capacity"                yaml:"capacity"`
	Image        string        `json:"image"                   yaml:"image"`
	Shared       bool          `json:"shared"                  yaml:"shared"`
	UpfrontFare  bool          `json:"upfront_fare_enabled"    yaml:"upfront_fare_enabled"`
	PriceDetails *PriceDetails `json:"price_details,omitempty" yaml:"price_details,omitempty"`
}

// ProductList is the response of the products endpoint.
type ProductList struct {
	Products []Product `json:"products" yaml:"products"`
}

// PriceEstimateParams are the arguments of the price estimate and
// promotions endpoints.
type PriceEstimateParams struct {
	StartLatitude  float64
	StartLongitude float64
	EndLatitude    float64
	EndLongitude   float64
	// SeatCount is only sent when set.
	SeatCount *int
}

// PriceEstimate is the estimated fare of one product.
type PriceEstimate struct {
	ProductID       string   `json:"product_id"       yaml:"product_id"`
	DisplayName     string   `json:"display_name"     yaml:"display_name"`
	CurrencyCode    string   `json:"currency_code"    yaml:"currency_code"`
	Estimate        string   `json:"estimate"         yaml:"estimate"`
	LowEstimate     *float64 `json:"low_estimate"     yaml:"low_estimate"`
	HighEstimate    *float64 `json:"high_estimate"    yaml:"high_estimate"`
	SurgeMultiplier float64  `json:"surge_multiplier" yaml:"surge_multiplier"`
	Duration        int      `json:"duration"         yaml:"duration"`
	Distance        float64  `json:"distance"         yaml:"distance"`
}

// PriceEstimateList is the response of the price estimate endpoint.
type PriceEstimateList struct {
	Prices []PriceEstimate `json:"prices" yaml:"prices"`
}

// TimeEstimateParams are the arguments of the pickup time estimate endpoint.
type TimeEstimateParams struct {
	StartLatitude  float64
	StartLongitude float64
	// ProductID narrows the estimate to one product when set.
	ProductID string
}

// TimeEstimate is the estimated pickup time of one product in seconds.
type TimeEstimate struct {
	ProductID   string `json:"product_id"   yaml:"product_id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Estimate    int    `json:"estimate"     yaml:"estimate"`
}

// TimeEstimateList is the response of the time estimate endpoint.
type TimeEstimateList struct {
	Times []TimeEstimate `json:"times" yaml:"times"`
}

// Promotion is the promotion offered to a new rider.
type Promotion struct {
	DisplayText    string `json:"display_text"    yaml:"display_text"`
	LocalizedValue string `json:"localized_value" yaml:"localized_value"`
	Type           string `json:"type"            yaml:"type"`
}

// RideRequest holds the arguments of a ride estimate or a ride request.
// Either coordinates or a place id locate each end of the trip. Empty
// fields are not sent.
type RideRequest struct {
	ProductID           string
	StartLatitude       *float64
	StartLongitude      *float64
	StartPlaceID        string
	StartAddress        string
	StartNickname       string
	EndLatitude         *float64
	EndLongitude        *float64
	EndPlaceID          string
	EndAddress          string
	EndNickname         string
	SeatCount           *int
	FareID              string
	SurgeConfirmationID string
	PaymentMethodID     string
}

// Fare is the upfront fare of a ride estimate.
type Fare struct {
	FareID       string  `json:"fare_id"       yaml:"fare_id"`
	Value        float64 `json:"value"         yaml:"value"`
	Display      string  `json:"display"       yaml:"display"`
	ExpiresAt    int64   `json:"expires_at"    yaml:"expires_at"`
	CurrencyCode string  `json:"currency_code" yaml:"currency_code"`
}

// EstimatedPrice is the price block of a ride estimate for products
// without upfront fares.
type EstimatedPrice struct {
	SurgeConfirmationHref string   `json:"surge_confirmation_href" yaml:"surge_confirmation_href"`
	SurgeConfirmationID   string   `json:"surge_confirmation_id"   yaml:"surge_confirmation_id"`
	HighEstimate          *float64 `json:"high_estimate"           yaml:"high_estimate"`
	LowEstimate           *float64 `json:"low_estimate"            yaml:"low_estimate"`
	Minimum               float64  `json:"minimum"                 yaml:"minimum"`
	SurgeMultiplier       float64  `json:"surge_multiplier"        yaml:"surge_multiplier"`
	Display               string   `json:"display"                 yaml:"display"`
	CurrencyCode          string   `json:"currency_code"           yaml:"currency_code"`
}

// TripEstimate describes the estimated length of a trip.
type TripEstimate struct {
	DistanceUnit     string  `json:"distance_unit"     yaml:"distance_unit"`
	DurationEstimate int     `json:"duration_estimate" yaml:"duration_estimate"`
	DistanceEstimate float64 `json:"distance_estimate" yaml:"distance_estimate"`
}

// RideEstimate is the response of the ride estimate endpoint.
type RideEstimate struct {
	Fare           *Fare           `json:"fare,omitempty"     yaml:"fare,omitempty"`
	Estimate       *EstimatedPrice `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Trip           *TripEstimate   `json:"trip,omitempty"     yaml:"trip,omitempty"`
	PickupEstimate int             `json:"pickup_estimate"    yaml:"pickup_estimate"`
}

// Driver is the driver assigned to a ride.
type Driver struct {
	Name        string  `json:"name"         yaml:"name"`
	PhoneNumber string  `json:"phone_number" yaml:"phone_number"`
	Rating      float64 `json:"rating"       yaml:"rating"`
	PictureURL  string  `json:"picture_url"  yaml:"picture_url"`
}

// Vehicle is the vehicle assigned to a ride.
type Vehicle struct {
	Make         string `json:"make"          yaml:"make"`
	Model        string `json:"model"         yaml:"model"`
	LicensePlate string `json:"license_plate" yaml:"license_plate"`
	PictureURL   string `json:"picture_url"   yaml:"picture_url"`
}

// Location is a point on the map.
type Location struct {
	Latitude  float64 `json:"latitude"          yaml:"latitude"`
	Longitude float64 `json:"longitude"         yaml:"longitude"`
	Bearing   int     `json:"bearing,omitempty" yaml:"bearing,omitempty"`
	Address   string  `json:"address,omitempty" yaml:"address,omitempty"`
	ETA       int     `json:"eta,omitempty"     yaml:"eta,omitempty"`
}

// Ride is a ride request and its current state.
type Ride struct {
	RequestID       string    `json:"request_id"            yaml:"request_id"`
	ProductID       string    `json:"product_id"            yaml:"product_id"`
	Status          string    `json:"status"                yaml:"status"`
	ETA             int       `json:"eta"                   yaml:"eta"`
	SurgeMultiplier float64   `json:"surge_multiplier"      yaml:"surge_multiplier"`
	Shared          bool      `json:"shared"                yaml:"shared"`
	Driver          *Driver   `json:"driver,omitempty"      yaml:"driver,omitempty"`
	Vehicle         *Vehicle  `json:"vehicle,omitempty"     yaml:"vehicle,omitempty"`
	Location        *Location `json:"location,omitempty"    yaml:"location,omitempty"`
	Pickup          *Location `json:"pickup,omitempty"      yaml:"pickup,omitempty"`
	Destination     *Location `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// RideUpdate changes the destination of a ride in progress. Empty fields
// are not sent.
type RideUpdate struct {
	EndLatitude  *float64
	EndLongitude *float64
	EndAddress   string
	EndNickname  string
	EndPlaceID   string
}

// RideMap links to a live map of a ride.
type RideMap struct {
	RequestID string `json:"request_id" yaml:"request_id"`
	Href      string `json:"href"       yaml:"href"`
}

// Charge is a single line of a receipt.
type Charge struct {
	Name   string  `json:"name"   yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
	Type   string  `json:"type"   yaml:"type"`
}

// RideReceipt is the receipt of a completed ride.
type RideReceipt struct {
	RequestID         string   `json:"request_id"         yaml:"request_id"`
	Subtotal          string   `json:"subtotal"           yaml:"subtotal"`
	TotalCharged      string   `json:"total_charged"      yaml:"total_charged"`
	TotalOwed         *float64 `json:"total_owed"         yaml:"total_owed"`
	TotalFare         string   `json:"total_fare"         yaml:"total_fare"`
	CurrencyCode      string   `json:"currency_code"      yaml:"currency_code"`
	Duration          string   `json:"duration"           yaml:"duration"`
	Distance          string   `json:"distance"           yaml:"distance"`
	DistanceLabel     string   `json:"distance_label"     yaml:"distance_label"`
	Charges           []Charge `json:"charges"            yaml:"charges"`
	SurgeCharge       *Charge  `json:"surge_charge"       yaml:"surge_charge"`
	ChargeAdjustments []Charge `json:"charge_adjustments" yaml:"charge_adjustments"`
}

// RiderProfile is the authorized rider's profile.
type RiderProfile struct {
	UUID           string `json:"uuid"            yaml:"uuid"`
	RiderID        string `json:"rider_id"        yaml:"rider_id"`
	FirstName      string `json:"first_name"      yaml:"first_name"`
	LastName       string `json:"last_name"       yaml:"last_name"`
	Email          string `json:"email"           yaml:"email"`
	Picture        string `json:"picture"         yaml:"picture"`
	PromoCode      string `json:"promo_code"      yaml:"promo_code"`
	MobileVerified bool   `json:"mobile_verified" yaml:"mobile_verified"`
}

// PageParams selects a page of a list endpoint. Nil fields are not sent.
type PageParams struct {
	Offset *int
	Limit  *int
}

// City is a city served by the platform.
type City struct {
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Latitude    float64 `json:"latitude"     yaml:"latitude"`
	Longitude   float64 `json:"longitude"    yaml:"longitude"`
}

// HistoryEntry is one past ride of the rider.
type HistoryEntry struct {
	RequestID   string  `json:"request_id"   yaml:"request_id"`
	ProductID   string  `json:"product_id"   yaml:"product_id"`
	Status      string  `json:"status"       yaml:"status"`
	Distance    float64 `json:"distance"     yaml:"distance"`
	RequestTime int64   `json:"request_time" yaml:"request_time"`
	StartTime   int64   `json:"start_time"   yaml:"start_time"`
	EndTime     int64   `json:"end_time"     yaml:"end_time"`
	StartCity   *City   `json:"start_city"   yaml:"start_city"`
}

// RideHistory is a page of the rider's past rides.
type RideHistory struct {
	Offset  int            `json:"offset"  yaml:"offset"`
	Limit   int            `json:"limit"   yaml:"limit"`
	Count   int            `json:"count"   yaml:"count"`
	History []HistoryEntry `json:"history" yaml:"history"`
}

// PaymentMethod is a payment method on the rider's account.
type PaymentMethod struct {
	PaymentMethodID string `json:"payment_method_id" yaml:"payment_method_id"`
	Type            string `json:"type"              yaml:"type"`
	Description     string `json:"description"       yaml:"description"`
}

// PaymentMethodList is the response of the payment methods endpoint.
type PaymentMethodList struct {
	PaymentMethods []PaymentMethod `json:"payment_methods" yaml:"payment_methods"`
	LastUsed       string          `json:"last_used"       yaml:"last_used"`
}

// Place is a saved address such as home or work.
type Place struct {
	Address string `json:"address" yaml:"address"`
}

// SandboxProductUpdate changes the simulated state of a product in the
// sandbox. Nil fields are not sent.
type SandboxProductUpdate struct {
	SurgeMultiplier  *float64
	DriversAvailable *bool
}

// SandboxDriverTripsUpdate seeds the sandbox with driver trips.
type SandboxDriverTripsUpdate struct {
	Trips []DriverTrip `json:"trips"`
}

// DriverPageParams selects a page of driver data. Nil fields are not sent.
type DriverPageParams struct {
	Offset   *int
	Limit    *int
	FromTime *int64
	ToTime   *int64
}

// DriverProfile is the authorized driver's profile.
type DriverProfile struct {
	DriverID    string  `json:"driver_id"    yaml:"driver_id"`
	FirstName   string  `json:"first_name"   yaml:"first_name"`
	LastName    string  `json:"last_name"    yaml:"last_name"`
	Email       string  `json:"email"        yaml:"email"`
	PhoneNumber string  `json:"phone_number" yaml:"phone_number"`
	Picture     string  `json:"picture"      yaml:"picture"`
	PromoCode   string  `json:"promo_code"   yaml:"promo_code"`
	Rating      float64 `json:"rating"       yaml:"rating"`
}

// DriverTrip is one trip completed by the driver.
type DriverTrip struct {
	TripID          string  `json:"trip_id"          yaml:"trip_id"`
	DriverID        string  `json:"driver_id"        yaml:"driver_id"`
	VehicleID       string  `json:"vehicle_id"       yaml:"vehicle_id"`
	Status          string  `json:"status"           yaml:"status"`
	Distance        float64 `json:"distance"         yaml:"distance"`
	Duration        int     `json:"duration"         yaml:"duration"`
	SurgeMultiplier float64 `json:"surge_multiplier" yaml:"surge_multiplier"`
	CurrencyCode    string  `json:"currency_code"    yaml:"currency_code"`
	Fare            float64 `json:"fare"             yaml:"fare"`
}

// DriverTripList is a page of driver trips.
type DriverTripList struct {
	Offset int          `json:"offset" yaml:"offset"`
	Limit  int          `json:"limit"  yaml:"limit"`
	Count  int          `json:"count"  yaml:"count"`
	Trips  []DriverTrip `json:"trips"  yaml:"trips"`
}

// DriverPayment is one payment made to the driver.
type DriverPayment struct {
	PaymentID    string  `json:"payment_id"    yaml:"payment_id"`
	TripID       string  `json:"trip_id"       yaml:"trip_id"`
	Category     string  `json:"category"      yaml:"category"`
	Amount       float64 `json:"amount"        yaml:"amount"`
	CurrencyCode string  `json:"currency_code" yaml:"currency_code"`
	EventTime    int64   `json:"event_time"    yaml:"event_time"`
}

// DriverPaymentList is a page of driver payments.
type DriverPaymentList struct {
	Offset   int             `json:"offset"   yaml:"offset"`
	Limit    int             `json:"limit"    yaml:"limit"`
	Count    int             `json:"count"    yaml:"count"`
	Payments []DriverPayment `json:"payments" yaml:"payments"`
}

// BusinessReceipt is the receipt of a trip billed to a business account.
type BusinessReceipt struct {
	TripID       string   `json:"trip_uuid"     yaml:"trip_uuid"`
	TotalCharged string   `json:"total_charged" yaml:"total_charged"`
	TotalOwed    *float64 `json:"total_owed"    yaml:"total_owed"`
	CurrencyCode string   `json:"currency_code" yaml:"currency_code"`
	Duration     string   `json:"duration"      yaml:"duration"`
	Distance     string   `json:"distance"      yaml:"distance"`
	Charges      []Charge `json:"charges"       yaml:"charges"`
}

// ReceiptPDF links to a downloadable receipt.
type ReceiptPDF struct {
	URL       string `json:"url"        yaml:"url"`
	ExpiresAt int64  `json:"expires_at" yaml:"expires_at"`
}

// InvoiceURL links to one invoice of a trip.
type InvoiceURL struct {
	URL         string `json:"url"          yaml:"url"`
	InvoiceType string `json:"invoice_type" yaml:"invoice_type"`
}

// InvoiceURLList is the response of the invoice urls endpoint.
type InvoiceURLList struct {
	InvoiceURLs []InvoiceURL `json:"invoices" yaml:"invoices"`
}
