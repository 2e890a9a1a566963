package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewRideCommand creates the ride command group.
func NewRideCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ride",
		Short: "Request and manage rides",
	}

	cmd.AddCommand(newRideRequestCommand())
	cmd.AddCommand(newRideStatusCommand())
	cmd.AddCommand(newRideCancelCommand())
	cmd.AddCommand(newRideReceiptCommand())
	cmd.AddCommand(newRideMapCommand())
	cmd.AddCommand(newRideSandboxCommand())

	return cmd
}

// rideFlags holds the location flags shared by request and estimate.
type rideFlags struct {
	productID      string
	startLatitude  float64
	startLongitude float64
	startPlace     string
	endLatitude    float64
	endLongitude   float64
	endPlace       string
	seats          int
	fareID         string
	surgeID        string
	paymentMethod  string
}

func (f *rideFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.productID, "product", "", "product to request")
	cmd.Flags().Float64Var(&f.startLatitude, "start-lat", 0, "pickup latitude")
	cmd.Flags().Float64Var(&f.startLongitude, "start-lng", 0, "pickup longitude")
	cmd.Flags().StringVar(&f.startPlace, "start-place", "", "pickup place id (home or work)")
	cmd.Flags().Float64Var(&f.endLatitude, "end-lat", 0, "destination latitude")
	cmd.Flags().Float64Var(&f.endLongitude, "end-lng", 0, "destination longitude")
	cmd.Flags().StringVar(&f.endPlace, "end-place", "", "destination place id (home or work)")
	cmd.Flags().IntVar(&f.seats, "seats", 0, "number of seats for shared products")
	cmd.Flags().StringVar(&f.fareID, "fare", "", "upfront fare id from 'ride request --estimate'")
	cmd.Flags().StringVar(&f.surgeID, "surge-confirmation", "", "surge confirmation id")
	cmd.Flags().StringVar(&f.paymentMethod, "payment-method", "", "payment method id")
}

// request converts the flags, sending only the coordinates that were given.
func (f *rideFlags) request(cmd *cobra.Command) *rides.RideRequest {
	req := &rides.RideRequest{
		ProductID:           f.productID,
		StartPlaceID:        f.startPlace,
		EndPlaceID:          f.endPlace,
		FareID:              f.fareID,
		SurgeConfirmationID: f.surgeID,
		PaymentMethodID:     f.paymentMethod,
	}

	if cmd.Flags().Changed("start-lat") {
		req.StartLatitude = &f.startLatitude
	}

	if cmd.Flags().Changed("start-lng") {
		req.StartLongitude = &f.startLongitude
	}

	if cmd.Flags().Changed("end-lat") {
		req.EndLatitude = &f.endLatitude
	}

	if cmd.Flags().Changed("end-lng") {
		req.EndLongitude = &f.endLongitude
	}

	if cmd.Flags().Changed("seats") {
		req.SeatCount = &f.seats
	}

	return req
}

func newRideRequestCommand() *cobra.Command {
	var (
		flags    rideFlags
		estimate bool
	)

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a ride",
		Long: `Request a ride. With --estimate only the upfront fare is fetched.

When surge pricing is in effect the request fails with a confirmation URL.
Open it, accept the surge, then repeat the request with --surge-confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			req := flags.request(cmd)

			return withSession(ctx, func(s *session) error {
				if estimate {
					est, _, err := s.client.Rides().Estimate(ctx, req)
					if err != nil {
						return err
					}

					return renderRideEstimate(cmd.OutOrStdout(), est)
				}

				ride, _, err := s.client.Rides().Request(ctx, req)

				var surge *rides.SurgeError
				if errors.As(err, &surge) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
						"Surge pricing is in effect. Accept it at %s\nthen retry with --surge-confirmation %s\n",
						surge.SurgeConfirmationHref, surge.SurgeConfirmationID)
				}

				if err != nil {
					return err
				}

				return renderRide(cmd.OutOrStdout(), ride)
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&estimate, "estimate", false, "only fetch the upfront fare")

	return cmd
}

func newRideStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [REQUEST_ID]",
		Short: "Show a ride, or the current ride",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				var (
					ride *rides.Ride
					err  error
				)

				if len(args) == 1 {
					ride, _, err = s.client.Rides().Get(ctx, args[0])
				} else {
					ride, _, err = s.client.Rides().Current(ctx)
				}

				if err != nil {
					return err
				}

				return renderRide(cmd.OutOrStdout(), ride)
			})
		},
	}
}

func newRideCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [REQUEST_ID]",
		Short: "Cancel a ride, or the current ride",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				var err error

				target := "current ride"
				if len(args) == 1 {
					target = args[0]
					_, err = s.client.Rides().Cancel(ctx, args[0])
				} else {
					_, err = s.client.Rides().CancelCurrent(ctx)
				}

				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Canceled %s\n", target)

				return nil
			})
		},
	}
}

func newRideReceiptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "receipt REQUEST_ID",
		Short: "Show the receipt of a completed ride",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				receipt, _, err := s.client.Rides().Receipt(ctx, args[0])
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), receipt, func(table *tablewriter.Table) {
					table.Header("Charge", "Amount", "Type")

					for _, charge := range receipt.Charges {
						_ = table.Append(charge.Name, formatFloat(charge.Amount), charge.Type)
					}

					_ = table.Append("Total", receipt.TotalCharged, receipt.CurrencyCode)
				})
			})
		},
	}
}

func newRideMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "map REQUEST_ID",
		Short: "Show the map link of a ride",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				rideMap, _, err := s.client.Rides().Map(ctx, args[0])
				if err != nil {
					return err
				}

				return renderProperties(cmd.OutOrStdout(), rideMap, [][2]string{
					{"Request ID", rideMap.RequestID},
					{"Map", rideMap.Href},
				})
			})
		},
	}
}

func newRideSandboxCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Drive rides and products in the sandbox",
		Long:  "Change sandbox state. Run with --sandbox or sandbox: true in the config.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status REQUEST_ID STATUS",
		Short: "Move a sandbox ride to a new status",
		Long: "Move a sandbox ride to one of: processing, accepted, arriving, " +
			"in_progress, driver_canceled, completed",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				if _, err := s.client.Sandbox().UpdateRide(ctx, args[0], args[1]); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Ride %s is now %s\n", args[0], args[1])

				return nil
			})
		},
	})

	var (
		surge     float64
		available bool
	)

	product := &cobra.Command{
		Use:   "product PRODUCT_ID",
		Short: "Set surge and driver availability of a sandbox product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			update := &rides.SandboxProductUpdate{}
			if cmd.Flags().Changed("surge") {
				update.SurgeMultiplier = &surge
			}

			if cmd.Flags().Changed("drivers-available") {
				update.DriversAvailable = &available
			}

			return withSession(ctx, func(s *session) error {
				_, err := s.client.Sandbox().UpdateProduct(ctx, args[0], update)

				return err
			})
		},
	}

	product.Flags().Float64Var(&surge, "surge", 1, "surge multiplier")
	product.Flags().BoolVar(&available, "drivers-available", true, "whether drivers are available")
	cmd.AddCommand(product)

	return cmd
}

func renderRide(out io.Writer, ride *rides.Ride) error {
	rows := [][2]string{
		{"Request ID", ride.RequestID},
		{"Product ID", valueOrNA(ride.ProductID)},
		{"Status", ride.Status},
		{"ETA", fmt.Sprintf("%d", ride.ETA)},
		{"Surge", formatFloat(ride.SurgeMultiplier)},
	}

	if ride.Driver != nil {
		rows = append(rows, [2]string{"Driver", ride.Driver.Name})
	}

	if ride.Vehicle != nil {
		rows = append(rows, [2]string{"Vehicle", fmt.Sprintf("%s %s (%s)",
			ride.Vehicle.Make, ride.Vehicle.Model, ride.Vehicle.LicensePlate)})
	}

	return renderProperties(out, ride, rows)
}

func renderRideEstimate(out io.Writer, est *rides.RideEstimate) error {
	rows := [][2]string{
		{"Pickup estimate", fmt.Sprintf("%d", est.PickupEstimate)},
	}

	if est.Fare != nil {
		rows = append(rows,
			[2]string{"Fare ID", est.Fare.FareID},
			[2]string{"Fare", est.Fare.Display})
	}

	if est.Estimate != nil {
		rows = append(rows,
			[2]string{"Estimate", est.Estimate.Display},
			[2]string{"Surge", formatFloat(est.Estimate.SurgeMultiplier)})

		if est.Estimate.SurgeConfirmationID != "" {
			rows = append(rows, [2]string{"Surge confirmation", est.Estimate.SurgeConfirmationHref})
		}
	}

	if est.Trip != nil {
		rows = append(rows, [2]string{"Distance",
			fmt.Sprintf("%s %s", formatFloat(est.Trip.DistanceEstimate), est.Trip.DistanceUnit)})
	}

	return renderProperties(out, est, rows)
}
