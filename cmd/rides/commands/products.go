package commands

import (
	"fmt"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command.
func NewProductsCommand() *cobra.Command {
	var latitude, longitude float64

	cmd := &cobra.Command{
		Use:   "products [PRODUCT_ID]",
		Short: "List products at a location",
		Long:  "List the products available at a location, or show a single product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				if len(args) == 1 {
					product, _, err := s.client.Products().Get(ctx, args[0])
					if err != nil {
						return err
					}

					return renderProducts(cmd, product, []rides.Product{*product})
				}

				list, _, err := s.client.Products().List(ctx, latitude, longitude)
				if err != nil {
					return err
				}

				return renderProducts(cmd, list, list.Products)
			})
		},
	}

	cmd.Flags().Float64Var(&latitude, "lat", 0, "latitude of the location")
	cmd.Flags().Float64Var(&longitude, "lng", 0, "longitude of the location")

	return cmd
}

func renderProducts(cmd *cobra.Command, data any, products []rides.Product) error {
	return render(cmd.OutOrStdout(), data, func(table *tablewriter.Table) {
		table.Header("Product ID", "Name", "Capacity", "Shared", "Upfront Fare")

		for _, product := range products {
			_ = table.Append(product.ProductID, product.DisplayName,
				fmt.Sprintf("%d", product.Capacity),
				fmt.Sprintf("%t", product.Shared),
				fmt.Sprintf("%t", product.UpfrontFare))
		}
	})
}

// NewEstimateCommand creates the estimate command group.
func NewEstimateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate prices and pickup times",
	}

	cmd.AddCommand(newEstimatePriceCommand())
	cmd.AddCommand(newEstimateTimeCommand())

	return cmd
}

func newEstimatePriceCommand() *cobra.Command {
	var (
		params rides.PriceEstimateParams
		seats  int
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Estimate the price of a trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			if cmd.Flags().Changed("seats") {
				params.SeatCount = &seats
			}

			return withSession(ctx, func(s *session) error {
				list, _, err := s.client.Estimates().Price(ctx, &params)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), list, func(table *tablewriter.Table) {
					table.Header("Product", "Estimate", "Low", "High", "Surge", "Duration", "Distance")

					for _, price := range list.Prices {
						_ = table.Append(price.DisplayName, price.Estimate,
							formatFloatPtr(price.LowEstimate), formatFloatPtr(price.HighEstimate),
							formatFloat(price.SurgeMultiplier),
							fmt.Sprintf("%d", price.Duration), formatFloat(price.Distance))
					}
				})
			})
		},
	}

	cmd.Flags().Float64Var(&params.StartLatitude, "start-lat", 0, "pickup latitude")
	cmd.Flags().Float64Var(&params.StartLongitude, "start-lng", 0, "pickup longitude")
	cmd.Flags().Float64Var(&params.EndLatitude, "end-lat", 0, "destination latitude")
	cmd.Flags().Float64Var(&params.EndLongitude, "end-lng", 0, "destination longitude")
	cmd.Flags().IntVar(&seats, "seats", 0, "number of seats for shared products")

	return cmd
}

func newEstimateTimeCommand() *cobra.Command {
	var params rides.TimeEstimateParams

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Estimate pickup times",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				list, _, err := s.client.Estimates().Time(ctx, &params)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), list, func(table *tablewriter.Table) {
					table.Header("Product", "Product ID", "ETA (s)")

					for _, estimate := range list.Times {
						_ = table.Append(estimate.DisplayName, estimate.ProductID, fmt.Sprintf("%d", estimate.Estimate))
					}
				})
			})
		},
	}

	cmd.Flags().Float64Var(&params.StartLatitude, "start-lat", 0, "pickup latitude")
	cmd.Flags().Float64Var(&params.StartLongitude, "start-lng", 0, "pickup longitude")
	cmd.Flags().StringVar(&params.ProductID, "product", "", "limit the estimate to one product")

	return cmd
}
