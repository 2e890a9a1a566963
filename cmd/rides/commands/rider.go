package commands

import (
	"fmt"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewPlacesCommand creates the places command group.
func NewPlacesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Show or set the rider's home and work addresses",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "get PLACE",
		Short:     "Show a saved place",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{rides.PlaceHome, rides.PlaceWork},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				place, _, err := s.client.Rider().Place(ctx, args[0])
				if err != nil {
					return err
				}

				return renderProperties(cmd.OutOrStdout(), place, [][2]string{
					{"Place", args[0]},
					{"Address", place.Address},
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set PLACE ADDRESS",
		Short:     "Save an address as home or work",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{rides.PlaceHome, rides.PlaceWork},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				place, _, err := s.client.Rider().SetPlace(ctx, args[0], args[1])
				if err != nil {
					return err
				}

				return renderProperties(cmd.OutOrStdout(), place, [][2]string{
					{"Place", args[0]},
					{"Address", place.Address},
				})
			})
		},
	})

	return cmd
}

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the authorized rider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				profile, _, err := s.client.Rider().Profile(ctx)
				if err != nil {
					return err
				}

				return renderProperties(cmd.OutOrStdout(), profile, [][2]string{
					{"Rider ID", valueOrNA(profile.RiderID)},
					{"Name", fmt.Sprintf("%s %s", profile.FirstName, profile.LastName)},
					{"Email", valueOrNA(profile.Email)},
					{"Promo code", valueOrNA(profile.PromoCode)},
					{"Mobile verified", fmt.Sprintf("%t", profile.MobileVerified)},
				})
			})
		},
	}

	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newPaymentMethodsCommand())

	return cmd
}

func newHistoryCommand() *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past rides",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			params := &rides.PageParams{}
			if cmd.Flags().Changed("offset") {
				params.Offset = &offset
			}

			if cmd.Flags().Changed("limit") {
				params.Limit = &limit
			}

			return withSession(ctx, func(s *session) error {
				history, _, err := s.client.Rider().History(ctx, params)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), history, func(table *tablewriter.Table) {
					table.Header("Request ID", "Status", "City", "Distance")

					for _, entry := range history.History {
						city := NotAvailable
						if entry.StartCity != nil {
							city = entry.StartCity.DisplayName
						}

						_ = table.Append(entry.RequestID, entry.Status, city, formatFloat(entry.Distance))
					}
				})
			})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "offset of the first ride")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of rides to list")

	return cmd
}

func newPaymentMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "payment-methods",
		Short: "List payment methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				methods, _, err := s.client.Rider().PaymentMethods(ctx)
				if err != nil {
					return err
				}

				return render(cmd.OutOrStdout(), methods, func(table *tablewriter.Table) {
					table.Header("Payment Method ID", "Type", "Description", "Last Used")

					for _, method := range methods.PaymentMethods {
						lastUsed := ""
						if method.PaymentMethodID == methods.LastUsed {
							lastUsed = "*"
						}

						_ = table.Append(method.PaymentMethodID, method.Type, method.Description, lastUsed)
					}
				})
			})
		},
	}
}
