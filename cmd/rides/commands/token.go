package commands

import (
	"fmt"

	"github.com/fivetwenty-io/rides/internal/auth"
	"github.com/fivetwenty-io/rides/internal/client"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage stored OAuth 2.0 credentials",
		Long:  "Show, refresh, revoke and list the credentials saved by 'rides login'",
	}

	cmd.AddCommand(newTokenShowCommand())
	cmd.AddCommand(newTokenRefreshCommand())
	cmd.AddCommand(newTokenRevokeCommand())
	cmd.AddCommand(newTokenListCommand())

	return cmd
}

func newTokenShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			config := loadConfig()

			st, err := openStore(ctx, config)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			cred, err := st.Load(ctx, config.Profile)
			if err != nil {
				return err
			}

			return renderCredential(cmd.OutOrStdout(), config.Profile, cred)
		},
	}
}

func newTokenRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored credential",
		Long:  "Exchange the stored credential for a new one, even if it has not expired yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			config := loadConfig()
			logger := newLogger()

			st, err := openStore(ctx, config)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			current, err := loadSession(ctx, st, config)
			if err != nil {
				return err
			}

			ridesConfig := clientConfig(config, logger)
			tokens := auth.NewTokenClient(config.AuthHost, client.HTTPOptions(ridesConfig)...)
			manager := auth.NewSessionManager(current, tokens.Refresher(),
				auth.WithPersister(persisterFor(st), config.Profile),
				auth.WithManagerLogger(logger))

			fresh, err := manager.Refresh(ctx)
			if err != nil {
				return err
			}

			return renderCredential(cmd.OutOrStdout(), config.Profile, fresh.OAuth2Credential())
		},
	}
}

func newTokenRevokeCommand() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke the stored credential",
		Long:  "Revoke the stored access token and remove it from the credential store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			return withSession(ctx, func(s *session) error {
				if err := s.client.RevokeOAuthCredential(ctx); err != nil {
					return err
				}

				if !s.client.Session().IsOAuth2() || keep {
					return nil
				}

				if err := s.store.Delete(ctx, s.config.Profile); err != nil {
					return fmt.Errorf("failed to delete credential: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Revoked credential for profile %s\n", s.config.Profile)

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "keep the revoked credential in the store")

	return cmd
}

func newTokenListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles with stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			config := loadConfig()

			st, err := openStore(ctx, config)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			profiles, err := st.Profiles(ctx)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), profiles, func(table *tablewriter.Table) {
				table.Header("Profile", "Current")

				for _, profile := range profiles {
					current := ""
					if profile == config.Profile {
						current = "*"
					}

					_ = table.Append(profile, current)
				}
			})
		},
	}
}
