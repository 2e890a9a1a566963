package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/fivetwenty-io/rides/pkg/ridesclient"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Grant names accepted by --grant.
const (
	grantCode              = "code"
	grantImplicit          = "implicit"
	grantClientCredentials = "client-credentials"
)

// ErrUnknownGrant is returned for an unsupported --grant value.
var ErrUnknownGrant = errors.New("unknown grant, use code, implicit or client-credentials")

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		grant string
		state string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize the CLI with OAuth 2.0",
		Long: `Run an OAuth 2.0 grant and store the resulting credential.

The code and implicit grants print an authorization URL. Open it, grant
access, then paste the URL you were redirected to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			config := loadConfig()

			if config.ClientSecret == "" && grant != grantImplicit {
				secret, err := promptSecret(cmd.ErrOrStderr(), "Client secret: ")
				if err != nil {
					return err
				}

				config.ClientSecret = secret
			}

			granted, err := runGrant(ctx, cmd, config, grant, state)
			if err != nil {
				return err
			}

			st, err := openStore(ctx, config)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			cred := granted.OAuth2Credential()
			if err := st.Save(ctx, config.Profile, cred); err != nil {
				return fmt.Errorf("failed to save credential: %w", err)
			}

			return renderCredential(cmd.OutOrStdout(), config.Profile, cred)
		},
	}

	cmd.Flags().StringVar(&grant, "grant", grantCode, "OAuth 2.0 grant: code, implicit or client-credentials")
	cmd.Flags().StringVar(&state, "state", "", "use this CSRF state instead of a generated one")

	return cmd
}

func runGrant(ctx context.Context, cmd *cobra.Command, config *Config, grant, state string) (*rides.Session, error) {
	ridesConfig := clientConfig(config, newLogger())

	switch grant {
	case grantCode:
		if err := validateAppCredentials(config, true); err != nil {
			return nil, err
		}

		var opts []ridesclient.GrantOption
		if state != "" {
			opts = append(opts, ridesclient.WithStateToken(state))
		}

		flow := ridesclient.NewAuthorizationCodeGrant(config.ClientID, config.ClientSecret,
			config.RedirectURL, config.Scopes, ridesConfig, opts...)

		return runRedirectFlow(ctx, cmd, flow)

	case grantImplicit:
		if err := validateAppCredentials(config, false); err != nil {
			return nil, err
		}

		flow := ridesclient.NewImplicitGrant(config.ClientID, config.RedirectURL, config.Scopes, ridesConfig)

		return runRedirectFlow(ctx, cmd, flow)

	case grantClientCredentials:
		if config.ClientID == "" || config.ClientSecret == "" {
			return nil, constants.ErrMissingAppCredentials
		}

		if isPlaceholder(config.ClientID) || isPlaceholder(config.ClientSecret) {
			return nil, fmt.Errorf("%w: client_id or client_secret", ErrPlaceholderValue)
		}

		flow := ridesclient.NewClientCredentialsGrant(config.ClientID, config.ClientSecret, config.Scopes, ridesConfig)

		return flow.Session(ctx)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrant, grant)
	}
}

func runRedirectFlow(ctx context.Context, cmd *cobra.Command, flow rides.RedirectFlow) (*rides.Session, error) {
	authURL, err := flow.AuthorizationURL()
	if err != nil {
		return nil, err
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log in and grant access at:\n\n  %s\n\n", authURL)

	redirectURL, err := promptLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Redirected URL: ")
	if err != nil {
		return nil, err
	}

	return flow.Session(ctx, redirectURL)
}

func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// promptSecret reads a secret without echo. Outside a terminal it returns
// an empty string and leaves validation to the caller.
func promptSecret(out io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", nil
	}

	_, _ = fmt.Fprint(out, prompt)

	secret, err := term.ReadPassword(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	_, _ = fmt.Fprintln(out)

	return strings.TrimSpace(string(secret)), nil
}

type credentialView struct {
	Profile     string    `json:"profile"                 yaml:"profile"`
	GrantType   string    `json:"grant_type"              yaml:"grant_type"`
	ClientID    string    `json:"client_id"               yaml:"client_id"`
	TokenType   string    `json:"token_type"              yaml:"token_type"`
	Scopes      []string  `json:"scopes"                  yaml:"scopes"`
	ExpiresAt   time.Time `json:"expires_at"              yaml:"expires_at"`
	Expired     bool      `json:"expired"                 yaml:"expired"`
	Valid       bool      `json:"valid"                   yaml:"valid"`
	Refreshable bool      `json:"refreshable"             yaml:"refreshable"`
	Token       string    `json:"access_token"            yaml:"access_token"`
	Refresh     string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
}

func renderCredential(out io.Writer, profile string, cred *rides.OAuth2Credential) error {
	bound, err := rides.NewOAuth2Session(cred)
	if err != nil {
		return fmt.Errorf("failed to render credential: %w", err)
	}

	token := bound.OAuth2Token()

	view := credentialView{
		Profile:     profile,
		GrantType:   string(cred.GrantType),
		ClientID:    cred.ClientID,
		TokenType:   token.Type(),
		Scopes:      cred.Scopes.Slice(),
		ExpiresAt:   cred.ExpiresAt,
		Expired:     cred.IsStale(),
		Valid:       token.Valid(),
		Refreshable: cred.GrantType.CanRefresh(),
		Token:       maskSecret(cred.AccessToken),
		Refresh:     maskSecret(cred.RefreshToken),
	}

	rows := [][2]string{
		{"Profile", view.Profile},
		{"Grant type", view.GrantType},
		{"Client ID", view.ClientID},
		{"Token type", view.TokenType},
		{"Scopes", valueOrNA(strings.Join(view.Scopes, " "))},
		{"Expires at", view.ExpiresAt.Format(time.RFC3339)},
		{"Expired", fmt.Sprintf("%t", view.Expired)},
		{"Valid", fmt.Sprintf("%t", view.Valid)},
		{"Refreshable", fmt.Sprintf("%t", view.Refreshable)},
	}

	return renderProperties(out, view, rows)
}
