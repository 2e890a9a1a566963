package constants

import "errors"

// Configuration errors.
var (
	ErrMissingAppCredentials = errors.New("missing app credentials, set client_id, client_secret and redirect_url " +
		"with 'rides config set' or the RIDES_ environment variables")
	ErrMissingServerToken = errors.New("missing server token, set server_token with 'rides config set'")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrUnknownGrantType   = errors.New("unknown grant type")
	ErrUnknownOutput      = errors.New("unknown output format")
	ErrUnknownStore       = errors.New("unknown credential store")
)

// Credential store errors.
var (
	ErrCredentialNotFound = errors.New("no stored credential, run 'rides login' first")
	ErrNilCredential      = errors.New("credential is nil")
	ErrNATSURLRequired    = errors.New("NATS URL is required for the nats credential store")
)

// Session errors.
var (
	ErrNoRefresher = errors.New("no session refresher configured")
	ErrNilSession  = errors.New("session is nil")
)
