package constants

import "time"

// SDKVersion is reported in the SDK user agent header.
const SDKVersion = "0.6.0"

// Hosts of the ride-hailing platform.
const (
	// AuthHost serves the OAuth 2.0 endpoints.
	AuthHost = "login.uber.com"

	// APIHost serves the production API.
	APIHost = "api.uber.com"

	// SandboxAPIHost serves the sandbox API.
	SandboxAPIHost = "sandbox-api.uber.com"

	// URLScheme is prefixed to hosts given without one.
	URLScheme = "https://"
)

// OAuth 2.0 endpoint paths, relative to AuthHost.
const (
	AuthorizePath = "oauth/v2/authorize"
	TokenPath     = "oauth/v2/token"
	RevokePath    = "oauth/v2/revoke"
)

// OAuth 2.0 parameter values.
const (
	ResponseTypeCode  = "code"
	ResponseTypeToken = "token"
	GrantRefreshToken = "refresh_token"

	// StateTokenLength is the length of generated CSRF state tokens.
	StateTokenLength = 32
)

// HTTP headers.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderUserAgent     = "User-Agent"
	HeaderSDKUserAgent  = "X-Rides-User-Agent"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "rides-go/" + SDKVersion

// SDKUserAgent is the value of the SDK user agent header.
const SDKUserAgent = "Go Rides SDK v" + SDKVersion

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for token endpoint calls.
	ShortHTTPTimeout = 10 * time.Second
)

// Credential store settings.
const (
	// DefaultProfile names the credential entry used when none is given.
	DefaultProfile = "default"

	// DefaultKVBucket is the JetStream key-value bucket holding credentials.
	DefaultKVBucket = "rides_credentials"

	// CredentialFileName is the credential file kept next to the CLI config.
	CredentialFileName = "oauth2_session_store.yaml"
)
