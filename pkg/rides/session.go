package rides

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Token types used in the Authorization header.
const (
	ServerTokenType = "Token"
	OAuthTokenType  = "Bearer"
)

// DefaultStaleThreshold is how long before expiry an access token is
// considered stale and due for refresh.
const DefaultStaleThreshold = 500 * time.Second

// maxExpiresIn is the longest lifetime, in seconds, a time.Duration holds.
const maxExpiresIn = math.MaxInt64 / int64(time.Second)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// GrantType identifies the OAuth 2.0 grant used to obtain a credential.
type GrantType string

// Supported grant types.
const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantImplicit          GrantType = "implicit"
	GrantClientCredentials GrantType = "client_credentials"
)

// Valid reports whether g is one of the supported grant types.
func (g GrantType) Valid() bool {
	switch g {
	case GrantAuthorizationCode, GrantImplicit, GrantClientCredentials:
		return true
	default:
		return false
	}
}

// CanRefresh reports whether credentials of this grant type can be renewed
// without user interaction.
func (g GrantType) CanRefresh() bool {
	return g == GrantAuthorizationCode || g == GrantClientCredentials
}

// ScopeSet is an unordered set of permission scopes.
type ScopeSet map[string]struct{}

// NewScopeSet builds a set from the given scopes, ignoring blanks.
func NewScopeSet(scopes ...string) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, scope := range scopes {
		scope = strings.TrimSpace(scope)
		if scope != "" {
			set[scope] = struct{}{}
		}
	}

	return set
}

// ParseScopes splits a space-delimited scope string.
func ParseScopes(s string) ScopeSet {
	return NewScopeSet(strings.Fields(s)...)
}

// Contains reports whether scope is in the set.
func (s ScopeSet) Contains(scope string) bool {
	_, ok := s[scope]

	return ok
}

// Slice returns the scopes in sorted order.
func (s ScopeSet) Slice() []string {
	out := make([]string, 0, len(s))
	for scope := range s {
		out = append(out, scope)
	}

	sort.Strings(out)

	return out
}

// String returns the space-delimited form used on the wire.
func (s ScopeSet) String() string {
	return strings.Join(s.Slice(), " ")
}

// Clone returns an independent copy of the set.
func (s ScopeSet) Clone() ScopeSet {
	out := make(ScopeSet, len(s))
	for scope := range s {
		out[scope] = struct{}{}
	}

	return out
}

// OAuth2CredentialParams holds the inputs for NewOAuth2Credential.
type OAuth2CredentialParams struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the server-supplied token lifetime in seconds.
	ExpiresIn int64
	Scopes    ScopeSet
	GrantType GrantType
}

// OAuth2Credential stores an access token together with the app identity
// needed to refresh or revoke it.
type OAuth2Credential struct {
	ClientID     string    `json:"client_id"               yaml:"client_id"`
	ClientSecret string    `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURL  string    `json:"redirect_url,omitempty"  yaml:"redirect_url,omitempty"`
	AccessToken  string    `json:"access_token"            yaml:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"              yaml:"expires_at"`
	Scopes       ScopeSet  `json:"-"                       yaml:"-"`
	GrantType    GrantType `json:"grant_type"              yaml:"grant_type"`
}

// NewOAuth2Credential builds a credential whose expiry is now plus
// params.ExpiresIn seconds. A negative lifetime is treated as zero and an
// oversized one is capped at the largest time.Duration.
// Implicit grant credentials never keep a client secret or refresh token.
func NewOAuth2Credential(params OAuth2CredentialParams) *OAuth2Credential {
	expiresIn := params.ExpiresIn
	switch {
	case expiresIn < 0:
		expiresIn = 0
	case expiresIn > maxExpiresIn:
		expiresIn = maxExpiresIn
	}

	scopes := params.Scopes
	if scopes == nil {
		scopes = ScopeSet{}
	}

	cred := &OAuth2Credential{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		RedirectURL:  params.RedirectURL,
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		ExpiresAt:    nowFunc().Add(time.Duration(expiresIn) * time.Second),
		Scopes:       scopes.Clone(),
		GrantType:    params.GrantType,
	}

	if cred.GrantType == GrantImplicit {
		cred.ClientSecret = ""
		cred.RefreshToken = ""
	}

	return cred
}

// IsStale reports whether the access token expires within
// DefaultStaleThreshold.
func (c *OAuth2Credential) IsStale() bool {
	return c.IsStaleWithin(DefaultStaleThreshold)
}

// IsStaleWithin reports whether the access token expires within threshold.
func (c *OAuth2Credential) IsStaleWithin(threshold time.Duration) bool {
	return c.ExpiresAt.Sub(nowFunc()) < threshold
}

// ExpiresIn returns the remaining lifetime, which may be negative.
func (c *OAuth2Credential) ExpiresIn() time.Duration {
	return c.ExpiresAt.Sub(nowFunc())
}

// Clone returns a deep copy.
func (c *OAuth2Credential) Clone() *OAuth2Credential {
	if c == nil {
		return nil
	}

	out := *c
	out.Scopes = c.Scopes.Clone()

	return &out
}

// Session holds exactly one of a server token or an OAuth 2.0 credential.
// Sessions are immutable; a refresh produces a new Session.
type Session struct {
	serverToken string
	credential  *OAuth2Credential
}

// NewSession creates a Session from a server token or an OAuth 2.0
// credential. Supplying both or neither is an IllegalStateError.
func NewSession(serverToken string, credential *OAuth2Credential) (*Session, error) {
	if serverToken != "" && credential != nil {
		return nil, NewIllegalStateError("Session cannot have both Server and OAuth 2.0 Credentials.")
	}

	if serverToken == "" && credential == nil {
		return nil, NewIllegalStateError("Session must have either Server Token or OAuth 2.0 Credentials.")
	}

	if credential != nil {
		return &Session{credential: credential.Clone()}, nil
	}

	return &Session{serverToken: serverToken}, nil
}

// NewServerTokenSession creates a Session authenticated by a static server token.
func NewServerTokenSession(serverToken string) (*Session, error) {
	return NewSession(serverToken, nil)
}

// NewOAuth2Session creates a Session authenticated by an OAuth 2.0 credential.
func NewOAuth2Session(credential *OAuth2Credential) (*Session, error) {
	return NewSession("", credential)
}

// TokenType returns "Token" for server token sessions and "Bearer" otherwise.
func (s *Session) TokenType() string {
	if s.credential != nil {
		return OAuthTokenType
	}

	return ServerTokenType
}

// IsOAuth2 reports whether the session carries OAuth 2.0 credentials.
func (s *Session) IsOAuth2() bool {
	return s.credential != nil
}

// Token returns the value sent in the Authorization header.
func (s *Session) Token() string {
	if s.credential != nil {
		return s.credential.AccessToken
	}

	return s.serverToken
}

// ServerToken returns the server token, or "" for OAuth 2.0 sessions.
func (s *Session) ServerToken() string {
	return s.serverToken
}

// OAuth2Credential returns a copy of the session's credential, or nil for
// server token sessions.
func (s *Session) OAuth2Credential() *OAuth2Credential {
	return s.credential.Clone()
}

// IsStale reports whether the session needs a refresh before use. Server
// token sessions are never stale.
func (s *Session) IsStale() bool {
	return s.credential != nil && s.credential.IsStale()
}

// OAuth2Token converts the session into an x/oauth2 token, for callers
// that hand it to an oauth2.TokenSource or check it with Token.Valid.
func (s *Session) OAuth2Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken: s.Token(),
		TokenType:   s.TokenType(),
	}

	if s.credential != nil {
		token.RefreshToken = s.credential.RefreshToken
		token.Expiry = s.credential.ExpiresAt
	}

	return token
}
