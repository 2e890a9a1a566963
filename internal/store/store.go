// Package store persists OAuth 2.0 credentials between CLI runs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
)

// Type names a credential store backend.
type Type string

const (
	// TypeFile stores credentials in a YAML file.
	TypeFile Type = "file"

	// TypeNATS stores credentials in a NATS JetStream key-value bucket.
	TypeNATS Type = "nats"
)

// CredentialStore saves and loads credentials keyed by profile name.
type CredentialStore interface {
	Load(ctx context.Context, profile string) (*rides.OAuth2Credential, error)
	Save(ctx context.Context, profile string, cred *rides.OAuth2Credential) error
	Delete(ctx context.Context, profile string) error
	Profiles(ctx context.Context) ([]string, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Type Type

	// FilePath is the YAML file for TypeFile. Empty selects the default
	// location under the user's home directory.
	FilePath string

	// NATSURL and Bucket configure TypeNATS.
	NATSURL string
	Bucket  string
}

// New opens the store described by cfg.
func New(ctx context.Context, cfg Config) (CredentialStore, error) {
	switch cfg.Type {
	case TypeFile, "":
		path := cfg.FilePath
		if path == "" {
			var err error

			path, err = DefaultFilePath()
			if err != nil {
				return nil, err
			}
		}

		return NewFileStore(path), nil

	case TypeNATS:
		return NewNATSStore(ctx, cfg.NATSURL, cfg.Bucket)

	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownStore, cfg.Type)
	}
}

// record is the stored form of a credential. Scopes are kept as a sorted
// list so files diff cleanly.
type record struct {
	ClientID     string    `json:"client_id"               yaml:"client_id"`
	ClientSecret string    `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURL  string    `json:"redirect_url,omitempty"  yaml:"redirect_url,omitempty"`
	AccessToken  string    `json:"access_token"            yaml:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"              yaml:"expires_at"`
	Scopes       []string  `json:"scopes,omitempty"        yaml:"scopes,omitempty"`
	GrantType    string    `json:"grant_type"              yaml:"grant_type"`
}

func toRecord(cred *rides.OAuth2Credential) record {
	return record{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		RedirectURL:  cred.RedirectURL,
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    cred.ExpiresAt.UTC(),
		Scopes:       cred.Scopes.Slice(),
		GrantType:    string(cred.GrantType),
	}
}

func (r record) credential() (*rides.OAuth2Credential, error) {
	grant := rides.GrantType(r.GrantType)
	if !grant.Valid() {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownGrantType, r.GrantType)
	}

	return &rides.OAuth2Credential{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		RedirectURL:  r.RedirectURL,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
		Scopes:       rides.NewScopeSet(r.Scopes...),
		GrantType:    grant,
	}, nil
}

// Persister adapts a CredentialStore to the session manager's persister.
type Persister struct {
	Store   CredentialStore
	Timeout time.Duration
}

// SaveCredential saves cred under profile.
func (p Persister) SaveCredential(profile string, cred *rides.OAuth2Credential) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = constants.ShortHTTPTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return p.Store.Save(ctx, profile, cred)
}
