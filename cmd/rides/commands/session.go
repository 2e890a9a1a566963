package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/rides/internal/auth"
	"github.com/fivetwenty-io/rides/internal/client"
	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/internal/logging"
	"github.com/fivetwenty-io/rides/internal/store"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/fivetwenty-io/rides/pkg/ridesclient"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// newLogger returns a console logger on stderr. --verbose lowers the level
// to debug and turns on HTTP request logging.
func newLogger() rides.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	return logging.NewZerologLoggerTo(os.Stderr, level, true)
}

// clientConfig maps the CLI configuration to a client configuration.
func clientConfig(config *Config, logger rides.Logger) *rides.Config {
	return &rides.Config{
		Sandbox:  config.Sandbox,
		APIHost:  config.APIHost,
		AuthHost: config.AuthHost,
		Logger:   logger,
		Debug:    viper.GetBool("verbose"),
	}
}

// openStore opens the configured credential store. The file store lives
// next to the config file.
func openStore(ctx context.Context, config *Config) (store.CredentialStore, error) {
	cfg := store.Config{
		Type:    store.Type(config.Store),
		NATSURL: config.NATSURL,
	}

	if cfg.Type == store.TypeFile {
		path, err := configFilePath()
		if err != nil {
			return nil, err
		}

		cfg.FilePath = filepath.Join(filepath.Dir(path), constants.CredentialFileName)
	}

	st, err := store.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	return st, nil
}

// session wires a stored credential or the server token to a client. Close
// releases the credential store.
type session struct {
	client  rides.Client
	manager *auth.SessionManager
	store   store.CredentialStore
	config  *Config
	logger  rides.Logger
}

func (s *session) Close() error {
	return s.store.Close()
}

// newSession builds an authenticated client. A stored OAuth 2.0 credential
// for the profile wins over the server token. Stale credentials are
// refreshed before the first call and every refresh is saved back.
func newSession(ctx context.Context) (*session, error) {
	config := loadConfig()
	logger := newLogger()

	st, err := openStore(ctx, config)
	if err != nil {
		return nil, err
	}

	cliSession := &session{store: st, config: config, logger: logger}

	ridesSession, err := loadSession(ctx, st, config)
	if err != nil {
		_ = st.Close()

		return nil, err
	}

	ridesConfig := clientConfig(config, logger)
	tokens := auth.NewTokenClient(config.AuthHost, client.HTTPOptions(ridesConfig)...)

	cliSession.manager = auth.NewSessionManager(ridesSession, tokens.Refresher(),
		auth.WithPersister(persisterFor(st), config.Profile),
		auth.WithManagerLogger(logger))

	ridesSession, err = cliSession.manager.Session(ctx)
	if err != nil {
		_ = st.Close()

		return nil, err
	}

	ridesConfig.OnSessionRefresh = func(_ context.Context, refreshed *rides.Session) {
		cliSession.manager.SetSession(refreshed)

		if err := cliSession.manager.Persist(refreshed); err != nil {
			logger.Warn("Failed to persist refreshed credential", map[string]interface{}{
				"profile": config.Profile,
				"error":   err.Error(),
			})
		}
	}

	cliSession.client, err = ridesclient.New(ridesSession, ridesConfig)
	if err != nil {
		_ = st.Close()

		return nil, err
	}

	return cliSession, nil
}

func loadSession(ctx context.Context, st store.CredentialStore, config *Config) (*rides.Session, error) {
	cred, err := st.Load(ctx, config.Profile)
	if err == nil {
		return rides.NewOAuth2Session(cred)
	}

	if !errors.Is(err, constants.ErrCredentialNotFound) {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	if config.ServerToken == "" {
		return nil, constants.ErrCredentialNotFound
	}

	if err := validateServerToken(config); err != nil {
		return nil, err
	}

	return rides.NewServerTokenSession(config.ServerToken)
}

// withSession runs fn with an authenticated client and closes the store
// afterwards.
func withSession(ctx context.Context, fn func(*session) error) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = s.Close() }()

	return fn(s)
}

func persisterFor(st store.CredentialStore) auth.CredentialPersister {
	return store.Persister{Store: st}
}
