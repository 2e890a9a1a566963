package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSStore keeps credentials in a JetStream key-value bucket, one key per
// profile, so several machines can share a login.
type NATSStore struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// NewNATSStore connects to url and opens (or creates) bucket.
func NewNATSStore(ctx context.Context, url, bucket string) (*NATSStore, error) {
	if url == "" {
		return nil, constants.ErrNATSURLRequired
	}

	if bucket == "" {
		bucket = constants.DefaultKVBucket
	}

	conn, err := nats.Connect(url, nats.Name("rides"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "rides OAuth 2.0 credentials",
		History:     1,
	})
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("failed to open key-value bucket %q: %w", bucket, err)
	}

	return &NATSStore{conn: conn, kv: kv}, nil
}

// NewNATSStoreFromKV wraps an already opened bucket.
func NewNATSStoreFromKV(kv jetstream.KeyValue) *NATSStore {
	return &NATSStore{kv: kv}
}

// Load returns the credential stored under profile.
func (s *NATSStore) Load(ctx context.Context, profile string) (*rides.OAuth2Credential, error) {
	entry, err := s.kv.Get(ctx, profile)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("profile %q: %w", profile, constants.ErrCredentialNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	var rec record
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse stored credential: %w", err)
	}

	return rec.credential()
}

// Save stores cred under profile.
func (s *NATSStore) Save(ctx context.Context, profile string, cred *rides.OAuth2Credential) error {
	if cred == nil {
		return constants.ErrNilCredential
	}

	data, err := json.Marshal(toRecord(cred))
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	_, err = s.kv.Put(ctx, profile, data)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Delete removes profile.
func (s *NATSStore) Delete(ctx context.Context, profile string) error {
	err := s.kv.Delete(ctx, profile)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	return nil
}

// Profiles lists stored profile names in order.
func (s *NATSStore) Profiles(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return []string{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	sort.Strings(keys)

	return keys, nil
}

// Close drains the connection when the store owns it.
func (s *NATSStore) Close() error {
	if s.conn == nil {
		return nil
	}

	err := s.conn.Drain()
	if err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}
