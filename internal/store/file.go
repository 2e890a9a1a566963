package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/pkg/rides"
	"gopkg.in/yaml.v3"
)

// DefaultFilePath returns ~/.rides/oauth2_session_store.yaml.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".rides", constants.CredentialFileName), nil
}

// FileStore keeps every profile's credential in one YAML file readable
// only by the owner.
type FileStore struct {
	path  string
	mutex sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the credential stored under profile.
func (s *FileStore) Load(_ context.Context, profile string) (*rides.OAuth2Credential, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}

	rec, ok := records[profile]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", profile, constants.ErrCredentialNotFound)
	}

	return rec.credential()
}

// Save stores cred under profile, replacing any previous value.
func (s *FileStore) Save(_ context.Context, profile string, cred *rides.OAuth2Credential) error {
	if cred == nil {
		return constants.ErrNilCredential
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	records[profile] = toRecord(cred)

	return s.write(records)
}

// Delete removes profile. Deleting a missing profile is not an error.
func (s *FileStore) Delete(_ context.Context, profile string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	if _, ok := records[profile]; !ok {
		return nil
	}

	delete(records, profile)

	return s.write(records)
}

// Profiles lists stored profile names in order.
func (s *FileStore) Profiles(_ context.Context) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}

	profiles := make([]string, 0, len(records))
	for name := range records {
		profiles = append(profiles, name)
	}

	sort.Strings(profiles)

	return profiles, nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (map[string]record, error) {
	records := make(map[string]record)

	// path comes from the user's home directory or an explicit flag
	// #nosec G304
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}

	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse credential store: %w", err)
	}

	if records == nil {
		records = make(map[string]record)
	}

	return records, nil
}

func (s *FileStore) write(records map[string]record) error {
	err := os.MkdirAll(filepath.Dir(s.path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create credential store directory: %w", err)
	}

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal credential store: %w", err)
	}

	tmp := s.path + ".tmp"

	err = os.WriteFile(tmp, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write credential store: %w", err)
	}

	err = os.Rename(tmp, s.path)
	if err != nil {
		return fmt.Errorf("failed to replace credential store: %w", err)
	}

	return nil
}
