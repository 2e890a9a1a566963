//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/rides/pkg/rides"
	"github.com/fivetwenty-io/rides/pkg/ridesclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	ServerToken  string
	ClientID     string
	ClientSecret string
	AccessToken  string
	Latitude     float64
	Longitude    float64
	RidesPath    string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ServerToken:  os.Getenv("RIDES_SERVER_TOKEN"),
		ClientID:     os.Getenv("RIDES_CLIENT_ID"),
		ClientSecret: os.Getenv("RIDES_CLIENT_SECRET"),
		AccessToken:  os.Getenv("RIDES_ACCESS_TOKEN"),
		Latitude:     37.7759792,
		Longitude:    -122.41823,
		RidesPath:    getRidesPath(),
		Verbose:      os.Getenv("RIDES_VERBOSE") == "true",
	}
}

// getRidesPath determines the path to the rides binary
func getRidesPath() string {
	if path := os.Getenv("RIDES_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../rides",
		"./rides",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "rides"
}

// RequireServerToken skips the test when no server token is configured
func (config *TestConfig) RequireServerToken(t *testing.T) {
	t.Helper()

	if config.ServerToken == "" {
		t.Skip("RIDES_SERVER_TOKEN not set, skipping integration test")
	}
}

// RequireAccessToken skips the test when no rider access token is configured
func (config *TestConfig) RequireAccessToken(t *testing.T) {
	t.Helper()

	if config.AccessToken == "" {
		t.Skip("RIDES_ACCESS_TOKEN not set, skipping integration test")
	}
}

// RequireBinary skips the test when the rides binary cannot be found
func (config *TestConfig) RequireBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.RidesPath); err != nil {
		t.Skipf("rides binary not found at %s, skipping integration test", config.RidesPath)
	}
}

// SandboxClient returns a sandbox client authorized with the rider access token
func (config *TestConfig) SandboxClient(t *testing.T) rides.Client {
	t.Helper()

	session, err := rides.NewOAuth2Session(rides.NewOAuth2Credential(rides.OAuth2CredentialParams{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		AccessToken:  config.AccessToken,
		ExpiresIn:    int64(time.Hour.Seconds()),
		Scopes:       rides.NewScopeSet("profile", "request"),
		GrantType:    rides.GrantAuthorizationCode,
	}))
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	client, err := ridesclient.New(session, &rides.Config{Sandbox: true})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client
}

// CommandRunner provides utilities for running rides commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
	home   string
}

// NewCommandRunner creates a command runner with an isolated home directory
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
		home:   t.TempDir(),
	}
}

// Run executes a rides command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.RidesPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+runner.home)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.RidesPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// AssertJSONOutput verifies command output decodes as JSON
func AssertJSONOutput(t *testing.T, output string, target any) {
	t.Helper()

	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), target); err != nil {
		t.Errorf("Output is not valid JSON: %v\n%s", err, output)
	}
}
