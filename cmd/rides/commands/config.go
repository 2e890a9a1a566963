package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/fivetwenty-io/rides/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Configuration keys understood by the CLI.
const (
	keyClientID     = "client_id"
	keyClientSecret = "client_secret"
	keyRedirectURL  = "redirect_url"
	keyScopes       = "scopes"
	keyServerToken  = "server_token"
	keySandbox      = "sandbox"
	keyAPIHost      = "api_host"
	keyAuthHost     = "auth_host"
	keyOutput       = "output"
	keyStore        = "store"
	keyNATSURL      = "nats_url"
	keyProfile      = "profile"
)

// ErrPlaceholderValue is returned when an app credential still holds the
// template placeholder.
var ErrPlaceholderValue = errors.New("configuration value is a placeholder")

// Config represents the CLI configuration.
type Config struct {
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURL  string   `json:"redirect_url,omitempty"  yaml:"redirect_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`
	ServerToken  string   `json:"server_token,omitempty"  yaml:"server_token,omitempty"`
	Sandbox      bool     `json:"sandbox"                 yaml:"sandbox"`
	APIHost      string   `json:"api_host,omitempty"      yaml:"api_host,omitempty"`
	AuthHost     string   `json:"auth_host,omitempty"     yaml:"auth_host,omitempty"`
	Output       string   `json:"output,omitempty"        yaml:"output,omitempty"`
	Store        string   `json:"store,omitempty"         yaml:"store,omitempty"`
	NATSURL      string   `json:"nats_url,omitempty"      yaml:"nats_url,omitempty"`
	Profile      string   `json:"profile,omitempty"       yaml:"profile,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage app credentials, hosts and CLI settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			masked.ClientSecret = maskSecret(config.ClientSecret)
			masked.ServerToken = maskSecret(config.ServerToken)

			rows := [][2]string{
				{keyClientID, valueOrNA(masked.ClientID)},
				{keyClientSecret, valueOrNA(masked.ClientSecret)},
				{keyRedirectURL, valueOrNA(masked.RedirectURL)},
				{keyScopes, valueOrNA(strings.Join(masked.Scopes, " "))},
				{keyServerToken, valueOrNA(masked.ServerToken)},
				{keySandbox, fmt.Sprintf("%t", masked.Sandbox)},
				{keyAPIHost, valueOrNA(masked.APIHost)},
				{keyAuthHost, valueOrNA(masked.AuthHost)},
				{keyStore, valueOrNA(masked.Store)},
				{keyNATSURL, valueOrNA(masked.NATSURL)},
				{keyProfile, valueOrNA(masked.Profile)},
			}

			return renderProperties(cmd.OutOrStdout(), masked, rows)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Scopes are given space separated.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			values, err := readConfigFile()
			if err != nil {
				return err
			}

			if err := setConfigValue(values, key, value); err != nil {
				return err
			}

			if err := writeConfigFile(values); err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Set", key, value)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isConfigKey(key) {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			values, err := readConfigFile()
			if err != nil {
				return err
			}

			delete(values, key)

			if err := writeConfigFile(values); err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Unset", key, "")
		},
	}
}

// loadConfig reads the effective configuration from viper, which merges
// flags, RIDES_ environment variables and the config file.
func loadConfig() *Config {
	profile := viper.GetString(keyProfile)
	if profile == "" {
		profile = constants.DefaultProfile
	}

	storeType := viper.GetString(keyStore)
	if storeType == "" {
		storeType = string(store.TypeFile)
	}

	return &Config{
		ClientID:     viper.GetString(keyClientID),
		ClientSecret: viper.GetString(keyClientSecret),
		RedirectURL:  viper.GetString(keyRedirectURL),
		Scopes:       parseScopes(strings.Join(viper.GetStringSlice(keyScopes), " ")),
		ServerToken:  viper.GetString(keyServerToken),
		Sandbox:      viper.GetBool(keySandbox),
		APIHost:      viper.GetString(keyAPIHost),
		AuthHost:     viper.GetString(keyAuthHost),
		Output:       viper.GetString(keyOutput),
		Store:        storeType,
		NATSURL:      viper.GetString(keyNATSURL),
		Profile:      profile,
	}
}

// parseScopes splits a space or comma separated scope list.
func parseScopes(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == ','
	})
}

// validateAppCredentials checks that the values needed by the redirect
// grants are present and are not template placeholders.
func validateAppCredentials(config *Config, needSecret bool) error {
	values := map[string]string{
		keyClientID:    config.ClientID,
		keyRedirectURL: config.RedirectURL,
	}

	if needSecret {
		values[keyClientSecret] = config.ClientSecret
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		if value == "" {
			return constants.ErrMissingAppCredentials
		}

		if isPlaceholder(value) {
			return fmt.Errorf("%w: %s is %q", ErrPlaceholderValue, key, value)
		}
	}

	return nil
}

func validateServerToken(config *Config) error {
	if config.ServerToken == "" {
		return constants.ErrMissingServerToken
	}

	if isPlaceholder(config.ServerToken) {
		return fmt.Errorf("%w: %s", ErrPlaceholderValue, keyServerToken)
	}

	return nil
}

// isPlaceholder matches template values such as INSERT_CLIENT_ID_HERE.
func isPlaceholder(value string) bool {
	return strings.HasPrefix(value, "INSERT_") && strings.HasSuffix(value, "_HERE")
}

func isConfigKey(key string) bool {
	switch key {
	case keyClientID, keyClientSecret, keyRedirectURL, keyScopes, keyServerToken,
		keySandbox, keyAPIHost, keyAuthHost, keyOutput, keyStore, keyNATSURL, keyProfile:
		return true
	default:
		return false
	}
}

func setConfigValue(values map[string]any, key, value string) error {
	switch key {
	case keySandbox:
		values[key] = value == "true" || value == "1" || value == "yes"
	case keyOutput:
		if value != OutputFormatTable && value != OutputFormatJSON && value != OutputFormatYAML {
			return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, value)
		}

		values[key] = value
	case keyStore:
		if value != string(store.TypeFile) && value != string(store.TypeNATS) {
			return fmt.Errorf("%w: %s", constants.ErrUnknownStore, value)
		}

		values[key] = value
	default:
		if !isConfigKey(key) {
			return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
		}

		values[key] = value
	}

	return nil
}

// configDir returns $HOME/.rides.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".rides"), nil
}

func configFilePath() (string, error) {
	if file := viper.ConfigFileUsed(); file != "" {
		return file, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.yml"), nil
}

// readConfigFile returns the raw values stored in the config file only, so
// that flags and environment variables are never written back.
func readConfigFile() (map[string]any, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path comes from the --config flag or the home directory
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if values == nil {
		values = map[string]any{}
	}

	return values, nil
}

func writeConfigFile(values map[string]any) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func outputConfigUpdateResult(cmd *cobra.Command, action, key, value string) error {
	if key == keyClientSecret || key == keyServerToken {
		value = maskSecret(value)
	}

	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	return render(cmd.OutOrStdout(), result, func(table *tablewriter.Table) {
		table.Header("Action", "Key", "Value")
		_ = table.Append(action, key, value)
	})
}
