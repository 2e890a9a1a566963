package commands

import (
	"runtime"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the rides CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version    string `json:"version"     yaml:"version"`
				Commit     string `json:"commit"      yaml:"commit"`
				Built      string `json:"built"       yaml:"built"`
				SDKVersion string `json:"sdk_version" yaml:"sdk_version"`
				GoVersion  string `json:"go_version"  yaml:"go_version"`
			}

			info := VersionInfo{
				Version:    version,
				Commit:     commit,
				Built:      date,
				SDKVersion: constants.SDKVersion,
				GoVersion:  runtime.Version(),
			}

			return renderProperties(cmd.OutOrStdout(), info, [][2]string{
				{"Version", info.Version},
				{"Commit", info.Commit},
				{"Built", info.Built},
				{"SDK", info.SDKVersion},
				{"Go", info.GoVersion},
			})
		},
	}
}
