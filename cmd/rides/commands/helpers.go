package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fivetwenty-io/rides/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	Masked = "***"
)

// outputFormat returns the --output format, defaulting to table.
func outputFormat() string {
	output := viper.GetString("output")
	if output == "" {
		return OutputFormatTable
	}

	return output
}

// render writes data as JSON or YAML, or calls table for table output.
func render(out io.Writer, data any, table func(*tablewriter.Table)) error {
	switch outputFormat() {
	case OutputFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(data)
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(out)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(data)
	case OutputFormatTable:
		t := tablewriter.NewWriter(out)
		table(t)

		if err := t.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, outputFormat())
	}
}

// renderProperties renders ordered key/value pairs as a two column table.
func renderProperties(out io.Writer, data any, rows [][2]string) error {
	return render(out, data, func(table *tablewriter.Table) {
		table.Header("Property", "Value")

		for _, row := range rows {
			_ = table.Append(row[0], row[1])
		}
	})
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatFloatPtr(value *float64) string {
	if value == nil {
		return NotAvailable
	}

	return formatFloat(*value)
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}

	return Masked
}

// commandContext returns the command's context, or a background context
// when the command was not executed with one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
