package cmd

import (
	"fmt"

	"github.com/hindiconfession/cli/pkg/config"
	"github.com/hindiconfession/cli/pkg/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.PrintRecord("Configuration", []output.Field{
			{Key: "API base URL", Value: config.GetString("api.base_url")},
			{Key: "API timeout", Value: fmt.Sprintf("%d seconds", config.GetInt("api.timeout"))},
			{Key: "Output format", Value: config.GetString("output.format")},
			{Key: "Log level", Value: config.GetString("log.level")},
			{Key: "Log file", Value: config.GetString("log.file")},
			{Key: "Storage driver", Value: config.GetString("storage.driver")},
			{Key: "Storage dir", Value: config.GetStorageDir()},
			{Key: "Page size", Value: config.GetInt("feed.page_size")},
			{Key: "Prefetch", Value: config.GetBool("feed.prefetch")},
			{Key: "Config file", Value: config.GetConfigFilePath()},
		})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(output.Writer(), config.GetConfigFilePath())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a value to the user config file",
	Example: `  confession-cli config set api.base_url https://api.example.com/api
  confession-cli config set storage.driver redis`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetString(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		output.PrintSuccess("✓ %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}
