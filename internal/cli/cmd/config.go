package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/arkium/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		path, err := config.GetConfigFile()
		if app.Configs != nil {
			path, err = app.Configs.ConfigFile(), nil
		}
		if err != nil {
			return fmt.Errorf("resolve config file: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema, err := config.Schema()
		if err != nil {
			return fmt.Errorf("generate schema: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Print the configuration in effect, after defaults and ARKIUM_ environment overrides.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		data, err := config.EncodeTOML(app.Config)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd, configShowCmd)
}
