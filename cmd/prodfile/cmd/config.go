/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the prodfile configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with a generated API key",
		Long: `Create a configuration file with default settings and a freshly
generated API key for the REST server.

Examples:
  prodfile config init
  prodfile config init --config ./prodfile.yaml --file ./products.dat --print-key`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataFile, _ := cmd.Flags().GetString("file")
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			// Use default config path if not specified
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			if config.ConfigExists(configPath) && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
			}

			cfg, err := config.BootstrapConfig(configPath, dataFile)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}

			cmd.Printf("✅ Configuration created at %s\n", configPath)
			cmd.Printf("Data file: %s\n", cfg.DataFile)
			if printKey {
				cmd.Printf("API Key: %s\n", cfg.Security.APIKey)
			}
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")

	configCmd.AddCommand(initCmd)
	return configCmd
}
