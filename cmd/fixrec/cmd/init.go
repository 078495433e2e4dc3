/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/gonap/gava/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		width int
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with a generated API key",
		Long: `Create the fixrec configuration file.

This command will:
- Write the config file with secure permissions
- Generate the API key used by the REST API
- Record the default record width

Examples:
  fixrec init --width 20
  fixrec init --config ./fixrec.yaml --data-dir ./data --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ConfigExists(a.configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", a.configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(a.configPath, a.cfg.DataDir, width)
			if err != nil {
				return err
			}

			cmd.Printf("Configuration created at %s\n", a.configPath)
			cmd.Printf("Data directory: %s\n", cfg.DataDir)
			cmd.Printf("Record width: %d\n", cfg.Record.Width)
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Record width in bytes (default 80)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")
	return cmd
}
