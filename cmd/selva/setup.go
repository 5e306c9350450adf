package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/simplyzetax/selva/internal/config"
	"github.com/simplyzetax/selva/internal/ssl"
	"github.com/simplyzetax/selva/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write the configuration file interactively",
	Long: `Walk through the main settings and write them to the configuration file.
An existing file is copied to <file>.backup first. When HTTPS is chosen a
stored certificate can be picked or a new self-signed one generated.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		log.Warnf("Existing configuration ignored: %v", err)
		config.Config = config.GetDefaultConfig()
	}
	cfg := config.Config

	if err := ui.SetupForm(cfg); err != nil {
		return err
	}

	if cfg.Server.TLS.Enabled {
		name, err := ui.CertSelectorForm(ssl.NewStore(cfg.Server.TLS.CertDir))
		if err != nil {
			return fmt.Errorf("certificate selection failed: %w", err)
		}
		cfg.Server.TLS.CertName = name
	}

	if err := config.BackupConfig(); err != nil {
		return err
	}
	if err := config.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	log.Infof("Configuration written to %s", config.GetConfigPath())
	return nil
}
