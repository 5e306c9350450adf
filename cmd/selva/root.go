package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "selva",
	Short: "Selva - web front for the case-management API",
	Long: `Selva renders the dashboard, case, SLA, configuration and chat pages and
forwards every JSON action to the upstream case-management API.

Configuration is read from config.json, then from the environment
(API_BASE_URL, TZ, LOG_LEVEL, PORT or any SELVA_<SECTION>_<KEY>).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			return os.Setenv("SELVA_CONFIG", cfgFile)
		}
		return nil
	},
	RunE: runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default config.json)")
}
