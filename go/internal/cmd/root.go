package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcdev12/podracer/go/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podracer",
	Short: "Client for the podracer race service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg.LogLevel, cfg.LogFormat)
	},
	SilenceUsage: true,
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"YAML config file (environment variables take precedence)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPlayCmd())
}
