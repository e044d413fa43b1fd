// Command portal serves the author portal of the journal submission system.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"authorportal/internal/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Author portal for the journal submission system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: portal.yaml in . or ./config)")

	load := func() (*config.AppConfig, error) {
		if configPath != "" {
			return config.LoadFile(configPath)
		}
		return config.Load()
	}

	cmd.AddCommand(
		serveCmd(load),
		articlesCmd(load),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "portal %s (build: %s)\n", version, buildTime)
			},
		},
	)
	return cmd
}
