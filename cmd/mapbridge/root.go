package main

import (
	"fmt"
	"os"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/spf13/cobra"
)

// module defs - Version and BuildDate can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "mapbridge"
)

var configDir string

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Map overlay bridge",
	Long: `mapbridge serves headless map views over WebSocket. Each connection
drives one view: overlay batches, camera commands and queries go in,
map events come back out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory holding "+config.FileName)
	rootCmd.AddCommand(serveCmd, versionCmd)
}
