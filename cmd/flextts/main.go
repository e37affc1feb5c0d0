// FlexTTS is an HTTP front end for a multilingual voice-cloning
// text-to-speech model.
//
// Usage:
//
//	flextts [serve] [--config /path/to/flextts.yaml]
//	flextts speakers
//	flextts version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:           "flextts",
		Short:         "Voice-cloning text-to-speech server",
		Long:          "FlexTTS synthesizes speech in the voice of a reference sample and serves it over HTTP.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flextts %s\n", version)
		},
	}
)

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/flextts.yaml)")

	rootCmd.AddCommand(serveCmd, speakersCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
