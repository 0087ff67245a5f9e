// Package main is the routekit command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath   string
	logLevel     string
	logFormat    string
	otlpEndpoint string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Build and resolve URLs from a named route table",
		Long: `routekit converts between named route templates and URLs.

Routes are read from a YAML file that maps names to templates:

  routes:
    home: /
    profile: /user/:id
    files: /files/*

Table order is match order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c",
		getEnvOrDefault("ROUTEKIT_CONFIG_PATH", "routes.yaml"), "Path to the route table file")
	flags.StringVar(&opts.logLevel, "log-level",
		getEnvOrDefault("ROUTEKIT_LOG_LEVEL", ""), "Log level (debug, info, warn, error); overrides the file")
	flags.StringVar(&opts.logFormat, "log-format",
		getEnvOrDefault("ROUTEKIT_LOG_FORMAT", ""), "Log format (json, console); overrides the file")
	flags.StringVar(&opts.otlpEndpoint, "otlp-endpoint",
		getEnvOrDefault("ROUTEKIT_OTLP_ENDPOINT", ""), "OTLP gRPC endpoint for traces")

	rootCmd.AddCommand(
		prepareCmd(opts),
		parseCmd(opts),
		matchCmd(opts),
		checkCmd(opts),
		watchCmd(opts),
		versionCmd(),
	)

	return rootCmd
}
