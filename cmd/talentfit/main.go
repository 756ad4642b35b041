// Package main provides the entry point for the talentfit candidate evaluation CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentfit",
	Short: "Candidate evaluation workflow client",
	Long: `talentfit walks a candidate through resume intake, job matching, skill gap analysis,
assessment and interview against the evaluation service. Progress is kept in a resumable
session record between runs.

Configuration can be loaded from a JSON or YAML file using --config. Environment variables
override the file and command-line flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath    string
	apiURL        string
	timeoutFlag   string
	storageDriver string
	stateDir      string
	logLevel      string
	logFile       string
	useBrowser    bool
	verbose       bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	flags.StringVar(&apiURL, "api-url", "", "Base URL of the evaluation service")
	flags.StringVar(&timeoutFlag, "timeout", "", "Per-request timeout, e.g. 60s")
	flags.StringVar(&storageDriver, "storage", "", "Session storage: file, memory, redis or postgres")
	flags.StringVar(&stateDir, "state-dir", "", "Directory for the file storage backend")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&logFile, "log-file", "", "Write rotating JSON logs to this file")
	flags.BoolVar(&useBrowser, "use-browser", false, "Use headless browser for job pages that need JavaScript (requires Chrome)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
