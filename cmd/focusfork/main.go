// Command focusfork is a command line client for a running FocusFork server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/focusfork/internal/client"
	"github.com/okian/focusfork/pkg/logger"
)

const defaultServerURL = "http://localhost:9080"

var (
	serverURL  string
	timeout    time.Duration
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "focusfork",
	Short: "Find one good open-source issue and a plan to finish it",
	Long: `focusfork talks to a FocusFork server.

It can start focus sessions, scout issues, synthesize plans for an issue,
search GitHub issues and chat with the conversational scout.

The server URL defaults to $FOCUSFORK_URL, then ` + defaultServerURL + `.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Init(logger.WithLevel(level), logger.WithOutput(cmd.ErrOrStderr()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "FocusFork server URL (or set FOCUSFORK_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON responses")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(healthCmd, sessionCmd, scoutCmd, planCmd, searchCmd, chatCmd, loadCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// newClient builds an API client from the persistent flags.
func newClient() (*client.Client, error) {
	u := serverURL
	if u == "" {
		u = os.Getenv("FOCUSFORK_URL")
	}
	if u == "" {
		u = defaultServerURL
	}
	return client.New(u, client.WithTimeout(timeout))
}
