// Package cmd defines the CLI commands for the lead-scraper executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead-scraper",
		Short: "B2B lead generation from Google Maps for Curitiba and metro area.",
		Long: `lead-scraper searches Google Maps for high-ticket service businesses
across Curitiba neighborhoods and metro cities, enriches each result with
place details, mines business sites for contact emails, scores the leads
and exports them as categorized CSV files backed by a SQLite datastore.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (settings also read from LEADS_* environment variables)")

	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point. It installs signal handling so an
// interrupted run stops cleanly between leads.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lead-scraper: %v\n", err)
		os.Exit(1)
	}
}
