package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &clientOptions{}

	rootCmd := &cobra.Command{
		Use:           "pocketledger-cli",
		Short:         "PocketLedger CLI tool",
		Long:          `A command line interface for interacting with the PocketLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("POCKETLEDGER_URL", "http://localhost:8080"), "Base URL of the PocketLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", os.Getenv("POCKETLEDGER_USER"), "Acting user ID sent as X-User-ID")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("POCKETLEDGER_TOKEN"), "Bearer token")

	rootCmd.AddCommand(
		ratesCmd(opts),
		convertCmd(opts),
		userCmd(opts),
		expenseCmd(opts),
		dbCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
