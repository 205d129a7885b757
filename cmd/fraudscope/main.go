package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	logLevel        string
	metricsTextfile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fraudscope",
		Short:         "Review payment transactions and manage fraud detection rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write ingest metrics to this file on exit")

	root.AddCommand(
		newBrowseCmd(opts),
		newStatsCmd(opts),
		newQueryCmd(opts),
		newRulesCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newPasswdCmd(),
		newResetCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
