package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type options struct {
	pdf         string
	envPath     string
	startPage   int
	endPage     int
	resume      bool
	logLevel    string
	logFormat   string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "catalogsync --pdf <catalogue.pdf>",
		Short: "Import catalogue data from a PDF into Supabase",
		Long: "Parse a product catalogue PDF page by page, upload its images to Supabase Storage " +
			"and upsert one product row per page, checkpointing after every page.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.pdf, "pdf", "", "Path to the catalogue PDF (required)")
	f.StringVar(&o.envPath, "env", "", "Optional path to a .env file")
	f.IntVar(&o.startPage, "start-page", 0, "1-based page number to start from")
	f.IntVar(&o.endPage, "end-page", 0, "1-based page number to end at")
	f.BoolVar(&o.resume, "resume", false, "Resume from the last checkpoint")
	f.StringVar(&o.logLevel, "log-level", "INFO", "Logging level (DEBUG, INFO, WARN, ERROR)")
	f.StringVar(&o.logFormat, "log-format", "text", "Log format (text or json)")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /health, /status and /metrics on this address (overrides METRICS_ADDR)")
	cmd.MarkFlagRequired("pdf")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalogsync:", err)
		os.Exit(1)
	}
}
