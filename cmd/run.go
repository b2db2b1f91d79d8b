package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/points-claimer/internal/pipeline"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Refresh dashboards, claim points, then refresh phone numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.Options{})
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Refresh dashboards and claim points (no phone refresh)",
	RunE: func(cmd *cobra.Command, args []string) error {
		skipDash, _ := cmd.Flags().GetBool("skip-dashboard")
		return runPipeline(pipeline.Options{SkipDashboard: skipDash, SkipPhones: true})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the phone number list only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(pipeline.Options{SkipDashboard: true, SkipClaims: true})
	},
}

func init() {
	claimCmd.Flags().Bool("skip-dashboard", false, "do not ping dashboards before claiming")
}

func runPipeline(opts pipeline.Options) error {
	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	a.runner.Run(ctx)
	return nil
}
