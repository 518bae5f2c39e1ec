package cmd

import (
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	schedule string
	runNow   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <query>",
	Short: "Repeat a search on a cron schedule",
	Long: `Run the search on a cron schedule (standard 5-field spec or descriptors like
@hourly) until interrupted. Each run launches its own browser; a run that is
still going when the next one is due is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")
		spec := schedule
		if spec == "" {
			spec = cfg.Schedule
		}
		n, err := resultLimit(cmd)
		if err != nil {
			return err
		}

		job := func() {
			report, err := runSearch(ctx, cfg, query, n)
			if err != nil {
				slog.Error("scheduled search failed", slog.String("query", query), slog.Any("error", err))
			}
			if report == nil {
				return
			}
			if err := writeReport(cmd.OutOrStdout(), report); err != nil {
				slog.Error("error writing results", slog.Any("error", err))
			}
		}

		c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
		if _, err := c.AddFunc(spec, job); err != nil {
			return err
		}
		slog.Info("watching", slog.String("query", query), slog.String("schedule", spec))
		c.Start()
		if runNow {
			go c.Entries()[0].WrappedJob.Run()
		}

		<-ctx.Done()
		<-c.Stop().Done()
		slog.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule (default from config, @hourly)")
	watchCmd.Flags().BoolVar(&runNow, "now", false, "Also run once immediately")
	watchCmd.Flags().IntVarP(&maxResults, "max", "n", 5, "Maximum number of results to process")
	watchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}
