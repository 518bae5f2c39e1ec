package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tubescribe/browser"
	"tubescribe/config"
	"tubescribe/output"
	"tubescribe/scribe"
)

var (
	maxResults int
	jsonOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search once and print every video with its transcript",
	Long: `Search YouTube for the query, open up to --max results in their own tab and
print title, URL and transcript for each. Videos that fail are skipped; a
search that returns nothing is an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		n, err := resultLimit(cmd)
		if err != nil {
			return err
		}
		report, err := runSearch(cmd.Context(), cfg, query, n)
		if err != nil && (report == nil || scribe.IsFatal(err)) {
			return err
		}
		if werr := writeReport(cmd.OutOrStdout(), report); werr != nil {
			return werr
		}
		return err
	},
}

// resultLimit is --max when given, else the configured max_results. It is
// checked here so a bad value fails before a browser is launched.
func resultLimit(cmd *cobra.Command) (int, error) {
	n := maxResults
	if !cmd.Flags().Changed("max") {
		n = cfg.MaxResults
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", scribe.ErrInvalidMaxResults, n)
	}
	return n, nil
}

// runSearch opens a fresh browser session for one search and closes it after.
func runSearch(ctx context.Context, c *config.Config, query string, n int) (*scribe.Report, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	session, err := browser.NewSession(browser.Options{
		Headless:    c.Headless,
		Bin:         c.BrowserBin,
		OpenTimeout: c.Timeouts.OpenTab,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating browser session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("error closing browser session", slog.Any("error", err))
		}
	}()

	return scribe.New(session, opts, slog.Default()).Run(ctx, query, n)
}

func writeReport(w io.Writer, r *scribe.Report) error {
	if jsonOutput {
		return output.JSON(w, r)
	}
	return output.Text(w, r)
}

func init() {
	searchCmd.Flags().IntVarP(&maxResults, "max", "n", 5, "Maximum number of results to process")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}
