package main

import (
	"os"

	"github.com/spf13/cobra"

	"bskybatch/pkg/extractor"
	"bskybatch/pkg/logger"
	"bskybatch/pkg/ui"
)

var (
	reactedInput          string
	reactedOutput         string
	reactedDays           int
	reactedReplyDepth     int
	reactedIncludeReposts bool
	reactedPageLimit      int
)

// reactedCmd represents the reacted-users command
var reactedCmd = &cobra.Command{
	Use:   "reacted-users",
	Short: "Collect unique users who reacted to each feed's recent posts",
	Long: `Read feed URIs from a CSV and collect the unique users who liked,
replied to, or (optionally) reposted posts in each feed within the last
N days.

The input CSV must contain the columns:
  feed_at_uri, feed_display_name

The output CSV contains one row per feed:
  Feed At URI, Feed Display Name, Reacted user count, Reacted users

A feed that fails to resolve is logged and written as an empty result;
the batch continues with the next feed.`,
	Example: `  # Last 7 days, likes and replies only
  bskybatch reacted-users --input data/feeds.csv --output data/reacted.csv

  # Include reposters and widen the window to 30 days
  bskybatch reacted-users --input data/feeds.csv --output data/reacted.csv --days 30 --include-reposts

  # All-time aggregation
  bskybatch reacted-users --input data/feeds.csv --output data/reacted.csv --days 0`,
	Run: runReactedUsers,
}

func init() {
	rootCmd.AddCommand(reactedCmd)

	reactedCmd.Flags().StringVar(&reactedInput, "input", "", "input CSV path (required)")
	reactedCmd.Flags().StringVar(&reactedOutput, "output", "", "output CSV path (required)")
	reactedCmd.Flags().IntVar(&reactedDays, "days", 7, "look back N days for posts (0 = all time)")
	reactedCmd.Flags().IntVar(&reactedReplyDepth, "reply-depth", 6, "reply thread depth to scan")
	reactedCmd.Flags().BoolVar(&reactedIncludeReposts, "include-reposts", false, "include users who reposted posts")
	reactedCmd.Flags().IntVar(&reactedPageLimit, "page-limit", 50, "feed page size (max 100)")
	reactedCmd.MarkFlagRequired("input")
	reactedCmd.MarkFlagRequired("output")
}

func runReactedUsers(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{
		"days":            reactedDays,
		"reply-depth":     reactedReplyDepth,
		"include-reposts": reactedIncludeReposts,
		"page-limit":      reactedPageLimit,
	}

	ext, cfg, err := setupExtractor(flags)
	if err != nil {
		ui.PrintError("Setup failed", err.Error())
		os.Exit(1)
	}

	opts := extractor.ReactedUsersOptions{
		Days:           cfg.Extract.Days,
		ReplyDepth:     cfg.Extract.ReplyDepth,
		IncludeReposts: cfg.Extract.IncludeReposts,
		PageLimit:      cfg.Extract.FeedPageLimit,
	}

	if err := ext.RunReactedUsers(reactedInput, reactedOutput, opts); err != nil {
		logger.WithError(err).Error("reacted-users batch failed")
		ui.PrintError("Batch failed", err.Error())
		os.Exit(1)
	}

	logger.WithField("output", reactedOutput).Info("reacted-users batch completed")
	ui.PrintSuccess("Done: " + reactedOutput)
}
