package main

import (
	"os"

	"github.com/spf13/cobra"

	"bskybatch/pkg/logger"
	"bskybatch/pkg/ui"
)

var (
	likesInput  string
	likesOutput string
	likesLimit  int
)

// likesCmd represents the feed-likes command
var likesCmd = &cobra.Command{
	Use:   "feed-likes",
	Short: "Collect users who liked each feed generator record",
	Long: `Read feed URIs from a CSV and collect the users who liked the feed
generator record itself (not its posts).

The input CSV must contain the columns:
  feed_at_uri, feed_display_name

The output CSV contains one row per feed:
  Feed At URI, Feed Display Name, User like count, Users`,
	Example: `  bskybatch feed-likes --input data/feeds.csv --output data/feed-likes.csv`,
	Run:     runFeedLikes,
}

func init() {
	rootCmd.AddCommand(likesCmd)

	likesCmd.Flags().StringVar(&likesInput, "input", "", "input CSV path (required)")
	likesCmd.Flags().StringVar(&likesOutput, "output", "", "output CSV path (required)")
	likesCmd.Flags().IntVar(&likesLimit, "limit", 100, "likes page size (max 100)")
	likesCmd.MarkFlagRequired("input")
	likesCmd.MarkFlagRequired("output")
}

func runFeedLikes(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{
		"likes-limit": likesLimit,
	}

	ext, cfg, err := setupExtractor(flags)
	if err != nil {
		ui.PrintError("Setup failed", err.Error())
		os.Exit(1)
	}

	if err := ext.RunFeedLikes(likesInput, likesOutput, cfg.Extract.LikesPageLimit); err != nil {
		logger.WithError(err).Error("feed-likes batch failed")
		ui.PrintError("Batch failed", err.Error())
		os.Exit(1)
	}

	logger.WithField("output", likesOutput).Info("feed-likes batch completed")
	ui.PrintSuccess("Done: " + likesOutput)
}
