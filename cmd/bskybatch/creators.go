package main

import (
	"os"

	"github.com/spf13/cobra"

	"bskybatch/pkg/logger"
	"bskybatch/pkg/ui"
)

var (
	creatorsInput  string
	creatorsOutput string
	creatorsLimit  int
)

// creatorsCmd represents the creators command
var creatorsCmd = &cobra.Command{
	Use:   "creators",
	Short: "Fetch profile details and recent post texts per creator",
	Long: `Read creator DIDs from a CSV and fetch each creator's profile fields
plus the texts of their most recent posts. Duplicate DIDs are collapsed
to one row; the first feed name seen for a DID wins.

The input CSV must contain the columns:
  creator_did, feed_display_name

The output CSV contains one row per unique creator:
  Feed Name, Creator DID, Account Name, Account Description,
  Account Handle, Last Posts`,
	Example: `  bskybatch creators --input data/creators.csv --output data/creator-profiles.csv --limit 15`,
	Run:     runCreators,
}

func init() {
	rootCmd.AddCommand(creatorsCmd)

	creatorsCmd.Flags().StringVar(&creatorsInput, "input", "", "input CSV path (required)")
	creatorsCmd.Flags().StringVar(&creatorsOutput, "output", "", "output CSV path (required)")
	creatorsCmd.Flags().IntVar(&creatorsLimit, "limit", 15, "number of recent posts to fetch")
	creatorsCmd.MarkFlagRequired("input")
	creatorsCmd.MarkFlagRequired("output")
}

func runCreators(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{
		"post-limit": creatorsLimit,
	}

	ext, cfg, err := setupExtractor(flags)
	if err != nil {
		ui.PrintError("Setup failed", err.Error())
		os.Exit(1)
	}

	if err := ext.RunCreators(creatorsInput, creatorsOutput, cfg.Extract.PostLimit); err != nil {
		logger.WithError(err).Error("creators batch failed")
		ui.PrintError("Batch failed", err.Error())
		os.Exit(1)
	}

	logger.WithField("output", creatorsOutput).Info("creators batch completed")
	ui.PrintSuccess("Done: " + creatorsOutput)
}
