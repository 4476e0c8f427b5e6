package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"bskybatch/pkg/auth"
	"bskybatch/pkg/bluesky"
	"bskybatch/pkg/config"
	"bskybatch/pkg/extractor"
	"bskybatch/pkg/logger"
	"bskybatch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	serviceURL  string
	accountName string
	quiet       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bskybatch",
	Short: "Batch extraction of Bluesky feed engagement data to CSV",
	Long: `bskybatch reads feed or creator identifiers from a CSV file, calls the
Bluesky (AT Protocol) API, and writes enriched CSV output.

Commands:
  reacted-users  Collect the unique users who liked, replied to, or
                 reposted a feed's recent posts
  feed-likes     Collect the users who liked a feed generator record
  creators       Fetch profile details and recent post texts per creator

Credentials are resolved from stored accounts ('bskybatch auth login'),
the BLUESKY_HANDLE / BLUESKY_APP_PASSWORD environment variables, a .env
file, or the config file.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.bskybatch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service", "", "XRPC service base URL (default https://bsky.social)")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`bskybatch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setupExtractor loads configuration, resolves credentials, logs in and
// returns a ready Extractor plus the loaded config. Any failure here is
// a setup error: callers should exit non-zero without processing rows.
func setupExtractor(flags map[string]interface{}) (*extractor.Extractor, *config.Config, error) {
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	if serviceURL != "" {
		flags["service"] = serviceURL
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("bskybatch starting")

	// Resolve credentials: explicit account > config/env > stored default
	if accountName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		account, err := manager.Retrieve(accountName)
		if err != nil {
			return nil, nil, fmt.Errorf("account not found: %s", accountName)
		}
		applyAccount(cfg, account)
	} else if cfg.Bluesky.Handle == "" || cfg.Bluesky.AppPassword == "" {
		manager, err := auth.NewManager()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		account, err := manager.RetrieveDefault()
		if err != nil {
			return nil, nil, fmt.Errorf("no Bluesky credentials found: run 'bskybatch auth login' or set BLUESKY_HANDLE and BLUESKY_APP_PASSWORD")
		}
		applyAccount(cfg, account)
	}

	if cfg.Bluesky.Handle == "" || cfg.Bluesky.AppPassword == "" {
		return nil, nil, fmt.Errorf("missing Bluesky handle or app password")
	}

	client := bluesky.NewClient(cfg.Bluesky.Service, cfg.Bluesky.RequestTimeout, logger.GetLogger())
	if _, err := client.Login(cfg.Bluesky.Handle, cfg.Bluesky.AppPassword); err != nil {
		return nil, nil, fmt.Errorf("login failed: %w", err)
	}

	return extractor.New(client), cfg, nil
}

// applyAccount copies stored account credentials into the configuration
func applyAccount(cfg *config.Config, account *auth.Account) {
	cfg.Bluesky.Handle = account.Handle
	cfg.Bluesky.AppPassword = account.AppPassword
	if account.Service != "" && serviceURL == "" {
		cfg.Bluesky.Service = account.Service
	}
	logger.WithField("account", account.Handle).Info("using stored credentials")
}
