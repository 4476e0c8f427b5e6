package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the batch extractor
type Config struct {
	// Bluesky credentials and service endpoint
	Bluesky BlueskyConfig `yaml:"bluesky" json:"bluesky"`

	// Extraction settings shared by the batch commands
	Extract ExtractConfig `yaml:"extract" json:"extract"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BlueskyConfig holds Bluesky-specific configuration
type BlueskyConfig struct {
	Handle         string        `yaml:"handle" json:"handle"`
	AppPassword    string        `yaml:"app_password" json:"app_password"`
	Service        string        `yaml:"service" json:"service"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// ExtractConfig holds extraction settings
type ExtractConfig struct {
	// Days limits reacted-users to posts from the last N days; 0 means all time
	Days int `yaml:"days" json:"days"`
	// ReplyDepth is how deep reply threads are walked for replier collection
	ReplyDepth int `yaml:"reply_depth" json:"reply_depth"`
	// IncludeReposts adds reposting actors to the reacted-users set
	IncludeReposts bool `yaml:"include_reposts" json:"include_reposts"`
	// FeedPageLimit is the page size for feed post listing (max 100)
	FeedPageLimit int `yaml:"feed_page_limit" json:"feed_page_limit"`
	// LikesPageLimit is the page size for liker listing (max 100)
	LikesPageLimit int `yaml:"likes_page_limit" json:"likes_page_limit"`
	// PostLimit is how many recent posts the creators command fetches
	PostLimit int `yaml:"post_limit" json:"post_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Bluesky: BlueskyConfig{
			Service:        "https://bsky.social",
			RequestTimeout: 30 * time.Second,
		},
		Extract: ExtractConfig{
			Days:           7,
			ReplyDepth:     6,
			IncludeReposts: false,
			FeedPageLimit:  50,
			LikesPageLimit: 100,
			PostLimit:      15,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Credential variable names match the original batch tooling
	if handle := os.Getenv("BLUESKY_HANDLE"); handle != "" {
		c.Bluesky.Handle = handle
	}
	if appPassword := os.Getenv("BLUESKY_APP_PASSWORD"); appPassword != "" {
		c.Bluesky.AppPassword = appPassword
	}
	if service := os.Getenv("BLUESKY_SERVICE"); service != "" {
		c.Bluesky.Service = service
	}

	if days := os.Getenv("BSKYBATCH_DAYS"); days != "" {
		var val int
		fmt.Sscanf(days, "%d", &val)
		if val >= 0 {
			c.Extract.Days = val
		}
	}

	if depth := os.Getenv("BSKYBATCH_REPLY_DEPTH"); depth != "" {
		var val int
		fmt.Sscanf(depth, "%d", &val)
		if val > 0 {
			c.Extract.ReplyDepth = val
		}
	}

	if reposts := os.Getenv("BSKYBATCH_INCLUDE_REPOSTS"); reposts != "" {
		c.Extract.IncludeReposts = strings.ToLower(reposts) == "true"
	}

	if logLevel := os.Getenv("BSKYBATCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".bskybatch.yaml",
		".bskybatch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "bskybatch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "bskybatch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".bskybatch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".bskybatch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Bluesky.Service == "" {
		errs = append(errs, errors.New("Bluesky service URL is required"))
	}
	if c.Bluesky.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Extract.Days < 0 {
		errs = append(errs, errors.New("days cannot be negative"))
	}
	if c.Extract.ReplyDepth <= 0 {
		errs = append(errs, errors.New("reply depth must be positive"))
	}
	if c.Extract.FeedPageLimit <= 0 || c.Extract.FeedPageLimit > 100 {
		errs = append(errs, errors.New("feed page limit must be between 1 and 100"))
	}
	if c.Extract.LikesPageLimit <= 0 || c.Extract.LikesPageLimit > 100 {
		errs = append(errs, errors.New("likes page limit must be between 1 and 100"))
	}
	if c.Extract.PostLimit <= 0 {
		errs = append(errs, errors.New("post limit must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if handle, ok := flags["handle"].(string); ok && handle != "" {
		c.Bluesky.Handle = handle
	}
	if appPassword, ok := flags["app-password"].(string); ok && appPassword != "" {
		c.Bluesky.AppPassword = appPassword
	}
	if service, ok := flags["service"].(string); ok && service != "" {
		c.Bluesky.Service = service
	}
	if days, ok := flags["days"].(int); ok && days >= 0 {
		c.Extract.Days = days
	}
	if depth, ok := flags["reply-depth"].(int); ok && depth > 0 {
		c.Extract.ReplyDepth = depth
	}
	if reposts, ok := flags["include-reposts"].(bool); ok {
		c.Extract.IncludeReposts = reposts
	}
	if limit, ok := flags["page-limit"].(int); ok && limit > 0 {
		c.Extract.FeedPageLimit = limit
	}
	if limit, ok := flags["likes-limit"].(int); ok && limit > 0 {
		c.Extract.LikesPageLimit = limit
	}
	if limit, ok := flags["post-limit"].(int); ok && limit > 0 {
		c.Extract.PostLimit = limit
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".bskybatch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
