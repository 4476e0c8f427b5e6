// Package logger provides structured logging built on zerolog.
//
// A Logger writes human-readable console output by default, with optional
// JSON file output alongside. The package keeps a global instance behind
// Initialize/GetLogger so commands configure logging once and packages log
// through the package-level convenience functions.
//
// Example usage:
//
//	log, err := logger.New(&config.LoggingConfig{Level: "info"})
//	if err != nil {
//	    return err
//	}
//	log.WithField("feed", feedURI).Info("collecting likers")
//
// Tests use NewTestLogger, which captures messages in memory instead of
// writing them anywhere.
package logger
