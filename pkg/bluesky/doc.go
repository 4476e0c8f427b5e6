// Package bluesky provides a client for the Bluesky (AT Protocol) XRPC API.
//
// This package includes:
//   - An authenticated HTTP client (app-password session auth)
//   - Type-safe models for the feed, like, repost, thread and profile lexicons
//   - Endpoint constants and at-URI helpers
//   - Built-in error types for better error handling
//
// Example usage:
//
//	client := bluesky.NewClient(bluesky.DefaultService, 30*time.Second, nil)
//	if _, err := client.Login("alice.bsky.social", appPassword); err != nil {
//	    log.Fatal(err)
//	}
//
//	feed, err := client.GetFeed(feedURI, "", 50)
//	if err != nil {
//	    if bskyErr, ok := err.(*bluesky.Error); ok {
//	        switch bskyErr.Type {
//	        case bluesky.ErrorTypeAuth:
//	            // Handle authentication error
//	        case bluesky.ErrorTypeNotFound:
//	            // Handle unresolved feed
//	        }
//	    }
//	}
package bluesky
