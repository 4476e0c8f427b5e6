package bluesky

import (
	"fmt"
	"strings"
)

const (
	// DefaultService is the default XRPC service base URL
	DefaultService = "https://bsky.social"

	// CreateSessionEndpoint authenticates with handle + app password
	CreateSessionEndpoint = "/xrpc/com.atproto.server.createSession"

	// GetFeedEndpoint lists the posts of a feed generator
	GetFeedEndpoint = "/xrpc/app.bsky.feed.getFeed"

	// GetLikesEndpoint lists actors that liked a subject
	GetLikesEndpoint = "/xrpc/app.bsky.feed.getLikes"

	// GetRepostedByEndpoint lists actors that reposted a post
	GetRepostedByEndpoint = "/xrpc/app.bsky.feed.getRepostedBy"

	// GetPostThreadEndpoint fetches a post with its reply tree
	GetPostThreadEndpoint = "/xrpc/app.bsky.feed.getPostThread"

	// GetFeedGeneratorEndpoint resolves a feed generator record
	GetFeedGeneratorEndpoint = "/xrpc/app.bsky.feed.getFeedGenerator"

	// GetProfileEndpoint fetches an actor profile
	GetProfileEndpoint = "/xrpc/app.bsky.actor.getProfile"

	// GetAuthorFeedEndpoint lists an actor's own posts
	GetAuthorFeedEndpoint = "/xrpc/app.bsky.feed.getAuthorFeed"

	// FeedGeneratorCollection is the record collection for feed generators
	FeedGeneratorCollection = "app.bsky.feed.generator"

	// DefaultPageLimit is the default page size for paginated list calls
	DefaultPageLimit = 50

	// MaxPageLimit is the maximum page size the API accepts
	MaxPageLimit = 100
)

// ClampLimit bounds a page limit to what the API accepts
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// IsValidAtURI checks whether a string looks like an at:// record URI
func IsValidAtURI(uri string) bool {
	if !strings.HasPrefix(uri, "at://") {
		return false
	}
	return len(uri) > len("at://")
}

// BuildFeedURI constructs a feed generator at-URI from a DID and record key
func BuildFeedURI(did, rkey string) (string, error) {
	if did == "" || rkey == "" {
		return "", fmt.Errorf("both did and rkey are required to build a feed URI")
	}
	return fmt.Sprintf("at://%s/%s/%s", did, FeedGeneratorCollection, rkey), nil
}
