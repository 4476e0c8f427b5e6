package extractor

import "bskybatch/pkg/bluesky"

// Client defines the Bluesky API operations the extractor depends on
type Client interface {
	GetFeed(feed, cursor string, limit int) (*bluesky.FeedResponse, error)
	GetLikes(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error)
	GetRepostedBy(uri, cursor string, limit int) (*bluesky.RepostedByResponse, error)
	GetPostThread(uri string, depth int) (*bluesky.ThreadResponse, error)
	GetFeedGenerator(feed string) (*bluesky.FeedGeneratorResponse, error)
	GetProfile(actor string) (*bluesky.Profile, error)
	GetAuthorFeed(actor string, limit int) (*bluesky.FeedResponse, error)
}
