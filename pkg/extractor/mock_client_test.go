package extractor

import (
	"errors"

	"bskybatch/pkg/bluesky"
	"bskybatch/pkg/logger"
)

// fakeClient implements Client with pluggable handlers per method. Unset
// handlers return empty responses.
type fakeClient struct {
	getFeed          func(feed, cursor string, limit int) (*bluesky.FeedResponse, error)
	getLikes         func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error)
	getRepostedBy    func(uri, cursor string, limit int) (*bluesky.RepostedByResponse, error)
	getPostThread    func(uri string, depth int) (*bluesky.ThreadResponse, error)
	getFeedGenerator func(feed string) (*bluesky.FeedGeneratorResponse, error)
	getProfile       func(actor string) (*bluesky.Profile, error)
	getAuthorFeed    func(actor string, limit int) (*bluesky.FeedResponse, error)
}

func (f *fakeClient) GetFeed(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
	if f.getFeed != nil {
		return f.getFeed(feed, cursor, limit)
	}
	return &bluesky.FeedResponse{}, nil
}

func (f *fakeClient) GetLikes(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
	if f.getLikes != nil {
		return f.getLikes(uri, cid, cursor, limit)
	}
	return &bluesky.LikesResponse{Uri: uri}, nil
}

func (f *fakeClient) GetRepostedBy(uri, cursor string, limit int) (*bluesky.RepostedByResponse, error) {
	if f.getRepostedBy != nil {
		return f.getRepostedBy(uri, cursor, limit)
	}
	return &bluesky.RepostedByResponse{Uri: uri}, nil
}

func (f *fakeClient) GetPostThread(uri string, depth int) (*bluesky.ThreadResponse, error) {
	if f.getPostThread != nil {
		return f.getPostThread(uri, depth)
	}
	return &bluesky.ThreadResponse{}, nil
}

func (f *fakeClient) GetFeedGenerator(feed string) (*bluesky.FeedGeneratorResponse, error) {
	if f.getFeedGenerator != nil {
		return f.getFeedGenerator(feed)
	}
	return nil, errors.New("no generator handler configured")
}

func (f *fakeClient) GetProfile(actor string) (*bluesky.Profile, error) {
	if f.getProfile != nil {
		return f.getProfile(actor)
	}
	return &bluesky.Profile{Did: actor}, nil
}

func (f *fakeClient) GetAuthorFeed(actor string, limit int) (*bluesky.FeedResponse, error) {
	if f.getAuthorFeed != nil {
		return f.getAuthorFeed(actor, limit)
	}
	return &bluesky.FeedResponse{}, nil
}

// newTestExtractor builds an extractor around a fake client with a silent
// capturing logger
func newTestExtractor(client Client) (*Extractor, *logger.TestLogger) {
	log := logger.NewTestLogger()
	e := New(client)
	e.logger = log
	return e, log
}

// feedPage builds one feed response page from post URIs and created times
func feedPage(cursor string, posts ...bluesky.Post) *bluesky.FeedResponse {
	resp := &bluesky.FeedResponse{Cursor: cursor}
	for _, p := range posts {
		resp.Feed = append(resp.Feed, bluesky.FeedItem{Post: p})
	}
	return resp
}

// likesPage builds one likes response page from actor DIDs
func likesPage(cursor string, dids ...string) *bluesky.LikesResponse {
	resp := &bluesky.LikesResponse{Cursor: cursor}
	for _, did := range dids {
		resp.Likes = append(resp.Likes, bluesky.Like{Actor: bluesky.Actor{Did: did}})
	}
	return resp
}
