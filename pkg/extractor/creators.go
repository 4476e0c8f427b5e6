package extractor

import "fmt"

// CreatorData holds the profile fields and recent post texts for one creator
type CreatorData struct {
	DisplayName string
	Description string
	Handle      string
	LastPosts   []string
}

// FetchCreatorData fetches an actor's profile and the texts of their most
// recent posts
func (e *Extractor) FetchCreatorData(actor string, postLimit int) (*CreatorData, error) {
	profile, err := e.client.GetProfile(actor)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	feed, err := e.client.GetAuthorFeed(actor, postLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch author feed: %w", err)
	}

	posts := make([]string, 0, len(feed.Feed))
	for _, item := range feed.Feed {
		posts = append(posts, item.Post.Record.Text)
	}

	return &CreatorData{
		DisplayName: profile.DisplayName,
		Description: profile.Description,
		Handle:      profile.Handle,
		LastPosts:   posts,
	}, nil
}
