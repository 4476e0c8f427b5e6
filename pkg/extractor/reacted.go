package extractor

import (
	"fmt"
	"sort"
	"time"

	"bskybatch/pkg/bluesky"
)

// postRef identifies a single post within a feed
type postRef struct {
	uri string
	cid string
}

// CollectReactedUsers pages through a feed's posts within the configured
// window and unions the DIDs of every actor who liked, replied to, or
// (optionally) reposted any of them. The result is sorted for stable
// output.
func (e *Extractor) CollectReactedUsers(feedURI string, opts ReactedUsersOptions) ([]string, error) {
	if !bluesky.IsValidAtURI(feedURI) {
		return nil, fmt.Errorf("invalid feed URI %q: must start with at://", feedURI)
	}

	posts, err := e.feedPostsWithinWindow(feedURI, opts.Days, opts.PageLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed posts: %w", err)
	}

	reacted := make(map[string]struct{})

	for _, post := range posts {
		if err := e.addLikerDIDs(post, reacted); err != nil {
			return nil, fmt.Errorf("failed to fetch likers for %s: %w", post.uri, err)
		}
		e.logger.DebugWithFields("collected likers", map[string]interface{}{
			"post_uri": post.uri,
		})

		if opts.IncludeReposts {
			if err := e.addReposterDIDs(post, reacted); err != nil {
				return nil, fmt.Errorf("failed to fetch reposters for %s: %w", post.uri, err)
			}
			e.logger.DebugWithFields("collected reposters", map[string]interface{}{
				"post_uri": post.uri,
			})
		}

		if err := e.addReplierDIDs(post, opts.ReplyDepth, reacted); err != nil {
			return nil, fmt.Errorf("failed to fetch repliers for %s: %w", post.uri, err)
		}
		e.logger.DebugWithFields("collected repliers", map[string]interface{}{
			"post_uri": post.uri,
		})
	}

	dids := make([]string, 0, len(reacted))
	for did := range reacted {
		dids = append(dids, did)
	}
	sort.Strings(dids)

	return dids, nil
}

// feedPostsWithinWindow pages through the feed's post list, stopping early
// at the first post older than the cutoff. Posts are assumed time-ordered
// newest-first; a post exactly at the cutoff is included. days == 0 means
// no cutoff and all pages are consumed.
func (e *Extractor) feedPostsWithinWindow(feedURI string, days, pageLimit int) ([]postRef, error) {
	var cutoff time.Time
	if days > 0 {
		cutoff = e.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	}

	var posts []postRef
	cursor := ""

	for {
		resp, err := e.client.GetFeed(feedURI, cursor, pageLimit)
		if err != nil {
			return nil, err
		}
		if len(resp.Feed) == 0 {
			break
		}

		stop := false
		for _, item := range resp.Feed {
			if !cutoff.IsZero() {
				createdAt, ok := parsePostTime(item.Post.Record.CreatedAt)
				if !ok {
					createdAt, ok = parsePostTime(item.Post.IndexedAt)
				}
				if ok && createdAt.Before(cutoff) {
					stop = true
					break
				}
			}
			posts = append(posts, postRef{uri: item.Post.Uri, cid: item.Post.Cid})
		}
		if stop {
			break
		}

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}

	return posts, nil
}

// addLikerDIDs pages through a post's likers and adds their DIDs
func (e *Extractor) addLikerDIDs(post postRef, dids map[string]struct{}) error {
	cursor := ""
	for {
		resp, err := e.client.GetLikes(post.uri, post.cid, cursor, bluesky.MaxPageLimit)
		if err != nil {
			return err
		}
		for _, like := range resp.Likes {
			dids[like.Actor.Did] = struct{}{}
		}
		cursor = resp.Cursor
		if cursor == "" {
			return nil
		}
	}
}

// addReposterDIDs pages through a post's reposters and adds their DIDs
func (e *Extractor) addReposterDIDs(post postRef, dids map[string]struct{}) error {
	cursor := ""
	for {
		resp, err := e.client.GetRepostedBy(post.uri, cursor, bluesky.MaxPageLimit)
		if err != nil {
			return err
		}
		for _, actor := range resp.RepostedBy {
			dids[actor.Did] = struct{}{}
		}
		cursor = resp.Cursor
		if cursor == "" {
			return nil
		}
	}
}

// addReplierDIDs walks a post's reply tree and adds every reply author
func (e *Extractor) addReplierDIDs(post postRef, depth int, dids map[string]struct{}) error {
	resp, err := e.client.GetPostThread(post.uri, depth)
	if err != nil {
		return err
	}
	collectReplyDIDs(resp.Thread, dids)
	return nil
}

// collectReplyDIDs recursively gathers reply author DIDs from a thread
// view. The root post's own author is not a replier and is skipped.
func collectReplyDIDs(view bluesky.ThreadView, dids map[string]struct{}) {
	for _, reply := range view.Replies {
		if reply.Post != nil && reply.Post.Author.Did != "" {
			dids[reply.Post.Author.Did] = struct{}{}
		}
		collectReplyDIDs(reply, dids)
	}
}
