package extractor

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"bskybatch/pkg/logger"
	"bskybatch/pkg/storage"
)

// Output column sets, matching the original batch exports
var (
	reactedUsersHeader = []string{"Feed At URI", "Feed Display Name", "Reacted user count", "Reacted users"}
	feedLikesHeader    = []string{"Feed At URI", "Feed Display Name", "User like count", "Users"}
	creatorsHeader     = []string{"Feed Name", "Creator DID", "Account Name", "Account Description", "Account Handle", "Last Posts"}
)

// Input column requirements per command
var (
	feedInputColumns    = []string{"feed_at_uri", "feed_display_name"}
	creatorInputColumns = []string{"creator_did", "feed_display_name"}
)

// Extractor runs the batch extraction commands against a Bluesky client.
// Execution is strictly sequential: one row, one page, one post at a time.
type Extractor struct {
	client Client
	logger logger.Logger
	now    func() time.Time
}

// New creates a new Extractor using the given client
func New(client Client) *Extractor {
	return &Extractor{
		client: client,
		logger: logger.GetLogger(),
		now:    time.Now,
	}
}

// ReactedUsersOptions controls the reacted-users aggregation
type ReactedUsersOptions struct {
	// Days bounds the post window; 0 means all time
	Days int
	// ReplyDepth is how deep reply threads are walked
	ReplyDepth int
	// IncludeReposts adds reposting actors to the set
	IncludeReposts bool
	// PageLimit is the feed page size
	PageLimit int
}

// RunReactedUsers processes an input CSV of feeds and writes one row per
// feed with the deduplicated set of actors who reacted to its posts.
// Per-feed fetch failures are logged and produce a zero row; the batch
// continues.
func (e *Extractor) RunReactedUsers(inputPath, outputPath string, opts ReactedUsersOptions) error {
	records, err := storage.ReadRecords(inputPath, feedInputColumns)
	if err != nil {
		return err
	}

	writer, err := storage.NewRowWriter(outputPath, reactedUsersHeader)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, record := range records {
		feedURI := record.Get("feed_at_uri")
		feedName := record.Get("feed_display_name")
		if feedURI == "" {
			continue
		}

		e.logger.InfoWithFields("processing feed", map[string]interface{}{
			"feed_name": feedName,
			"feed_uri":  feedURI,
		})

		dids, err := e.CollectReactedUsers(feedURI, opts)
		if err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"feed_name": feedName,
				"feed_uri":  feedURI,
			}).Error("failed to collect reacted users, writing empty result")
			dids = nil
		}

		row := []string{feedURI, feedName, strconv.Itoa(len(dids)), strings.Join(dids, ";")}
		if err := writer.Append(row); err != nil {
			return err
		}

		e.logger.InfoWithFields("feed result written", map[string]interface{}{
			"feed_name":  feedName,
			"feed_uri":   feedURI,
			"user_count": len(dids),
		})
	}

	return nil
}

// RunFeedLikes processes an input CSV of feeds and writes one row per feed
// with the actors who liked the feed generator record itself.
func (e *Extractor) RunFeedLikes(inputPath, outputPath string, pageLimit int) error {
	records, err := storage.ReadRecords(inputPath, feedInputColumns)
	if err != nil {
		return err
	}

	writer, err := storage.NewRowWriter(outputPath, feedLikesHeader)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, record := range records {
		feedURI := record.Get("feed_at_uri")
		feedName := record.Get("feed_display_name")
		if feedURI == "" {
			continue
		}

		e.logger.InfoWithFields("fetching feed likers", map[string]interface{}{
			"feed_name": feedName,
			"feed_uri":  feedURI,
		})

		dids, err := e.CollectFeedLikers(feedURI, pageLimit)
		if err != nil {
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"feed_name": feedName,
				"feed_uri":  feedURI,
			}).Error("failed to collect feed likers, writing empty result")
			dids = nil
		}

		row := []string{feedURI, feedName, strconv.Itoa(len(dids)), strings.Join(dids, ";")}
		if err := writer.Append(row); err != nil {
			return err
		}
	}

	return nil
}

// RunCreators processes an input CSV of creators and writes one row per
// unique creator DID with profile fields and recent post texts. Duplicate
// DIDs are collapsed; the first feed name seen wins. Creators are
// processed in sorted DID order for stable output.
func (e *Extractor) RunCreators(inputPath, outputPath string, postLimit int) error {
	records, err := storage.ReadRecords(inputPath, creatorInputColumns)
	if err != nil {
		return err
	}

	creatorToFeed := make(map[string]string)
	for _, record := range records {
		creator := record.Get("creator_did")
		feedName := record.Get("feed_display_name")
		if creator == "" {
			continue
		}
		if _, seen := creatorToFeed[creator]; !seen {
			creatorToFeed[creator] = feedName
		}
	}

	creators := make([]string, 0, len(creatorToFeed))
	for creator := range creatorToFeed {
		creators = append(creators, creator)
	}
	sort.Strings(creators)

	e.logger.InfoWithFields("unique creators resolved", map[string]interface{}{
		"count": len(creators),
	})

	writer, err := storage.NewRowWriter(outputPath, creatorsHeader)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, creator := range creators {
		e.logger.InfoWithFields("fetching creator data", map[string]interface{}{
			"creator": creator,
		})

		data, err := e.FetchCreatorData(creator, postLimit)
		if err != nil {
			e.logger.WithError(err).WithField("creator", creator).Error("failed to fetch creator data, writing empty result")
			data = &CreatorData{}
		}

		row := []string{
			creatorToFeed[creator],
			creator,
			data.DisplayName,
			data.Description,
			data.Handle,
			strings.Join(data.LastPosts, "|"),
		}
		if err := writer.Append(row); err != nil {
			return err
		}
	}

	return nil
}

// parsePostTime parses a lexicon timestamp, returning false when absent
// or malformed
func parsePostTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
