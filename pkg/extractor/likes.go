package extractor

import (
	"fmt"

	"bskybatch/pkg/bluesky"
)

// CollectFeedLikers resolves a feed generator record and pages through the
// actors who liked the record itself, in collection order. Duplicate DIDs
// are preserved as returned by the API.
func (e *Extractor) CollectFeedLikers(feedURI string, pageLimit int) ([]string, error) {
	if !bluesky.IsValidAtURI(feedURI) {
		return nil, fmt.Errorf("invalid feed URI %q: must start with at://", feedURI)
	}

	gen, err := e.client.GetFeedGenerator(feedURI)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve feed generator: %w", err)
	}

	subjectURI := gen.View.Uri
	subjectCid := gen.View.Cid

	e.logger.DebugWithFields("resolved feed subject", map[string]interface{}{
		"subject_uri": subjectURI,
		"subject_cid": subjectCid,
	})

	var dids []string
	cursor := ""
	page := 1

	for {
		resp, err := e.client.GetLikes(subjectURI, subjectCid, cursor, pageLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch likes page %d: %w", page, err)
		}

		for _, like := range resp.Likes {
			dids = append(dids, like.Actor.Did)
		}

		e.logger.DebugWithFields("likes page fetched", map[string]interface{}{
			"page":  page,
			"added": len(resp.Likes),
			"total": len(dids),
		})

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
		page++
	}

	return dids, nil
}
