package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bskybatch/pkg/bluesky"
	"bskybatch/pkg/storage"
)

func writeInputCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readOutputCSV(t *testing.T, path string, columns []string) []storage.Record {
	t.Helper()
	records, err := storage.ReadRecords(path, columns)
	require.NoError(t, err)
	return records
}

func TestRunReactedUsers(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	client := &fakeClient{
		getFeed: func(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
			return feedPage("", bluesky.Post{Uri: "at://" + feed + "/post", Record: bluesky.PostRecord{CreatedAt: recent}}), nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:liker"), nil
		},
	}

	e, _ := newTestExtractor(client)
	e.now = func() time.Time { return now }

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://feed1,Feed One\nat://feed2,Feed Two\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))

	rows := readOutputCSV(t, output, reactedUsersHeader)
	require.Len(t, rows, 2)

	assert.Equal(t, "at://feed1", rows[0].Get("Feed At URI"))
	assert.Equal(t, "Feed One", rows[0].Get("Feed Display Name"))
	assert.Equal(t, "1", rows[0].Get("Reacted user count"))
	assert.Equal(t, "did:plc:liker", rows[0].Get("Reacted users"))
	assert.Equal(t, "at://feed2", rows[1].Get("Feed At URI"))
}

func TestRunReactedUsersRowFailureContinues(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	client := &fakeClient{
		getFeed: func(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
			if feed == "at://broken" {
				return nil, errors.New("feed unavailable")
			}
			return feedPage("", bluesky.Post{Uri: "at://post", Record: bluesky.PostRecord{CreatedAt: recent}}), nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:liker"), nil
		},
	}

	e, log := newTestExtractor(client)
	e.now = func() time.Time { return now }

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://broken,Broken\nat://good,Good\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	// A per-feed failure is not a batch failure
	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))
	assert.True(t, log.HasError())

	rows := readOutputCSV(t, output, reactedUsersHeader)
	require.Len(t, rows, 2)

	assert.Equal(t, "0", rows[0].Get("Reacted user count"))
	assert.Equal(t, "", rows[0].Get("Reacted users"))
	assert.Equal(t, "1", rows[1].Get("Reacted user count"))
}

func TestRunReactedUsersJoinsUsersWithSemicolon(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	client := &fakeClient{
		getFeed: func(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
			return feedPage("", bluesky.Post{Uri: "at://post", Record: bluesky.PostRecord{CreatedAt: recent}}), nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:b", "did:plc:a"), nil
		},
	}

	e, _ := newTestExtractor(client)
	e.now = func() time.Time { return now }

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://feed1,Feed One\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))

	rows := readOutputCSV(t, output, reactedUsersHeader)
	require.Len(t, rows, 1)
	assert.Equal(t, "did:plc:a;did:plc:b", rows[0].Get("Reacted users"))
}

func TestRunReactedUsersMissingColumn(t *testing.T) {
	e, _ := newTestExtractor(&fakeClient{})

	input := writeInputCSV(t, "feed_at_uri\nat://feed1\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	err := e.RunReactedUsers(input, output, defaultOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed_display_name")
}

func TestRunReactedUsersMissingInput(t *testing.T) {
	e, _ := newTestExtractor(&fakeClient{})

	err := e.RunReactedUsers(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.csv"), defaultOpts())
	require.Error(t, err)
}

func TestRunReactedUsersSkipsEmptyURI(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	client := &fakeClient{
		getFeed: func(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
			return feedPage("", bluesky.Post{Uri: "at://post", Record: bluesky.PostRecord{CreatedAt: recent}}), nil
		},
	}

	e, _ := newTestExtractor(client)
	e.now = func() time.Time { return now }

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\n,No URI\nat://feed1,Feed One\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))

	rows := readOutputCSV(t, output, reactedUsersHeader)
	require.Len(t, rows, 1)
	assert.Equal(t, "at://feed1", rows[0].Get("Feed At URI"))
}

func TestRunFeedLikes(t *testing.T) {
	client := &fakeClient{
		getFeedGenerator: func(feed string) (*bluesky.FeedGeneratorResponse, error) {
			return &bluesky.FeedGeneratorResponse{
				View: bluesky.GeneratorView{Uri: feed, Cid: "gen-cid"},
			}, nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:fan1", "did:plc:fan2"), nil
		},
	}

	e, _ := newTestExtractor(client)

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://feed1,Feed One\n")
	output := filepath.Join(t.TempDir(), "likes.csv")

	require.NoError(t, e.RunFeedLikes(input, output, 100))

	rows := readOutputCSV(t, output, feedLikesHeader)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].Get("User like count"))
	assert.Equal(t, "did:plc:fan1;did:plc:fan2", rows[0].Get("Users"))
}

func TestRunFeedLikesRowFailureContinues(t *testing.T) {
	client := &fakeClient{
		getFeedGenerator: func(feed string) (*bluesky.FeedGeneratorResponse, error) {
			if feed == "at://broken" {
				return nil, errors.New("unknown feed")
			}
			return &bluesky.FeedGeneratorResponse{
				View: bluesky.GeneratorView{Uri: feed, Cid: "gen-cid"},
			}, nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:fan"), nil
		},
	}

	e, log := newTestExtractor(client)

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://broken,Broken\nat://good,Good\n")
	output := filepath.Join(t.TempDir(), "likes.csv")

	require.NoError(t, e.RunFeedLikes(input, output, 100))
	assert.True(t, log.HasError())

	rows := readOutputCSV(t, output, feedLikesHeader)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].Get("User like count"))
	assert.Equal(t, "1", rows[1].Get("User like count"))
}

func TestRunCreatorsDeduplicates(t *testing.T) {
	var profileCalls int

	client := &fakeClient{
		getProfile: func(actor string) (*bluesky.Profile, error) {
			profileCalls++
			return &bluesky.Profile{
				Did:         actor,
				Handle:      actor + ".handle",
				DisplayName: "Name of " + actor,
				Description: "desc",
			}, nil
		},
		getAuthorFeed: func(actor string, limit int) (*bluesky.FeedResponse, error) {
			return feedPage("",
				bluesky.Post{Record: bluesky.PostRecord{Text: "post one"}},
				bluesky.Post{Record: bluesky.PostRecord{Text: "post two"}},
			), nil
		},
	}

	e, _ := newTestExtractor(client)

	// did:plc:b appears twice under different feeds; the first name wins
	input := writeInputCSV(t, "creator_did,feed_display_name\ndid:plc:b,First Feed\ndid:plc:a,Other Feed\ndid:plc:b,Second Feed\n")
	output := filepath.Join(t.TempDir(), "creators.csv")

	require.NoError(t, e.RunCreators(input, output, 15))

	assert.Equal(t, 2, profileCalls, "each unique creator fetched once")

	rows := readOutputCSV(t, output, creatorsHeader)
	require.Len(t, rows, 2)

	// Sorted by DID for stable output
	assert.Equal(t, "did:plc:a", rows[0].Get("Creator DID"))
	assert.Equal(t, "Other Feed", rows[0].Get("Feed Name"))
	assert.Equal(t, "did:plc:b", rows[1].Get("Creator DID"))
	assert.Equal(t, "First Feed", rows[1].Get("Feed Name"))
	assert.Equal(t, "did:plc:b.handle", rows[1].Get("Account Handle"))
	assert.Equal(t, "post one|post two", rows[1].Get("Last Posts"))
}

func TestRunCreatorsRowFailureContinues(t *testing.T) {
	client := &fakeClient{
		getProfile: func(actor string) (*bluesky.Profile, error) {
			if actor == "did:plc:gone" {
				return nil, errors.New("profile not found")
			}
			return &bluesky.Profile{Did: actor, Handle: "ok.handle"}, nil
		},
	}

	e, log := newTestExtractor(client)

	input := writeInputCSV(t, "creator_did,feed_display_name\ndid:plc:gone,Feed A\ndid:plc:ok,Feed B\n")
	output := filepath.Join(t.TempDir(), "creators.csv")

	require.NoError(t, e.RunCreators(input, output, 15))
	assert.True(t, log.HasError())

	rows := readOutputCSV(t, output, creatorsHeader)
	require.Len(t, rows, 2)

	assert.Equal(t, "did:plc:gone", rows[0].Get("Creator DID"))
	assert.Equal(t, "Feed A", rows[0].Get("Feed Name"))
	assert.Equal(t, "", rows[0].Get("Account Handle"))
	assert.Equal(t, "ok.handle", rows[1].Get("Account Handle"))
}

func TestRunCreatorsMissingColumn(t *testing.T) {
	e, _ := newTestExtractor(&fakeClient{})

	input := writeInputCSV(t, "creator_did\ndid:plc:a\n")
	output := filepath.Join(t.TempDir(), "creators.csv")

	err := e.RunCreators(input, output, 15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed_display_name")
}

func TestRunOutputIsIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour).Format(time.RFC3339)

	client := &fakeClient{
		getFeed: func(feed, cursor string, limit int) (*bluesky.FeedResponse, error) {
			return feedPage("", bluesky.Post{Uri: "at://post", Record: bluesky.PostRecord{CreatedAt: recent}}), nil
		},
		getLikes: func(uri, cid, cursor string, limit int) (*bluesky.LikesResponse, error) {
			return likesPage("", "did:plc:liker"), nil
		},
	}

	e, _ := newTestExtractor(client)
	e.now = func() time.Time { return now }

	input := writeInputCSV(t, "feed_at_uri,feed_display_name\nat://feed1,Feed One\n")
	output := filepath.Join(t.TempDir(), "reacted.csv")

	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	require.NoError(t, e.RunReactedUsers(input, output, defaultOpts()))
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
