package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	"bskybatch/pkg/bluesky"
)

const (
	mockHandle      = "tester.bsky.social"
	mockAppPassword = "abcd-efgh-ijkl-mnop"
	mockAccessJwt   = "mock-access-jwt"
)

// MockBlueskyServer simulates the XRPC endpoints the batch commands hit,
// with in-memory data and cursor pagination
type MockBlueskyServer struct {
	server       *httptest.Server
	mu           sync.RWMutex
	requestCount int32
	pageSize     int

	errorResponses map[string]int // endpoint path -> status code

	feeds       map[string][]bluesky.FeedItem // feed URI -> posts, newest first
	likes       map[string][]string           // subject URI -> liker DIDs
	reposts     map[string][]string           // post URI -> reposter DIDs
	threads     map[string]bluesky.ThreadView // post URI -> reply tree
	generators  map[string]bluesky.GeneratorView
	profiles    map[string]bluesky.Profile
	authorFeeds map[string][]bluesky.FeedItem // actor DID -> posts
}

// NewMockBlueskyServer creates a mock server with empty data
func NewMockBlueskyServer() *MockBlueskyServer {
	m := &MockBlueskyServer{
		pageSize:       2,
		errorResponses: make(map[string]int),
		feeds:          make(map[string][]bluesky.FeedItem),
		likes:          make(map[string][]string),
		reposts:        make(map[string][]string),
		threads:        make(map[string]bluesky.ThreadView),
		generators:     make(map[string]bluesky.GeneratorView),
		profiles:       make(map[string]bluesky.Profile),
		authorFeeds:    make(map[string][]bluesky.FeedItem),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(bluesky.CreateSessionEndpoint, m.handleCreateSession)
	mux.HandleFunc(bluesky.GetFeedEndpoint, m.handleGetFeed)
	mux.HandleFunc(bluesky.GetLikesEndpoint, m.handleGetLikes)
	mux.HandleFunc(bluesky.GetRepostedByEndpoint, m.handleGetRepostedBy)
	mux.HandleFunc(bluesky.GetPostThreadEndpoint, m.handleGetPostThread)
	mux.HandleFunc(bluesky.GetFeedGeneratorEndpoint, m.handleGetFeedGenerator)
	mux.HandleFunc(bluesky.GetProfileEndpoint, m.handleGetProfile)
	mux.HandleFunc(bluesky.GetAuthorFeedEndpoint, m.handleGetAuthorFeed)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL of the mock server
func (m *MockBlueskyServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockBlueskyServer) Close() {
	m.server.Close()
}

// RequestCount returns the total number of requests served
func (m *MockBlueskyServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// SetErrorResponse makes an endpoint return a fixed status code
func (m *MockBlueskyServer) SetErrorResponse(endpoint string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[endpoint] = code
}

// AddFeed registers a feed generator with its posts, newest first. The
// generator view is registered alongside so getFeedGenerator resolves.
func (m *MockBlueskyServer) AddFeed(uri string, posts ...bluesky.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]bluesky.FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, bluesky.FeedItem{Post: p})
	}
	m.feeds[uri] = items
	m.generators[uri] = bluesky.GeneratorView{
		Uri: uri,
		Cid: "cid-" + uri,
	}
}

// SetLikes registers the liker DIDs for a subject URI
func (m *MockBlueskyServer) SetLikes(uri string, dids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[uri] = dids
}

// SetReposts registers the reposter DIDs for a post URI
func (m *MockBlueskyServer) SetReposts(uri string, dids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reposts[uri] = dids
}

// SetThread registers the reply tree for a post URI
func (m *MockBlueskyServer) SetThread(uri string, thread bluesky.ThreadView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads[uri] = thread
}

// AddProfile registers an actor profile and their recent posts
func (m *MockBlueskyServer) AddProfile(profile bluesky.Profile, postTexts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.Did] = profile

	items := make([]bluesky.FeedItem, 0, len(postTexts))
	for _, text := range postTexts {
		items = append(items, bluesky.FeedItem{
			Post: bluesky.Post{
				Author: bluesky.Actor{Did: profile.Did},
				Record: bluesky.PostRecord{Text: text},
			},
		})
	}
	m.authorFeeds[profile.Did] = items
}

func (m *MockBlueskyServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if body.Identifier != mockHandle || body.Password != mockAppPassword {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "AuthenticationRequired",
			"message": "Invalid identifier or password",
		})
		return
	}

	json.NewEncoder(w).Encode(bluesky.Session{
		Did:       "did:plc:tester",
		Handle:    mockHandle,
		AccessJwt: mockAccessJwt,
	})
}

// checkRequest enforces auth and configured errors; returns false when the
// response has already been written
func (m *MockBlueskyServer) checkRequest(w http.ResponseWriter, r *http.Request) bool {
	atomic.AddInt32(&m.requestCount, 1)

	m.mu.RLock()
	code := m.errorResponses[r.URL.Path]
	m.mu.RUnlock()
	if code > 0 {
		w.WriteHeader(code)
		return false
	}

	if r.Header.Get("Authorization") != "Bearer "+mockAccessJwt {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "AuthenticationRequired",
			"message": "Authentication Required",
		})
		return false
	}

	return true
}

// paginate returns one page of items plus the cursor for the next page
func paginate(total, pageSize int, cursor string) (start, end int, next string) {
	start = 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	if start > total {
		start = total
	}

	end = start + pageSize
	if end >= total {
		return start, total, ""
	}
	return start, end, strconv.Itoa(end)
}

func (m *MockBlueskyServer) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	feedURI := r.URL.Query().Get("feed")

	m.mu.RLock()
	items, ok := m.feeds[feedURI]
	m.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "UnknownFeed",
			"message": "could not resolve feed",
		})
		return
	}

	start, end, next := paginate(len(items), m.pageSize, r.URL.Query().Get("cursor"))
	json.NewEncoder(w).Encode(bluesky.FeedResponse{
		Feed:   items[start:end],
		Cursor: next,
	})
}

func (m *MockBlueskyServer) handleGetLikes(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	uri := r.URL.Query().Get("uri")

	m.mu.RLock()
	dids := m.likes[uri]
	m.mu.RUnlock()

	start, end, next := paginate(len(dids), m.pageSize, r.URL.Query().Get("cursor"))

	resp := bluesky.LikesResponse{Uri: uri, Cursor: next}
	for _, did := range dids[start:end] {
		resp.Likes = append(resp.Likes, bluesky.Like{Actor: bluesky.Actor{Did: did}})
	}
	json.NewEncoder(w).Encode(resp)
}

func (m *MockBlueskyServer) handleGetRepostedBy(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	uri := r.URL.Query().Get("uri")

	m.mu.RLock()
	dids := m.reposts[uri]
	m.mu.RUnlock()

	start, end, next := paginate(len(dids), m.pageSize, r.URL.Query().Get("cursor"))

	resp := bluesky.RepostedByResponse{Uri: uri, Cursor: next}
	for _, did := range dids[start:end] {
		resp.RepostedBy = append(resp.RepostedBy, bluesky.Actor{Did: did})
	}
	json.NewEncoder(w).Encode(resp)
}

func (m *MockBlueskyServer) handleGetPostThread(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	uri := r.URL.Query().Get("uri")

	m.mu.RLock()
	thread, ok := m.threads[uri]
	m.mu.RUnlock()
	if !ok {
		thread = bluesky.ThreadView{Post: &bluesky.Post{Uri: uri}}
	}

	json.NewEncoder(w).Encode(bluesky.ThreadResponse{Thread: thread})
}

func (m *MockBlueskyServer) handleGetFeedGenerator(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	feedURI := r.URL.Query().Get("feed")

	m.mu.RLock()
	view, ok := m.generators[feedURI]
	m.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "UnknownFeed",
			"message": "could not resolve feed",
		})
		return
	}

	json.NewEncoder(w).Encode(bluesky.FeedGeneratorResponse{
		View:     view,
		IsOnline: true,
		IsValid:  true,
	})
}

func (m *MockBlueskyServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	actor := r.URL.Query().Get("actor")

	m.mu.RLock()
	profile, ok := m.profiles[actor]
	m.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "InvalidRequest",
			"message": "Profile not found",
		})
		return
	}

	json.NewEncoder(w).Encode(profile)
}

func (m *MockBlueskyServer) handleGetAuthorFeed(w http.ResponseWriter, r *http.Request) {
	if !m.checkRequest(w, r) {
		return
	}

	actor := r.URL.Query().Get("actor")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	m.mu.RLock()
	items := m.authorFeeds[actor]
	m.mu.RUnlock()

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	json.NewEncoder(w).Encode(bluesky.FeedResponse{Feed: items})
}
