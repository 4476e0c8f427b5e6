package bluesky

// Session represents an authenticated session returned by createSession
type Session struct {
	Did        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
}

// Actor represents a platform account reference
type Actor struct {
	Did         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

// Profile represents a full actor profile from getProfile
type Profile struct {
	Did            string `json:"did"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"displayName,omitempty"`
	Description    string `json:"description,omitempty"`
	FollowersCount int    `json:"followersCount,omitempty"`
	FollowsCount   int    `json:"followsCount,omitempty"`
	PostsCount     int    `json:"postsCount,omitempty"`
}

// PostRecord is the authored record embedded in a post view
type PostRecord struct {
	Text      string `json:"text,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Post represents a post view
type Post struct {
	Uri       string     `json:"uri"`
	Cid       string     `json:"cid"`
	Author    Actor      `json:"author"`
	Record    PostRecord `json:"record"`
	IndexedAt string     `json:"indexedAt,omitempty"`
}

// FeedItem wraps a single post in a feed listing
type FeedItem struct {
	Post Post `json:"post"`
}

// FeedResponse is the paginated response from getFeed and getAuthorFeed
type FeedResponse struct {
	Feed   []FeedItem `json:"feed"`
	Cursor string     `json:"cursor,omitempty"`
}

// Like represents a single like entry from getLikes
type Like struct {
	Actor     Actor  `json:"actor"`
	CreatedAt string `json:"createdAt,omitempty"`
	IndexedAt string `json:"indexedAt,omitempty"`
}

// LikesResponse is the paginated response from getLikes
type LikesResponse struct {
	Uri    string `json:"uri"`
	Cid    string `json:"cid,omitempty"`
	Cursor string `json:"cursor,omitempty"`
	Likes  []Like `json:"likes"`
}

// RepostedByResponse is the paginated response from getRepostedBy
type RepostedByResponse struct {
	Uri        string  `json:"uri"`
	Cursor     string  `json:"cursor,omitempty"`
	RepostedBy []Actor `json:"repostedBy"`
}

// ThreadView is a recursive view of a post and its replies
type ThreadView struct {
	Post    *Post        `json:"post,omitempty"`
	Replies []ThreadView `json:"replies,omitempty"`
}

// ThreadResponse is the response from getPostThread
type ThreadResponse struct {
	Thread ThreadView `json:"thread"`
}

// GeneratorView represents a feed generator record view
type GeneratorView struct {
	Uri         string `json:"uri"`
	Cid         string `json:"cid"`
	Did         string `json:"did"`
	Creator     Actor  `json:"creator"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	LikeCount   int    `json:"likeCount,omitempty"`
}

// FeedGeneratorResponse is the response from getFeedGenerator
type FeedGeneratorResponse struct {
	View     GeneratorView `json:"view"`
	IsOnline bool          `json:"isOnline"`
	IsValid  bool          `json:"isValid"`
}

// apiError is the error body returned by the XRPC endpoints
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
