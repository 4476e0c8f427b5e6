package bluesky

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bskybatch/pkg/logger"
)

// Error types for Bluesky API operations
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Bluesky API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("bluesky %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Client is an authenticated client for the Bluesky XRPC API
type Client struct {
	httpClient *http.Client
	service    string
	accessJwt  string
	session    *Session
	logger     logger.Logger
}

// NewClient creates a new Bluesky API client for the given service base URL
func NewClient(service string, timeout time.Duration, log logger.Logger) *Client {
	if service == "" {
		service = DefaultService
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		service: service,
		logger:  log,
	}
}

// Session returns the current session, or nil before Login
func (c *Client) Session() *Session {
	return c.session
}

// Login authenticates with a handle and app password and stores the
// access token for subsequent calls
func (c *Client) Login(identifier, appPassword string) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"identifier": identifier,
		"password":   appPassword,
	})
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to encode login request: %v", err),
		}
	}

	endpoint := c.service + CreateSessionEndpoint
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugWithFields("creating session", map[string]interface{}{
		"identifier": identifier,
		"service":    c.service,
	})

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		c.logger.WithError(err).WithField("identifier", identifier).Error("login failed")
		return nil, err
	}

	var session Session
	if err := decodeBody(resp, &session); err != nil {
		return nil, err
	}

	c.session = &session
	c.accessJwt = session.AccessJwt

	c.logger.InfoWithFields("session created", map[string]interface{}{
		"handle": session.Handle,
		"did":    session.Did,
	})

	return &session, nil
}

// GetJSON performs an authenticated GET against an XRPC endpoint and
// decodes the JSON response into target
func (c *Client) GetJSON(endpoint string, params url.Values, target interface{}) error {
	u := c.service + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	if c.accessJwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJwt)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	return decodeBody(resp, target)
}

// do performs the HTTP request with request/response logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// decodeBody reads and unmarshals a JSON response body
func decodeBody(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps the HTTP response status to a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	// XRPC error bodies carry an error name and message
	message := ""
	if body, err := io.ReadAll(resp.Body); err == nil {
		var xrpcErr apiError
		if json.Unmarshal(body, &xrpcErr) == nil && xrpcErr.Message != "" {
			message = xrpcErr.Message
			if xrpcErr.Error != "" {
				message = xrpcErr.Error + ": " + xrpcErr.Message
			}
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if message == "" {
			message = "authentication required"
		}
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{Type: ErrorTypeAuth, Message: message, Code: resp.StatusCode}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{Type: ErrorTypeNotFound, Message: message, Code: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		if message == "" {
			message = "rate limit exceeded"
		}
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{Type: ErrorTypeRateLimit, Message: message, Code: resp.StatusCode}
	case resp.StatusCode >= 500:
		if message == "" {
			message = "server error"
		}
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{Type: ErrorTypeServerError, Message: message, Code: resp.StatusCode}
	default:
		if message == "" {
			message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
		return &Error{Type: ErrorTypeUnknown, Message: message, Code: resp.StatusCode}
	}
}

// GetFeed fetches one page of a feed generator's post list
func (c *Client) GetFeed(feed, cursor string, limit int) (*FeedResponse, error) {
	params := url.Values{}
	params.Set("feed", feed)
	params.Set("limit", strconv.Itoa(ClampLimit(limit)))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp FeedResponse
	if err := c.GetJSON(GetFeedEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLikes fetches one page of likers for a subject URI
func (c *Client) GetLikes(uri, cid, cursor string, limit int) (*LikesResponse, error) {
	params := url.Values{}
	params.Set("uri", uri)
	params.Set("limit", strconv.Itoa(ClampLimit(limit)))
	if cid != "" {
		params.Set("cid", cid)
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp LikesResponse
	if err := c.GetJSON(GetLikesEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRepostedBy fetches one page of reposters for a post URI
func (c *Client) GetRepostedBy(uri, cursor string, limit int) (*RepostedByResponse, error) {
	params := url.Values{}
	params.Set("uri", uri)
	params.Set("limit", strconv.Itoa(ClampLimit(limit)))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp RepostedByResponse
	if err := c.GetJSON(GetRepostedByEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPostThread fetches a post's reply tree down to the given depth
func (c *Client) GetPostThread(uri string, depth int) (*ThreadResponse, error) {
	params := url.Values{}
	params.Set("uri", uri)
	if depth > 0 {
		params.Set("depth", strconv.Itoa(depth))
	}

	var resp ThreadResponse
	if err := c.GetJSON(GetPostThreadEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFeedGenerator resolves a feed generator record to its view
func (c *Client) GetFeedGenerator(feed string) (*FeedGeneratorResponse, error) {
	params := url.Values{}
	params.Set("feed", feed)

	var resp FeedGeneratorResponse
	if err := c.GetJSON(GetFeedGeneratorEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches an actor profile by handle or DID
func (c *Client) GetProfile(actor string) (*Profile, error) {
	params := url.Values{}
	params.Set("actor", actor)

	var resp Profile
	if err := c.GetJSON(GetProfileEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAuthorFeed fetches one page of an actor's own posts
func (c *Client) GetAuthorFeed(actor string, limit int) (*FeedResponse, error) {
	params := url.Values{}
	params.Set("actor", actor)
	params.Set("limit", strconv.Itoa(ClampLimit(limit)))

	var resp FeedResponse
	if err := c.GetJSON(GetAuthorFeedEndpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
