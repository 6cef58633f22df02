package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultSearchURL is the publisher's post-search API endpoint.
	DefaultSearchURL = "https://bbs-api.miyoushe.com/painter/wapi/searchPosts"

	// versionSubjectFormat is the title prefix of official version-info
	// station posts; the post's creation time is the version release time.
	versionSubjectFormat = "【绝区零绳网情报站】%s版本"

	searchTimeout = 10 * time.Second
)

// Search failure classes.
var (
	ErrNoResult        = errors.New("no version post found")
	ErrSubjectMismatch = errors.New("result subject does not match version")
)

// Searcher finds the publication time of a version's info-station post.
type Searcher interface {
	VersionPost(ctx context.Context, version string) (time.Time, error)
}

// SearchClient queries the publisher's search API over HTTP.
type SearchClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSearchClient creates a SearchClient against DefaultSearchURL.
func NewSearchClient() *SearchClient {
	return &SearchClient{
		baseURL: DefaultSearchURL,
		httpClient: &http.Client{
			Timeout: searchTimeout,
		},
	}
}

// NewSearchClientWithURL creates a SearchClient against a custom endpoint.
func NewSearchClientWithURL(baseURL string) *SearchClient {
	c := NewSearchClient()
	c.baseURL = baseURL
	return c
}

// searchResponse is the API envelope. Only the fields we read.
type searchResponse struct {
	Retcode int    `json:"retcode"`
	Message string `json:"message"`
	Data    struct {
		List []struct {
			Post struct {
				Subject   string `json:"subject"`
				CreatedAt int64  `json:"created_at"`
			} `json:"post"`
		} `json:"list"`
	} `json:"data"`
}

// VersionPost asks the search API for the single most relevant post
// matching the version-info subject and returns its creation time. The
// result only counts if its subject literally contains the expected
// version-labeled prefix; anything else is a miss, not a guess.
func (c *SearchClient) VersionPost(ctx context.Context, version string) (time.Time, error) {
	subject := fmt.Sprintf(versionSubjectFormat, version)

	params := url.Values{}
	params.Set("keyword", subject)
	params.Set("size", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return time.Time{}, fmt.Errorf("parsing search response: %w", err)
	}

	if result.Retcode != 0 {
		return time.Time{}, fmt.Errorf("search API retcode %d: %s", result.Retcode, result.Message)
	}
	if len(result.Data.List) == 0 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoResult, version)
	}

	post := result.Data.List[0].Post
	if !strings.Contains(post.Subject, subject) {
		return time.Time{}, fmt.Errorf("%w: got %q", ErrSubjectMismatch, post.Subject)
	}

	return time.Unix(post.CreatedAt, 0), nil
}
