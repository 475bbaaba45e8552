package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/BVStecnologia/youtube-monitor/internal/model"
)

const apiBase = "https://www.googleapis.com/youtube/v3"

// Client is a thin YouTube Data API v3 client. Tokens are passed per call:
// the credential monitor owns which token is current, so the client holds no
// credential state of its own. Calls are paced to stay inside the per-key
// quota.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: apiBase,
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// NewClientWithBase is used by tests to point the client at a stub server.
func NewClientWithBase(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// TestToken performs the direct introspection test: list the channels owned
// by the token's account. A 200 with at least one item means the token is
// usable. A 401 (or any non-200) means it is not; the caller decides whether
// to refresh.
func (c *Client) TestToken(ctx context.Context, accessToken string) (bool, error) {
	if accessToken == "" {
		return false, nil
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("mine", "true")

	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	status, err := c.get(ctx, "/channels", q, accessToken, &resp)
	if err != nil {
		return false, fmt.Errorf("%w: token introspection: %v", model.ErrTransient, err)
	}
	if status != http.StatusOK {
		return false, nil
	}
	return len(resp.Items) > 0, nil
}

// SearchResult is one video returned by a publishedAfter search.
type SearchResult struct {
	VideoID     string
	Title       string
	PublishedAt time.Time
}

// Search lists videos published on a channel after the given watermark,
// newest window bounded by maxResults.
func (c *Client) Search(ctx context.Context, accessToken, channelID string, publishedAfter time.Time, maxResults int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("channelId", channelID)
	q.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("order", "date")

	var resp struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				PublishedAt time.Time `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"items"`
	}
	status, err := c.get(ctx, "/search", q, accessToken, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: video search: %v", model.ErrTransient, err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, fmt.Errorf("%w: video search returned %d", model.ErrAuth, status)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: video search returned %d", model.ErrTransient, status)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, SearchResult{
			VideoID:     item.ID.VideoID,
			Title:       item.Snippet.Title,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}
	return results, nil
}

// VideoDetails is the snippet+statistics block for a single video.
type VideoDetails struct {
	VideoID      string
	Title        string
	Description  string
	Tags         []string
	ChannelTitle string
	PublishedAt  time.Time
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// Details fetches the full metadata of a video.
func (c *Client) Details(ctx context.Context, accessToken, videoID string) (*VideoDetails, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", videoID)

	var resp struct {
		Items []struct {
			Snippet struct {
				Title        string    `json:"title"`
				Description  string    `json:"description"`
				Tags         []string  `json:"tags"`
				ChannelTitle string    `json:"channelTitle"`
				PublishedAt  time.Time `json:"publishedAt"`
			} `json:"snippet"`
			Statistics struct {
				ViewCount    string `json:"viewCount"`
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	status, err := c.get(ctx, "/videos", q, accessToken, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: video details: %v", model.ErrTransient, err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, fmt.Errorf("%w: video details returned %d", model.ErrAuth, status)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: video details returned %d", model.ErrTransient, status)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: video %s", model.ErrNotFound, videoID)
	}

	item := resp.Items[0]
	return &VideoDetails{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Tags:         item.Snippet.Tags,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		CommentCount: parseCount(item.Statistics.CommentCount),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, accessToken string, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// parseCount tolerates the string-typed counters the API returns.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
