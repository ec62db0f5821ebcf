// internal/adapter/capture/reddit/source.go

package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
)

const platformName = "reddit"

// Config holds Reddit capture settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Limit     int
}

// Source captures posts from Reddit's public search API. No credentials
// are needed; a distinctive User-Agent keeps rate limiting at bay.
type Source struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

// NewSource creates a Reddit capture source.
func NewSource(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.reddit.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "insight-pipeline/1.0"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 25
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: time.Second * 15,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limit:     cfg.Limit,
	}
}

// Name returns the platform name.
func (s *Source) Name() string {
	return platformName
}

type searchResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				SelfText    string `json:"selftext"`
				Permalink   string `json:"permalink"`
				URL         string `json:"url"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Author      string `json:"author"`
				IsVideo     bool   `json:"is_video"`
				Thumbnail   string `json:"thumbnail"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search queries Reddit for the term and maps results to captured posts.
func (s *Source) Search(ctx context.Context, term seed.SearchTerm) ([]post.CapturedPost, error) {
	query := strings.TrimPrefix(term.Value, "#")
	endpoint := fmt.Sprintf("%s/search.json?q=%s&limit=%d&sort=top&t=week",
		s.baseURL, url.QueryEscape(query), s.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	var captured []post.CapturedPost
	for _, child := range searchResp.Data.Children {
		d := child.Data

		text := d.Title
		if d.SelfText != "" {
			text += "\n\n" + d.SelfText
		}
		if d.URL != "" && !strings.Contains(d.URL, d.Permalink) {
			text += "\n" + d.URL
		}

		cp := post.CapturedPost{
			Platform:     platformName,
			RawURL:       s.baseURL + d.Permalink,
			Author:       d.Author,
			Text:         text,
			LikeCount:    d.Score,
			CommentCount: d.NumComments,
		}
		if d.IsVideo {
			cp.VideoURL = d.URL
		}
		if strings.HasPrefix(d.Thumbnail, "http") {
			cp.ImageURLs = append(cp.ImageURLs, d.Thumbnail)
		}

		captured = append(captured, cp)
	}

	return captured, nil
}
