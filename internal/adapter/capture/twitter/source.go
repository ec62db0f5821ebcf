// internal/adapter/capture/twitter/source.go

package twitter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
)

const platformName = "twitter"

type authorizer struct {
	token string
}

func (a authorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// Config holds Twitter capture settings.
type Config struct {
	BearerToken string
	MaxResults  int
}

// Source captures recent posts from the Twitter v2 search API.
type Source struct {
	client     *twitter.Client
	maxResults int
}

// NewSource creates a Twitter capture source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.BearerToken == "" {
		return nil, fmt.Errorf("twitter: bearer token not configured")
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 25
	}

	return &Source{
		client: &twitter.Client{
			Authorizer: authorizer{token: cfg.BearerToken},
			Client: &http.Client{
				Timeout: time.Second * 15,
			},
			Host: "https://api.twitter.com",
		},
		maxResults: cfg.MaxResults,
	}, nil
}

// Name returns the platform name.
func (s *Source) Name() string {
	return platformName
}

// Search runs a recent-search query for the term and maps the results to
// captured posts.
func (s *Source) Search(ctx context.Context, term seed.SearchTerm) ([]post.CapturedPost, error) {
	query := buildQuery(term)

	opts := twitter.TweetRecentSearchOpts{
		MaxResults: s.maxResults,
		Expansions: []twitter.Expansion{twitter.ExpansionAuthorID},
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldAuthorID,
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldEntities,
		},
		UserFields: []twitter.UserField{twitter.UserFieldUserName},
	}

	resp, err := s.client.TweetRecentSearch(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("twitter search %q: %w", query, err)
	}

	usernames := make(map[string]string)
	if resp.Raw.Includes != nil {
		for _, u := range resp.Raw.Includes.Users {
			usernames[u.ID] = u.UserName
		}
	}

	var captured []post.CapturedPost
	for _, tweet := range resp.Raw.Tweets {
		cp := post.CapturedPost{
			Platform:   platformName,
			RawURL:     fmt.Sprintf("https://twitter.com/i/web/status/%s", tweet.ID),
			ActivityID: tweet.ID,
			Author:     usernames[tweet.AuthorID],
			Text:       tweet.Text,
		}

		if m := tweet.PublicMetrics; m != nil {
			cp.LikeCount = m.Likes
			cp.CommentCount = m.Replies
			cp.ShareCount = m.Retweets + m.Quotes
		}

		if tweet.Entities != nil {
			for _, u := range tweet.Entities.URLs {
				if u.ExpandedURL != "" {
					cp.Text += "\n" + u.ExpandedURL
				}
			}
		}

		captured = append(captured, cp)
	}

	return captured, nil
}

// buildQuery maps a search term onto Twitter query syntax.
func buildQuery(term seed.SearchTerm) string {
	switch term.Type {
	case seed.TermPeople, seed.TermOrganization:
		return fmt.Sprintf("from:%s -is:retweet", term.Value)
	case seed.TermDomain:
		return fmt.Sprintf("url:%q -is:retweet", strings.TrimPrefix(term.Value, "site:"))
	default:
		return fmt.Sprintf("%s -is:retweet lang:en", term.Value)
	}
}
