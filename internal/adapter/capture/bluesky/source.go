// internal/adapter/capture/bluesky/source.go

package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
)

const platformName = "bluesky"

// DefaultFirehoseURL is the public Jetstream endpoint filtered to post
// commits.
const DefaultFirehoseURL = "wss://jetstream2.us-east.bsky.network/subscribe?wantedCollections=app.bsky.feed.post"

// Config holds Bluesky capture settings.
type Config struct {
	FirehoseURL string

	// CollectWindow bounds how long one Search call listens to the
	// firehose before returning what it gathered.
	CollectWindow time.Duration

	// MaxPosts stops collection early once this many matches are found.
	MaxPosts int
}

// Source captures posts from the Bluesky Jetstream firehose. Unlike a
// query API, the firehose is listen-and-filter: Search reads live commit
// events for a bounded window and keeps the ones matching the term.
type Source struct {
	cfg Config
}

// NewSource creates a Bluesky capture source.
func NewSource(cfg Config) *Source {
	if cfg.FirehoseURL == "" {
		cfg.FirehoseURL = DefaultFirehoseURL
	}
	if cfg.CollectWindow <= 0 {
		cfg.CollectWindow = 30 * time.Second
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = 25
	}
	return &Source{cfg: cfg}
}

// Name returns the platform name.
func (s *Source) Name() string {
	return platformName
}

type jetstreamEvent struct {
	DID    string `json:"did"`
	Kind   string `json:"kind"`
	Commit *struct {
		Operation  string `json:"operation"`
		Collection string `json:"collection"`
		RKey       string `json:"rkey"`
		Record     *struct {
			Type      string   `json:"$type"`
			Text      string   `json:"text"`
			CreatedAt string   `json:"createdAt"`
			Langs     []string `json:"langs"`
		} `json:"record"`
	} `json:"commit"`
}

// Search listens to the firehose for the collect window and returns
// newly created posts whose text contains the term value.
func (s *Source) Search(ctx context.Context, term seed.SearchTerm) ([]post.CapturedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CollectWindow)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.cfg.FirehoseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to firehose: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the window closes.
	go func() {
		<-ctx.Done()
		conn.SetReadDeadline(time.Now())
	}()

	needle := strings.ToLower(strings.TrimPrefix(term.Value, "#"))

	var captured []post.CapturedPost
	for len(captured) < s.cfg.MaxPosts {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return captured, fmt.Errorf("reading firehose: %w", err)
		}

		var ev jetstreamEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		if ev.Kind != "commit" || ev.Commit == nil || ev.Commit.Record == nil {
			continue
		}
		if ev.Commit.Operation != "create" || ev.Commit.Collection != "app.bsky.feed.post" {
			continue
		}

		text := ev.Commit.Record.Text
		if !strings.Contains(strings.ToLower(text), needle) {
			continue
		}

		captured = append(captured, post.CapturedPost{
			Platform:   platformName,
			RawURL:     fmt.Sprintf("https://bsky.app/profile/%s/post/%s", ev.DID, ev.Commit.RKey),
			ActivityID: ev.Commit.RKey,
			Author:     ev.DID,
			Text:       text,
		})
	}

	return captured, nil
}
