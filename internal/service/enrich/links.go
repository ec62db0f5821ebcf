// internal/service/enrich/links.go

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageTextLimit caps the visible text pulled from an external page.
const PageTextLimit = 5000

var (
	linkPattern    = regexp.MustCompile(`https?://[^\s)\]}"']+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// ExtractLinks returns every http(s) URL found in text, de-duplicated
// and in order of first appearance.
func ExtractLinks(text string) []string {
	matches := linkPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var links []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		links = append(links, m)
	}
	return links
}

// LinkFetcher retrieves the visible text of external pages referenced by
// a post. Fetches are best-effort and bounded by a per-request timeout.
type LinkFetcher struct {
	client *http.Client
}

// NewLinkFetcher creates a fetcher with the given per-request timeout.
func NewLinkFetcher(timeout time.Duration) *LinkFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LinkFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchPageText downloads a page and returns its visible text with
// script, style and layout noise removed, collapsed whitespace, capped
// at PageTextLimit. Binary documents (.pdf) are skipped.
func (f *LinkFetcher) FetchPageText(ctx context.Context, url string) (string, error) {
	if strings.HasSuffix(strings.ToLower(strings.TrimRight(url, "/")), ".pdf") {
		return "", fmt.Errorf("skipping binary document: %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; insight-pipeline/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", url, err)
	}

	doc.Find("script, style, noscript, head, iframe").Remove()

	text := whitespaceRuns.ReplaceAllString(doc.Find("body").Text(), " ")
	text = strings.TrimSpace(text)
	if len(text) > PageTextLimit {
		text = text[:PageTextLimit]
	}
	return text, nil
}
