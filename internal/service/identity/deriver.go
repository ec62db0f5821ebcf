// internal/service/identity/deriver.go

package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// unsafeIDChars matches everything that is not filesystem-safe on all
// target platforms.
var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Deriver computes a canonical URL and a stable short content id for a
// captured post. Derivation is a pure function: identical input always
// yields identical output within and across runs.
type Deriver struct {
	// BaseURL resolves relative post URLs to same-origin absolute ones,
	// e.g. "https://www.linkedin.com".
	BaseURL string

	// ActivityURLTemplate builds a post URL from a platform-native
	// activity identifier when no raw URL was captured, e.g.
	// "https://www.linkedin.com/feed/update/urn:li:activity:%s".
	ActivityURLTemplate string
}

// NewDeriver creates a deriver for the given platform origin.
func NewDeriver(baseURL, activityURLTemplate string) *Deriver {
	return &Deriver{
		BaseURL:             baseURL,
		ActivityURLTemplate: activityURLTemplate,
	}
}

// Derive returns the canonical URL (query and fragment stripped) and the
// content id for a post. When rawURL is absent it falls back to the
// platform activity identifier; with neither it returns
// post.ErrIdentityUnresolved and the caller must skip the post.
func (d *Deriver) Derive(rawURL, activityID string) (canonicalURL, contentID string, err error) {
	rawURL = strings.TrimSpace(rawURL)

	if rawURL == "" {
		if activityID == "" || d.ActivityURLTemplate == "" {
			return "", "", post.ErrIdentityUnresolved
		}
		rawURL = fmt.Sprintf(d.ActivityURLTemplate, activityID)
	}

	if strings.HasPrefix(rawURL, "/") && d.BaseURL != "" {
		rawURL = strings.TrimRight(d.BaseURL, "/") + rawURL
	}

	canonicalURL = Canonicalize(rawURL)
	if canonicalURL == "" {
		return "", "", post.ErrIdentityUnresolved
	}

	contentID = ContentID(canonicalURL)
	return canonicalURL, contentID, nil
}

// Canonicalize strips the query string and fragment from a URL.
func Canonicalize(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return strings.TrimSpace(rawURL)
}

// ContentID derives the filesystem-safe identifier for a canonical URL:
// the sanitized last path segment plus a short hash of the full URL, so
// two posts sharing a path segment cannot collide.
func ContentID(canonicalURL string) string {
	slug := canonicalURL
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	slug = unsafeIDChars.ReplaceAllString(slug, "_")

	sum := sha1.Sum([]byte(canonicalURL))
	return slug + "_" + hex.EncodeToString(sum[:])[:4]
}
