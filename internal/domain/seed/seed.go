package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// TermType identifies how a search term should be interpreted by a
// capture source.
type TermType string

const (
	TermKeyword      TermType = "keyword"
	TermHashtag      TermType = "hashtag"
	TermPeople       TermType = "people"
	TermOrganization TermType = "organization"
	TermGroup        TermType = "group"
	TermDomain       TermType = "domain"
	TermURLSeed      TermType = "urlSeed"
	TermCategory     TermType = "category"
)

// SearchTerm is a single scrapeable query derived from a Seed.
type SearchTerm struct {
	Type  TermType
	Value string
}

// EngagementFilter sets minimum interaction counts a seed is interested in.
type EngagementFilter struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Seed is a user-declared discovery request. Seeds are read-only input;
// they are never mutated and have no lifecycle beyond the run that
// consumes them. All list fields are plural; comma-splitting happens at
// whatever boundary produced the seed file, never here.
type Seed struct {
	Name             string           `json:"name,omitempty"`
	Topic            string           `json:"topic,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
	Hashtags         []string         `json:"hashtags,omitempty"`
	People           []string         `json:"people,omitempty"`
	Organizations    []string         `json:"organizations,omitempty"`
	Groups           []string         `json:"groups,omitempty"`
	DomainMentions   []string         `json:"domainMentions,omitempty"`
	URLSeeds         []string         `json:"urlSeeds,omitempty"`
	Category         string           `json:"category,omitempty"`
	Platforms        []string         `json:"platforms,omitempty"`
	ContentTypes     []string         `json:"contentTypes,omitempty"`
	EngagementFilter EngagementFilter `json:"engagementFilter"`
	Days             int              `json:"days,omitempty"`
	Language         string           `json:"language,omitempty"`
	URLsFile         string           `json:"urlsFile,omitempty"`
}

// Load reads a seed configuration file (a JSON array of seeds). A seed
// referencing an external urlsFile gets that file's URLs (one per line,
// relative paths resolved against the config's directory) appended to
// its URLSeeds.
func Load(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed config: %w", err)
	}

	var seeds []Seed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parsing seed config: %w", err)
	}

	for i := range seeds {
		if seeds[i].URLsFile == "" {
			continue
		}
		urls, err := loadURLsFile(filepath.Dir(path), seeds[i].URLsFile)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		seeds[i].URLSeeds = append(seeds[i].URLSeeds, urls...)
	}

	return seeds, nil
}

func loadURLsFile(baseDir, path string) ([]string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading urls file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}

// Terms expands a seed into its ordered list of search terms. Ordering
// follows field declaration order and determines scrape order.
func (s Seed) Terms() []SearchTerm {
	var terms []SearchTerm

	add := func(t TermType, values []string, prefix func(string) string) {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if prefix != nil {
				v = prefix(v)
			}
			terms = append(terms, SearchTerm{Type: t, Value: v})
		}
	}

	add(TermKeyword, s.Keywords, nil)
	add(TermHashtag, s.Hashtags, func(v string) string {
		if strings.HasPrefix(v, "#") {
			return v
		}
		return "#" + v
	})
	add(TermPeople, s.People, nil)
	add(TermOrganization, s.Organizations, nil)
	add(TermGroup, s.Groups, nil)
	add(TermDomain, s.DomainMentions, func(v string) string {
		if strings.HasPrefix(v, "site:") {
			return v
		}
		return "site:" + v
	})
	add(TermURLSeed, s.URLSeeds, nil)
	if v := strings.TrimSpace(s.Category); v != "" {
		terms = append(terms, SearchTerm{Type: TermCategory, Value: v})
	}

	return terms
}

// TargetsPlatform reports whether this seed targets the given platform.
// A seed with no platform list targets every platform.
func (s Seed) TargetsPlatform(name string) bool {
	if len(s.Platforms) == 0 {
		return true
	}
	for _, p := range s.Platforms {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// WantsPosts reports whether this seed asks for post content. An empty
// content-type list means everything.
func (s Seed) WantsPosts() bool {
	if len(s.ContentTypes) == 0 {
		return true
	}
	for _, ct := range s.ContentTypes {
		if strings.EqualFold(ct, "post") {
			return true
		}
	}
	return false
}

var (
	unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// FolderName returns the per-term working folder name,
// "{type}_{value}" with unsafe path characters replaced.
func (t SearchTerm) FolderName() string {
	safe := unsafePathChars.ReplaceAllString(t.Value, "_")
	safe = underscoreRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	return fmt.Sprintf("%s_%s", t.Type, safe)
}
