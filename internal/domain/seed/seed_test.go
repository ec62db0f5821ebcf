package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{
			"name": "genai",
			"keywords": ["agentic ai", "llm agents"],
			"hashtags": ["GenAI"],
			"people": ["jane-doe"],
			"domainMentions": ["arxiv.org"],
			"platforms": ["twitter"],
			"days": 7
		}
	]`), 0o644))

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "genai", seeds[0].Name)
	assert.Equal(t, []string{"agentic ai", "llm agents"}, seeds[0].Keywords)
	assert.Equal(t, 7, seeds[0].Days)
}

func TestLoadURLsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "urls.txt"), []byte(
		"https://x.test/posts/a\n\n# a comment\nhttps://x.test/posts/b\n"), 0o644))

	path := filepath.Join(dir, "seeds.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"urlSeeds": ["https://x.test/posts/z"], "urlsFile": "urls.txt"}
	]`), 0o644))

	seeds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, []string{
		"https://x.test/posts/z",
		"https://x.test/posts/a",
		"https://x.test/posts/b",
	}, seeds[0].URLSeeds)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestTermsExpansion(t *testing.T) {
	s := Seed{
		Keywords:       []string{"agentic ai", " ", ""},
		Hashtags:       []string{"GenAI", "#hiring"},
		People:         []string{"jane-doe"},
		DomainMentions: []string{"arxiv.org", "site:github.com"},
		Category:       "ai",
	}

	terms := s.Terms()
	require.Len(t, terms, 7)

	assert.Equal(t, SearchTerm{Type: TermKeyword, Value: "agentic ai"}, terms[0])
	assert.Equal(t, SearchTerm{Type: TermHashtag, Value: "#GenAI"}, terms[1])
	assert.Equal(t, SearchTerm{Type: TermHashtag, Value: "#hiring"}, terms[2])
	assert.Equal(t, SearchTerm{Type: TermPeople, Value: "jane-doe"}, terms[3])
	assert.Equal(t, SearchTerm{Type: TermDomain, Value: "site:arxiv.org"}, terms[4])
	assert.Equal(t, SearchTerm{Type: TermDomain, Value: "site:github.com"}, terms[5])
	assert.Equal(t, SearchTerm{Type: TermCategory, Value: "ai"}, terms[6])
}

func TestTargetsPlatform(t *testing.T) {
	all := Seed{}
	assert.True(t, all.TargetsPlatform("twitter"))

	scoped := Seed{Platforms: []string{"Twitter", "reddit"}}
	assert.True(t, scoped.TargetsPlatform("twitter"))
	assert.True(t, scoped.TargetsPlatform("reddit"))
	assert.False(t, scoped.TargetsPlatform("bluesky"))
}

func TestWantsPosts(t *testing.T) {
	assert.True(t, Seed{}.WantsPosts())
	assert.True(t, Seed{ContentTypes: []string{"post"}}.WantsPosts())
	assert.False(t, Seed{ContentTypes: []string{"profile"}}.WantsPosts())
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		term SearchTerm
		want string
	}{
		{SearchTerm{Type: TermKeyword, Value: "agentic ai"}, "keyword_agentic_ai"},
		{SearchTerm{Type: TermHashtag, Value: "#GenAI"}, "hashtag_GenAI"},
		{SearchTerm{Type: TermDomain, Value: "site:arxiv.org"}, "domain_site_arxiv_org"},
		{SearchTerm{Type: TermKeyword, Value: "a  b//c"}, "keyword_a_b_c"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.term.FolderName())
	}
}
