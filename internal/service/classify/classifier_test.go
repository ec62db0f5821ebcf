package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFirstMatchWins(t *testing.T) {
	c := NewDefaultClassifier()

	// Matches both Funding and Hiring; Funding is declared first.
	got := c.Classify("We raised a seed round and we are hiring engineers!")
	assert.Equal(t, "Funding", got)
}

func TestClassifyCategories(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"funding amount", "Thrilled to announce our $10M Series A", "Funding"},
		{"recruitment tooling", "How AI-powered sourcing changes talent acquisition", "AI Recruitment"},
		{"hiring post", "We're hiring! Join our team in Berlin.", "Hiring"},
		{"genai", "Building autonomous agents with LangChain", "LLM Agent / GenAI"},
		{"research", "In this preprint we propose a new attention variant", "Research Paper"},
		{"arxiv only", "Full details: arxiv.org/abs/2405.1", "Research Paper"},
		{"product", "Introducing our latest feature for dashboards", "Product Launch / Update"},
		{"open source", "Check the repo at github.com/acme/tool", "Open Source"},
		{"event", "Register now for our webinar on Friday", "Event / Webinar"},
		{"accelerator", "Excited for demo day with our cohort", "Startup Pitch / Accelerator"},
		{"opinion", "I believe remote work is here to stay", "Personal Opinion"},
		{"partnership", "Acme announces partnership with Initech", "News / Partnership"},
		{"case insensitive", "WE RAISED A SEED ROUND", "Funding"},
		{"no match", "Lovely weather on the lake today", GeneralInsight},
		{"empty", "", GeneralInsight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifyAll(t *testing.T) {
	c := NewDefaultClassifier()

	got := c.ClassifyAll("We raised $5M and we're hiring! Join our team.")
	assert.Equal(t, []string{"Funding", "Hiring"}, got)

	assert.Equal(t, []string{GeneralInsight}, c.ClassifyAll("nothing relevant here"))
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewDefaultClassifier()
	text := "Introducing our new release, now open source on github.com/acme/x"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
}
