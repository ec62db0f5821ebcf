// internal/service/classify/rules.go

package classify

import "regexp"

// Rule pairs a category label with the ordered patterns that select it.
type Rule struct {
	Label    string
	Patterns []*regexp.Regexp
}

// DefaultRules returns the standard topic rule cascade. Declaration
// order is load-bearing: single-mode classification is first-match, so
// reordering rules changes observable output. Patterns are matched
// against lowercased input.
func DefaultRules() []Rule {
	return []Rule{
		{
			Label: "Funding",
			Patterns: compile(
				`\b(raised|secured|closed|investment|funded|series [abc])\b`,
				`\$[0-9]+[mkb]`,
				`\bvc\b`,
				`seed round`,
				`\bpitch\b`,
			),
		},
		{
			Label: "AI Recruitment",
			Patterns: compile(
				`ai[-\s]?powered sourcing`,
				`\bai recruitment\b`,
				`\bai hiring\b`,
				`tech hiring`,
				`recruitment tools`,
				`talent acquisition`,
				`hireez`,
				`seekout`,
				`entelo`,
				`recruiters?\b`,
				`scaling (tech )?hirings?`,
				`international (hiring|recruitment)`,
				`diversity (hiring|recruitment)`,
			),
		},
		{
			Label: "Hiring",
			Patterns: compile(
				`\bwe('?| are)? hiring\b`,
				`\bjoin our team\b`,
				`apply now`,
				`job (opening|posting)`,
				`\bopen position\b`,
				`\bhiring (genai|llm|ai)`,
			),
		},
		{
			Label: "LLM Agent / GenAI",
			Patterns: compile(
				`autonomous (agents|systems)`,
				`\bagentic ai\b`,
				`\bai agents\b`,
				`langchain`,
				`llms?`,
				`rag (pipeline|system)?`,
				`\bgenerative ai\b`,
				`\bgenai\b`,
				`openai|anthropic|claude|mistral|gpt-4`,
			),
		},
		{
			Label: "Research Paper",
			Patterns: compile(
				`arxiv\.org`,
				`we (propose|present|introduce)`,
				`our (method|approach|technique)`,
				`preprint|publication|paper`,
			),
		},
		{
			Label: "Product Launch / Update",
			Patterns: compile(
				`\blaunch(ed|ing)?\b`,
				`\bintroducing\b`,
				`our (latest|new) (feature|product|tool)`,
				`\bproduct update\b`,
				`\bnew release\b`,
			),
		},
		{
			Label: "Open Source",
			Patterns: compile(
				`\bopen source\b`,
				`\bgithub\.com/[^\s]+`,
				`\bnpm (install|package)\b`,
				`\bpypi\b`,
				`repo link`,
			),
		},
		{
			Label: "Event / Webinar",
			Patterns: compile(
				`webinar`,
				`register now`,
				`\bconference\b`,
				`join us (live|at)`,
				`talk at`,
			),
		},
		{
			Label: "Startup Pitch / Accelerator",
			Patterns: compile(
				`demo day`,
				`startup school`,
				`accelerator`,
				`pitching`,
				`cohort`,
			),
		},
		{
			Label: "Personal Opinion",
			Patterns: compile(
				`\bi (believe|think|feel)\b`,
				`in my opinion`,
				`my thoughts on\b`,
				`\bfelt like\b`,
			),
		},
		{
			Label: "News / Partnership",
			Patterns: compile(
				`\bannounces\b`,
				`\bpartnership\b`,
				`breaking news`,
				`collaboration with`,
				`\bnews\b`,
			),
		},
	}
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}
