// internal/service/classify/classifier.go

package classify

import "strings"

// GeneralInsight is the sentinel label returned when no rule matches.
const GeneralInsight = "General AI Insight"

// Classifier is a rule-based topic classifier over free text.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier over the given ordered rule table.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// NewDefaultClassifier creates a classifier with the standard rule set.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules())
}

// Classify returns the first matching category in rule declaration
// order, or GeneralInsight when nothing matches.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range c.rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(lower) {
				return rule.Label
			}
		}
	}
	return GeneralInsight
}

// ClassifyAll returns every matching category in declaration order, or
// a single-element GeneralInsight list when nothing matches.
func (c *Classifier) ClassifyAll(text string) []string {
	lower := strings.ToLower(strings.TrimSpace(text))

	var matched []string
	for _, rule := range c.rules {
		for _, pattern := range rule.Patterns {
			if pattern.MatchString(lower) {
				matched = append(matched, rule.Label)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{GeneralInsight}
	}
	return matched
}
