// Package classifier recognizes mail sent by known automated senders and
// swaps the mangled body for a pre-authored display fragment.
package classifier

import "strings"

// Rule pairs a matcher with the static HTML shown when it matches.
type Rule struct {
	Name     string
	Match    func(content string) bool
	Fragment string
}

type Classifier struct {
	rules []Rule
}

// New builds a classifier evaluating rules in order.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns the classifier with the built-in sender table.
func Default() *Classifier {
	return New(builtinRules()...)
}

// Classify returns the first rule matching content.
func (c *Classifier) Classify(content string) (Rule, bool) {
	if c == nil {
		return Rule{}, false
	}
	for _, r := range c.rules {
		if r.Match(content) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the rule table.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// ContainsAll builds a case-insensitive matcher requiring every phrase.
func ContainsAll(phrases ...string) func(string) bool {
	return func(content string) bool {
		lower := strings.ToLower(content)
		for _, p := range phrases {
			if !strings.Contains(lower, strings.ToLower(p)) {
				return false
			}
		}
		return true
	}
}

// AnyOf matches when at least one of the matchers does.
func AnyOf(matchers ...func(string) bool) func(string) bool {
	return func(content string) bool {
		for _, m := range matchers {
			if m(content) {
				return true
			}
		}
		return false
	}
}
