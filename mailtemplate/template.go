// Package mailtemplate renders message templates holding {{placeholder}}
// tokens.
package mailtemplate

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/masa23/crmmail/model"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

var ErrTemplateNotFound = errors.New("template not found")

// Processed is a fully substituted message.
type Processed struct {
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
	TextContent string `json:"textContent"`
}

// splitTag separates the placeholder name from stray opening braces that
// fasttemplate keeps inside the tag, as in "{{{nom}}}" or "{{ a, {{b}}".
// prefix is the literal text before the innermost start tag.
func splitTag(tag string) (prefix, name string) {
	full := startTag + tag
	i := strings.LastIndex(full, startTag)
	return full[:i], full[i+len(startTag):]
}

// Substitute replaces every {{key}} token present in vars. Tokens without a
// value are written back unchanged.
func Substitute(s string, vars map[string]string) string {
	return fasttemplate.ExecuteFuncString(s, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		prefix, name := splitTag(tag)
		if v, ok := vars[name]; ok {
			return w.Write([]byte(prefix + v))
		}
		return w.Write([]byte(prefix + startTag + name + endTag))
	})
}

// Render substitutes vars into the three parts of t.
func Render(t model.EmailTemplate, vars map[string]string) Processed {
	return Processed{
		Subject:     Substitute(t.Subject, vars),
		HTMLContent: Substitute(t.HTMLContent, vars),
		TextContent: Substitute(t.TextContent, vars),
	}
}

// Tokens lists the distinct placeholder names used in s, in order of first
// appearance.
func Tokens(s string) []string {
	var tokens []string
	seen := map[string]bool{}
	fasttemplate.ExecuteFuncString(s, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		_, name := splitTag(tag)
		if !seen[name] {
			seen[name] = true
			tokens = append(tokens, name)
		}
		return 0, nil
	})
	return tokens
}

// Validate checks that every token used by t is declared in t.Variables.
func Validate(t model.EmailTemplate) error {
	declared := map[string]bool{}
	for _, v := range t.Variables {
		declared[v] = true
	}

	undeclared := map[string]bool{}
	for _, part := range []string{t.Subject, t.HTMLContent, t.TextContent} {
		for _, tok := range Tokens(part) {
			if !declared[tok] {
				undeclared[tok] = true
			}
		}
	}
	if len(undeclared) == 0 {
		return nil
	}

	names := make([]string, 0, len(undeclared))
	for n := range undeclared {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Errorf("template %q uses undeclared variables: %s", t.ID, strings.Join(names, ", "))
}

// Missing returns the declared variables of t absent from vars.
func Missing(t model.EmailTemplate, vars map[string]string) []string {
	var missing []string
	for _, v := range t.Variables {
		if _, ok := vars[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}
