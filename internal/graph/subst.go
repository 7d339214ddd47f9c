package graph

import (
	"regexp"
	"strings"
)

// Substitution is one (from, to) replacement applied to every string value
// in the document. From is a literal substring unless Pattern is set, in
// which case it is a regular expression.
type Substitution struct {
	From    string
	To      string
	Pattern bool
}

// Substitute applies subs, strictly in order, to every string value reachable
// in the document: record fields, nested objects, and array elements. All
// non-overlapping occurrences are replaced. Callers order variant-qualified
// entries before their unqualified prefixes so no identifier is partially
// substituted before its fuller form.
//
// Returns the number of string values changed.
func (d *Document) Substitute(subs []Substitution) (int, error) {
	type compiled struct {
		sub Substitution
		re  *regexp.Regexp
	}
	cs := make([]compiled, 0, len(subs))
	for _, s := range subs {
		c := compiled{sub: s}
		if s.Pattern {
			re, err := regexp.Compile(s.From)
			if err != nil {
				return 0, err
			}
			c.re = re
		}
		cs = append(cs, c)
	}

	changed := 0
	replace := func(s string) string {
		out := s
		for _, c := range cs {
			if c.re != nil {
				out = c.re.ReplaceAllString(out, c.sub.To)
			} else {
				out = strings.ReplaceAll(out, c.sub.From, c.sub.To)
			}
		}
		if out != s {
			changed++
		}
		return out
	}

	for _, r := range d.records {
		if r != nil {
			substValue(map[string]any(r), replace)
		}
	}
	return changed, nil
}

// substValue rewrites string values in place within maps and slices.
func substValue(v any, replace func(string) string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if s, ok := child.(string); ok {
				val[k] = replace(s)
			} else {
				substValue(child, replace)
			}
		}
	case []any:
		for i, child := range val {
			if s, ok := child.(string); ok {
				val[i] = replace(s)
			} else {
				substValue(child, replace)
			}
		}
	}
}
