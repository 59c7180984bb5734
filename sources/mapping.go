package sources

import (
	"regexp"
	"strings"
)

// Mapping routes packages whose ID matches Pattern to the named sources.
type Mapping struct {
	Pattern     string   `json:"pattern"`
	SourceNames []string `json:"sourceNames"`

	re *regexp.Regexp
}

// NewMapping compiles pattern into an anchored, case-insensitive match in
// which '*' matches any sequence.
func NewMapping(pattern string, sourceNames ...string) *Mapping {
	return &Mapping{
		Pattern:     pattern,
		SourceNames: append([]string{}, sourceNames...),
		re:          compilePattern(pattern),
	}
}

func compilePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("(?i)^" + strings.Join(parts, ".*") + "$")
}

// Matches reports whether packageID matches the pattern.
func (m *Mapping) Matches(packageID string) bool {
	if m.re == nil {
		m.re = compilePattern(m.Pattern)
	}
	return m.re.MatchString(packageID)
}

func (m *Mapping) addSource(name string) {
	for _, existing := range m.SourceNames {
		if strings.EqualFold(existing, name) {
			return
		}
	}
	m.SourceNames = append(m.SourceNames, name)
}

// addMapping records source under pattern, creating the rule on first use.
func addMapping(mappings []*Mapping, pattern, source string) []*Mapping {
	pattern = strings.TrimSpace(pattern)
	source = strings.TrimSpace(source)
	if pattern == "" {
		return mappings
	}

	for _, m := range mappings {
		if strings.EqualFold(m.Pattern, pattern) {
			if source != "" {
				m.addSource(source)
			}
			return mappings
		}
	}

	m := NewMapping(pattern)
	if source != "" {
		m.addSource(source)
	}
	return append(mappings, m)
}
