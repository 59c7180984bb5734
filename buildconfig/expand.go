package buildconfig

import (
	"regexp"
	"strings"
)

// MaxExpansionPasses bounds how many substitution rounds ExpandProperties
// performs. It stops runaway circular references; chains deeper than this are
// left partially expanded.
const MaxExpansionPasses = 10

var propertyReference = regexp.MustCompile(`\$\(([^)]+)\)`)

// ExpandProperties replaces $(Name) references in value with entries from
// props. References to undefined names are left verbatim.
func ExpandProperties(value string, props *Properties) string {
	if props.Len() == 0 || !strings.Contains(value, "$(") {
		return value
	}

	for pass := 0; pass < MaxExpansionPasses; pass++ {
		next := propertyReference.ReplaceAllStringFunc(value, func(token string) string {
			name := strings.TrimSpace(token[2 : len(token)-1])
			if v, ok := props.Get(name); ok {
				return v
			}
			return token
		})
		if next == value {
			break
		}
		value = next
	}
	return value
}
