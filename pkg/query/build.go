package query

import (
	"errors"
	"strings"
)

var errUnbalanced = errors.New("unbalanced parentheses")

// Build joins several user patterns into one expression. Patterns
// without parentheses are grouped; patterns with balanced parentheses are
// used as they are. With all set, every pattern must appear in order.
func Build(patterns []string, all bool) (string, error) {
	parsed := make([]string, 0, len(patterns))
	for _, pat := range patterns {
		opens := strings.Count(pat, "(")
		switch {
		case opens == 0:
			parsed = append(parsed, "("+pat+")")
		case opens == strings.Count(pat, ")"):
			parsed = append(parsed, pat)
		default:
			return "", &InvalidPatternError{Pattern: pat, Err: errUnbalanced}
		}
	}

	sep := "|"
	if all {
		sep = "(.+)?"
	}
	return strings.Join(parsed, sep), nil
}

// DevOnly narrows pattern to development packages by requiring "dev"
// after the match. A trailing "$" anchor stays at the end.
func DevOnly(pattern string) string {
	end := ""
	if strings.HasSuffix(pattern, "$") {
		pattern = strings.TrimSuffix(pattern, "$")
		end = "$"
	}
	return pattern + "(.+)dev" + end
}

// StripArch removes an architecture qualifier, "python3:any" becomes
// "python3".
func StripArch(name string) string {
	if i := strings.LastIndexByte(name, ':'); i > 0 {
		return name[:i]
	}
	return name
}
