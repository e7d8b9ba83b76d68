package intercept

import (
	"fmt"
	"regexp"
	"strings"
)

// CompileGlob converts a URL glob to an anchored regular expression.
// "**" matches across path segments, "*" within one, and "{a,b}" matches
// either alternative. Everything else is literal.
func CompileGlob(glob string) (*regexp.Regexp, error) {
	if glob == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	var b strings.Builder
	b.WriteString("^")
	depth := 0
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			b.WriteString(".*")
			for i+1 < len(runes) && runes[i+1] == '*' {
				i++
			}
		case r == '*':
			b.WriteString("[^/]*")
		case r == '{':
			depth++
			b.WriteString("(?:")
		case r == '}' && depth > 0:
			depth--
			b.WriteString(")")
		case r == ',' && depth > 0:
			b.WriteString("|")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced braces in pattern %q", glob)
	}
	b.WriteString("$")

	return regexp.Compile(b.String())
}
