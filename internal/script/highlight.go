package script

import (
	"regexp"
	"strings"
)

// highlightRules is the fixed precedence list for the built-in highlighter:
// string literals, reserved (control) words, special words, type-like
// tokens, numeric literals, then declaration keywords. The rules combine
// into one alternation so each position is claimed by the earliest match,
// ties going to the earlier rule.
var highlightRules = []struct {
	color   byte
	pattern string
}{
	{'g', `"(?:\\.|[^"\\])*"`},
	{'y', `\b(?:break|case|catch|continue|default|defer|do|else|finally|for|go|goto|if|match|return|select|switch|then|throw|try|while|yield)\b`},
	{'m', `\b(?:true|false|nil|null|none|this|self|super|new|make|len|cap|print|println|printf)\b`},
	{'c', `\b[A-Z][A-Za-z0-9_]*\b`},
	{'b', `\b\d+(?:\.\d+)?\b`},
	{'r', `\b(?:abstract|chan|class|const|def|enum|extends|final|fn|func|implicit|import|interface|lazy|let|module|mut|object|override|package|private|protected|pub|sealed|struct|trait|type|use|val|var|with)\b`},
}

var combinedHighlight = func() *regexp.Regexp {
	alts := make([]string, len(highlightRules))
	for i, r := range highlightRules {
		alts[i] = "(" + r.pattern + ")"
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}()

// Highlight wraps recognized tokens in line with markup color escapes and
// escapes literal backslashes so code text survives the markup parser
// untouched.
func Highlight(line string) string {
	var out strings.Builder
	last := 0
	for _, loc := range combinedHighlight.FindAllStringSubmatchIndex(line, -1) {
		out.WriteString(escapeMarkup(line[last:loc[0]]))
		out.WriteByte('\\')
		out.WriteByte(colorFor(loc))
		out.WriteString(escapeMarkup(line[loc[0]:loc[1]]))
		out.WriteString(`\s`)
		last = loc[1]
	}
	out.WriteString(escapeMarkup(line[last:]))
	return out.String()
}

// colorFor maps the matched alternation branch back to its rule's color.
func colorFor(loc []int) byte {
	for i := range highlightRules {
		if loc[2*(i+1)] >= 0 {
			return highlightRules[i].color
		}
	}
	return 'w'
}

// escapeMarkup doubles backslashes so code like "\n" displays literally
// instead of being eaten as a markup escape.
func escapeMarkup(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}
