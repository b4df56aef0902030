package markup

// Reset clears all ANSI attributes. Exported so renderers can re-terminate
// styled text they truncate.
const Reset = "\x1b[0m"

// colorEscapes maps the one-letter escape alphabet to ANSI attribute
// sequences: lowercase letters are foreground colors, uppercase letters the
// matching background colors, plus reverse (!), bold (*), underline (_) and
// reset (s).
var colorEscapes = map[rune]string{
	'k': "\x1b[30m",
	'r': "\x1b[31m",
	'g': "\x1b[32m",
	'y': "\x1b[33m",
	'b': "\x1b[34m",
	'm': "\x1b[35m",
	'c': "\x1b[36m",
	'w': "\x1b[37m",
	'K': "\x1b[40m",
	'R': "\x1b[41m",
	'G': "\x1b[42m",
	'Y': "\x1b[43m",
	'B': "\x1b[44m",
	'M': "\x1b[45m",
	'C': "\x1b[46m",
	'W': "\x1b[47m",
	'!': "\x1b[7m",
	'*': "\x1b[1m",
	'_': "\x1b[4m",
	's': Reset,
}

// expandEscapes substitutes \x escapes in s and reports how many display
// codepoints the substitutions removed. Recognized escapes drop both
// characters (the ANSI replacement is invisible); `\\` and unrecognized
// escapes drop only the backslash. When anything was substituted a single
// trailing reset is appended so styling never bleeds into the next line.
func expandEscapes(s string) (string, int) {
	var (
		out         []rune
		drop        int
		substituted bool
	)

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 >= len(runes) {
			out = append(out, r)
			continue
		}

		next := runes[i+1]
		i++
		switch {
		case next == '\\':
			out = append(out, '\\')
			drop++
		case colorEscapes[next] != "":
			out = append(out, []rune(colorEscapes[next])...)
			drop += 2
			substituted = true
		default:
			out = append(out, next)
			drop++
		}
	}

	if substituted {
		out = append(out, []rune(Reset)...)
	}
	return string(out), drop
}
