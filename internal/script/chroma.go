package script

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// highlightChroma lexes one code line with the named chroma lexer and maps
// token categories onto the same color escape alphabet the built-in
// highlighter uses. Unknown languages and lexer failures fall back to the
// pattern highlighter.
func highlightChroma(line, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return Highlight(line)
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, line)
	if err != nil {
		return Highlight(line)
	}

	var out strings.Builder
	for _, tok := range it.Tokens() {
		if tok.Type == chroma.EOFType {
			break
		}
		value := escapeMarkup(strings.TrimRight(tok.Value, "\n"))
		if value == "" {
			continue
		}
		if c, ok := chromaColor(tok.Type); ok {
			out.WriteByte('\\')
			out.WriteByte(c)
			out.WriteString(value)
			out.WriteString(`\s`)
		} else {
			out.WriteString(value)
		}
	}
	return out.String()
}

// chromaColor collapses chroma's token taxonomy onto the escape alphabet.
func chromaColor(t chroma.TokenType) (byte, bool) {
	switch {
	case t.InSubCategory(chroma.LiteralString):
		return 'g', true
	case t.InSubCategory(chroma.LiteralNumber):
		return 'b', true
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo || t == chroma.KeywordConstant:
		return 'm', true
	case t == chroma.NameClass || t == chroma.NameNamespace || t == chroma.KeywordType:
		return 'c', true
	case t.InCategory(chroma.Keyword):
		return 'y', true
	case t.InCategory(chroma.Comment):
		return 'w', true
	default:
		return 0, false
	}
}
