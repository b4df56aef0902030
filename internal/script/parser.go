// Package script parses the slide mini-language: slides separated by ---,
// builds separated by --, fenced code blocks, and per-line alignment/color
// markup delegated to the markup package.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/declaim/declaim/internal/deck"
	"github.com/declaim/declaim/internal/emoji"
	"github.com/declaim/declaim/internal/markup"
)

const (
	slideSeparator = "---"
	buildSeparator = "--"
	fence          = "```"
)

type captureMode int

const (
	captureOff    captureMode = iota
	captureRun                // displayed and retained for execution
	captureNoExec             // displayed only
	captureSilent             // retained only
)

// Parser turns raw script lines into slides. Construct with NewParser; the
// zero value is not usable.
type Parser struct {
	table         emoji.Table
	lineNumbers   bool
	verticalSpace int
	warn          func(msg string)
}

// Option configures a Parser.
type Option func(*Parser)

// WithLineNumbers toggles the numbered token in front of displayed code
// lines. On by default.
func WithLineNumbers(on bool) Option {
	return func(p *Parser) { p.lineNumbers = on }
}

// WithVerticalSpace enables the too-tall warning for slides exceeding rows.
// Zero disables the check.
func WithVerticalSpace(rows int) Option {
	return func(p *Parser) { p.verticalSpace = rows }
}

// WithWarnHandler receives non-fatal diagnostics (too-tall slides). The
// handler may block to prompt for acknowledgment; parsing resumes after it
// returns.
func WithWarnHandler(fn func(msg string)) Option {
	return func(p *Parser) { p.warn = fn }
}

// NewParser creates a parser resolving emoji shortcodes against table.
func NewParser(table emoji.Table, opts ...Option) *Parser {
	p := &Parser{table: table, lineNumbers: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// pendingLine is a slide line awaiting finalization. Code lines stay raw
// until the slide ends because the number-token width depends on the
// slide's total code line count.
type pendingLine struct {
	parsed markup.Line
	isCode bool
	num    int
	text   string // highlighted display text with markup escapes
}

// Parse scans the raw lines into slides. Any invalid slide fails the parse
// as a whole; the caller reports the error once and presents an empty deck.
func (p *Parser) Parse(raw []string) ([]deck.Slide, error) {
	var (
		slides     []deck.Slide
		pending    []pendingLine
		boundaries []int
		snippets   []string
		code       []string
		mode       = captureOff
		lang       string
		codeNum    int
	)

	finalize := func() error {
		if len(pending) == 0 {
			// Two consecutive separators: coerce to a single blank line so
			// every slide has at least one.
			pending = append(pending, pendingLine{parsed: markup.Blank()})
		}
		boundaries = append(boundaries, len(pending))
		snippets = append(snippets, strings.Join(code, "\n"))

		lines := make([]markup.Line, len(pending))
		numWidth := len(strconv.Itoa(codeNum))
		for i, pl := range pending {
			if !pl.isCode {
				lines[i] = pl.parsed
				continue
			}
			text := pl.text
			if p.lineNumbers {
				text = fmt.Sprintf(`\b%*d\s %s`, numWidth, pl.num, text)
			}
			lines[i] = markup.ParseLine(text, p.table)
		}

		s, err := deck.NewSlide(lines, boundaries, snippets)
		if err != nil {
			return fmt.Errorf("slide %d: %w", len(slides)+1, err)
		}
		if p.verticalSpace > 0 && len(lines) > p.verticalSpace && p.warn != nil {
			p.warn(fmt.Sprintf("slide %d is %d lines tall; only %d rows fit on screen",
				len(slides)+1, len(lines), p.verticalSpace))
		}
		slides = append(slides, s)

		pending, boundaries, snippets, code = nil, nil, nil, nil
		codeNum = 0
		return nil
	}

	for _, line := range raw {
		switch {
		case mode != captureOff:
			if strings.TrimRight(line, " \t") == fence {
				mode, lang = captureOff, ""
				continue
			}
			if mode != captureSilent {
				codeNum++
				pending = append(pending, pendingLine{
					isCode: true,
					num:    codeNum,
					text:   p.highlightLine(line, lang),
				})
			}
			if mode != captureNoExec {
				code = append(code, line)
			}

		case line == slideSeparator:
			if err := finalize(); err != nil {
				return nil, err
			}

		case line == buildSeparator:
			boundaries = append(boundaries, len(pending))
			snippets = append(snippets, strings.Join(code, "\n"))

		case strings.HasPrefix(line, fence):
			switch arg := strings.TrimSpace(line[len(fence):]); arg {
			case "":
				mode = captureRun
			case "noexec":
				mode = captureNoExec
			case "silent":
				mode = captureSilent
			default:
				// A language tag: displayed and retained, lexed by chroma.
				mode, lang = captureRun, arg
			}

		default:
			pending = append(pending, pendingLine{parsed: markup.ParseLine(line, p.table)})
		}
	}

	// End of input finalizes an in-flight slide (including an unclosed code
	// block); a script ending right after a separator adds nothing.
	if len(pending) > 0 || len(boundaries) > 0 || len(code) > 0 {
		if err := finalize(); err != nil {
			return nil, err
		}
	}
	return slides, nil
}

// highlightLine picks the lexer-backed path for tagged blocks and the fixed
// pattern set otherwise.
func (p *Parser) highlightLine(line, lang string) string {
	if lang != "" {
		return highlightChroma(line, lang)
	}
	return Highlight(line)
}
