package markup

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// 标记语法：**文字** 切换粗体，_文字_ 切换斜体；未闭合的标记按原文输出。

// MaxIterations caps the number of top-level tokens consumed per paragraph;
// text nested inside a marker does not count. Once it is exceeded the
// untouched remainder is emitted as a single plain run.
const MaxIterations = 1000

// Style 描述一段文字的粗体/斜体状态，可同时为真。
type Style struct {
	Bold   bool `json:"bold"`
	Italic bool `json:"italic"`
}

// Marker identifies which flag an inline marker toggles.
type Marker int

const (
	MarkerBold Marker = iota
	MarkerItalic
)

// Toggle returns a copy of s with the flag selected by m inverted.
func (s Style) Toggle(m Marker) Style {
	switch m {
	case MarkerBold:
		s.Bold = !s.Bold
	case MarkerItalic:
		s.Italic = !s.Italic
	}
	return s
}

// String renders the style the way the scene DSL spells it.
func (s Style) String() string {
	switch {
	case s.Bold && s.Italic:
		return "bold-italic"
	case s.Bold:
		return "bold"
	case s.Italic:
		return "italic"
	default:
		return "normal"
	}
}

// ParseStyle accepts normal/bold/italic/bold-italic (case-insensitive).
func ParseStyle(v string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "normal", "regular":
		return Style{}, nil
	case "bold":
		return Style{Bold: true}, nil
	case "italic":
		return Style{Italic: true}, nil
	case "bold-italic", "bolditalic", "italic-bold":
		return Style{Bold: true, Italic: true}, nil
	default:
		return Style{}, fmt.Errorf("未知的文字样式 %q", v)
	}
}

// Run 是同一样式下的一段连续文字。
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// IsSpace reports whether the run consists only of whitespace.
func (r Run) IsSpace() bool {
	return r.Text != "" && strings.TrimSpace(r.Text) == ""
}

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Bold", Pattern: `\*\*[^*]+\*\*`},
		{Name: "Italic", Pattern: `_[^_]+_`},
		{Name: "Text", Pattern: `[^*_]+`},
		{Name: "Marker", Pattern: `[*_]`},
	})

	boldTokenType   = mustTokenType("Bold")
	italicTokenType = mustTokenType("Italic")
)

// Paragraphs splits raw text on explicit line breaks.
func Paragraphs(text string) []string {
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}

// Parse tokenizes one paragraph into styled runs. The running style starts at
// base; a marker's enclosed text is tokenized again with the toggled style,
// so markers nest. Whitespace-only paragraphs yield no runs.
func Parse(paragraph string, base Style) []Run {
	if strings.TrimSpace(paragraph) == "" {
		return nil
	}
	t := &tokenizer{budget: MaxIterations}
	t.parse(paragraph, base, true)
	return t.runs
}

type tokenizer struct {
	runs   []Run
	budget int
}

// parse tokenizes src. Only the top level spends the iteration budget.
func (t *tokenizer) parse(src string, running Style, top bool) {
	lex, err := markupLexer.LexString("", src)
	if err != nil {
		t.literal(src, running)
		return
	}
	offset := 0
	for {
		if top && t.budget <= 0 {
			t.literal(src[offset:], running)
			return
		}
		tok, err := lex.Next()
		if err != nil {
			t.literal(src[offset:], running)
			return
		}
		if tok.EOF() {
			return
		}
		if top {
			t.budget--
		}
		offset = tok.Pos.Offset + len(tok.Value)

		switch tok.Type {
		case boldTokenType:
			t.parse(tok.Value[2:len(tok.Value)-2], running.Toggle(MarkerBold), false)
		case italicTokenType:
			t.parse(tok.Value[1:len(tok.Value)-1], running.Toggle(MarkerItalic), false)
		default:
			// 普通文字与孤立的标记字符都按当前样式原样保留
			t.literal(tok.Value, running)
		}
	}
}

// literal appends text, merging with the previous run when the style matches
// so a stray marker character never splits a word.
func (t *tokenizer) literal(text string, style Style) {
	if text == "" {
		return
	}
	if n := len(t.runs); n > 0 && t.runs[n-1].Style == style {
		t.runs[n-1].Text += text
		return
	}
	t.runs = append(t.runs, Run{Text: text, Style: style})
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := markupLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
