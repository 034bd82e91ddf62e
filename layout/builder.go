package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/inkframe/markup"
)

// Build 将原始文本解析为带样式的行：先按 \n 分段，段内解析标记，再按宽度贪心换行。
// 空文本（或仅含空白）返回零行。
func Build(text string, base markup.Style, opts BuildOptions) Document {
	if strings.TrimSpace(text) == "" {
		return Document{}
	}
	limit := opts.MaxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []Line
	for _, paragraph := range markup.Paragraphs(text) {
		runs := markup.Parse(paragraph, base)
		if len(runs) == 0 {
			// 空段落保留为空行，维持垂直间距
			lines = append(lines, Line{})
			continue
		}
		lines = append(lines, wrapTokens(splitRuns(runs), limit, opts)...)
	}
	return Document{Lines: lines}
}

// wrapTokens 贪心换行：加入某个非空白 token 会超宽时在它之前断行；
// 当前行为空时即使超宽也放入，保证前进，且从不在 token 内部拆分。
func wrapTokens(tokens []markup.Run, limit float64, opts BuildOptions) []Line {
	var (
		lines   []Line
		current Line
		width   float64
	)
	for _, tok := range tokens {
		w := measure(opts, tok)
		if len(current) > 0 && !tok.IsSpace() && width+w > limit {
			lines = append(lines, current)
			current = nil
			width = 0
		}
		current = append(current, tok)
		width += w
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

func measure(opts BuildOptions, run markup.Run) float64 {
	if opts.Measurer == nil {
		return 0
	}
	return opts.Measurer.MeasureText(run.Text, run.Style, opts.FontSize)
}

// LineWidth sums the measured width of every run at its own style.
func LineWidth(line Line, m Measurer, fontSize float64) float64 {
	opts := BuildOptions{Measurer: m, FontSize: fontSize}
	total := 0.0
	for _, run := range line {
		total += measure(opts, run)
	}
	return total
}

// splitRuns 把片段拆成保留空白的 token，空白 token 沿用来源片段的样式。
func splitRuns(runs []markup.Run) []markup.Run {
	var tokens []markup.Run
	for _, run := range runs {
		for _, tok := range tokenizeContent(run.Text) {
			tokens = append(tokens, markup.Run{Text: tok, Style: run.Style})
		}
	}
	return tokens
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}
