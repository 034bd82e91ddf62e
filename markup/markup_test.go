package markup_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/inkframe/markup"
)

var (
	normal     = markup.Style{}
	bold       = markup.Style{Bold: true}
	italic     = markup.Style{Italic: true}
	boldItalic = markup.Style{Bold: true, Italic: true}
)

func TestParseToggleRelativeToRunningStyle(t *testing.T) {
	got := markup.Parse("a **b** c **d** e", normal)
	want := []markup.Run{
		{Text: "a ", Style: normal},
		{Text: "b", Style: bold},
		{Text: " c ", Style: normal},
		{Text: "d", Style: bold},
		{Text: " e", Style: normal},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestParseNestedToggle(t *testing.T) {
	got := markup.Parse("**bold _mixed_ still bold**", normal)
	want := []markup.Run{
		{Text: "bold ", Style: bold},
		{Text: "mixed", Style: boldItalic},
		{Text: " still bold", Style: bold},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs:\n got=%+v\nwant=%+v", got, want)
	}
}

// 基础样式为粗体时，** 会把粗体关掉。
func TestParseToggleFromBoldBase(t *testing.T) {
	got := markup.Parse("x **y** _z_", bold)
	want := []markup.Run{
		{Text: "x ", Style: bold},
		{Text: "y", Style: normal},
		{Text: " ", Style: bold},
		{Text: "z", Style: boldItalic},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected runs:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestParseUnterminatedMarkersAreLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want []markup.Run
	}{
		{"a ** b", []markup.Run{{Text: "a ** b", Style: normal}}},
		{"snake_case", []markup.Run{{Text: "snake_case", Style: normal}}},
		{"2*3=6", []markup.Run{{Text: "2*3=6", Style: normal}}},
		{"**open _it_", []markup.Run{{Text: "**open ", Style: normal}, {Text: "it", Style: italic}}},
		{"****", []markup.Run{{Text: "****", Style: normal}}},
	}
	for _, tc := range cases {
		got := markup.Parse(tc.in, normal)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parse(%q):\n got=%+v\nwant=%+v", tc.in, got, tc.want)
		}
	}
}

func TestParseWhitespaceParagraphYieldsNoRuns(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		if runs := markup.Parse(in, normal); len(runs) != 0 {
			t.Fatalf("Parse(%q) expected no runs, got %+v", in, runs)
		}
	}
}

func TestParseIterationCapKeepsRemainder(t *testing.T) {
	in := strings.Repeat("*", markup.MaxIterations+500) + " tail"
	runs := markup.Parse(in, normal)
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	if sb.String() != in {
		t.Fatalf("text lost after iteration cap: got %d bytes want %d", sb.Len(), len(in))
	}
}

func TestParseIterationCapCountsTopLevelTokens(t *testing.T) {
	// 每个粗体词加空格是 2 个顶层记号，共 900 个；标记内部的文字不计数
	words := strings.Repeat("**w** ", 450)
	runs := markup.Parse(words, normal)
	bold := 0
	for _, r := range runs {
		if r.Style.Bold {
			bold++
		}
	}
	if bold != 450 {
		t.Fatalf("450 bold words use 900 top-level tokens and must all parse, got %d bold runs", bold)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	in := "one **two _three_** four_ five"
	first := markup.Parse(in, italic)
	for i := 0; i < 5; i++ {
		if again := markup.Parse(in, italic); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

func TestParagraphs(t *testing.T) {
	got := markup.Paragraphs("line1\r\n\nline2")
	want := []string{"line1", "", "line2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseStyle(t *testing.T) {
	cases := map[string]markup.Style{
		"normal":      normal,
		"Bold":        bold,
		"italic":      italic,
		"bold-italic": boldItalic,
		"":            normal,
	}
	for in, want := range cases {
		got, err := markup.ParseStyle(in)
		if err != nil {
			t.Fatalf("ParseStyle(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStyle(%q)=%+v want %+v", in, got, want)
		}
		if in != "" && in != "Bold" && got.String() != in {
			t.Fatalf("String() round trip: %q -> %q", in, got.String())
		}
	}
	if _, err := markup.ParseStyle("heavy"); err == nil {
		t.Fatalf("expected error for unknown style")
	}
}
