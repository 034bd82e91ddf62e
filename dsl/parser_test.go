package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/inkframe/dsl"
)

const sampleDSL = `
doc Quotes v1 {
  meta {
    title: "Summer"
    tags: [
      "beach"
      "quotes"
    ]
  }

  style {
    canvas: 9:16          // square | portrait | 1:1 | 9:16
    ink: #1e40af
    font: "Go"
    size: 64px
    line-height: 1.4x
    base: bold-italic
    caption: "@${user.handle}"
  }

  # 第一条
  note "beach.jpg" {
    text: "Hello **world**\nsecond line"
    transform: { x: 12 y: -30 scale: 1.2 }
  }

  note {
    "line one"
    "line _two_"; size: 36pt
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Quotes" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	kinds := []string{}
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "meta,style,note,note" {
		t.Fatalf("unexpected section kinds: %s", got)
	}

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.Text() != "Summer" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	tags := meta.Block.Statements[1].Assignment
	if tags == nil || tags.Value.Array == nil || len(tags.Value.Array.Values) != 2 {
		t.Fatalf("expected tags array with 2 values")
	}

	style := map[string]*dsl.Value{}
	for _, st := range doc.Sections[1].Style.Block.Statements {
		if st.Assignment == nil {
			t.Fatalf("style block only holds assignments, got %+v", st)
		}
		style[st.Assignment.Key] = st.Assignment.Value
	}
	checks := map[string]string{
		"canvas":      "9:16",
		"ink":         "#1e40af",
		"font":        "Go",
		"size":        "64px",
		"line-height": "1.4x",
		"base":        "bold-italic",
		"caption":     "@${user.handle}",
	}
	for key, want := range checks {
		if got := style[key].Text(); got != want {
			t.Fatalf("style %s = %q, want %q", key, got, want)
		}
	}
	if style["canvas"].Ratio == nil || style["ink"].Color == nil || style["size"].Number == nil {
		t.Fatalf("style values captured with the wrong token kinds: %+v", style)
	}

	note := doc.Sections[2].Note
	if note.Source == nil || string(*note.Source) != "beach.jpg" {
		t.Fatalf("unexpected note source: %v", note.Source)
	}
	text := note.Block.Statements[0].Assignment
	if text == nil || text.Value.Text() != "Hello **world**\nsecond line" {
		t.Fatalf("note text not unquoted: %+v", text)
	}
	tr := note.Block.Statements[1].Assignment.Value.Fields()
	if tr["x"].Text() != "12" || tr["y"].Text() != "-30" || tr["scale"].Text() != "1.2" {
		t.Fatalf("unexpected transform fields: x=%s y=%s scale=%s", tr["x"].Text(), tr["y"].Text(), tr["scale"].Text())
	}

	bare := doc.Sections[3].Note
	if bare.Source != nil {
		t.Fatalf("second note has no source, got %q", *bare.Source)
	}
	if len(bare.Block.Statements) != 3 || bare.Block.Statements[1].Text == nil {
		t.Fatalf("expected two text literals and one assignment, got %+v", bare.Block.Statements)
	}
	if got := string(bare.Block.Statements[1].Text.Value); got != "line _two_" {
		t.Fatalf("unexpected literal %q", got)
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := dsl.ParseFile("broken.ink", strings.NewReader("doc X v1 {\n  note \"a.png\" {\n    text: \n  }\n"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.ink:") {
		t.Fatalf("error should carry file position, got %v", err)
	}
}
