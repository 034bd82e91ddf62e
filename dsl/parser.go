package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Ratio", Pattern: `\d+:\d+`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|pt|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:@$]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a scene file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/style/note).
type Section struct {
	Meta  *MetaSection  `parser:"  @@"`
	Style *StyleSection `parser:"| @@"`
	Note  *NoteSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Style != nil:
		return "style"
	case s.Note != nil:
		return "note"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// StyleSection holds document-wide defaults that notes may override.
type StyleSection struct {
	Block *Block `parser:"'style' @@"`
}

// NoteSection 是一条待渲染的便签：背景图来源 + 文字与可选覆盖项。
type NoteSection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Source *StringLiteral `parser:"'note' @String?"`
	Block  *Block         `parser:"@@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment or bare text literal).
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// TextLiteral encapsulates raw string statements within blocks.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Ratio  *string        `parser:"| @Ratio"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Array  *ArrayValue    `parser:"| @@"`
	Object *InlineObject  `parser:"| @@"`
	Word   *string        `parser:"| @Ident"`
}

// Text 返回值的文本形式：字符串去引号，其余取原始写法；对象与数组返回空串。
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Ratio != nil:
		return *v.Ratio
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Word != nil:
		return *v.Word
	default:
		return ""
	}
}

// Fields returns the entries of an inline object value keyed by name.
func (v *Value) Fields() map[string]*Value {
	if v == nil || v.Object == nil {
		return nil
	}
	out := make(map[string]*Value, len(v.Object.Entries))
	for _, e := range v.Object.Entries {
		out[e.Key] = e.Value
	}
	return out
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// InlineObject captures `{ key: value }` inline maps; separators are optional.
type InlineObject struct {
	Entries []*Assignment `parser:"'{' ( ',' | ';' | Newline )* ( @@ ( ',' | ';' | Newline )* )* '}'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses DSL content, reporting positions against filename.
func ParseFile(filename string, r io.Reader) (*Document, error) {
	return documentParser.Parse(filename, r)
}
