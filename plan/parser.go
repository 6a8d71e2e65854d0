package plan

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	planLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(planLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// File is the root AST node of a section plan.
type File struct {
	Reports []*ReportDecl `parser:"Newline* ( @@ Newline* )*"`
}

// ReportDecl lists the sections of one report variant, in drawing order.
type ReportDecl struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Variant  string         `parser:"'report' @Ident"`
	Title    *StringLiteral `parser:"@String?"`
	Sections []*SectionDecl `parser:"'{' Newline* ( @@ Newline+ )* '}'"`
}

// SectionDecl is one `section <kind> key: value ...` line.
type SectionDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Kind    string         `parser:"'section' @Ident"`
	Options []*Option      `parser:"@@*"`
}

// Option is a `key: value` pair on a section line.
type Option struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value holds the raw option value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as written, unquoted for strings.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
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

// ParseFile parses plan source from an io.Reader without validating it.
func ParseFile(name string, r io.Reader) (*File, error) {
	return fileParser.Parse(name, r)
}

// ParseFileString parses plan source from a string without validating it.
func ParseFileString(name, input string) (*File, error) {
	return fileParser.ParseString(name, input)
}
