// Package dsl is the persisted form of a label: a small command
// language parsed with participle, a writer that serializes a
// label.Label back into it, and a Build step that replays a parsed
// document through a label.Builder.
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
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\[\]-]*`},
		{Name: "Symbol", Pattern: `[;,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames       = invertSymbols(dslLexer.Symbols())
	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Document is the root AST node: label dimensions plus a command
// block.
type Document struct {
	Pos    lexer.Position `parser:""`
	Width  float64        `parser:"Newline* 'label' @Number"`
	Height float64        `parser:"@Number"`
	Block  *Block         `parser:"@@ Newline*"`
}

// Block is a brace-delimited command list.
type Block struct {
	Commands []*Command `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Command is one instruction: a name, free-order argument lexemes, and
// an optional nested block (when/otherwise/repeat/each).
type Command struct {
	Pos   lexer.Position `parser:""`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Lexeme captures a single argument token; strings arrive unquoted.
type Lexeme struct {
	Type  string
	Value string
	Pos   lexer.Position
}

// Parse implements participle.Parseable so Lexeme can act as a grammar
// atom: it consumes any token up to a statement or block boundary.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if stopArg(tok) {
		return participle.NextMatch
	}
	next := lex.Next()
	lexeme, err := newLexeme(*next)
	if err != nil {
		return err
	}
	*l = lexeme
	return nil
}

// Parse reads a label document from r.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString reads a label document from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

func stopArg(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, lbraceTokenType, rbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	default:
		return false
	}
}

func newLexeme(tok lexer.Token) (Lexeme, error) {
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringTokenType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, err
		}
		val = unquoted
	}
	return Lexeme{Type: name, Value: val, Pos: tok.Pos}, nil
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
