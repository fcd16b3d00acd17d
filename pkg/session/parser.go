package session

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses session scripts.
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser builds the session grammar.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("session: build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a script from r. name is used in error positions.
func (p *Parser) Parse(name string, r io.Reader) (*Script, error) {
	s, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("session: parse: %w", err)
	}
	return s, nil
}

// ParseString parses a script held in memory.
func (p *Parser) ParseString(input string) (*Script, error) {
	s, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("session: parse: %w", err)
	}
	return s, nil
}

// ParseFile parses the script at path.
func (p *Parser) ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("session: open script: %w", err)
	}
	defer f.Close()
	return p.Parse(path, f)
}
