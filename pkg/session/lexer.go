package session

import "github.com/alecthomas/participle/v2/lexer"

// Lexer tokenizes session scripts. Keywords are plain identifiers; the
// grammar matches them by value.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	// 8000x6000
	{Name: "Dims", Pattern: `[0-9]+x[0-9]+`},
	// 300ms, 2s, 1.5s
	{Name: "Duration", Pattern: `[0-9]+(?:\.[0-9]+)?(?:ms|s)\b`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`},
})
