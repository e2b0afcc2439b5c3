package token

import "fmt"

type TokenType string

const (
	EOF = "EOF"

	// Identifiers + literals
	IDENTIFIER = "IDENTIFIER" // add, foobar, x, y, ...
	NUMBER     = "NUMBER"     // 1343456, 3.14
	STRING     = "STRING"     // "foobar"

	// Operators
	EQUAL   = "="
	PLUS    = "+"
	MINUS   = "-"
	BANG    = "!"
	STAR    = "*"
	SLASH   = "/"
	PERCENT = "%"

	LESS          = "<"
	LESS_EQUAL    = "<="
	GREATER       = ">"
	GREATER_EQUAL = ">="

	AND = "&&"
	OR  = "||"

	EQUAL_EQUAL = "=="
	BANG_EQUAL  = "!="

	// Delimiters
	DOT       = "."
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"

	LEFT_PAREN    = "("
	RIGHT_PAREN   = ")"
	LEFT_BRACE    = "{"
	RIGHT_BRACE   = "}"
	LEFT_BRACKET  = "["
	RIGHT_BRACKET = "]"

	// Keywords
	CLASS   = "CLASS"
	FUNC    = "FUNC"
	VAR     = "VAR"
	IF      = "IF"
	ELSE    = "ELSE"
	WHILE   = "WHILE"
	FOR     = "FOR"
	RETURN  = "RETURN"
	TRY     = "TRY"
	CATCH   = "CATCH"
	FINALLY = "FINALLY"
	TRUE    = "TRUE"
	FALSE   = "FALSE"
	NULL    = "NULL"
)

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int // 1-based line of the first character
	Column int // 1-based column of the first character
}

func (t Token) String() string {
	switch t.Type {
	case IDENTIFIER, NUMBER, STRING:
		return fmt.Sprintf("%s(%s)", t.Type, t.Lexeme)
	}
	return string(t.Type)
}

var keywords = map[string]TokenType{
	// declarations
	"class": CLASS,
	"func":  FUNC,
	"var":   VAR,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,

	// error handling
	"try":     TRY,
	"catch":   CATCH,
	"finally": FINALLY,

	// constants
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// StartsStatement reports whether t can only begin a new statement. The parser
// uses it as a resynchronisation point after an error.
func StartsStatement(t TokenType) bool {
	switch t {
	case CLASS, FUNC, VAR, FOR, IF, WHILE, RETURN, TRY:
		return true
	}
	return false
}
