package lexer

import (
	"darix/internal/token"
	"fmt"
	"strings"
	"unicode/utf8"
)

// LexError describes a malformed token. Line and Column point at the first
// character of the offending input.
type LexError struct {
	Line    int
	Column  int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LexError [line %d:%d]: %s", e.Line, e.Column, e.Message)
}

// LexErrors is every error found during a scan, in source order.
type LexErrors []*LexError

func (le LexErrors) Error() string {
	msgs := make([]string, len(le))
	for i, e := range le {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF

	line   int
	column int

	errors LexErrors
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// Scan tokenizes src in a single pass. The returned slice always ends with an
// EOF token, even when errors are reported.
func Scan(src string) ([]token.Token, error) {
	return New(src).ScanTokens()
}

func (l *Lexer) ScanTokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	if len(l.errors) > 0 {
		return tokens, l.errors
	}
	return tokens, nil
}

func (l *Lexer) Errors() LexErrors {
	return l.errors
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		line, col := l.line, l.column
		var tok token.Token

		if l.atEOF() {
			return token.Token{Type: token.EOF, Line: line, Column: col}
		}

		switch l.ch {
		case '(':
			tok = l.newToken(token.LEFT_PAREN)
		case ')':
			tok = l.newToken(token.RIGHT_PAREN)
		case '{':
			tok = l.newToken(token.LEFT_BRACE)
		case '}':
			tok = l.newToken(token.RIGHT_BRACE)
		case '[':
			tok = l.newToken(token.LEFT_BRACKET)
		case ']':
			tok = l.newToken(token.RIGHT_BRACKET)
		case ',':
			tok = l.newToken(token.COMMA)
		case '.':
			tok = l.newToken(token.DOT)
		case ';':
			tok = l.newToken(token.SEMICOLON)
		case ':':
			tok = l.newToken(token.COLON)
		case '+':
			tok = l.newToken(token.PLUS)
		case '-':
			tok = l.newToken(token.MINUS)
		case '*':
			tok = l.newToken(token.STAR)
		case '/':
			tok = l.newToken(token.SLASH)
		case '%':
			tok = l.newToken(token.PERCENT)
		case '!':
			tok = l.handleCompoundToken(token.BANG, '=', token.BANG_EQUAL)
		case '=':
			tok = l.handleCompoundToken(token.EQUAL, '=', token.EQUAL_EQUAL)
		case '<':
			tok = l.handleCompoundToken(token.LESS, '=', token.LESS_EQUAL)
		case '>':
			tok = l.handleCompoundToken(token.GREATER, '=', token.GREATER_EQUAL)
		case '&', '|':
			pair := string(l.ch) + string(l.ch)
			if l.peekChar() != l.ch {
				l.addError(line, col, "unexpected character %q, did you mean %q?", l.ch, pair)
				l.readChar()
				continue
			}
			l.readChar()
			tok = token.Token{Type: token.TokenType(pair), Lexeme: pair, Line: line, Column: col}
		case '"':
			str, ok := l.readString()
			if !ok {
				l.addError(line, col, "unterminated string")
				continue
			}
			return token.Token{Type: token.STRING, Lexeme: str, Line: line, Column: col}
		default:
			if isLetter(l.ch) {
				ident := l.readIdentifier()
				return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
			}
			if isDigit(l.ch) {
				return token.Token{Type: token.NUMBER, Lexeme: l.readNumber(), Line: line, Column: col}
			}
			l.addError(line, col, "unexpected character %q", l.ch)
			l.readChar()
			continue
		}

		l.readChar()
		return tok
	}
}

func (l *Lexer) addError(line, col int, format string, args ...any) {
	l.errors = append(l.errors, &LexError{
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) handleCompoundToken(
	t token.TokenType,
	ch1 rune,
	t1 token.TokenType,
) token.Token {
	line, col := l.line, l.column
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Lexeme: literal, Line: line, Column: col}
	}
	return l.newToken(t)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions and the
// line/column of the new current rune.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads digits with an optional fraction. A dot only belongs to the
// number when a digit follows it, so `1.` scans as NUMBER DOT.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString consumes a double-quoted literal and returns its content without
// the quotes. There is no escape processing. On EOF the input is consumed and
// ok is false.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // consume opening "
	start := l.position
	for l.ch != '"' {
		if l.atEOF() {
			return "", false
		}
		l.readChar()
	}
	str := l.input[start:l.position]
	l.readChar() // consume closing "
	return str, true
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(l.ch), Line: l.line, Column: l.column}
}
