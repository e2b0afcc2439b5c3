package parser

import (
	"darix/internal/ast"
	"darix/internal/token"
	"fmt"
	"strconv"
	"strings"
)

const (
	_           int = iota
	LOWEST          // statement level
	ASSIGN          // =
	LOGICAL_OR      // ||
	LOGICAL_AND     // &&
	EQUALS          // == or !=
	COMPARISON      // > or <
	SUM             // +
	PRODUCT         // *
	PREFIX          // -X or !X
	CALL            // myFunction(X), a.b, array[index]
)

// maxNestingDepth bounds nested expressions and blocks so pathological input
// is reported instead of exhausting the stack.
const maxNestingDepth = 1000

var precedences = map[token.TokenType]int{
	token.EQUAL:         ASSIGN,
	token.OR:            LOGICAL_OR,
	token.AND:           LOGICAL_AND,
	token.EQUAL_EQUAL:   EQUALS,
	token.BANG_EQUAL:    EQUALS,
	token.LESS:          COMPARISON,
	token.LESS_EQUAL:    COMPARISON,
	token.GREATER:       COMPARISON,
	token.GREATER_EQUAL: COMPARISON,
	token.PLUS:          SUM,
	token.MINUS:         SUM,
	token.STAR:          PRODUCT,
	token.SLASH:         PRODUCT,
	token.PERCENT:       PRODUCT,
	token.LEFT_PAREN:    CALL,
	token.DOT:           CALL,
	token.LEFT_BRACKET:  CALL,
}

// ParseError is a grammar violation at a token position.
type ParseError struct {
	Line    int
	Column  int
	Message string

	eof bool // raised while looking at the end of input
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError [line %d:%d]: %s", e.Line, e.Column, e.Message)
}

// ParseErrors is every error collected while parsing a program, in source order.
type ParseErrors []*ParseError

func (pe ParseErrors) Error() string {
	msgs := make([]string, len(pe))
	for i, e := range pe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// IsIncomplete reports whether parsing failed only because the input ended
// before a construct was closed.
func IsIncomplete(errs ParseErrors) bool {
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if !e.eof {
			return false
		}
	}
	return true
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int // index of the token after peekToken

	errors ParseErrors
	failed bool // the current top-level statement has already reported an error
	depth  int  // expressions and blocks currently being parsed
	braces int  // net '{' minus '}' of the tokens before curToken

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := token.Token{Type: token.EOF, Line: 1, Column: 1}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Column = last.Line, last.Column+len(last.Lexeme)
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}

	p := &Parser{tokens: tokens}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENTIFIER, p.parseVariable)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LEFT_PAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LEFT_BRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LEFT_BRACE, p.parseMapLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQUAL_EQUAL, token.BANG_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.AND, token.OR,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.EQUAL, p.parseAssignExpression)
	p.registerInfix(token.LEFT_PAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LEFT_BRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse is the convenience entry point: it returns the program together with
// every ParseError found, or a nil error.
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	program := p.ParseProgram()
	if len(p.errors) > 0 {
		return program, p.errors
	}
	return program, nil
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	switch p.curToken.Type {
	case token.LEFT_BRACE:
		p.braces++
	case token.RIGHT_BRACE:
		p.braces--
	}
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		// stay on EOF
		p.peekToken = p.tokens[len(p.tokens)-1]
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) addError(at token.Token, message string, args ...interface{}) {
	if p.failed {
		return
	}
	p.failed = true
	p.errors = append(p.errors, &ParseError{
		Line:    at.Line,
		Column:  at.Column,
		Message: fmt.Sprintf(message, args...),
		eof:     at.Type == token.EOF,
	})
}

func (p *Parser) peekError(t token.TokenType, context string) {
	p.addError(p.peekToken, "expected %q %s, got %s instead", string(t), context, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(tok, "expected expression, got %s", describe(tok))
}

func (p *Parser) expectPeek(t token.TokenType, context string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t, context)
	return false
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENTIFIER, token.NUMBER:
		return fmt.Sprintf("%s %q", strings.ToLower(string(tok.Type)), tok.Lexeme)
	case token.STRING:
		return fmt.Sprintf("string %q", tok.Lexeme)
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

func (p *Parser) Errors() ParseErrors {
	return p.errors
}

// ParseProgram parses statements until EOF. A statement that fails to parse is
// dropped and the parser resynchronizes at the next statement boundary.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		base := p.braces
		stmt := p.parseStatement()
		if p.failed {
			p.synchronize(base)
			p.failed = false
			continue
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}

	return program
}

// synchronize skips the rest of the failed statement. Inside a block it skips
// to just past the '}' that closes the outermost open block; at statement
// level it stops past a semicolon or before a keyword that can only start a
// statement. base is the brace count where the statement began.
func (p *Parser) synchronize(base int) {
	for !p.curTokenIs(token.EOF) {
		depth := p.braces - base
		if depth > 0 {
			if p.curTokenIs(token.RIGHT_BRACE) && depth == 1 {
				p.nextToken()
				return
			}
			p.nextToken()
			continue
		}
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			return
		}
		if !p.curTokenIs(token.LEFT_BRACE) && token.StartsStatement(p.peekToken.Type) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// enter counts one level of nesting and reports false once the bound is
// exceeded. Every call must be paired with a deferred leave.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxNestingDepth {
		p.addError(p.curToken, "expression nested too deeply")
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// Statements start on curToken and leave curToken on their final token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.FUNC:
		return p.parseFunctionDeclaration()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.LEFT_BRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER, "after 'var'") {
		return nil
	}
	stmt.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.EQUAL) {
		p.nextToken()
		p.nextToken()
		stmt.Initializer = p.parseExpression(LOWEST)
		if p.failed {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON, "after variable declaration") {
		return nil
	}

	return stmt
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	if !p.expectPeek(token.IDENTIFIER, "after 'func'") {
		return nil
	}
	fn := p.parseFunctionRest()
	if fn == nil {
		return nil
	}
	return fn
}

// parseFunctionRest parses `name(params) { body }` with curToken on the name.
func (p *Parser) parseFunctionRest() *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{Token: p.curToken, Name: p.curToken.Lexeme}

	if !p.expectPeek(token.LEFT_PAREN, "after function name") {
		return nil
	}
	fn.Parameters = p.parseFunctionParameters()
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.LEFT_BRACE, "before function body") {
		return nil
	}
	fn.Body = p.parseBlockBody()
	if p.failed {
		return nil
	}

	return fn
}

func (p *Parser) parseFunctionParameters() []string {
	params := []string{}

	if p.peekTokenIs(token.RIGHT_PAREN) {
		p.nextToken()
		return params
	}

	if !p.expectPeek(token.IDENTIFIER, "as parameter name") {
		return nil
	}
	params = append(params, p.curToken.Lexeme)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENTIFIER, "as parameter name") {
			return nil
		}
		params = append(params, p.curToken.Lexeme)
	}

	if !p.expectPeek(token.RIGHT_PAREN, "after parameters") {
		return nil
	}

	return params
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	class := &ast.ClassDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER, "after 'class'") {
		return nil
	}
	class.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LEFT_BRACE, "before class body") {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RIGHT_BRACE) {
		if p.curTokenIs(token.FUNC) {
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENTIFIER) {
			p.addError(p.curToken, "expected method name in class %s, got %s", class.Name, describe(p.curToken))
			return nil
		}
		method := p.parseFunctionRest()
		if method == nil {
			return nil
		}
		class.Methods = append(class.Methods, method)
		p.nextToken()
	}

	return class
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	stmt.Condition = p.parseCondition("if")
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.LEFT_BRACE, "after if condition") {
		return nil
	}
	stmt.ThenBranch = p.parseBlockBody()
	if p.failed {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			elseIf := p.parseIfStatement()
			if elseIf == nil {
				return nil
			}
			stmt.ElseBranch = []ast.Statement{elseIf}
			return stmt
		}

		if !p.expectPeek(token.LEFT_BRACE, "after 'else'") {
			return nil
		}
		stmt.ElseBranch = p.parseBlockBody()
		if p.failed {
			return nil
		}
	}

	return stmt
}

// parseCondition parses `( expr )` following the keyword on curToken.
func (p *Parser) parseCondition(keyword string) ast.Expression {
	if !p.expectPeek(token.LEFT_PAREN, "after '"+keyword+"'") {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if p.failed {
		return nil
	}
	if !p.expectPeek(token.RIGHT_PAREN, "after "+keyword+" condition") {
		return nil
	}
	return cond
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition = p.parseCondition("while")
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.LEFT_BRACE, "after while condition") {
		return nil
	}
	stmt.Body = p.parseBlockBody()
	if p.failed {
		return nil
	}

	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.LEFT_PAREN, "after 'for'") {
		return nil
	}
	p.nextToken()

	switch p.curToken.Type {
	case token.SEMICOLON:
	case token.VAR:
		stmt.Initializer = p.parseVarStatement()
	default:
		stmt.Initializer = p.parseExpressionStatement()
	}
	if p.failed {
		return nil
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if p.failed {
			return nil
		}
		if !p.expectPeek(token.SEMICOLON, "after loop condition") {
			return nil
		}
	}

	if p.peekTokenIs(token.RIGHT_PAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Increment = p.parseExpression(LOWEST)
		if p.failed {
			return nil
		}
		if !p.expectPeek(token.RIGHT_PAREN, "after for clauses") {
			return nil
		}
	}

	if !p.expectPeek(token.LEFT_BRACE, "before loop body") {
		return nil
	}
	stmt.Body = p.parseBlockBody()
	if p.failed {
		return nil
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON, "after return value") {
		return nil
	}

	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}

	if !p.expectPeek(token.LEFT_BRACE, "after 'try'") {
		return nil
	}
	stmt.Body = p.parseBlockBody()
	if p.failed {
		return nil
	}

	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		stmt.HasCatch = true

		if !p.expectPeek(token.LEFT_PAREN, "after 'catch'") {
			return nil
		}
		if !p.expectPeek(token.IDENTIFIER, "as catch variable") {
			return nil
		}
		stmt.CatchName = p.curToken.Lexeme
		if !p.expectPeek(token.RIGHT_PAREN, "after catch variable") {
			return nil
		}
		if !p.expectPeek(token.LEFT_BRACE, "before catch body") {
			return nil
		}
		stmt.CatchBody = p.parseBlockBody()
		if p.failed {
			return nil
		}
	}

	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		stmt.HasFinally = true

		if !p.expectPeek(token.LEFT_BRACE, "after 'finally'") {
			return nil
		}
		stmt.FinallyBody = p.parseBlockBody()
		if p.failed {
			return nil
		}
	}

	if !stmt.HasCatch && !stmt.HasFinally {
		p.addError(p.peekToken, "expected 'catch' or 'finally' after try block, got %s", describe(p.peekToken))
		return nil
	}

	return stmt
}

func (p *Parser) parseBlockStatement() ast.Statement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = p.parseBlockBody()
	if p.failed {
		return nil
	}
	return block
}

// parseBlockBody parses statements up to the matching '}' with curToken on
// the opening '{'. It leaves curToken on the closing '}'.
func (p *Parser) parseBlockBody() []ast.Statement {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	open := p.curToken
	statements := []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RIGHT_BRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(p.curToken, "expected '}' to close block opened at line %d:%d", open.Line, open.Column)
			return nil
		}
		stmt := p.parseStatement()
		if p.failed {
			return nil
		}
		statements = append(statements, stmt)
		p.nextToken()
	}

	return statements
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON, "after expression") {
		return nil
	}

	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	defer p.leave()
	if !p.enter() {
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for !p.failed && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	if p.failed {
		return nil
	}
	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) parseVariable() ast.Expression {
	return &ast.Variable{Token: p.curToken, Name: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lexeme := p.curToken.Lexeme

	if strings.Contains(lexeme, ".") {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			p.addError(p.curToken, "could not parse %q as float", lexeme)
			return nil
		}
		return &ast.FloatLiteral{Token: p.curToken, Value: value}
	}

	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		p.addError(p.curToken, "integer literal %s is out of range", lexeme)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.UnaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if p.failed {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if p.failed {
		return nil
	}

	return expression
}

// parseAssignExpression is right-associative: the value is parsed one level
// below ASSIGN so that `a = b = c` nests to the right.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	switch left.(type) {
	case *ast.Variable, *ast.MemberExpression:
	default:
		p.addError(p.curToken, "invalid assignment target %s", left.String())
		return nil
	}

	expression := &ast.AssignExpression{Token: p.curToken, Target: left}

	p.nextToken()
	expression.Value = p.parseExpression(ASSIGN - 1)
	if p.failed {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.RIGHT_PAREN, "after grouped expression") {
		return nil
	}

	return exp
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}

	array.Elements = p.parseExpressionList(token.RIGHT_BRACKET, "after array elements")
	if p.failed {
		return nil
	}

	return array
}

func (p *Parser) parseMapLiteral() ast.Expression {
	m := &ast.MapLiteral{Token: p.curToken}
	m.Pairs = []ast.MapPair{}

	for !p.peekTokenIs(token.RIGHT_BRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if p.failed {
			return nil
		}

		if !p.expectPeek(token.COLON, "after map key") {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.failed {
			return nil
		}

		m.Pairs = append(m.Pairs, ast.MapPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RIGHT_BRACE) && !p.expectPeek(token.COMMA, "between map entries") {
			return nil
		}
	}

	p.nextToken()

	return m
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.curToken, Callee: callee}
	exp.Arguments = p.parseExpressionList(token.RIGHT_PAREN, "after arguments")
	if p.failed {
		return nil
	}
	return exp
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	exp := &ast.MemberExpression{Token: p.curToken, Object: object}

	if !p.expectPeek(token.IDENTIFIER, "as property name after '.'") {
		return nil
	}
	exp.Property = p.curToken.Lexeme

	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if p.failed {
		return nil
	}

	if !p.expectPeek(token.RIGHT_BRACKET, "after index") {
		return nil
	}

	return exp
}

// parseExpressionList parses comma separated expressions with curToken on the
// opening delimiter, consuming the closing one.
func (p *Parser) parseExpressionList(end token.TokenType, context string) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	if p.failed {
		return nil
	}

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
		if p.failed {
			return nil
		}
	}

	if !p.expectPeek(end, context) {
		return nil
	}

	return list
}
