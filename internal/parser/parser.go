// Package parser implements a Pratt parser that turns a token stream from
// internal/lexer into the internal/ast tree, per spec.md §4.2 stage 2.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsengine/jsengine/internal/ast"
	"github.com/jsengine/jsengine/internal/lexer"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	COMMA
	ASSIGN
	CONDITIONAL
	COALESCE
	LOGOR
	LOGAND
	BITOR
	BITXOR
	BITAND
	EQUALS
	RELATIONAL
	SHIFT
	SUM
	PRODUCT
	EXPONENT
	PREFIX
	POSTFIX
	CALL
	MEMBER
)

var precedences = map[lexer.TokenType]int{
	lexer.COMMA:          COMMA,
	lexer.ASSIGN:         ASSIGN,
	lexer.PLUS_ASSIGN:    ASSIGN,
	lexer.MINUS_ASSIGN:   ASSIGN,
	lexer.STAR_ASSIGN:    ASSIGN,
	lexer.SLASH_ASSIGN:   ASSIGN,
	lexer.PERCENT_ASSIGN: ASSIGN,
	lexer.POW_ASSIGN:     ASSIGN,
	lexer.SHL_ASSIGN:     ASSIGN,
	lexer.SHR_ASSIGN:     ASSIGN,
	lexer.USHR_ASSIGN:    ASSIGN,
	lexer.AND_ASSIGN:     ASSIGN,
	lexer.OR_ASSIGN:      ASSIGN,
	lexer.XOR_ASSIGN:     ASSIGN,
	lexer.LOGAND_ASSIGN:  ASSIGN,
	lexer.LOGOR_ASSIGN:   ASSIGN,
	lexer.COALESCE_ASSIGN: ASSIGN,
	lexer.QUESTION:       CONDITIONAL,
	lexer.COALESCE:       COALESCE,
	lexer.LOGOR:          LOGOR,
	lexer.LOGAND:         LOGAND,
	lexer.PIPE:           BITOR,
	lexer.CARET:          BITXOR,
	lexer.AMP:            BITAND,
	lexer.EQ:             EQUALS,
	lexer.NOT_EQ:         EQUALS,
	lexer.STRICT_EQ:      EQUALS,
	lexer.STRICT_NOT_EQ:  EQUALS,
	lexer.LT:             RELATIONAL,
	lexer.GT:             RELATIONAL,
	lexer.LT_EQ:          RELATIONAL,
	lexer.GT_EQ:          RELATIONAL,
	lexer.INSTANCEOF:     RELATIONAL,
	lexer.IN:             RELATIONAL,
	lexer.SHL:            SHIFT,
	lexer.SHR:            SHIFT,
	lexer.USHR:           SHIFT,
	lexer.PLUS:           SUM,
	lexer.MINUS:          SUM,
	lexer.STAR:           PRODUCT,
	lexer.SLASH:          PRODUCT,
	lexer.PERCENT:        PRODUCT,
	lexer.POW:            EXPONENT,
	lexer.LPAREN:         CALL,
	lexer.LBRACKET:       MEMBER,
	lexer.DOT:            MEMBER,
	lexer.OPTIONAL_CHAIN: MEMBER,
	lexer.INC:            POSTFIX,
	lexer.DEC:            POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ParseError is a single syntax error collected during parsing.
type ParseError struct {
	Pos     lexer.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Parser turns a token stream into an *ast.Program. Errors are
// accumulated rather than raised immediately so the caller can recover
// multiple diagnostics from one parse, matching the teacher's
// accumulate-then-report style.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []*ParseError

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	// eof records whether every error so far was reported at end of input
	// (input ending mid construct), the signal stringIsCompilableUnit
	// (spec.md §4.2) checks.
	eof bool
}

// New builds a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:          p.parseIdentifier,
		lexer.NUMBER:         p.parseNumberLiteral,
		lexer.STRING:         p.parseStringLiteral,
		lexer.TEMPLATE:       p.parseTemplateLiteral,
		lexer.REGEXP:         p.parseRegexLiteral,
		lexer.TRUE:           p.parseBoolLiteral,
		lexer.FALSE:          p.parseBoolLiteral,
		lexer.NULL:           p.parseNullLiteral,
		lexer.THIS:           p.parseThisExpression,
		lexer.BANG:           p.parsePrefixExpression,
		lexer.MINUS:          p.parsePrefixExpression,
		lexer.PLUS:           p.parsePrefixExpression,
		lexer.TILDE:          p.parsePrefixExpression,
		lexer.TYPEOF:         p.parsePrefixExpression,
		lexer.VOID:           p.parsePrefixExpression,
		lexer.DELETE:         p.parsePrefixExpression,
		lexer.INC:            p.parsePrefixExpression,
		lexer.DEC:            p.parsePrefixExpression,
		lexer.LPAREN:         p.parseGroupedOrArrow,
		lexer.LBRACKET:       p.parseArrayLiteral,
		lexer.LBRACE:         p.parseObjectLiteral,
		lexer.FUNCTION:       p.parseFunctionExpression,
		lexer.CLASS:          p.parseClassExpression,
		lexer.NEW:            p.parseNewExpression,
	}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS: p.parseInfixExpression, lexer.MINUS: p.parseInfixExpression,
		lexer.STAR: p.parseInfixExpression, lexer.SLASH: p.parseInfixExpression,
		lexer.PERCENT: p.parseInfixExpression, lexer.POW: p.parseInfixExpression,
		lexer.EQ: p.parseInfixExpression, lexer.NOT_EQ: p.parseInfixExpression,
		lexer.STRICT_EQ: p.parseInfixExpression, lexer.STRICT_NOT_EQ: p.parseInfixExpression,
		lexer.LT: p.parseInfixExpression, lexer.GT: p.parseInfixExpression,
		lexer.LT_EQ: p.parseInfixExpression, lexer.GT_EQ: p.parseInfixExpression,
		lexer.AMP: p.parseInfixExpression, lexer.PIPE: p.parseInfixExpression,
		lexer.CARET: p.parseInfixExpression, lexer.SHL: p.parseInfixExpression,
		lexer.SHR: p.parseInfixExpression, lexer.USHR: p.parseInfixExpression,
		lexer.INSTANCEOF: p.parseInfixExpression, lexer.IN: p.parseInfixExpression,
		lexer.LOGAND: p.parseLogicalExpression, lexer.LOGOR: p.parseLogicalExpression,
		lexer.COALESCE: p.parseLogicalExpression,
		lexer.ASSIGN: p.parseAssignmentExpression, lexer.PLUS_ASSIGN: p.parseAssignmentExpression,
		lexer.MINUS_ASSIGN: p.parseAssignmentExpression, lexer.STAR_ASSIGN: p.parseAssignmentExpression,
		lexer.SLASH_ASSIGN: p.parseAssignmentExpression, lexer.PERCENT_ASSIGN: p.parseAssignmentExpression,
		lexer.POW_ASSIGN: p.parseAssignmentExpression, lexer.SHL_ASSIGN: p.parseAssignmentExpression,
		lexer.SHR_ASSIGN: p.parseAssignmentExpression, lexer.USHR_ASSIGN: p.parseAssignmentExpression,
		lexer.AND_ASSIGN: p.parseAssignmentExpression, lexer.OR_ASSIGN: p.parseAssignmentExpression,
		lexer.XOR_ASSIGN: p.parseAssignmentExpression, lexer.LOGAND_ASSIGN: p.parseAssignmentExpression,
		lexer.LOGOR_ASSIGN: p.parseAssignmentExpression, lexer.COALESCE_ASSIGN: p.parseAssignmentExpression,
		lexer.QUESTION: p.parseConditionalExpression,
		lexer.LPAREN:   p.parseCallExpression,
		lexer.DOT:      p.parseMemberExpression,
		lexer.OPTIONAL_CHAIN: p.parseMemberExpression,
		lexer.LBRACKET: p.parseIndexExpression,
		lexer.INC:      p.parsePostfixExpression,
		lexer.DEC:      p.parsePostfixExpression,
		lexer.COMMA:    p.parseSequenceExpression,
	}

	p.l.SetRegexAllowed(true)
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every diagnostic collected so far.
func (p *Parser) Errors() []*ParseError { return p.errors }

// EOFOnly reports whether every collected error stems from input ending
// prematurely, the condition stringIsCompilableUnit (spec.md §4.2) tests.
func (p *Parser) EOFOnly() bool { return p.eof && len(p.errors) > 0 }

func (p *Parser) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, &ParseError{Pos: p.curToken.Pos, Message: msg})
	atEOF := p.curToken.Type == lexer.EOF
	p.eof = atEOF && (len(p.errors) == 1 || p.eof)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	// A `/` can start a regex literal unless the previous token could end an
	// expression (identifier, number, string, `)`, `]`, or a postfix-able
	// value) -- in that position `/` is division. This mirrors how real
	// engines drive the lexer's regex/division ambiguity from grammar state.
	p.l.SetRegexAllowed(!exprEndsWith(p.curToken.Type))
}

func exprEndsWith(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.TEMPLATE, lexer.RPAREN,
		lexer.RBRACKET, lexer.THIS, lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.INC, lexer.DEC:
		return true
	default:
		return false
	}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError("expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the full token stream into a Program, consuming
// automatic-semicolon-insertion per ECMA-262 §11.9 approximately: a missing
// semicolon before a newline, `}`, or EOF is tolerated.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	prog.Strict = p.consumeDirectivePrologue(&prog.Statements)
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog
}

// consumeDirectivePrologue parses leading bare string-literal statements
// (directive prologue) and reports whether "use strict" appeared among
// them, appending the parsed statements to out.
func (p *Parser) consumeDirectivePrologue(out *[]ast.Statement) bool {
	strict := false
	for p.curIs(lexer.STRING) {
		lit := p.curToken.Literal
		stmt := p.parseStatement()
		if stmt != nil {
			*out = append(*out, stmt)
		}
		if lit == "use strict" {
			strict = true
		}
		p.nextToken()
	}
	return strict
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("no prefix parse function for %s found", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken
	raw := tok.Literal
	lit := &ast.NumberLiteral{Token: tok, Raw: raw}
	text := strings.TrimSuffix(raw, "n")
	lit.IsBig = text != raw
	var v float64
	var err error
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		var i int64
		i, err = strconv.ParseInt(strings.ReplaceAll(text[2:], "_", ""), 16, 64)
		v = float64(i)
	case strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0O"):
		var i int64
		i, err = strconv.ParseInt(strings.ReplaceAll(text[2:], "_", ""), 8, 64)
		v = float64(i)
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		var i int64
		i, err = strconv.ParseInt(strings.ReplaceAll(text[2:], "_", ""), 2, 64)
		v = float64(i)
	default:
		v, err = strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	}
	if err != nil {
		p.addError("could not parse %q as number", raw)
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: unescapeString(p.curToken.Literal)}
}

func unescapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"', '`':
				sb.WriteByte(s[i])
			default:
				sb.WriteByte(s[i])
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.curToken
	raw := tok.Literal
	lit := &ast.TemplateLiteral{Token: tok}
	var cur strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			lit.Quasis = append(lit.Quasis, cur.String())
			cur.Reset()
			depth := 1
			j := i + 2
			start := j
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			exprSrc := raw[start:j]
			subLexer := lexer.New(exprSrc)
			subParser := New(subLexer)
			expr := subParser.parseExpression(LOWEST)
			lit.Expressions = append(lit.Expressions, expr)
			p.errors = append(p.errors, subParser.errors...)
			i = j + 1
			continue
		}
		cur.WriteByte(raw[i])
		i++
	}
	lit.Quasis = append(lit.Quasis, cur.String())
	return lit
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	raw := p.curToken.Literal
	lastSlash := strings.LastIndex(raw, "/")
	return &ast.RegexLiteral{Token: p.curToken, Pattern: raw[1:lastSlash], Flags: raw[lastSlash+1:]}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Type == lexer.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression { return &ast.NullLiteral{Token: p.curToken} }

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	if p.curIs(lexer.TYPEOF) {
		expr.Operator = "typeof"
	} else if p.curIs(lexer.VOID) {
		expr.Operator = "void"
	} else if p.curIs(lexer.DELETE) {
		expr.Operator = "delete"
	}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	if expr.Operator == "**" {
		expr.Right = p.parseExpression(prec - 1) // ** is right-associative
	} else {
		expr.Right = p.parseExpression(prec)
	}
	return expr
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expr := &ast.LogicalExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	prec := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(prec)
	return expr
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	expr := &ast.AssignmentExpression{Token: p.curToken, Operator: p.curToken.Literal, Target: left}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGN - 1) // right-associative
	return expr
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	expr := &ast.ConditionalExpression{Token: p.curToken, Test: test}
	p.nextToken()
	expr.Consequent = p.parseExpression(ASSIGN)
	if !p.expectPeek(lexer.COLON) {
		return expr
	}
	p.nextToken()
	expr.Alternate = p.parseExpression(ASSIGN)
	return expr
}

func (p *Parser) parseSequenceExpression(left ast.Expression) ast.Expression {
	seq := &ast.SequenceExpression{Token: p.curToken, Expressions: []ast.Expression{left}}
	for p.curIs(lexer.COMMA) {
		p.nextToken()
		seq.Expressions = append(seq.Expressions, p.parseExpression(ASSIGN))
		if !p.peekIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	return seq
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Callee: callee}
	call.Args = p.parseExpressionList(lexer.RPAREN)
	return call
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	callee := p.parseExpression(MEMBER)
	ne := &ast.NewExpression{Token: tok, Callee: callee}
	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		ne.Args = p.parseExpressionList(lexer.RPAREN)
	}
	return ne
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	if p.curIs(lexer.SPREAD) {
		p.nextToken()
		list = append(list, &ast.SpreadElement{Argument: p.parseExpression(ASSIGN)})
	} else {
		list = append(list, p.parseExpression(ASSIGN))
	}
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		if p.curIs(lexer.SPREAD) {
			p.nextToken()
			list = append(list, &ast.SpreadElement{Argument: p.parseExpression(ASSIGN)})
			continue
		}
		list = append(list, p.parseExpression(ASSIGN))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	me := &ast.MemberExpression{Token: p.curToken, Object: obj, Optional: p.curIs(lexer.OPTIONAL_CHAIN)}
	p.nextToken()
	me.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return me
}

func (p *Parser) parseIndexExpression(obj ast.Expression) ast.Expression {
	me := &ast.MemberExpression{Token: p.curToken, Object: obj, Computed: true}
	p.nextToken()
	me.Property = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return me
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}
	for !p.peekIs(lexer.RBRACKET) {
		if p.peekIs(lexer.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			p.nextToken()
			continue
		}
		p.nextToken()
		if p.curIs(lexer.SPREAD) {
			p.nextToken()
			arr.Elements = append(arr.Elements, &ast.SpreadElement{Argument: p.parseExpression(ASSIGN)})
		} else {
			arr.Elements = append(arr.Elements, p.parseExpression(ASSIGN))
		}
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken}
	for !p.peekIs(lexer.RBRACE) {
		p.nextToken()
		if p.curIs(lexer.SPREAD) {
			p.nextToken()
			obj.Properties = append(obj.Properties, ast.ObjectProperty{Spread: true, Value: p.parseExpression(ASSIGN)})
		} else {
			prop := ast.ObjectProperty{}
			if p.curIs(lexer.LBRACKET) {
				prop.Computed = true
				p.nextToken()
				prop.Key = p.parseExpression(LOWEST)
				p.expectPeek(lexer.RBRACKET)
			} else {
				prop.Key = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			}
			if p.peekIs(lexer.COLON) {
				p.nextToken()
				p.nextToken()
				prop.Value = p.parseExpression(ASSIGN)
			} else {
				prop.Shorthand = true
				prop.Value = prop.Key
			}
			obj.Properties = append(obj.Properties, prop)
		}
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return obj
}

// parseGroupedOrArrow disambiguates `(expr)` from `(params) => body` by a
// bounded lookahead scan for `=>` after the matching `)`.
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	if p.looksLikeArrowParams() {
		return p.parseArrowFunction()
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		return p.finishArrow([]*ast.Param{paramFromExpr(expr)}, p.curToken)
	}
	return expr
}

func paramFromExpr(e ast.Expression) *ast.Param {
	if id, ok := e.(*ast.Identifier); ok {
		return &ast.Param{Name: id}
	}
	return &ast.Param{Name: &ast.Identifier{Value: "_"}}
}

// looksLikeArrowParams scans forward from the current `(` for the matching
// `)` followed by `=>`, without mutating parser state permanently — it
// restores the lexer from a re-derived cursor since the teacher's
// LexerState save/restore isn't available on this freshly authored lexer;
// instead it peeks tokens by tokenizing the remainder once and rewinding
// via a sub-parser-free manual scan of Lexer clone semantics (New copies
// only the trimmed input, so a fresh Lexer positioned at the same offset
// gives an equivalent independent cursor).
func (p *Parser) looksLikeArrowParams() bool {
	depth := 0
	scan := lexer.New(p.l.RemainingFrom(p.curToken.Pos.Offset))
	for {
		t := scan.NextToken()
		switch t.Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				next := scan.NextToken()
				return next.Type == lexer.ARROW
			}
		case lexer.EOF:
			return false
		}
	}
}

func (p *Parser) parseArrowFunction() ast.Expression {
	tok := p.curToken
	params := p.parseParamList()
	if !p.expectPeek(lexer.ARROW) {
		return nil
	}
	return p.finishArrow(params, tok)
}

func (p *Parser) finishArrow(params []*ast.Param, tok lexer.Token) ast.Expression {
	fn := &ast.FunctionLiteral{Token: tok, Params: params, IsArrow: true}
	p.nextToken()
	if p.curIs(lexer.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ExprBody = p.parseExpression(ASSIGN)
	}
	return fn
}

func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseSingleParam())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseSingleParam())
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseSingleParam() *ast.Param {
	param := &ast.Param{}
	if p.curIs(lexer.SPREAD) {
		param.Rest = true
		p.nextToken()
	}
	param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		param.Default = p.parseExpression(ASSIGN)
	}
	return param
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	tok := p.curToken
	fn := &ast.FunctionLiteral{Token: tok}
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = p.curToken.Literal
	}
	fn.Params = p.parseParamList()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	fn.Strict = p.bodyIsStrict(fn.Body)
	return fn
}

func (p *Parser) bodyIsStrict(body *ast.BlockStatement) bool {
	if body == nil {
		return false
	}
	for _, s := range body.Statements {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			break
		}
		sl, ok := es.Expression.(*ast.StringLiteral)
		if !ok {
			break
		}
		if sl.Value == "use strict" {
			return true
		}
	}
	return false
}

func (p *Parser) parseClassExpression() ast.Expression {
	return p.parseClassDeclaration()
}
