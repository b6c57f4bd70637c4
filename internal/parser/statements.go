package parser

import (
	"github.com/jsengine/jsengine/internal/ast"
	"github.com/jsengine/jsengine/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		return p.parseVariableDeclaration()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{Token: p.curToken}
	case lexer.IDENT:
		if p.peekIs(lexer.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curIs(lexer.EOF) {
		p.addError("expected } before end of input")
	}
	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken, Kind: p.curToken.Literal}
	for {
		if !p.expectPeek(lexer.IDENT) {
			return decl
		}
		d := &ast.VarDeclarator{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(ASSIGN)
		}
		decl.Decls = append(decl.Decls, d)
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	fn := p.parseFunctionExpression().(*ast.FunctionLiteral)
	return fn
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekIs(lexer.SEMICOLON) || p.peekToken.NewlineBefore || p.peekIs(lexer.RBRACE) {
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.curToken}
	if p.peekIs(lexer.IDENT) && !p.peekToken.NewlineBefore {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.curToken}
	if p.peekIs(lexer.IDENT) && !p.peekToken.NewlineBefore {
		p.nextToken()
		stmt.Label = p.curToken.Literal
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	label := p.curToken.Literal
	tok := p.curToken
	p.nextToken() // consume identifier, curToken == COLON
	p.nextToken() // move to body
	return &ast.LabeledStatement{Token: tok, Label: label, Body: p.parseStatement()}
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Consequent = p.parseStatement()
	if p.peekIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if !p.expectPeek(lexer.WHILE) {
		return stmt
	}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	p.expectPeek(lexer.RPAREN)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseForStatement handles classic, for-in, and for-of forms, disambiguated
// by scanning the init clause for a trailing `in`/`of` keyword.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.ForStatement{Token: tok}
	}

	var init ast.Node
	isDecl := p.peekIs(lexer.VAR) || p.peekIs(lexer.LET) || p.peekIs(lexer.CONST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	} else if isDecl {
		p.nextToken()
		declTok := p.curToken
		kind := p.curToken.Literal
		p.nextToken()
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if p.peekIs(lexer.IN) || p.peekIs(lexer.OF) {
			of := p.peekIs(lexer.OF)
			p.nextToken() // in/of
			p.nextToken()
			right := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return &ast.ForInStatement{Token: tok}
			}
			p.nextToken()
			body := p.parseStatement()
			decl := &ast.VariableDeclaration{Token: declTok, Kind: kind, Decls: []*ast.VarDeclarator{{Name: name}}}
			return &ast.ForInStatement{Token: tok, Left: decl, Right: right, Body: body, Of: of}
		}
		decl := &ast.VariableDeclaration{Token: declTok, Kind: kind}
		d := &ast.VarDeclarator{Name: name}
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			d.Init = p.parseExpression(ASSIGN)
		}
		decl.Decls = append(decl.Decls, d)
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			d2 := &ast.VarDeclarator{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}
			if p.peekIs(lexer.ASSIGN) {
				p.nextToken()
				p.nextToken()
				d2.Init = p.parseExpression(ASSIGN)
			}
			decl.Decls = append(decl.Decls, d2)
		}
		init = decl
		p.expectPeek(lexer.SEMICOLON)
	} else {
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if p.peekIs(lexer.IN) || p.peekIs(lexer.OF) {
			of := p.peekIs(lexer.OF)
			p.nextToken()
			p.nextToken()
			right := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RPAREN) {
				return &ast.ForInStatement{Token: tok}
			}
			p.nextToken()
			body := p.parseStatement()
			return &ast.ForInStatement{Token: tok, Left: expr, Right: right, Body: body, Of: of}
		}
		init = expr
		p.expectPeek(lexer.SEMICOLON)
	}

	stmt := &ast.ForStatement{Token: tok, Init: init}
	if !p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
		stmt.Test = p.parseExpression(LOWEST)
	}
	p.expectPeek(lexer.SEMICOLON)
	if !p.peekIs(lexer.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Block = p.parseBlockStatement()
	if p.peekIs(lexer.CATCH) {
		p.nextToken()
		handler := &ast.CatchClause{}
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			handler.Param = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
			p.expectPeek(lexer.RPAREN)
		}
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		handler.Body = p.parseBlockStatement()
		stmt.Handler = handler
	}
	if p.peekIs(lexer.FINALLY) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return stmt
		}
		stmt.Finalizer = p.parseBlockStatement()
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Discriminant = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		c := &ast.SwitchCase{}
		if p.curIs(lexer.CASE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			p.expectPeek(lexer.COLON)
		} else if p.curIs(lexer.DEFAULT) {
			p.expectPeek(lexer.COLON)
		}
		p.nextToken()
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	decl := &ast.ClassDeclaration{Token: p.curToken}
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		decl.Name = p.curToken.Literal
	}
	if p.peekIs(lexer.EXTENDS) {
		p.nextToken()
		p.nextToken()
		decl.SuperClass = p.parseExpression(MEMBER)
	}
	if !p.expectPeek(lexer.LBRACE) {
		return decl
	}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		decl.Members = append(decl.Members, p.parseClassMember())
		p.nextToken()
	}
	return decl
}

func (p *Parser) parseClassMember() ast.ClassMember {
	m := ast.ClassMember{Kind: "method"}
	if p.curIs(lexer.STATIC) {
		m.Static = true
		p.nextToken()
	}
	if p.curIs(lexer.GET) && !p.peekIs(lexer.LPAREN) {
		m.Kind = "get"
		p.nextToken()
	} else if p.curIs(lexer.SET) && !p.peekIs(lexer.LPAREN) {
		m.Kind = "set"
		p.nextToken()
	}
	m.Key = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if id, ok := m.Key.(*ast.Identifier); ok && id.Value == "constructor" {
		m.Kind = "constructor"
	}
	if p.peekIs(lexer.LPAREN) {
		fn := &ast.FunctionLiteral{Token: p.curToken}
		fn.Params = p.parseParamList()
		if p.expectPeek(lexer.LBRACE) {
			fn.Body = p.parseBlockStatement()
		}
		m.Value = fn
		return m
	}
	// field declaration, optionally initialized
	m.Kind = "field"
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		m.FieldInit = p.parseExpression(ASSIGN)
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return m
}
