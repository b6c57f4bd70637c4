package ast

import (
	"strings"

	"github.com/jsengine/jsengine/internal/lexer"
)

// BlockStatement is a `{ ... }` statement list with its own lexical scope.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString("  ")
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *ExpressionStatement) String() string {
	if e.Expression == nil {
		return ""
	}
	return e.Expression.String() + ";"
}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ Token lexer.Token }

func (e *EmptyStatement) statementNode()       {}
func (e *EmptyStatement) TokenLiteral() string { return e.Token.Literal }
func (e *EmptyStatement) Pos() lexer.Position  { return e.Token.Pos }
func (e *EmptyStatement) String() string       { return ";" }

// VarDeclarator is one `name = init` binding within a var/let/const list.
type VarDeclarator struct {
	Name *Identifier
	Init Expression
}

// VariableDeclaration is `var|let|const decls...;`.
type VariableDeclaration struct {
	Token lexer.Token // the var/let/const keyword token
	Kind  string      // "var", "let", or "const"
	Decls []*VarDeclarator
}

func (v *VariableDeclaration) statementNode()       {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Literal }
func (v *VariableDeclaration) Pos() lexer.Position  { return v.Token.Pos }
func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Decls))
	for i, d := range v.Decls {
		if d.Init != nil {
			parts[i] = d.Name.Value + " = " + d.Init.String()
		} else {
			parts[i] = d.Name.Value
		}
	}
	return v.Kind + " " + strings.Join(parts, ", ") + ";"
}

// ReturnStatement is `return expr?;`.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Token lexer.Token
	Value Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) Pos() lexer.Position  { return t.Token.Pos }
func (t *ThrowStatement) String() string       { return "throw " + t.Value.String() + ";" }

// BreakStatement is `break label?;`.
type BreakStatement struct {
	Token lexer.Token
	Label string
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BreakStatement) String() string       { return "break;" }

// ContinueStatement is `continue label?;`.
type ContinueStatement struct {
	Token lexer.Token
	Label string
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() lexer.Position  { return c.Token.Pos }
func (c *ContinueStatement) String() string       { return "continue;" }

// IfStatement is `if (test) cons else alt?`.
type IfStatement struct {
	Token       lexer.Token
	Test        Expression
	Consequent  Statement
	Alternate   Statement
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() lexer.Position  { return i.Token.Pos }
func (i *IfStatement) String() string {
	s := "if (" + i.Test.String() + ") " + i.Consequent.String()
	if i.Alternate != nil {
		s += " else " + i.Alternate.String()
	}
	return s
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Token lexer.Token
	Test  Expression
	Body  Statement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() lexer.Position  { return w.Token.Pos }
func (w *WhileStatement) String() string {
	return "while (" + w.Test.String() + ") " + w.Body.String()
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Token lexer.Token
	Body  Statement
	Test  Expression
}

func (d *DoWhileStatement) statementNode()       {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) Pos() lexer.Position  { return d.Token.Pos }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Test.String() + ");"
}

// ForStatement is the classic C-style `for (init; test; update) body`.
type ForStatement struct {
	Token  lexer.Token
	Init   Node // *VariableDeclaration or Expression, may be nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForStatement) String() string {
	return "for (...) " + f.Body.String()
}

// ForInStatement is `for (left in right) body`.
type ForInStatement struct {
	Token lexer.Token
	Left  Node // *VariableDeclaration or Expression
	Right Expression
	Body  Statement
	Of    bool // true for `for...of`
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) Pos() lexer.Position  { return f.Token.Pos }
func (f *ForInStatement) String() string {
	kw := "in"
	if f.Of {
		kw = "of"
	}
	return "for (... " + kw + " " + f.Right.String() + ") " + f.Body.String()
}

// CatchClause is the `catch (param) body` part of a TryStatement.
type CatchClause struct {
	Param *Identifier // nil for parameterless `catch {}`
	Body  *BlockStatement
}

// TryStatement is `try block catch(e) block finally block`.
type TryStatement struct {
	Token       lexer.Token
	Block       *BlockStatement
	Handler     *CatchClause
	Finalizer   *BlockStatement
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() lexer.Position  { return t.Token.Pos }
func (t *TryStatement) String() string       { return "try " + t.Block.String() }

// SwitchCase is one `case expr:` or `default:` arm.
type SwitchCase struct {
	Test       Expression // nil for default
	Consequent []Statement
}

// SwitchStatement is `switch (disc) { cases... }`.
type SwitchStatement struct {
	Token      lexer.Token
	Discriminant Expression
	Cases      []*SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *SwitchStatement) String() string {
	return "switch (" + s.Discriminant.String() + ") { ... }"
}

// LabeledStatement is `label: statement`.
type LabeledStatement struct {
	Token lexer.Token
	Label string
	Body  Statement
}

func (l *LabeledStatement) statementNode()       {}
func (l *LabeledStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabeledStatement) Pos() lexer.Position  { return l.Token.Pos }
func (l *LabeledStatement) String() string       { return l.Label + ": " + l.Body.String() }

// DirectivePrologue marks a recognized directive ("use strict") at the
// start of a Program or function body. The parser emits it as a regular
// ExpressionStatement wrapping a StringLiteral and itself inspects the
// leading statements for this shape rather than introducing a separate
// node kind, matching how real engines detect it.
