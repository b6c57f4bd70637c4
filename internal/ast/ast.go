// Package ast defines the abstract syntax tree node types the parser
// produces, per spec.md §4.2 stage 2.
package ast

import (
	"bytes"
	"strings"

	"github.com/jsengine/jsengine/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of a parsed script.
type Program struct {
	Statements []Statement
	// Strict records whether the whole program opens with a "use strict"
	// directive prologue; the IR lowering stage propagates this into every
	// nested function per spec.md §4.2 stage 3.
	Strict bool
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Identifier is a bare name reference.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral is a numeric literal; Raw preserves the original text for
// decompile() (spec.md §4.2) and BigInt detection (trailing "n").
type NumberLiteral struct {
	Token lexer.Token
	Value float64
	Raw   string
	IsBig bool
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NumberLiteral) String() string       { return n.Raw }

// StringLiteral is a single- or double-quoted string literal.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) Pos() lexer.Position  { return s.Token.Pos }
func (s *StringLiteral) String() string       { return "\"" + s.Value + "\"" }

// TemplateLiteral is a backtick-quoted template string. Quasis holds the
// literal text segments and Expressions the parsed substitution expressions
// interleaved between them (len(Quasis) == len(Expressions)+1).
type TemplateLiteral struct {
	Token       lexer.Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) Pos() lexer.Position  { return t.Token.Pos }
func (t *TemplateLiteral) String() string {
	var sb bytes.Buffer
	sb.WriteString("`")
	for i, q := range t.Quasis {
		sb.WriteString(q)
		if i < len(t.Expressions) {
			sb.WriteString("${")
			sb.WriteString(t.Expressions[i].String())
			sb.WriteString("}")
		}
	}
	sb.WriteString("`")
	return sb.String()
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) Pos() lexer.Position  { return b.Token.Pos }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// NullLiteral is the `null` literal.
type NullLiteral struct{ Token lexer.Token }

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NullLiteral) String() string       { return "null" }

// ThisExpression is the `this` keyword.
type ThisExpression struct{ Token lexer.Token }

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) Pos() lexer.Position  { return t.Token.Pos }
func (t *ThisExpression) String() string       { return "this" }

// RegexLiteral is a /pattern/flags literal recognized at parse time
// (spec.md §2 "RegExp objects are produced ... by literal syntax
// recognized at parse time").
type RegexLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()      {}
func (r *RegexLiteral) TokenLiteral() string { return r.Token.Literal }
func (r *RegexLiteral) Pos() lexer.Position  { return r.Token.Pos }
func (r *RegexLiteral) String() string       { return "/" + r.Pattern + "/" + r.Flags }

// ArrayLiteral is `[a, b, ...c]`.
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression // a nil element models an elision ([1,,3])
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() lexer.Position  { return a.Token.Pos }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e != nil {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProperty is one key: value entry of an ObjectLiteral.
type ObjectProperty struct {
	Key      Expression
	Value    Expression
	Computed bool
	Shorthand bool
	Spread   bool
}

// ObjectLiteral is `{ a: 1, [b]: 2, ...c }`.
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) Pos() lexer.Position  { return o.Token.Pos }
func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		if p.Spread {
			parts[i] = "..." + p.Value.String()
			continue
		}
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PrefixExpression is a unary prefix operator: !x, -x, typeof x, ++x, void x.
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpression) expressionNode()      {}
func (p *PrefixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpression) Pos() lexer.Position  { return p.Token.Pos }
func (p *PrefixExpression) String() string {
	return "(" + p.Operator + p.Right.String() + ")"
}

// PostfixExpression is x++ or x--.
type PostfixExpression struct {
	Token    lexer.Token
	Operator string
	Left     Expression
}

func (p *PostfixExpression) expressionNode()      {}
func (p *PostfixExpression) TokenLiteral() string { return p.Token.Literal }
func (p *PostfixExpression) Pos() lexer.Position  { return p.Token.Pos }
func (p *PostfixExpression) String() string {
	return "(" + p.Left.String() + p.Operator + ")"
}

// InfixExpression covers binary arithmetic/comparison/bitwise operators.
type InfixExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpression) expressionNode()      {}
func (i *InfixExpression) TokenLiteral() string { return i.Token.Literal }
func (i *InfixExpression) Pos() lexer.Position  { return i.Token.Pos }
func (i *InfixExpression) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}

// LogicalExpression covers short-circuiting &&, ||, and ??.
type LogicalExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) Pos() lexer.Position  { return l.Token.Pos }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}

// AssignmentExpression is `target op= value` for any of =, +=, -=, ..., &&=.
type AssignmentExpression struct {
	Token    lexer.Token
	Operator string
	Target   Expression
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) Pos() lexer.Position  { return a.Token.Pos }
func (a *AssignmentExpression) String() string {
	return "(" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + ")"
}

// ConditionalExpression is the `test ? cons : alt` ternary.
type ConditionalExpression struct {
	Token       lexer.Token
	Test        Expression
	Consequent  Expression
	Alternate   Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}

// SequenceExpression is the comma operator: a, b, c.
type SequenceExpression struct {
	Token       lexer.Token
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode()      {}
func (s *SequenceExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SequenceExpression) Pos() lexer.Position  { return s.Token.Pos }
func (s *SequenceExpression) String() string {
	parts := make([]string, len(s.Expressions))
	for i, e := range s.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// SpreadElement is `...expr` used in call arguments and array literals.
type SpreadElement struct {
	Token    lexer.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadElement) Pos() lexer.Position  { return s.Token.Pos }
func (s *SpreadElement) String() string       { return "..." + s.Argument.String() }

// CallExpression is `callee(args...)`; Optional marks a `?.()` call.
type CallExpression struct {
	Token    lexer.Token
	Callee   Expression
	Args     []Expression
	Optional bool
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() lexer.Position  { return c.Token.Pos }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// NewExpression is `new Callee(args...)`.
type NewExpression struct {
	Token  lexer.Token
	Callee Expression
	Args   []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) Pos() lexer.Position  { return n.Token.Pos }
func (n *NewExpression) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// MemberExpression is `object.property` or `object[property]`.
type MemberExpression struct {
	Token    lexer.Token
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() lexer.Position  { return m.Token.Pos }
func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + "." + m.Property.String()
}

// FunctionLiteral is a function expression or declaration's shared shape;
// Name is empty for anonymous function expressions and arrow functions.
type FunctionLiteral struct {
	Token     lexer.Token
	Name      string
	Params    []*Param
	Body      *BlockStatement
	IsArrow   bool
	// ExprBody holds a concise arrow body (`x => x * 2`); nil when Body is used.
	ExprBody  Expression
	Generator bool
	Async     bool
	Strict    bool // set by the parser when the body has a "use strict" directive
}

// Param is a single formal parameter, supporting defaults and rest.
type Param struct {
	Name    *Identifier
	Default Expression
	Rest    bool
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) statementNode()       {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionLiteral) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name.Value
	}
	name := f.Name
	kw := "function "
	if f.IsArrow {
		kw = ""
	}
	body := "{...}"
	if f.Body != nil {
		body = f.Body.String()
	} else if f.ExprBody != nil {
		body = f.ExprBody.String()
	}
	return kw + name + "(" + strings.Join(parts, ", ") + ") " + body
}
