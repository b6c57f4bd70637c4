package ast

import (
	"strings"

	"github.com/jsengine/jsengine/internal/lexer"
)

// ClassMember is one method, getter, setter, or field inside a class body.
type ClassMember struct {
	Key      Expression
	Computed bool
	Kind     string // "method", "get", "set", "field", "constructor"
	Static   bool
	Value    *FunctionLiteral // nil for "field"
	FieldInit Expression      // used when Kind == "field"
}

// ClassDeclaration is `class Name extends Super { members... }`.
// An anonymous class expression leaves Name empty.
type ClassDeclaration struct {
	Token      lexer.Token
	Name       string
	SuperClass Expression
	Members    []ClassMember
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) expressionNode()      {}
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) Pos() lexer.Position  { return c.Token.Pos }
func (c *ClassDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	if c.SuperClass != nil {
		sb.WriteString(" extends ")
		sb.WriteString(c.SuperClass.String())
	}
	sb.WriteString(" { ")
	for _, m := range c.Members {
		sb.WriteString(m.Kind)
		sb.WriteString(" ")
		sb.WriteString(m.Key.String())
		sb.WriteString("; ")
	}
	sb.WriteString("}")
	return sb.String()
}
