// Package ir lowers a parsed AST into a per-function metadata tree (the
// bytecode compiler works from the AST directly and does not read it),
// per spec.md §4.2 stage 3: strict-mode propagation,
// function-tree flattening for the debugger's "debuggable" view, and
// (when requested) retaining raw source text for decompile().
package ir

import (
	"github.com/jsengine/jsengine/internal/ast"
)

// Env mirrors the "compiler-environment object" spec.md §4.2 stage 1
// builds from the active Context: the handful of settings that affect
// how source lowers to IR.
type Env struct {
	LanguageVersion              string
	StrictMode                   bool
	GenerateSource                bool
	ReservedWordAsIdentifier     bool
	MemberExprAsFunctionName     bool
}

// FuncNode is one entry in the function tree mirrored to the debugger.
// It wraps the original *ast.FunctionLiteral (or nil for the program's
// top-level scope) together with its resolved strictness and nested
// functions, and the raw source slice when Env.GenerateSource is set.
type FuncNode struct {
	Name      string
	Literal   *ast.FunctionLiteral // nil for the top-level program
	Strict    bool
	Source    string // only populated when GenerateSource is set
	Children  []*FuncNode
	HoistedVars []string // `var`-declared names hoisted to this function's scope
}

// Unit is the lowered artifact: the original AST plus the per-function
// metadata tree that the inspect subcommand renders.
type Unit struct {
	Program *ast.Program
	Root    *FuncNode
	Source  string
}

// Lower transforms prog into a Unit, propagating strict mode from the
// program (or an enclosing function) down into every nested function per
// ECMA-262's strict-mode inheritance rule, and collecting each function's
// hoisted `var` names (spec.md §4.2 IR tree stage).
func Lower(prog *ast.Program, env Env, rawSource string) *Unit {
	root := &FuncNode{Name: "<program>", Strict: prog.Strict || env.StrictMode}
	if env.GenerateSource {
		root.Source = rawSource
	}
	root.HoistedVars = hoistVars(prog.Statements)
	lowerStatements(prog.Statements, root, env)
	return &Unit{Program: prog, Root: root, Source: rawSource}
}

func lowerStatements(stmts []ast.Statement, parent *FuncNode, env Env) {
	for _, s := range stmts {
		lowerStatement(s, parent, env)
	}
}

func lowerStatement(s ast.Statement, parent *FuncNode, env Env) {
	switch n := s.(type) {
	case *ast.FunctionLiteral:
		lowerFunction(n, parent, env)
	case *ast.BlockStatement:
		lowerStatements(n.Statements, parent, env)
	case *ast.IfStatement:
		lowerStatement(n.Consequent, parent, env)
		if n.Alternate != nil {
			lowerStatement(n.Alternate, parent, env)
		}
	case *ast.WhileStatement:
		lowerStatement(n.Body, parent, env)
	case *ast.DoWhileStatement:
		lowerStatement(n.Body, parent, env)
	case *ast.ForStatement:
		lowerStatement(n.Body, parent, env)
	case *ast.ForInStatement:
		lowerStatement(n.Body, parent, env)
	case *ast.TryStatement:
		lowerStatements(n.Block.Statements, parent, env)
		if n.Handler != nil {
			lowerStatements(n.Handler.Body.Statements, parent, env)
		}
		if n.Finalizer != nil {
			lowerStatements(n.Finalizer.Statements, parent, env)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			lowerStatements(c.Consequent, parent, env)
		}
	case *ast.LabeledStatement:
		lowerStatement(n.Body, parent, env)
	case *ast.ExpressionStatement:
		lowerExpressionFunctions(n.Expression, parent, env)
	case *ast.ClassDeclaration:
		for _, m := range n.Members {
			if m.Value != nil {
				lowerFunction(m.Value, parent, env)
			}
		}
	}
}

// lowerExpressionFunctions descends into expressions only far enough to
// find nested function/arrow literals and class expressions, which are
// the only expression forms that introduce a new FuncNode.
func lowerExpressionFunctions(e ast.Expression, parent *FuncNode, env Env) {
	switch n := e.(type) {
	case *ast.FunctionLiteral:
		lowerFunction(n, parent, env)
	case *ast.CallExpression:
		lowerExpressionFunctions(n.Callee, parent, env)
		for _, a := range n.Args {
			lowerExpressionFunctions(a, parent, env)
		}
	case *ast.AssignmentExpression:
		lowerExpressionFunctions(n.Value, parent, env)
	case *ast.InfixExpression:
		lowerExpressionFunctions(n.Left, parent, env)
		lowerExpressionFunctions(n.Right, parent, env)
	case *ast.LogicalExpression:
		lowerExpressionFunctions(n.Left, parent, env)
		lowerExpressionFunctions(n.Right, parent, env)
	case *ast.ConditionalExpression:
		lowerExpressionFunctions(n.Consequent, parent, env)
		lowerExpressionFunctions(n.Alternate, parent, env)
	case *ast.ClassDeclaration:
		for _, m := range n.Members {
			if m.Value != nil {
				lowerFunction(m.Value, parent, env)
			}
		}
	}
}

func lowerFunction(fn *ast.FunctionLiteral, parent *FuncNode, env Env) {
	child := &FuncNode{Name: fn.Name, Literal: fn, Strict: parent.Strict || fn.Strict}
	if env.GenerateSource {
		child.Source = fn.String()
	}
	if fn.Body != nil {
		child.HoistedVars = hoistVars(fn.Body.Statements)
		lowerStatements(fn.Body.Statements, child, env)
	}
	parent.Children = append(parent.Children, child)
}

// hoistVars collects every `var`-declared name reachable in stmts without
// descending into nested functions, implementing `var`'s function-scope
// hoisting (as opposed to let/const's block scoping, left in place).
func hoistVars(stmts []ast.Statement) []string {
	var names []string
	var walk func(s ast.Statement)
	walk = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.VariableDeclaration:
			if n.Kind == "var" {
				for _, d := range n.Decls {
					names = append(names, d.Name.Value)
				}
			}
		case *ast.BlockStatement:
			for _, st := range n.Statements {
				walk(st)
			}
		case *ast.IfStatement:
			walk(n.Consequent)
			if n.Alternate != nil {
				walk(n.Alternate)
			}
		case *ast.WhileStatement:
			walk(n.Body)
		case *ast.DoWhileStatement:
			walk(n.Body)
		case *ast.ForStatement:
			if vd, ok := n.Init.(*ast.VariableDeclaration); ok && vd.Kind == "var" {
				for _, d := range vd.Decls {
					names = append(names, d.Name.Value)
				}
			}
			walk(n.Body)
		case *ast.ForInStatement:
			if vd, ok := n.Left.(*ast.VariableDeclaration); ok && vd.Kind == "var" {
				for _, d := range vd.Decls {
					names = append(names, d.Name.Value)
				}
			}
			walk(n.Body)
		case *ast.TryStatement:
			for _, st := range n.Block.Statements {
				walk(st)
			}
			if n.Handler != nil {
				for _, st := range n.Handler.Body.Statements {
					walk(st)
				}
			}
			if n.Finalizer != nil {
				for _, st := range n.Finalizer.Statements {
					walk(st)
				}
			}
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				for _, st := range c.Consequent {
					walk(st)
				}
			}
		case *ast.LabeledStatement:
			walk(n.Body)
		}
	}
	for _, s := range stmts {
		walk(s)
	}
	return names
}

// Walk visits node and every descendant in the function tree, in the
// order the debugger attaches them: the node itself, then its children
// depth-first (spec.md §4.2 stage 5 "post the compiled debuggable view
// recursively, script then each nested function").
func Walk(node *FuncNode, visit func(*FuncNode)) {
	visit(node)
	for _, c := range node.Children {
		Walk(c, visit)
	}
}
