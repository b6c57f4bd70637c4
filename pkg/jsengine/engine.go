// Package jsengine is the embeddable public surface: creating a Context,
// compiling and evaluating script source, and the compile-only helpers a
// host uses to check whether a source fragment is a complete, compilable
// unit before feeding it more input (spec.md §4.2's stringIsCompilableUnit).
//
// It plays the role the teacher's pkg/dwscript package plays for DWScript:
// the one import path an embedding application needs, everything below it
// being internal/ and free to change shape between releases.
package jsengine

import (
	"fmt"

	"github.com/jsengine/jsengine/internal/builtins"
	"github.com/jsengine/jsengine/internal/bytecode"
	"github.com/jsengine/jsengine/internal/contextrt"
	"github.com/jsengine/jsengine/internal/jserrors"
	"github.com/jsengine/jsengine/internal/lexer"
	"github.com/jsengine/jsengine/internal/object"
	"github.com/jsengine/jsengine/internal/parser"
)

// Engine owns one Context and the standard objects installed on it. Most
// embeddings need exactly one; NewEngine is the one-call constructor, with
// Context exposed for callers that need contextrt's lower-level lifecycle
// (Enter/Exit/Seal/thread-locals).
type Engine struct {
	ctx    *contextrt.Context
	sealed bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLanguageVersion sets the ECMAScript edition label the compiler
// environment reports (internal/ir.Env.LanguageVersion).
func WithLanguageVersion(v string) Option {
	return func(e *Engine) { e.ctx.SetLanguageVersion(v) }
}

// WithFeature toggles a contextrt.Feature flag before the standard objects
// are installed.
func WithFeature(f contextrt.Feature, on bool) Option {
	return func(e *Engine) { e.ctx.SetFeature(f, on) }
}

// Sealed installs the standard objects already sealed, so script code
// cannot redefine or delete built-in methods (Object.prototype.toString
// and friends).
func Sealed() Option {
	return func(e *Engine) { e.sealed = true }
}

// NewEngine creates a Context, applies opts, and installs the standard
// objects (initStandardObjects per spec.md §4.1) onto its global object.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{ctx: contextrt.NewContext()}
	for _, opt := range opts {
		opt(e)
	}
	builtins.Init(e.ctx.Global(), e.sealed, e.ctx.LanguageVersion())
	return e
}

// Context returns the engine's underlying Context, for callers that need
// Enter/Exit nesting, Seal/Unseal, thread-locals, or the microtask queue
// directly.
func (e *Engine) Context() *contextrt.Context { return e.ctx }

// Global returns the engine's global object, the top-level scope scripts
// see and the object a host populates with its own bindings before
// evaluating script source.
func (e *Engine) Global() *object.Object { return e.ctx.Global() }

// CompileString parses and compiles source into a Script ready to run
// repeatedly, reporting any parse or compile error adapted through
// jserrors.Adapt so callers get a consistent *jserrors.EngineError.
func (e *Engine) CompileString(source, sourceName string) (*Script, error) {
	l := lexer.New(source)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, jserrors.New(jserrors.KindSyntax, errs[0].Pos, errs[0].Message, source, sourceName)
	}
	chunk, err := bytecode.Compile(prog)
	if err != nil {
		return nil, jserrors.Adapt(err, e.ctx.HasFeature(contextrt.FeatureEnhancedJavaAccess))
	}
	return &Script{chunk: chunk, source: source, sourceName: sourceName}, nil
}

// EvaluateString is CompileString followed immediately by Run against the
// engine's global scope, the common case for a one-shot script.
func (e *Engine) EvaluateString(source, sourceName string) (object.Value, error) {
	script, err := e.CompileString(source, sourceName)
	if err != nil {
		return object.Undefined, err
	}
	return e.RunScript(script)
}

// RunScript executes a previously compiled Script against this Engine's
// Context, draining the microtask queue after the top-level code finishes
// running (spec.md's ordering: synchronous completion, then microtasks).
func (e *Engine) RunScript(script *Script) (object.Value, error) {
	var result object.Value
	var runErr error
	_, err := e.ctx.Call(func(*contextrt.Context) (object.Value, error) {
		vm := bytecode.NewVM(e.ctx.Global())
		result, runErr = vm.Run(script.chunk)
		return result, runErr
	})
	if runErr != nil {
		return object.Undefined, jserrors.Adapt(runErr, e.ctx.HasFeature(contextrt.FeatureEnhancedJavaAccess))
	}
	if err != nil {
		return object.Undefined, jserrors.Adapt(err, e.ctx.HasFeature(contextrt.FeatureEnhancedJavaAccess))
	}
	e.ctx.ProcessMicrotasks()
	return result, nil
}

// Script is source compiled once, ready to run (possibly repeatedly)
// without re-parsing, mirroring the teacher's compiled-unit caching idiom.
type Script struct {
	chunk      *bytecode.Chunk
	source     string
	sourceName string
}

// Source returns the original source text the Script was compiled from,
// used by Decompile and by diagnostics that want to show source context.
func (s *Script) Source() string { return s.source }

// Decompile renders a best-effort reconstruction of the script from its
// retained source text. Full structural decompilation from bytecode alone
// (spec.md's decompile() operation in its strictest form) is out of scope
// for this core engine; like the teacher's own debug build, it falls back
// to the original source when available and errors otherwise.
func (s *Script) Decompile() (string, error) {
	if s.source == "" {
		return "", fmt.Errorf("jsengine: Decompile requires GenerateSource to have retained the original text")
	}
	return s.source, nil
}

// StringIsCompilableUnit reports whether source needs no further input to
// form a complete program (spec.md §4.2). It is false only when parsing
// ran out of input mid-construct; source with other syntax errors reports
// true, since more input cannot complete it, and compiling it reports the
// error. Diagnostics are discarded rather than propagated, since the
// caller is polling "is this enough input yet?" interactively (e.g. a
// REPL deciding whether to read another line).
func StringIsCompilableUnit(source string) bool {
	l := lexer.New(source)
	p := parser.New(l)
	p.ParseProgram()
	if p.EOFOnly() {
		// Ran out of input mid-construct (e.g. an open brace): more text
		// could still complete it, so this is not yet a compile error.
		return false
	}
	return true
}
