// Package jserrors implements the engine's error-reporting SPI and the
// adapted exception kinds every language boundary raises, per spec.md §4.5
// and §7.
package jserrors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jsengine/jsengine/internal/lexer"
)

// Kind classifies an engine-level error as described in spec.md §7.
type Kind int

const (
	KindSyntax Kind = iota
	KindReference
	KindType
	KindRange
	KindEvaluator
	KindWrapped
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindReference:
		return "ReferenceError"
	case KindType:
		return "TypeError"
	case KindRange:
		return "RangeError"
	case KindEvaluator:
		return "EvaluatorError"
	case KindWrapped:
		return "WrappedError"
	default:
		return "Error"
	}
}

// EngineError is the single exception type every language boundary raises
// or adapts incoming host errors into. It always carries source position
// when available, matching spec.md's "every engine exception carries
// source name, line number, line source, and line offset" requirement.
type EngineError struct {
	Kind       Kind
	Message    string
	SourceName string
	Line       int
	Column     int
	LineSource string
	// Wrapped holds the original host error for KindWrapped, preserved so
	// %w-style unwrapping keeps working through this boundary.
	Wrapped error
}

func (e *EngineError) Error() string {
	return e.Format(false)
}

func (e *EngineError) Unwrap() error { return e.Wrapped }

// Format renders the error with source context the way the teacher's
// CompilerError does, with an optional caret line pointing at the column.
func (e *EngineError) Format(color bool) string {
	var sb strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&sb, "%s: %s\n  at %s:%d:%d", e.Kind, e.Message, e.SourceName, e.Line, e.Column)
	} else {
		fmt.Fprintf(&sb, "%s: %s\n  at line %d:%d", e.Kind, e.Message, e.Line, e.Column)
	}
	if e.LineSource != "" {
		prefix := fmt.Sprintf("%4d | ", e.Line)
		sb.WriteString("\n")
		sb.WriteString(prefix)
		sb.WriteString(e.LineSource)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(0, e.Column-1)))
		if color {
			sb.WriteString("\033[1;31m^\033[0m")
		} else {
			sb.WriteString("^")
		}
	}
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// New builds an EngineError positioned at pos within source/sourceName.
func New(kind Kind, pos lexer.Position, message, source, sourceName string) *EngineError {
	return &EngineError{
		Kind:       kind,
		Message:    message,
		SourceName: sourceName,
		Line:       pos.Line,
		Column:     pos.Column,
		LineSource: sourceLine(source, pos.Line),
	}
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Adapt implements spec.md §4.5's boundary contract: an *EngineError passes
// through unchanged; any other error is wrapped, reconstructing position by
// walking the calling Go stack for the nearest frame outside this module
// (the interpreter has no script frame active, e.g. a host callback panic).
func Adapt(err error, enhancedJavaAccess bool) *EngineError {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EngineError); ok {
		return ee
	}
	ee := &EngineError{Kind: KindWrapped, Message: err.Error(), Wrapped: err}
	if enhancedJavaAccess {
		ee.Kind = KindEvaluator
	}
	if file, line, ok := nearestNonEngineFrame(); ok {
		ee.SourceName = file
		ee.Line = line
	}
	return ee
}

// nearestNonEngineFrame walks the Go call stack looking for the first frame
// outside this module's packages, serving as the "thread-walk fallback"
// spec.md §4.5 and §2 describe for errors raised outside script frames.
func nearestNonEngineFrame() (file string, line int, ok bool) {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "github.com/jsengine/jsengine/") {
			return f.File, f.Line, true
		}
		if !more {
			break
		}
	}
	return "", 0, false
}

// Reporter is the host-pluggable error sink (spec.md §6 ErrorReporter SPI).
type Reporter interface {
	Warning(message, sourceName string, line int, lineSource string, lineOffset int)
	Error(message, sourceName string, line int, lineSource string, lineOffset int)
	RuntimeError(message, sourceName string, line int, lineSource string, lineOffset int)
}

// DiscardReporter silently drops every report.
type DiscardReporter struct{}

func (DiscardReporter) Warning(string, string, int, string, int)      {}
func (DiscardReporter) Error(string, string, int, string, int)        {}
func (DiscardReporter) RuntimeError(string, string, int, string, int) {}

// WriterReporter is a simple Reporter that formats every report to a
// caller-supplied sink function, grounded on the CLI's use of the teacher's
// FormatErrors helper to print to stderr.
type WriterReporter struct {
	Write func(s string)
}

func (w WriterReporter) Warning(msg, name string, line int, src string, off int) {
	w.emit("warning", msg, name, line, src, off)
}

func (w WriterReporter) Error(msg, name string, line int, src string, off int) {
	w.emit("error", msg, name, line, src, off)
}

func (w WriterReporter) RuntimeError(msg, name string, line int, src string, off int) {
	w.emit("runtime error", msg, name, line, src, off)
}

func (w WriterReporter) emit(kind, msg, name string, line int, src string, _ int) {
	if w.Write == nil {
		return
	}
	ee := &EngineError{Message: msg, SourceName: name, Line: line, LineSource: src}
	w.Write(fmt.Sprintf("%s: %s", kind, ee.Format(false)))
}
