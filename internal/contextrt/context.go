// Package contextrt implements the per-thread Context lifecycle spec.md §6
// describes: enter/exit/call nesting, sealing, thread-local storage, the
// microtask queue, and continuation capture/resume.
package contextrt

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/jsengine/jsengine/internal/object"
)

// Feature is one entry of the 21-flag feature bitmap a Context carries
// (spec.md §6), each independently togglable before the Context is sealed.
type Feature int

const (
	FeatureStrictMode Feature = iota
	FeatureWarningAsError
	FeatureGenerateObserverCount
	FeatureGenerateDebugInfo
	FeatureDynamicScope
	FeatureReservedKeywordAsIdentifier
	FeatureLocationInformationInError
	FeatureAllowReservedKeywords
	FeatureLocaleAware
	FeatureMemberExprAsFunctionName
	FeatureParentProtoProperties
	FeatureEnhancedJavaAccess
	FeatureE4XFunctionsAsVar
	FeatureStrictVars
	FeatureAllowIncompleteCompiler
	FeatureTypeofNull
	FeatureV8Extensions
	FeatureToStringAsSource
	FeatureOldUndefinedNaming
	FeatureLiteralEval
	FeatureLatestVersionName
	featureCount
)

// Context is the per-thread ambient execution state: the global scope's
// backing object, the active feature flags, the seal/unseal state,
// thread-local storage, and the FIFO microtask queue, matching the
// lifecycle spec.md §6 describes. A *Context is not safe for concurrent
// use from more than one goroutine at a time, mirroring how the engine
// it is modeled on pins one Context per thread.
type Context struct {
	mu sync.Mutex

	global *object.Object

	features   [featureCount]bool
	languageVersion string

	sealed   bool
	sealKey  any

	threadLocal map[any]any

	microtasks []func()

	continuations []*Continuation

	entryDepth int
	owner      uint64
}

// goroutineID identifies the calling goroutine, parsed out of the header
// line of its own stack trace ("goroutine 123 [running]:"). It exists
// solely so Enter can detect a Context already bound to a different
// goroutine; the numeric value itself is never exposed to callers.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// NewContext creates a fresh, unentered, unsealed Context with an empty
// global object.
func NewContext() *Context {
	return &Context{
		global:      object.NewObject(nil),
		threadLocal: make(map[any]any),
		languageVersion: "default",
	}
}

// Global returns the Context's global object, the receiver `initStandardObjects`
// populates and scripts see as the top-level scope.
func (c *Context) Global() *object.Object { return c.global }

// Enter increments the Context's entry depth, matching enter/exit nesting:
// a Context may be entered re-entrantly on the same goroutine (e.g. a
// built-in calling back into script), and only the outermost Exit
// actually tears down thread association. The first Enter on an
// unentered Context binds it to the calling goroutine; a subsequent
// Enter from a different goroutine while that binding is still live
// fails instead of being silently serialized by the mutex, per the
// one-thread-at-a-time contract a Context is documented to have.
func (c *Context) Enter() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	gid := goroutineID()
	if c.entryDepth == 0 {
		c.owner = gid
	} else if c.owner != gid {
		return fmt.Errorf("contextrt: Context already entered by another goroutine")
	}
	c.entryDepth++
	return nil
}

// Exit decrements the entry depth, releasing the goroutine binding once it
// reaches zero. Calling Exit without a matching Enter is a programmer
// error and panics, mirroring the teacher's fail-fast idiom for
// unbalanced resource lifecycles.
func (c *Context) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entryDepth <= 0 {
		panic("contextrt: Exit called without a matching Enter")
	}
	c.entryDepth--
	if c.entryDepth == 0 {
		c.owner = 0
	}
}

// Depth reports the current Enter/Exit nesting depth.
func (c *Context) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryDepth
}

// Call runs fn with the Context entered for its duration, the idiomatic
// replacement for a manual Enter/defer Exit pair. It reports Enter's
// error (e.g. the Context is already bound to another goroutine) instead
// of running fn.
func (c *Context) Call(fn func(*Context) (object.Value, error)) (object.Value, error) {
	if err := c.Enter(); err != nil {
		return object.Undefined, err
	}
	defer c.Exit()
	return fn(c)
}

// SetFeature enables or disables a feature flag. It panics if the Context
// is sealed, since a sealed Context's configuration must not change under
// running script.
func (c *Context) SetFeature(f Feature, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sealed {
		panic("contextrt: cannot change feature flags on a sealed Context")
	}
	c.features[f] = on
}

// HasFeature reports whether f is currently enabled.
func (c *Context) HasFeature(f Feature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features[f]
}

// LanguageVersion returns the configured ECMAScript edition label.
func (c *Context) LanguageVersion() string { return c.languageVersion }

// SetLanguageVersion sets the edition label used by the compiler environment
// (internal/ir.Env.LanguageVersion).
func (c *Context) SetLanguageVersion(v string) { c.languageVersion = v }

// Seal locks the Context's global object and feature flags against further
// mutation, keyed by key: only Unseal(key) with an equal key can reverse
// it, per spec.md's "seal/unseal with key-equality semantics".
func (c *Context) Seal(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sealed = true
	c.sealKey = key
	c.global.Seal()
}

// Unseal clears the Context's sealed state and makes the global object
// extensible again, provided key is equal to the key Seal was called
// with (or both are nil). The global's properties that Seal marked
// PERMANENT stay PERMANENT, and the global object's own sealed flag is
// not cleared. A mismatched key is a programmer error and
// panics, matching the "attempting to unseal with the wrong key is a
// bug, not a recoverable condition" framing of spec.md.
func (c *Context) Unseal(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sealed {
		return
	}
	if c.sealKey != key {
		panic("contextrt: Unseal key does not match the key used to Seal")
	}
	c.sealed = false
	c.sealKey = nil
	c.global.Extensible = true
}

// Sealed reports whether the Context is currently sealed.
func (c *Context) Sealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sealed
}

// PutThreadLocal associates value with key for the lifetime of the
// Context (or until RemoveThreadLocal), independent of script-visible
// state.
func (c *Context) PutThreadLocal(key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threadLocal[key] = value
}

// GetThreadLocal retrieves a value stored by PutThreadLocal.
func (c *Context) GetThreadLocal(key any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.threadLocal[key]
	return v, ok
}

// RemoveThreadLocal deletes a thread-local binding.
func (c *Context) RemoveThreadLocal(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.threadLocal, key)
}

// EnqueueMicrotask appends job to the FIFO microtask queue (spec.md's
// enqueueMicrotask operation), e.g. a resolved Promise reaction.
func (c *Context) EnqueueMicrotask(job func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.microtasks = append(c.microtasks, job)
}

// ProcessMicrotasks drains the microtask queue to empty, running jobs in
// FIFO order and re-checking for newly enqueued jobs after each one (a
// microtask enqueuing another microtask is drained in the same call,
// matching spec.md's "drain-to-empty" semantics rather than one fixed
// pass over a snapshot).
func (c *Context) ProcessMicrotasks() {
	for {
		c.mu.Lock()
		if len(c.microtasks) == 0 {
			c.mu.Unlock()
			return
		}
		job := c.microtasks[0]
		c.microtasks = c.microtasks[1:]
		c.mu.Unlock()
		job()
	}
}

// PendingMicrotasks reports how many jobs remain queued.
func (c *Context) PendingMicrotasks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.microtasks)
}

// Continuation is an opaque, single-use capture of a suspended call
// stack, implementing captureContinuation/resumeContinuation. A
// continuation holds whatever VM state snapshot the caller passed to
// CaptureContinuation; resuming it on a
// different Context is rejected to keep continuations context-isolated
// (spec.md's "continuation isolation" testable property).
type Continuation struct {
	owner   *Context
	id      int
	resumed bool
	state   any // opaque VM state snapshot supplied by the caller
}

// CaptureContinuation registers a new Continuation bound to this Context,
// wrapping the caller-supplied VM state snapshot.
func (c *Context) CaptureContinuation(state any) *Continuation {
	c.mu.Lock()
	defer c.mu.Unlock()
	cont := &Continuation{owner: c, id: len(c.continuations), state: state}
	c.continuations = append(c.continuations, cont)
	return cont
}

// ResumeContinuation resumes cont on this Context, returning its captured
// state for the bytecode interpreter to splice back onto its frame stack.
// It errors if cont belongs to a different Context (continuations do not
// survive a Context boundary) or has already been resumed (single-use).
func (c *Context) ResumeContinuation(cont *Continuation) (any, error) {
	if cont.owner != c {
		return nil, fmt.Errorf("contextrt: continuation captured on a different Context")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cont.resumed {
		return nil, fmt.Errorf("contextrt: continuation already resumed")
	}
	cont.resumed = true
	return cont.state, nil
}

// Factory is a ContextFactory: a seam for callers to customize Context
// construction (e.g. to pre-populate thread-locals or feature flags)
// without a constructor with an ever-growing parameter list.
type Factory struct {
	Configure func(*Context)
}

// NewContext builds a Context and runs f.Configure on it, if set.
func (f Factory) NewContext() *Context {
	c := NewContext()
	if f.Configure != nil {
		f.Configure(c)
	}
	return c
}
