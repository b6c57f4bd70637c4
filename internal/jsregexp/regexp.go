package jsregexp

import (
	"github.com/dlclark/regexp2"

	"github.com/jsengine/jsengine/internal/object"
)

// RegExp is the runtime RegExp instance: a compiled regexp2 pattern plus
// the handful of own-property-like fields the RegExp prototype's methods
// read and write (lastIndex chief among them).
type RegExp struct {
	Source    string
	Flags     Flags
	compiled  *regexp2.Regexp
	LastIndex int

	// version12LeftContext reproduces the RegExp.leftContext legacy quirk
	// spec.md calls out under "version-1.2 leftContext": in that
	// compatibility mode, `$`` ` after a failed match still reports the
	// left-context of the *previous* successful match rather than the
	// empty string.
	version12LeftContext bool
	lastLeftContext      string
}

// Compile parses pattern/flags into a RegExp, returning regexp2's compile
// error unchanged for a malformed literal or `new RegExp(...)` argument.
func Compile(pattern, flags string) (*RegExp, error) {
	f, err := ParseFlags(flags)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(pattern, f.regexp2Options())
	if err != nil {
		return nil, err
	}
	return &RegExp{Source: pattern, Flags: f, compiled: re}, nil
}

// SetVersion12LeftContext toggles the legacy RegExp.leftContext
// compatibility quirk described in spec.md; off by default.
func (r *RegExp) SetVersion12LeftContext(on bool) {
	r.version12LeftContext = on
}

// Match is one successful match result: the full match text, its index,
// named and positional capture groups, and the input string (Exec needs
// all of these to populate the array-like result object).
type Match struct {
	Text    string
	Index   int
	Length  int
	Groups  []Group
	Input   string
}

// Group is one capture group, indexed or named; Matched is false for a
// group that participated in the alternation but did not capture (its
// array/object slot should read undefined, not the empty string).
type Group struct {
	Name    string
	Text    string
	Index   int
	Matched bool
}

// execAt runs the underlying engine starting no earlier than `from`,
// returning nil with no error on a clean non-match.
func (r *RegExp) execAt(input string, from int) (*Match, error) {
	m, err := r.compiled.FindStringMatchStartingAt(input, from)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	groups := m.Groups()
	out := make([]Group, len(groups))
	for i, g := range groups {
		matched := len(g.Captures) > 0
		text := ""
		idx := -1
		if matched {
			text = g.String()
			idx = g.Index
		}
		out[i] = Group{Name: g.Name, Text: text, Index: idx, Matched: matched}
	}
	return &Match{
		Text:   m.String(),
		Index:  m.Index,
		Length: m.Length,
		Groups: out,
		Input:  input,
	}, nil
}

// Exec implements RegExp.prototype.exec's lastIndex bookkeeping: global or
// sticky regexes resume from lastIndex and advance it past the match (or
// reset it to 0 on failure); non-global/non-sticky regexes always search
// from the start and never touch lastIndex, per spec.md §5.
func (r *RegExp) Exec(input string) (*Match, error) {
	useLastIndex := r.Flags.Global || r.Flags.Sticky
	start := 0
	if useLastIndex {
		start = r.LastIndex
		if start > len(input) {
			r.LastIndex = 0
			return nil, nil
		}
	}

	m, err := r.execAt(input, start)
	if err != nil {
		return nil, err
	}

	if r.Flags.Sticky && m != nil && m.Index != start {
		// Sticky requires the match to begin exactly at lastIndex.
		m = nil
	}

	if m == nil {
		if useLastIndex {
			r.LastIndex = 0
		}
		// version12LeftContext deliberately leaves lastLeftContext alone
		// here: the 1.2 quirk keeps reporting the previous successful
		// match's left context after a failed match.
		if !r.version12LeftContext {
			r.lastLeftContext = ""
		}
		return nil, nil
	}

	r.lastLeftContext = input[:m.Index]

	if useLastIndex {
		next := m.Index + m.Length
		if m.Length == 0 {
			// An empty match must still advance lastIndex by one code
			// point so the next Exec call makes forward progress instead
			// of looping forever on a zero-width pattern.
			next++
		}
		r.LastIndex = next
	}
	return m, nil
}

// Test implements RegExp.prototype.test: Exec discarding the match object
// but keeping its lastIndex side effect.
func (r *RegExp) Test(input string) (bool, error) {
	m, err := r.Exec(input)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// LeftContext returns the text preceding the most recent match, the value
// behind the legacy `RegExp.leftContext` / `$\`` static property.
func (r *RegExp) LeftContext() string {
	return r.lastLeftContext
}

// FindAll implements the Symbol.matchAll protocol: every non-overlapping
// match of a global regex, each advancing past an empty match by one
// position so the iteration terminates. For a non-global regex it is an
// error at the call site (spec.md requires matchAll to reject patterns
// without the g flag), so FindAll assumes the caller already checked.
func (r *RegExp) FindAll(input string) ([]*Match, error) {
	var out []*Match
	pos := 0
	for pos <= len(input) {
		m, err := r.execAt(input, pos)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		if m.Length == 0 {
			pos = m.Index + 1
		} else {
			pos = m.Index + m.Length
		}
	}
	return out, nil
}

// ToObject wraps r as a script-visible *object.Object exposing source,
// flags, global, ignoreCase, multiline, sticky, unicode, and lastIndex as a
// plain writable data property, matching RegExp instance property layout.
func (r *RegExp) ToObject(proto *object.Object) *object.Object {
	o := object.NewObject(proto)
	o.Class = object.ClassRegExp
	o.DefineOwnProperty("source", object.String(r.Source), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("flags", object.String(r.Flags.String()), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("global", object.Bool(r.Flags.Global), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("ignoreCase", object.Bool(r.Flags.IgnoreCase), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("multiline", object.Bool(r.Flags.Multiline), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("sticky", object.Bool(r.Flags.Sticky), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("unicode", object.Bool(r.Flags.Unicode), object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("lastIndex", object.Number(r.LastIndex), object.PERMANENT|object.DONTENUM)
	return o
}
