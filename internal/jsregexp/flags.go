// Package jsregexp implements the RegExp engine: JS-flavor pattern syntax
// compiled through github.com/dlclark/regexp2 (chosen because Go's RE2-based
// regexp package cannot express JS backreferences and lookaround, which
// regexp2's backtracking engine supports directly), plus the lastIndex/
// exec/test/match/matchAll/search protocol spec.md §5 describes. Of the
// legacy static properties, only the left context is recorded (see
// RegExp.LeftContext); the others are not implemented.
package jsregexp

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Flags is the parsed g/i/m/s/y/u/v flag set of a RegExp literal or
// `new RegExp(pattern, flags)` call.
type Flags struct {
	Global     bool // g
	IgnoreCase bool // i
	Multiline  bool // m
	DotAll     bool // s
	Sticky     bool // y
	Unicode    bool // u
	UnicodeSets bool // v (treated as Unicode for matching purposes)
}

// ParseFlags validates raw (e.g. "gim") and reports a SyntaxError-shaped
// error for an unknown or duplicated flag character.
func ParseFlags(raw string) (Flags, error) {
	var f Flags
	seen := make(map[rune]bool)
	for _, r := range raw {
		if seen[r] {
			return f, fmt.Errorf("invalid regular expression flags: duplicate flag %q", r)
		}
		seen[r] = true
		switch r {
		case 'g':
			f.Global = true
		case 'i':
			f.IgnoreCase = true
		case 'm':
			f.Multiline = true
		case 's':
			f.DotAll = true
		case 'y':
			f.Sticky = true
		case 'u':
			f.Unicode = true
		case 'v':
			f.UnicodeSets = true
			f.Unicode = true
		default:
			return f, fmt.Errorf("invalid regular expression flags: unknown flag %q", r)
		}
	}
	return f, nil
}

// String renders flags back in canonical ECMAScript source order:
// d g i m s u v y (the `d` hasIndices flag is out of scope, so it is
// simply never set).
func (f Flags) String() string {
	var sb strings.Builder
	if f.Global {
		sb.WriteByte('g')
	}
	if f.IgnoreCase {
		sb.WriteByte('i')
	}
	if f.Multiline {
		sb.WriteByte('m')
	}
	if f.DotAll {
		sb.WriteByte('s')
	}
	if f.Unicode && !f.UnicodeSets {
		sb.WriteByte('u')
	}
	if f.UnicodeSets {
		sb.WriteByte('v')
	}
	if f.Sticky {
		sb.WriteByte('y')
	}
	return sb.String()
}

// regexp2Options maps our flag set onto regexp2.RegexOptions, folding in
// ECMAScript compatibility mode so named groups, \d/\w classes, and
// backreference syntax match JS rather than .NET semantics.
func (f Flags) regexp2Options() regexp2.RegexOptions {
	opts := regexp2.ECMAScript
	if f.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	if f.Multiline {
		opts |= regexp2.Multiline
	}
	if f.DotAll {
		opts |= regexp2.Singleline
	}
	return opts
}
