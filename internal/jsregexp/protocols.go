package jsregexp

import (
	"fmt"
	"strings"
)

// MatchResult implements Symbol.match: for a global regex it returns every
// matched substring (lastIndex reset to 0 first, per spec), for a
// non-global regex it returns the single Exec result.
func MatchResult(r *RegExp, input string) ([]string, *Match, error) {
	if !r.Flags.Global {
		m, err := r.Exec(input)
		return nil, m, err
	}
	r.LastIndex = 0
	matches, err := r.FindAll(input)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, nil
	}
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	r.LastIndex = 0
	return texts, nil, nil
}

// MatchAll implements Symbol.matchAll. The g flag is required; for a
// non-global regex it returns an error, which callers pass on unchanged.
func MatchAll(r *RegExp, input string) ([]*Match, error) {
	if !r.Flags.Global {
		return nil, fmt.Errorf("String.prototype.matchAll called with a non-global RegExp argument")
	}
	// matchAll operates on an independent copy of lastIndex bookkeeping so
	// that iterating the returned slice never disturbs the receiver's own
	// exec/test state, matching the spec's "clone the regex" requirement.
	clone := *r
	clone.LastIndex = 0
	return clone.FindAll(input)
}

// Search implements Symbol.search: the index of the first match ignoring
// and not disturbing lastIndex, or -1.
func Search(r *RegExp, input string) (int, error) {
	saved := r.LastIndex
	r.LastIndex = 0
	m, err := r.execAt(input, 0)
	r.LastIndex = saved
	if err != nil {
		return -1, err
	}
	if m == nil {
		return -1, nil
	}
	return m.Index, nil
}

// Replace implements String.prototype.replace/replaceAll's RegExp branch
// for a literal replacement string, expanding $&, $`, $', and $1-$9
// (and $<name> for named groups) per spec.md's legacy substitution rules.
func Replace(r *RegExp, input, replacement string) (string, error) {
	var matches []*Match
	if r.Flags.Global {
		ms, err := r.FindAll(input)
		if err != nil {
			return "", err
		}
		matches = ms
	} else {
		m, err := r.execAt(input, 0)
		if err != nil {
			return "", err
		}
		if m != nil {
			matches = []*Match{m}
		}
	}
	if len(matches) == 0 {
		return input, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(input[last:m.Index])
		sb.WriteString(expandReplacement(replacement, m, input))
		last = m.Index + m.Length
	}
	sb.WriteString(input[last:])
	return sb.String(), nil
}

func expandReplacement(tmpl string, m *Match, input string) string {
	var sb strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i == len(tmpl)-1 {
			sb.WriteByte(c)
			continue
		}
		next := tmpl[i+1]
		switch {
		case next == '$':
			sb.WriteByte('$')
			i++
		case next == '&':
			sb.WriteString(m.Text)
			i++
		case next == '`':
			sb.WriteString(input[:m.Index])
			i++
		case next == '\'':
			sb.WriteString(input[m.Index+m.Length:])
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' && j-i <= 2 {
				j++
			}
			n := 0
			fmt.Sscanf(tmpl[i+1:j], "%d", &n)
			if n >= 1 && n < len(m.Groups) {
				if m.Groups[n].Matched {
					sb.WriteString(m.Groups[n].Text)
				}
				i = j - 1
			} else {
				sb.WriteByte('$')
			}
		case next == '<':
			end := strings.IndexByte(tmpl[i+2:], '>')
			if end < 0 {
				sb.WriteByte('$')
				continue
			}
			name := tmpl[i+2 : i+2+end]
			for _, g := range m.Groups {
				if g.Name == name && g.Matched {
					sb.WriteString(g.Text)
					break
				}
			}
			i += 2 + end
		default:
			sb.WriteByte('$')
		}
	}
	return sb.String()
}

// Split implements String.prototype.split(RegExp) semantics: input is
// divided at each match, capture groups are spliced into the result
// between the surrounding pieces, and a zero-width match at the current
// position is skipped to guarantee progress.
func Split(r *RegExp, input string, limit int) ([]string, error) {
	if input == "" {
		m, err := r.execAt(input, 0)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return []string{}, nil
		}
		return []string{""}, nil
	}

	var out []string
	last, pos := 0, 0
	for pos < len(input) {
		m, err := r.execAt(input, pos)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		if m.Index == last && m.Length == 0 {
			pos = m.Index + 1
			continue
		}
		if m.Index >= len(input) {
			break
		}
		out = append(out, input[last:m.Index])
		for _, g := range m.Groups[1:] {
			if g.Matched {
				out = append(out, g.Text)
			} else {
				out = append(out, "")
			}
		}
		last = m.Index + m.Length
		pos = last
		if m.Length == 0 {
			pos++
		}
		if limit >= 0 && len(out) >= limit {
			return out[:limit], nil
		}
	}
	out = append(out, input[last:])
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
