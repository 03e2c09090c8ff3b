package jsondelta

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one hop in a path: a mapping key or a sequence index
type Step interface {
	// appendTo writes the step in wire notation
	appendTo(b *strings.Builder)
}

// Key addresses a mapping entry
type Key string

// Index addresses a sequence position
type Index int

func (k Key) appendTo(b *strings.Builder) {
	b.WriteString("['")
	b.WriteString(strings.ReplaceAll(string(k), "'", "\\'"))
	b.WriteString("']")
}

func (i Index) appendTo(b *strings.Builder) {
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(int(i)))
	b.WriteByte(']')
}

// Path locates a node in a document, root outward. The empty path is the
// document root.
type Path []Step

// String renders the wire notation, e.g. root['a']['b'][2]
func (p Path) String() string {
	b := &strings.Builder{}
	b.WriteString("root")
	for _, s := range p {
		s.appendTo(b)
	}
	return b.String()
}

// Child extends p by one step without aliasing the receiver's backing array
func (p Path) Child(s Step) Path {
	cp := make(Path, len(p), len(p)+1)
	copy(cp, p)
	return append(cp, s)
}

// HasPrefix reports whether prefix addresses an ancestor of (or the same
// node as) p
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, s := range prefix {
		if p[i] != s {
			return false
		}
	}
	return true
}

// comparePaths orders paths for deterministic processing: step by step,
// indices numerically, keys lexically, keys before indices at a mixed
// position, shorter (less specific) paths first.
func comparePaths(a, b Path) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		c := compareSteps(a[i], b[i])
		if c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareSteps(a, b Step) int {
	switch x := a.(type) {
	case Key:
		if y, ok := b.(Key); ok {
			return strings.Compare(string(x), string(y))
		}
		return -1
	case Index:
		if y, ok := b.(Index); ok {
			return int(x) - int(y)
		}
		return 1
	}
	return 0
}

// ParsePath parses the bracketed wire notation back into a structured Path.
// The notation must begin with "root"; each following fragment is either
// ['key'] (single or double quoted, backslash-escaped) or [index].
func ParsePath(s string) (Path, error) {
	if !strings.HasPrefix(s, "root") {
		return nil, fmt.Errorf("path %q: missing root prefix", s)
	}
	rest := s[len("root"):]
	var p Path
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, fmt.Errorf("path %q: expected '[' at %q", s, rest)
		}
		rest = rest[1:]
		if len(rest) == 0 {
			return nil, fmt.Errorf("path %q: unterminated step", s)
		}
		switch rest[0] {
		case '\'', '"':
			key, tail, err := parseQuoted(rest)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", s, err)
			}
			rest = tail
			if len(rest) == 0 || rest[0] != ']' {
				return nil, fmt.Errorf("path %q: expected ']' after key", s)
			}
			rest = rest[1:]
			p = append(p, Key(key))
		default:
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q: unterminated step", s)
			}
			idx, err := strconv.Atoi(rest[:end])
			if err != nil {
				return nil, fmt.Errorf("path %q: bad index %q", s, rest[:end])
			}
			rest = rest[end+1:]
			p = append(p, Index(idx))
		}
	}
	return p, nil
}

// parseQuoted consumes a quoted key starting at the opening quote, returning
// the unescaped key and the remainder after the closing quote
func parseQuoted(s string) (string, string, error) {
	quote := s[0]
	b := make([]byte, 0, len(s))
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			b = append(b, c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			return string(b), s[i+1:], nil
		default:
			b = append(b, c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted key")
}
