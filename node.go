package jsondelta

import (
	"strconv"
)

// Type enumerates the kinds of value a document node can hold
type Type int

const (
	NullType Type = iota
	BoolType
	NumberType
	StringType
	MappingType
	SequenceType
)

// String returns the type name used on the wire for type_changes records
func (t Type) String() string {
	switch t {
	case NullType:
		return "Null"
	case BoolType:
		return "Boolean"
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case MappingType:
		return "Mapping"
	case SequenceType:
		return "Sequence"
	}
	return "<unknown type>"
}

// IsScalar reports whether nodes of this type carry no children
func (t Type) IsScalar() bool {
	switch t {
	case MappingType, SequenceType:
		return false
	}
	return true
}

// Node is a single value in a document tree. A document is a closed variant:
// every node is exactly one of the six Types, and consumers switch on Type
// instead of inspecting runtime types.
//
// Mappings keep their keys in source order. Source order has no meaning for
// comparison, but a reconstructed document must read back the way the
// original was written, which rules out Go maps as the carrier.
type Node struct {
	Type Type

	Bool bool
	// numbers keep the source literal alongside the parsed value so
	// re-encoding doesn't reformat "1.50" as "1.5"
	Raw string
	Num float64
	Str string

	// Keys is populated for mappings only. Values holds mapping values
	// (parallel to Keys) or sequence items.
	Keys   []string
	Values []*Node
}

// Null returns a null node
func Null() *Node { return &Node{Type: NullType} }

// Bool returns a boolean node
func Bool(b bool) *Node { return &Node{Type: BoolType, Bool: b} }

// String returns a string node
func String(s string) *Node { return &Node{Type: StringType, Str: s} }

// Number returns a number node from a source literal. Invalid literals
// yield a node that compares by literal only.
func Number(lit string) *Node {
	f, _ := strconv.ParseFloat(lit, 64)
	return &Node{Type: NumberType, Raw: lit, Num: f}
}

// NumberFromFloat returns a number node for a computed value
func NumberFromFloat(f float64) *Node {
	return &Node{Type: NumberType, Raw: strconv.FormatFloat(f, 'f', -1, 64), Num: f}
}

// Mapping returns an empty mapping node
func Mapping() *Node { return &Node{Type: MappingType} }

// Sequence returns a sequence node holding items
func Sequence(items ...*Node) *Node {
	return &Node{Type: SequenceType, Values: items}
}

// Len returns the child count for containers, zero for scalars
func (n *Node) Len() int {
	return len(n.Values)
}

// IndexOfKey returns the position of key in a mapping, or -1
func (n *Node) IndexOfKey(key string) int {
	for i, k := range n.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Value returns the mapping value for key, or nil when absent
func (n *Node) Value(key string) *Node {
	if i := n.IndexOfKey(key); i >= 0 {
		return n.Values[i]
	}
	return nil
}

// Set replaces the value at key, appending the key when it is new.
// New keys land at the end, matching how reconstruction grows a mapping.
func (n *Node) Set(key string, v *Node) {
	if i := n.IndexOfKey(key); i >= 0 {
		n.Values[i] = v
		return
	}
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, v)
}

// Delete removes key from a mapping, preserving the order of the rest
func (n *Node) Delete(key string) bool {
	i := n.IndexOfKey(key)
	if i < 0 {
		return false
	}
	n.Keys = append(n.Keys[:i], n.Keys[i+1:]...)
	n.Values = append(n.Values[:i], n.Values[i+1:]...)
	return true
}

// Insert places v at position i in a sequence, shifting later items
func (n *Node) Insert(i int, v *Node) {
	n.Values = append(n.Values, nil)
	copy(n.Values[i+1:], n.Values[i:])
	n.Values[i] = v
}

// Remove deletes the item at position i in a sequence
func (n *Node) Remove(i int) {
	n.Values = append(n.Values[:i], n.Values[i+1:]...)
}

// Clone returns a deep copy sharing no nodes with the receiver
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Type: n.Type,
		Bool: n.Bool,
		Raw:  n.Raw,
		Num:  n.Num,
		Str:  n.Str,
	}
	if n.Keys != nil {
		cp.Keys = make([]string, len(n.Keys))
		copy(cp.Keys, n.Keys)
	}
	if n.Values != nil {
		cp.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			cp.Values[i] = v.Clone()
		}
	}
	return cp
}

// Equal reports deep structural equality. Mapping key order is not
// significant: two mappings are equal when they hold equal values under the
// same key set. Numbers compare by parsed value, falling back to the source
// literal when both failed to parse.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case NumberType:
		if a.Raw == b.Raw {
			return true
		}
		return a.Num == b.Num
	case StringType:
		return a.Str == b.Str
	case SequenceType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case MappingType:
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for i, k := range a.Keys {
			bv := b.Value(k)
			if bv == nil || !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}
