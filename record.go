package jsondelta

import (
	"encoding/json"
	"fmt"
)

// Wire category names, shared by the interchange format, warnings, and the
// report renderer.
const (
	CatDictAdded   = "dictionary_item_added"
	CatDictRemoved = "dictionary_item_removed"
	CatValues      = "values_changed"
	CatTypes       = "type_changes"
	CatSeqAdded    = "iterable_item_added"
	CatSeqRemoved  = "iterable_item_removed"
)

// Added records a mapping key present only in the modified document.
// It carries no value: the diff format alone cannot recover one.
type Added struct {
	Path Path
}

// Removed records a mapping key present only in the original document.
// OldValue is kept for reporting; it is dropped on serialization.
type Removed struct {
	Path     Path
	OldValue *Node
}

// ValueChange records a scalar whose value differs between documents
type ValueChange struct {
	Path     Path
	OldValue *Node
	NewValue *Node
}

// TypeChange records a node whose runtime type differs between documents
type TypeChange struct {
	Path     Path
	OldValue *Node
	OldType  Type
	NewValue *Node
	NewType  Type
}

// SeqAdd records an item inserted into a sequence. A nil Value marks an
// addition whose value must be resolved from a target document.
type SeqAdd struct {
	Path  Path
	Value *Node
}

// SeqRemove records an item removed from a sequence
type SeqRemove struct {
	Path     Path
	OldValue *Node
}

// Metadata describes the comparison that produced a Diff
type Metadata struct {
	ComparisonTimestamp string `json:"comparison_timestamp"`
	File1               string `json:"file1"`
	File2               string `json:"file2"`
	HasDifferences      bool   `json:"has_differences"`
}

// Summary counts records per kind
type Summary struct {
	TotalChanges   int `json:"total_changes"`
	Additions      int `json:"additions"`
	Deletions      int `json:"deletions"`
	Changes        int `json:"changes"`
	TypeChanges    int `json:"type_changes"`
	ArrayAdditions int `json:"array_additions"`
	ArrayDeletions int `json:"array_deletions"`
}

// Diff is the interchange artifact between Compare and Apply: every
// structural divergence between two documents, grouped by kind, plus
// comparison metadata. A Diff is immutable once produced.
type Diff struct {
	Metadata Metadata

	Added       []Added
	Removed     []Removed
	Changed     []ValueChange
	TypeChanged []TypeChange
	SeqAdded    []SeqAdd
	SeqRemoved  []SeqRemove
}

// Len returns the total record count
func (d *Diff) Len() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed) +
		len(d.TypeChanged) + len(d.SeqAdded) + len(d.SeqRemoved)
}

// HasDifferences reports whether any record is present
func (d *Diff) HasDifferences() bool { return d.Len() > 0 }

// Summary computes the per-kind counts
func (d *Diff) Summary() Summary {
	return Summary{
		TotalChanges:   d.Len(),
		Additions:      len(d.Added),
		Deletions:      len(d.Removed),
		Changes:        len(d.Changed),
		TypeChanges:    len(d.TypeChanged),
		ArrayAdditions: len(d.SeqAdded),
		ArrayDeletions: len(d.SeqRemoved),
	}
}

// Warning is a recoverable per-record issue, accumulated instead of printed
// so callers and tests can assert on it
type Warning struct {
	Category string
	Path     string
	Reason   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s: %s", w.Category, w.Path, w.Reason)
}

// wire types mirror the committed interchange format. values_changed and
// friends marshal through Go maps: encoding/json sorts map keys, which
// makes serialization deterministic for free.
//
// Values travel as raw fragments rather than decoded nodes: a literal null
// on the wire is a value (the Null node), and decoding through *Node would
// collapse it into an absent one.

type wireValueChange struct {
	OldValue json.RawMessage `json:"old_value"`
	NewValue json.RawMessage `json:"new_value"`
}

type wireTypeChange struct {
	OldValue json.RawMessage `json:"old_value"`
	OldType  string          `json:"old_type"`
	NewValue json.RawMessage `json:"new_value"`
	NewType  string          `json:"new_type"`
}

type wireDifferences struct {
	DictionaryItemAdded   []string                   `json:"dictionary_item_added"`
	DictionaryItemRemoved []string                   `json:"dictionary_item_removed"`
	ValuesChanged         map[string]wireValueChange `json:"values_changed"`
	TypeChanges           map[string]wireTypeChange  `json:"type_changes"`
	IterableItemAdded     map[string]json.RawMessage `json:"iterable_item_added"`
	IterableItemRemoved   map[string]json.RawMessage `json:"iterable_item_removed"`
}

// rawNode encodes a node as a wire fragment. The wire format has no way to
// say "no value", so a nil node encodes as null.
func rawNode(n *Node) (json.RawMessage, error) {
	if n == nil {
		return json.RawMessage("null"), nil
	}
	return n.MarshalJSON()
}

// nodeFromWire decodes a wire fragment back into a node. A literal null
// yields the Null node; only an absent fragment yields nil.
func nodeFromWire(raw json.RawMessage) (*Node, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return FromJSON(raw)
}

type wireDiff struct {
	Metadata    Metadata         `json:"metadata"`
	Differences *wireDifferences `json:"differences"`
	Summary     Summary          `json:"summary"`
}

// MarshalJSON writes the committed interchange format
func (d *Diff) MarshalJSON() ([]byte, error) {
	w := wireDiff{
		Metadata: d.Metadata,
		Differences: &wireDifferences{
			DictionaryItemAdded:   make([]string, 0, len(d.Added)),
			DictionaryItemRemoved: make([]string, 0, len(d.Removed)),
			ValuesChanged:         make(map[string]wireValueChange, len(d.Changed)),
			TypeChanges:           make(map[string]wireTypeChange, len(d.TypeChanged)),
			IterableItemAdded:     make(map[string]json.RawMessage, len(d.SeqAdded)),
			IterableItemRemoved:   make(map[string]json.RawMessage, len(d.SeqRemoved)),
		},
		Summary: d.Summary(),
	}
	w.Metadata.HasDifferences = d.HasDifferences()
	for _, r := range d.Added {
		w.Differences.DictionaryItemAdded = append(w.Differences.DictionaryItemAdded, r.Path.String())
	}
	for _, r := range d.Removed {
		w.Differences.DictionaryItemRemoved = append(w.Differences.DictionaryItemRemoved, r.Path.String())
	}
	for _, r := range d.Changed {
		ov, err := rawNode(r.OldValue)
		if err != nil {
			return nil, err
		}
		nv, err := rawNode(r.NewValue)
		if err != nil {
			return nil, err
		}
		w.Differences.ValuesChanged[r.Path.String()] = wireValueChange{OldValue: ov, NewValue: nv}
	}
	for _, r := range d.TypeChanged {
		ov, err := rawNode(r.OldValue)
		if err != nil {
			return nil, err
		}
		nv, err := rawNode(r.NewValue)
		if err != nil {
			return nil, err
		}
		w.Differences.TypeChanges[r.Path.String()] = wireTypeChange{
			OldValue: ov,
			OldType:  r.OldType.String(),
			NewValue: nv,
			NewType:  r.NewType.String(),
		}
	}
	for _, r := range d.SeqAdded {
		v, err := rawNode(r.Value)
		if err != nil {
			return nil, err
		}
		w.Differences.IterableItemAdded[r.Path.String()] = v
	}
	for _, r := range d.SeqRemoved {
		v, err := rawNode(r.OldValue)
		if err != nil {
			return nil, err
		}
		w.Differences.IterableItemRemoved[r.Path.String()] = v
	}
	return json.Marshal(w)
}

// ParseDiff reads a serialized Diff back into structured form. An absent or
// malformed top-level differences mapping is fatal; a record with an
// unparseable path invalidates only that record, reported as a warning.
func ParseDiff(data []byte) (*Diff, []Warning, error) {
	var w wireDiff
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, nil, fmt.Errorf("invalid diff document: %w", err)
	}
	if w.Differences == nil {
		return nil, nil, fmt.Errorf("invalid diff document: missing differences section")
	}

	d := &Diff{Metadata: w.Metadata}
	var warns []Warning

	badPath := func(cat, raw string, err error) {
		warns = append(warns, Warning{Category: cat, Path: raw, Reason: fmt.Sprintf("unparseable path: %v", err)})
	}
	badValue := func(cat, raw string, err error) {
		warns = append(warns, Warning{Category: cat, Path: raw, Reason: fmt.Sprintf("unreadable value: %v", err)})
	}

	for _, raw := range w.Differences.DictionaryItemAdded {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatDictAdded, raw, err)
			continue
		}
		d.Added = append(d.Added, Added{Path: p})
	}
	for _, raw := range w.Differences.DictionaryItemRemoved {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatDictRemoved, raw, err)
			continue
		}
		d.Removed = append(d.Removed, Removed{Path: p})
	}
	for raw, vc := range w.Differences.ValuesChanged {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatValues, raw, err)
			continue
		}
		ov, err := nodeFromWire(vc.OldValue)
		if err != nil {
			badValue(CatValues, raw, err)
			continue
		}
		nv, err := nodeFromWire(vc.NewValue)
		if err != nil {
			badValue(CatValues, raw, err)
			continue
		}
		d.Changed = append(d.Changed, ValueChange{Path: p, OldValue: ov, NewValue: nv})
	}
	for raw, tc := range w.Differences.TypeChanges {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatTypes, raw, err)
			continue
		}
		ov, err := nodeFromWire(tc.OldValue)
		if err != nil {
			badValue(CatTypes, raw, err)
			continue
		}
		nv, err := nodeFromWire(tc.NewValue)
		if err != nil {
			badValue(CatTypes, raw, err)
			continue
		}
		rec := TypeChange{Path: p, OldValue: ov, NewValue: nv}
		if err := unmarshalTypeName(tc.OldType, &rec.OldType); err != nil {
			warns = append(warns, Warning{Category: CatTypes, Path: raw, Reason: err.Error()})
			continue
		}
		if err := unmarshalTypeName(tc.NewType, &rec.NewType); err != nil {
			warns = append(warns, Warning{Category: CatTypes, Path: raw, Reason: err.Error()})
			continue
		}
		d.TypeChanged = append(d.TypeChanged, rec)
	}
	for raw, v := range w.Differences.IterableItemAdded {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatSeqAdded, raw, err)
			continue
		}
		n, err := nodeFromWire(v)
		if err != nil {
			badValue(CatSeqAdded, raw, err)
			continue
		}
		d.SeqAdded = append(d.SeqAdded, SeqAdd{Path: p, Value: n})
	}
	for raw, v := range w.Differences.IterableItemRemoved {
		p, err := ParsePath(raw)
		if err != nil {
			badPath(CatSeqRemoved, raw, err)
			continue
		}
		n, err := nodeFromWire(v)
		if err != nil {
			badValue(CatSeqRemoved, raw, err)
			continue
		}
		d.SeqRemoved = append(d.SeqRemoved, SeqRemove{Path: p, OldValue: n})
	}

	sortDiff(d)
	return d, warns, nil
}

func unmarshalTypeName(name string, t *Type) error {
	for _, cand := range []Type{NullType, BoolType, NumberType, StringType, MappingType, SequenceType} {
		if cand.String() == name {
			*t = cand
			return nil
		}
	}
	return fmt.Errorf("unrecognized type name %q", name)
}
