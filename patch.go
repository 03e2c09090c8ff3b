package jsondelta

import (
	"fmt"
	"sort"
)

// ApplyOption adjusts how a diff is applied
type ApplyOption func(cfg *ApplyConfig)

// ApplyConfig are the configuration parameters for applying diffs
type ApplyConfig struct {
	// Target optionally supplies the modified document, used to resolve
	// values for additions the diff cannot carry
	Target *Node
	// Rules filters excluded records out of the reconstruction, so a diff
	// exported without exclusions can still be replayed with them
	Rules *Rules
}

// WithTarget supplies a target document for value-less additions
func WithTarget(t *Node) ApplyOption {
	return func(cfg *ApplyConfig) {
		cfg.Target = t
	}
}

// WithApplyRules applies exclusion rules while reconstructing: records at
// excluded paths are dropped, not applied
func WithApplyRules(r *Rules) ApplyOption {
	return func(cfg *ApplyConfig) {
		cfg.Rules = r
	}
}

// Apply reconstructs a document by applying diff records to a private deep
// copy of original. The original is never mutated.
//
// Records are applied in a fixed order so that no change invalidates the
// path of a later one: removals first, deepest paths and highest sequence
// indices leading, then value changes, type changes, sequence insertions,
// and mapping additions last.
//
// A record whose path no longer resolves is skipped and reported as a
// warning; reconstruction is best-effort, not transactional. The only error
// outcomes are nil arguments.
func Apply(original *Node, d *Diff, opts ...ApplyOption) (*Node, []Warning, error) {
	if original == nil {
		return nil, nil, fmt.Errorf("nil original document")
	}
	if d == nil {
		return nil, nil, fmt.Errorf("nil diff")
	}
	cfg := &ApplyConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &patcher{work: original.Clone(), target: cfg.Target, rules: cfg.Rules}
	p.removeAll(d)
	p.changeValues(d)
	p.changeTypes(d)
	p.insertSeqItems(d)
	p.addMappingItems(d)
	return p.work, p.warns, nil
}

type patcher struct {
	work   *Node
	target *Node
	rules  *Rules
	warns  []Warning
}

func (p *patcher) warn(cat string, path Path, format string, args ...interface{}) {
	p.warns = append(p.warns, Warning{
		Category: cat,
		Path:     path.String(),
		Reason:   fmt.Sprintf(format, args...),
	})
}

// removal unifies mapping and sequence removals so they can share one
// descending ordering pass
type removal struct {
	cat  string
	path Path
}

// removeAll applies Removed and SeqRemove records in descending
// specificity/index order: deleting the highest index of a sequence first
// keeps the recorded indices of its remaining removals valid.
func (p *patcher) removeAll(d *Diff) {
	removals := make([]removal, 0, len(d.Removed)+len(d.SeqRemoved))
	for _, r := range d.Removed {
		if p.rules.Excluded(r.Path) {
			continue
		}
		removals = append(removals, removal{cat: CatDictRemoved, path: r.Path})
	}
	for _, r := range d.SeqRemoved {
		if p.rules.Excluded(r.Path) {
			continue
		}
		removals = append(removals, removal{cat: CatSeqRemoved, path: r.Path})
	}
	sort.SliceStable(removals, func(i, j int) bool {
		return comparePaths(removals[i].path, removals[j].path) > 0
	})

	for _, r := range removals {
		if len(r.path) == 0 {
			p.warn(r.cat, r.path, "cannot remove the document root")
			continue
		}
		parent, err := resolve(p.work, r.path[:len(r.path)-1])
		if err != nil {
			p.warn(r.cat, r.path, "%v", err)
			continue
		}
		switch step := r.path[len(r.path)-1].(type) {
		case Key:
			if parent.Type != MappingType {
				p.warn(r.cat, r.path, "parent is %s, not a mapping", parent.Type)
				continue
			}
			if !parent.Delete(string(step)) {
				p.warn(r.cat, r.path, "key not present")
			}
		case Index:
			if parent.Type != SequenceType {
				p.warn(r.cat, r.path, "parent is %s, not a sequence", parent.Type)
				continue
			}
			i := int(step)
			if i < 0 || i >= parent.Len() {
				p.warn(r.cat, r.path, "index %d out of range (len %d)", i, parent.Len())
				continue
			}
			parent.Remove(i)
		}
	}
}

func (p *patcher) changeValues(d *Diff) {
	for _, r := range d.Changed {
		if p.rules.Excluded(r.Path) {
			continue
		}
		p.overwrite(CatValues, r.Path, r.NewValue)
	}
}

// changeTypes substitutes the new value wholesale; the type change is a
// side effect of the substitution
func (p *patcher) changeTypes(d *Diff) {
	for _, r := range d.TypeChanged {
		if p.rules.Excluded(r.Path) {
			continue
		}
		p.overwrite(CatTypes, r.Path, r.NewValue)
	}
}

func (p *patcher) overwrite(cat string, path Path, v *Node) {
	if v == nil {
		p.warn(cat, path, "record carries no new value")
		return
	}
	if len(path) == 0 {
		p.work = v.Clone()
		return
	}
	parent, err := resolve(p.work, path[:len(path)-1])
	if err != nil {
		p.warn(cat, path, "%v", err)
		return
	}
	switch step := path[len(path)-1].(type) {
	case Key:
		if parent.Type != MappingType {
			p.warn(cat, path, "parent is %s, not a mapping", parent.Type)
			return
		}
		i := parent.IndexOfKey(string(step))
		if i < 0 {
			p.warn(cat, path, "key not present")
			return
		}
		parent.Values[i] = v.Clone()
	case Index:
		if parent.Type != SequenceType {
			p.warn(cat, path, "parent is %s, not a sequence", parent.Type)
			return
		}
		i := int(step)
		if i < 0 || i >= parent.Len() {
			p.warn(cat, path, "index %d out of range (len %d)", i, parent.Len())
			return
		}
		parent.Values[i] = v.Clone()
	}
}

// insertSeqItems applies SeqAdd records in ascending order, so inserting at
// a recorded position leaves later recorded positions valid
func (p *patcher) insertSeqItems(d *Diff) {
	adds := make([]SeqAdd, len(d.SeqAdded))
	copy(adds, d.SeqAdded)
	sort.SliceStable(adds, func(i, j int) bool {
		return comparePaths(adds[i].Path, adds[j].Path) < 0
	})

	for _, r := range adds {
		if p.rules.Excluded(r.Path) {
			continue
		}
		if len(r.Path) == 0 {
			p.warn(CatSeqAdded, r.Path, "cannot insert at the document root")
			continue
		}
		v := r.Value
		if v == nil {
			if p.target == nil {
				p.warn(CatSeqAdded, r.Path, "cannot add without a target document")
				continue
			}
			tv, err := resolve(p.target, r.Path)
			if err != nil {
				p.warn(CatSeqAdded, r.Path, "not found in target: %v", err)
				continue
			}
			v = tv
		}
		parent, err := resolve(p.work, r.Path[:len(r.Path)-1])
		if err != nil {
			p.warn(CatSeqAdded, r.Path, "%v", err)
			continue
		}
		if parent.Type != SequenceType {
			p.warn(CatSeqAdded, r.Path, "parent is %s, not a sequence", parent.Type)
			continue
		}
		step, ok := r.Path[len(r.Path)-1].(Index)
		if !ok {
			p.warn(CatSeqAdded, r.Path, "path does not end in a sequence index")
			continue
		}
		i := int(step)
		if i < 0 || i > parent.Len() {
			p.warn(CatSeqAdded, r.Path, "index %d out of range (len %d)", i, parent.Len())
			continue
		}
		parent.Insert(i, v.Clone())
	}
}

// addMappingItems runs last so no earlier step has to traverse a key this
// one introduces. Added records are value-less; the value comes from the
// target document or the record is skipped.
func (p *patcher) addMappingItems(d *Diff) {
	for _, r := range d.Added {
		if p.rules.Excluded(r.Path) {
			continue
		}
		if p.target == nil {
			p.warn(CatDictAdded, r.Path, "cannot add without a target document")
			continue
		}
		if len(r.Path) == 0 {
			p.warn(CatDictAdded, r.Path, "cannot add at the document root")
			continue
		}
		v, err := resolve(p.target, r.Path)
		if err != nil {
			p.warn(CatDictAdded, r.Path, "not found in target: %v", err)
			continue
		}
		parent, err := resolve(p.work, r.Path[:len(r.Path)-1])
		if err != nil {
			p.warn(CatDictAdded, r.Path, "%v", err)
			continue
		}
		if parent.Type != MappingType {
			p.warn(CatDictAdded, r.Path, "parent is %s, not a mapping", parent.Type)
			continue
		}
		step, ok := r.Path[len(r.Path)-1].(Key)
		if !ok {
			p.warn(CatDictAdded, r.Path, "path does not end in a mapping key")
			continue
		}
		parent.Set(string(step), v.Clone())
	}
}

// resolve walks a path through a document, returning the node it addresses
func resolve(root *Node, p Path) (*Node, error) {
	cur := root
	for i, s := range p {
		switch step := s.(type) {
		case Key:
			if cur.Type != MappingType {
				return nil, fmt.Errorf("%s is %s, not a mapping", p[:i].String(), cur.Type)
			}
			next := cur.Value(string(step))
			if next == nil {
				return nil, fmt.Errorf("%s does not resolve", p[:i+1].String())
			}
			cur = next
		case Index:
			if cur.Type != SequenceType {
				return nil, fmt.Errorf("%s is %s, not a sequence", p[:i].String(), cur.Type)
			}
			idx := int(step)
			if idx < 0 || idx >= cur.Len() {
				return nil, fmt.Errorf("%s: index %d out of range (len %d)", p[:i].String(), idx, cur.Len())
			}
			cur = cur.Values[idx]
		}
	}
	return cur, nil
}
