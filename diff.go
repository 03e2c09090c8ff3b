package jsondelta

import (
	"sort"
	"time"
)

// Option adjusts a comparison, zero or more Options can be passed to
// Compare
type Option func(cfg *Config)

// Config are the configuration parameters for computing diffs
type Config struct {
	// File1, File2 identify the compared documents in diff metadata
	File1, File2 string
	// Timestamp overrides the comparison timestamp, mainly for tests.
	// Zero means time.Now.
	Timestamp time.Time
	// Rules filters excluded paths out of the comparison
	Rules *Rules
}

// WithSources sets the source identifiers recorded in diff metadata
func WithSources(file1, file2 string) Option {
	return func(cfg *Config) {
		cfg.File1 = file1
		cfg.File2 = file2
	}
}

// WithTimestamp pins the comparison timestamp
func WithTimestamp(t time.Time) Option {
	return func(cfg *Config) {
		cfg.Timestamp = t
	}
}

// WithRules applies exclusion rules to the comparison
func WithRules(r *Rules) Option {
	return func(cfg *Config) {
		cfg.Rules = r
	}
}

// Differ computes structural diffs between document trees
type Differ struct {
	cfg Config
}

// New creates a Differ with the given options
func New(opts ...Option) *Differ {
	d := &Differ{}
	for _, opt := range opts {
		opt(&d.cfg)
	}
	return d
}

// Compare walks two documents in lock-step and returns a Diff describing
// every structural divergence as a path-addressed record. It never mutates
// its inputs and has no error outcomes: identical documents yield an empty
// Diff.
func Compare(original, modified *Node, opts ...Option) *Diff {
	return New(opts...).Compare(original, modified)
}

// Compare is the method form of the package-level Compare
func (dd *Differ) Compare(original, modified *Node) *Diff {
	ts := dd.cfg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	d := &Diff{
		Metadata: Metadata{
			ComparisonTimestamp: ts.Format(time.RFC3339),
			File1:               dd.cfg.File1,
			File2:               dd.cfg.File2,
		},
	}
	e := &engine{diff: d, rules: dd.cfg.Rules}
	e.walk(Path{}, original, modified)
	d.Metadata.HasDifferences = d.HasDifferences()
	return d
}

// engine carries the in-progress diff through the recursive walk
type engine struct {
	diff  *Diff
	rules *Rules
}

// walk compares the nodes at one path. Records are grouped into the diff's
// categories as they are created, not as a later pass.
func (e *engine) walk(p Path, a, b *Node) {
	if e.rules.Excluded(p) {
		return
	}
	if a.Type != b.Type {
		// container/scalar mismatches included: substitute the whole
		// subtree, no recursion past this point
		e.diff.TypeChanged = append(e.diff.TypeChanged, TypeChange{
			Path:     p,
			OldValue: a.Clone(),
			OldType:  a.Type,
			NewValue: b.Clone(),
			NewType:  b.Type,
		})
		return
	}

	switch a.Type {
	case MappingType:
		for i, k := range a.Keys {
			child := p.Child(Key(k))
			bv := b.Value(k)
			if bv == nil {
				if !e.rules.Excluded(child) {
					e.diff.Removed = append(e.diff.Removed, Removed{Path: child, OldValue: a.Values[i].Clone()})
				}
				continue
			}
			e.walk(child, a.Values[i], bv)
		}
		for _, k := range b.Keys {
			if a.Value(k) != nil {
				continue
			}
			child := p.Child(Key(k))
			if !e.rules.Excluded(child) {
				e.diff.Added = append(e.diff.Added, Added{Path: child})
			}
		}
	case SequenceType:
		shared := len(a.Values)
		if len(b.Values) < shared {
			shared = len(b.Values)
		}
		for i := 0; i < shared; i++ {
			e.walk(p.Child(Index(i)), a.Values[i], b.Values[i])
		}
		// positions past the shorter side are additions or removals;
		// pure reorders surface as paired records, by contract
		for i := shared; i < len(b.Values); i++ {
			child := p.Child(Index(i))
			if !e.rules.Excluded(child) {
				e.diff.SeqAdded = append(e.diff.SeqAdded, SeqAdd{Path: child, Value: b.Values[i].Clone()})
			}
		}
		for i := shared; i < len(a.Values); i++ {
			child := p.Child(Index(i))
			if !e.rules.Excluded(child) {
				e.diff.SeqRemoved = append(e.diff.SeqRemoved, SeqRemove{Path: child, OldValue: a.Values[i].Clone()})
			}
		}
	default:
		if !Equal(a, b) {
			e.diff.Changed = append(e.diff.Changed, ValueChange{
				Path:     p,
				OldValue: a.Clone(),
				NewValue: b.Clone(),
			})
		}
	}
}

// sortDiff orders every record group by path. Compare emits records in
// walk order, which is already deterministic; this exists for diffs
// rebuilt from the wire, where map iteration scrambles them.
func sortDiff(d *Diff) {
	sort.SliceStable(d.Added, func(i, j int) bool { return comparePaths(d.Added[i].Path, d.Added[j].Path) < 0 })
	sort.SliceStable(d.Removed, func(i, j int) bool { return comparePaths(d.Removed[i].Path, d.Removed[j].Path) < 0 })
	sort.SliceStable(d.Changed, func(i, j int) bool { return comparePaths(d.Changed[i].Path, d.Changed[j].Path) < 0 })
	sort.SliceStable(d.TypeChanged, func(i, j int) bool { return comparePaths(d.TypeChanged[i].Path, d.TypeChanged[j].Path) < 0 })
	sort.SliceStable(d.SeqAdded, func(i, j int) bool { return comparePaths(d.SeqAdded[i].Path, d.SeqAdded[j].Path) < 0 })
	sort.SliceStable(d.SeqRemoved, func(i, j int) bool { return comparePaths(d.SeqRemoved[i].Path, d.SeqRemoved[j].Path) < 0 })
}
