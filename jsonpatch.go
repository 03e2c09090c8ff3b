package jsondelta

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// patchOp is one RFC 6902 operation
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value *Node  `json:"value,omitempty"`
}

// JSONPatch exports a diff as an RFC 6902 patch document, for tooling that
// speaks that format instead of the native one. Operations are emitted in
// the same order Apply uses, so applying the patch to the original document
// with any conforming implementation reproduces Apply's result.
//
// Added records carry no value; they are resolved against target, or skipped
// with a warning when target is nil. Same for value-less sequence additions.
func JSONPatch(d *Diff, target *Node) ([]byte, []Warning, error) {
	var (
		ops   []patchOp
		warns []Warning
	)
	skip := func(cat string, p Path, reason string) {
		warns = append(warns, Warning{Category: cat, Path: p.String(), Reason: reason})
	}

	removals := make([]removal, 0, len(d.Removed)+len(d.SeqRemoved))
	for _, r := range d.Removed {
		removals = append(removals, removal{cat: CatDictRemoved, path: r.Path})
	}
	for _, r := range d.SeqRemoved {
		removals = append(removals, removal{cat: CatSeqRemoved, path: r.Path})
	}
	sort.SliceStable(removals, func(i, j int) bool {
		return comparePaths(removals[i].path, removals[j].path) > 0
	})
	for _, r := range removals {
		if len(r.path) == 0 {
			skip(r.cat, r.path, "cannot remove the document root")
			continue
		}
		ops = append(ops, patchOp{Op: "remove", Path: jsonPointer(r.path)})
	}

	for _, r := range d.Changed {
		ops = append(ops, patchOp{Op: "replace", Path: jsonPointer(r.Path), Value: r.NewValue})
	}
	for _, r := range d.TypeChanged {
		ops = append(ops, patchOp{Op: "replace", Path: jsonPointer(r.Path), Value: r.NewValue})
	}

	seqAdds := make([]SeqAdd, len(d.SeqAdded))
	copy(seqAdds, d.SeqAdded)
	sort.SliceStable(seqAdds, func(i, j int) bool {
		return comparePaths(seqAdds[i].Path, seqAdds[j].Path) < 0
	})
	for _, r := range seqAdds {
		v := r.Value
		if v == nil {
			if target == nil {
				skip(CatSeqAdded, r.Path, "cannot add without a target document")
				continue
			}
			tv, err := resolve(target, r.Path)
			if err != nil {
				skip(CatSeqAdded, r.Path, "not found in target: "+err.Error())
				continue
			}
			v = tv
		}
		ops = append(ops, patchOp{Op: "add", Path: jsonPointer(r.Path), Value: v})
	}

	for _, r := range d.Added {
		if target == nil {
			skip(CatDictAdded, r.Path, "cannot add without a target document")
			continue
		}
		v, err := resolve(target, r.Path)
		if err != nil {
			skip(CatDictAdded, r.Path, "not found in target: "+err.Error())
			continue
		}
		ops = append(ops, patchOp{Op: "add", Path: jsonPointer(r.Path), Value: v})
	}

	if ops == nil {
		ops = []patchOp{}
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, warns, err
	}
	return data, warns, nil
}

// jsonPointer renders a path in RFC 6901 notation, escaping ~ and / per the
// standard
func jsonPointer(p Path) string {
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		switch step := s.(type) {
		case Key:
			k := strings.ReplaceAll(string(step), "~", "~0")
			k = strings.ReplaceAll(k, "/", "~1")
			b.WriteString(k)
		case Index:
			b.WriteString(strconv.Itoa(int(step)))
		}
	}
	return b.String()
}
