package jsondelta

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FormatString is a convenience wrapper that outputs to a string instead of
// an io.Writer
func FormatString(d *Diff, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := Report(buf, d, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// reportStyle maps record kinds to sprint funcs. With color off every func
// is a plain Sprint so output stays byte-stable for tests and pipes.
type reportStyle struct {
	head   func(a ...interface{}) string
	add    func(a ...interface{}) string
	del    func(a ...interface{}) string
	change func(a ...interface{}) string
	color  bool
}

func newReportStyle(colorTTY bool) reportStyle {
	if !colorTTY {
		return reportStyle{
			head:   fmt.Sprint,
			add:    fmt.Sprint,
			del:    fmt.Sprint,
			change: fmt.Sprint,
		}
	}
	return reportStyle{
		head:   color.New(color.Bold).SprintFunc(),
		add:    color.New(color.FgGreen).SprintFunc(),
		del:    color.New(color.FgRed).SprintFunc(),
		change: color.New(color.FgBlue).SprintFunc(),
		color:  true,
	}
}

// Report writes a categorized text report of d to w. If colorTTY is true it
// adds green for additions, red for deletions, blue for value and type
// changes, and renders an inline character diff for changed strings.
func Report(w io.Writer, d *Diff, colorTTY bool) error {
	st := newReportStyle(colorTTY)

	if !d.HasDifferences() {
		_, err := fmt.Fprintln(w, "No differences found.")
		return err
	}

	if len(d.Added) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Dictionary items added (%d):", len(d.Added))))
		for _, r := range d.Added {
			fmt.Fprintf(w, "  %s\n", st.add("+ "+r.Path.String()))
		}
		fmt.Fprintln(w)
	}
	if len(d.Removed) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Dictionary items removed (%d):", len(d.Removed))))
		for _, r := range d.Removed {
			line := "- " + r.Path.String()
			if r.OldValue != nil {
				line += ": " + compactValue(r.OldValue)
			}
			fmt.Fprintf(w, "  %s\n", st.del(line))
		}
		fmt.Fprintln(w)
	}
	if len(d.Changed) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Values changed (%d):", len(d.Changed))))
		for _, r := range d.Changed {
			fmt.Fprintf(w, "  %s\n", st.change("~ "+r.Path.String()))
			fmt.Fprintf(w, "    %s\n", st.del("old: "+compactValue(r.OldValue)))
			fmt.Fprintf(w, "    %s\n", st.add("new: "+compactValue(r.NewValue)))
			if inline := inlineStringDiff(r.OldValue, r.NewValue, st); inline != "" {
				fmt.Fprintf(w, "    diff: %s\n", inline)
			}
		}
		fmt.Fprintln(w)
	}
	if len(d.TypeChanged) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Type changes (%d):", len(d.TypeChanged))))
		for _, r := range d.TypeChanged {
			fmt.Fprintf(w, "  %s\n", st.change(fmt.Sprintf("~ %s: %s -> %s", r.Path.String(), r.OldType, r.NewType)))
			fmt.Fprintf(w, "    %s\n", st.del("old: "+compactValue(r.OldValue)))
			fmt.Fprintf(w, "    %s\n", st.add("new: "+compactValue(r.NewValue)))
		}
		fmt.Fprintln(w)
	}
	if len(d.SeqAdded) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Array items added (%d):", len(d.SeqAdded))))
		for _, r := range d.SeqAdded {
			line := "+ " + r.Path.String()
			if r.Value != nil {
				line += ": " + compactValue(r.Value)
			}
			fmt.Fprintf(w, "  %s\n", st.add(line))
		}
		fmt.Fprintln(w)
	}
	if len(d.SeqRemoved) > 0 {
		fmt.Fprintf(w, "%s\n", st.head(fmt.Sprintf("Array items removed (%d):", len(d.SeqRemoved))))
		for _, r := range d.SeqRemoved {
			line := "- " + r.Path.String()
			if r.OldValue != nil {
				line += ": " + compactValue(r.OldValue)
			}
			fmt.Fprintf(w, "  %s\n", st.del(line))
		}
		fmt.Fprintln(w)
	}

	s := d.Summary()
	fmt.Fprintf(w, "%s %d total (%d additions, %d deletions, %d changes, %d type changes, %d array additions, %d array deletions)\n",
		st.head("Summary:"), s.TotalChanges, s.Additions, s.Deletions, s.Changes, s.TypeChanges, s.ArrayAdditions, s.ArrayDeletions)
	return nil
}

// inlineStringDiff renders a character-level diff between two string nodes.
// Only meaningful in color mode: without color the marked-up runs are noise
// next to the old/new lines already printed.
func inlineStringDiff(oldV, newV *Node, st reportStyle) string {
	if !st.color || oldV == nil || newV == nil ||
		oldV.Type != StringType || newV.Type != StringType {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldV.Str, newV.Str, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	buf := &bytes.Buffer{}
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			buf.WriteString(st.add(df.Text))
		case diffmatchpatch.DiffDelete:
			buf.WriteString(st.del(df.Text))
		default:
			buf.WriteString(df.Text)
		}
	}
	return buf.String()
}

// compactValue renders a node for report lines. Encoding failures collapse
// to a placeholder rather than aborting the report.
func compactValue(n *Node) string {
	data, err := n.MarshalJSON()
	if err != nil {
		return "<unencodable>"
	}
	return string(data)
}
