package jsondelta

import (
	"strings"
	"testing"
)

func TestReportNoDifferences(t *testing.T) {
	a, _ := FromJSON([]byte(`{"a":1}`))
	out, err := FormatString(Compare(a, a.Clone()), false)
	if err != nil {
		t.Fatal(err)
	}
	if out != "No differences found.\n" {
		t.Errorf("unexpected report: %q", out)
	}
}

func TestReportSections(t *testing.T) {
	a, _ := FromJSON([]byte(`{"gone":1,"val":"old text","typ":4,"arr":[1,2]}`))
	b, _ := FromJSON([]byte(`{"val":"new text","typ":"four","arr":[1,2,3],"new":true}`))

	out, err := FormatString(Compare(a, b), false)
	if err != nil {
		t.Fatal(err)
	}

	wantLines := []string{
		"Dictionary items added (1):",
		"+ root['new']",
		"Dictionary items removed (1):",
		"- root['gone']: 1",
		"Values changed (1):",
		"~ root['val']",
		`old: "old text"`,
		`new: "new text"`,
		"Type changes (1):",
		"~ root['typ']: Number -> String",
		"Array items added (1):",
		"+ root['arr'][2]: 3",
		"Summary: 5 total (1 additions, 1 deletions, 1 changes, 1 type changes, 1 array additions, 0 array deletions)",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "\x1b[") {
		t.Error("plain report contains ANSI escapes")
	}
	if strings.Contains(out, "Array items removed") {
		t.Error("empty category rendered a section")
	}
}

func TestReportArrayRemovals(t *testing.T) {
	a, _ := FromJSON([]byte(`[1,2,3]`))
	b, _ := FromJSON([]byte(`[1]`))

	out, err := FormatString(Compare(a, b), false)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Array items removed (2):",
		"- root[1]: 2",
		"- root[2]: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportColorStringDiff(t *testing.T) {
	a, _ := FromJSON([]byte(`{"msg":"hello world"}`))
	b, _ := FromJSON([]byte(`{"msg":"hello there world"}`))

	out, err := FormatString(Compare(a, b), true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "diff: ") {
		t.Errorf("color report missing inline string diff:\n%s", out)
	}

	// non-string changes get no inline diff
	a2, _ := FromJSON([]byte(`{"n":1}`))
	b2, _ := FromJSON([]byte(`{"n":2}`))
	out, err = FormatString(Compare(a2, b2), true)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "diff: ") {
		t.Errorf("numeric change rendered an inline string diff:\n%s", out)
	}
}
