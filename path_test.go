package jsondelta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathString(t *testing.T) {
	cases := []struct {
		path Path
		want string
	}{
		{Path{}, "root"},
		{Path{Key("a")}, "root['a']"},
		{Path{Key("a"), Key("b"), Index(2)}, "root['a']['b'][2]"},
		{Path{Index(0), Key("x")}, "root[0]['x']"},
		{Path{Key("it's")}, `root['it\'s']`},
	}
	for _, c := range cases {
		if got := c.path.String(); got != c.want {
			t.Errorf("%#v: got %q, want %q", c.path, got, c.want)
		}
	}
}

func TestParsePathRoundTrip(t *testing.T) {
	cases := []string{
		"root",
		"root['a']",
		"root['a']['b'][2]",
		"root[0][1][2]",
		`root['it\'s']`,
		"root['with space']['and-dash']",
	}
	for _, s := range cases {
		p, err := ParsePath(s)
		if err != nil {
			t.Errorf("ParsePath(%q): %s", s, err)
			continue
		}
		if got := p.String(); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestParsePathDoubleQuotes(t *testing.T) {
	p, err := ParsePath(`root["a"]["b"]`)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Path{Key("a"), Key("b")}, p); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePathErrors(t *testing.T) {
	cases := []string{
		"",
		"['a']",
		"root['a'",
		"root['a]",
		"root[",
		"root[abc]",
		"root{'a'}",
	}
	for _, s := range cases {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q): expected error", s)
		}
	}
}

func TestPathChildDoesNotAlias(t *testing.T) {
	base := Path{Key("a")}
	c1 := base.Child(Key("b"))
	c2 := base.Child(Key("c"))
	if c1.String() != "root['a']['b']" || c2.String() != "root['a']['c']" {
		t.Errorf("children alias the parent's backing array: %s, %s", c1, c2)
	}
}

func TestPathHasPrefix(t *testing.T) {
	p := Path{Key("a"), Index(1), Key("b")}
	if !p.HasPrefix(Path{}) {
		t.Error("empty prefix rejected")
	}
	if !p.HasPrefix(Path{Key("a"), Index(1)}) {
		t.Error("ancestor prefix rejected")
	}
	if !p.HasPrefix(p) {
		t.Error("self prefix rejected")
	}
	if p.HasPrefix(Path{Key("a"), Index(2)}) {
		t.Error("non-prefix accepted")
	}
	if p.HasPrefix(Path{Key("a"), Index(1), Key("b"), Key("c")}) {
		t.Error("longer path accepted as prefix")
	}
}

func TestComparePaths(t *testing.T) {
	cases := []struct {
		a, b Path
		want int
	}{
		{Path{}, Path{}, 0},
		{Path{}, Path{Key("a")}, -1},
		{Path{Key("a")}, Path{Key("b")}, -1},
		{Path{Key("b")}, Path{Key("a")}, 1},
		{Path{Index(2)}, Path{Index(10)}, -1},
		{Path{Key("a")}, Path{Index(0)}, -1},
		{Path{Key("a"), Index(1)}, Path{Key("a"), Index(1)}, 0},
		{Path{Key("a")}, Path{Key("a"), Index(0)}, -1},
	}
	for _, c := range cases {
		got := comparePaths(c.a, c.b)
		switch {
		case c.want < 0 && got >= 0,
			c.want > 0 && got <= 0,
			c.want == 0 && got != 0:
			t.Errorf("comparePaths(%s, %s) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}
