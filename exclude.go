package jsondelta

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Rules excludes paths from a comparison. Workflow documents carry fields
// that always churn (ids, versions, linkage blocks); excluding them keeps
// diffs focused on meaningful change.
type Rules struct {
	// Paths are exact wire-notation paths; a match excludes the whole
	// subtree below it
	Paths []string
	// RegexPaths are regular expressions matched against the wire
	// notation of each visited path
	RegexPaths []string

	exact map[string]struct{}
	res   []*regexp.Regexp
}

// NewRules builds a rule set, compiling the regular expressions
func NewRules(paths, regexPaths []string) (*Rules, error) {
	r := &Rules{
		Paths:      paths,
		RegexPaths: regexPaths,
		exact:      make(map[string]struct{}, len(paths)),
	}
	for _, p := range paths {
		if _, err := ParsePath(p); err != nil {
			return nil, fmt.Errorf("exclusion %q: %w", p, err)
		}
		r.exact[p] = struct{}{}
	}
	for _, expr := range regexPaths {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("exclusion regex %q: %w", expr, err)
		}
		r.res = append(r.res, re)
	}
	return r, nil
}

// Excluded reports whether p is ruled out. Nil rules exclude nothing.
func (r *Rules) Excluded(p Path) bool {
	if r == nil {
		return false
	}
	s := p.String()
	if _, ok := r.exact[s]; ok {
		return true
	}
	for _, re := range r.res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// rulesFile is the TOML shape of an exclusion rules file:
//
//	[exclude]
//	paths = ["root['workflow']['id']"]
//	regex_paths = ["\\[\\d+\\]\\['id'\\]$"]
type rulesFile struct {
	Exclude struct {
		Paths      []string `toml:"paths"`
		RegexPaths []string `toml:"regex_paths"`
	} `toml:"exclude"`
}

// LoadRules reads an exclusion rules file
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read rules %q: %w", path, err)
	}
	var rf rulesFile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("invalid rules file %q: %w", path, err)
	}
	r, err := NewRules(rf.Exclude.Paths, rf.Exclude.RegexPaths)
	if err != nil {
		return nil, fmt.Errorf("rules file %q: %w", path, err)
	}
	return r, nil
}
