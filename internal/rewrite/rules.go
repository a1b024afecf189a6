package rewrite

import (
	"strings"

	"git.home.luguber.info/inful/xrefsync/internal/config"
	"git.home.luguber.info/inful/xrefsync/internal/linkmap"
)

// XrefPrefix starts every cross-reference token.
const XrefPrefix = "xref:"

// RuleKind names what a rule does, for counting.
type RuleKind string

const (
	KindBlob   RuleKind = "blob"
	KindTree   RuleKind = "tree"
	KindRemove RuleKind = "remove"
)

// Rule is a literal substitution: every non-overlapping occurrence of From,
// scanning left to right, becomes To.
type Rule struct {
	Kind RuleKind
	From string
	To   string
}

// Counts holds substitutions per rule kind.
type Counts map[RuleKind]int

// Total sums all kinds.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

func (c Counts) add(other Counts) {
	for k, v := range other {
		c[k] += v
	}
}

// RuleSet is the ordered list of substitutions applied to every line. Both
// rewrite modes share it.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds the rules for a table. For each entry, in table order, the
// blob URL is replaced, then the removal literals are deleted, then the tree URL
// is replaced.
func NewRuleSet(links *linkmap.LinkMap, cfg *config.Config) *RuleSet {
	rs := &RuleSet{rules: make([]Rule, 0, links.Len()*(2+len(cfg.Remove)))}
	for _, e := range links.Entries() {
		token := XrefPrefix + e.ID
		rs.rules = append(rs.rules, Rule{Kind: KindBlob, From: cfg.Upstream.BlobBase + e.Fragment, To: token})
		for _, lit := range cfg.Remove {
			rs.rules = append(rs.rules, Rule{Kind: KindRemove, From: lit})
		}
		rs.rules = append(rs.rules, Rule{Kind: KindTree, From: cfg.Upstream.TreeBase + e.Fragment, To: token})
	}
	return rs
}

// Rules returns a copy of the rules in application order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// ApplyLine runs every rule over line and reports how many substitutions each
// kind made.
func (rs *RuleSet) ApplyLine(line string) (string, Counts) {
	counts := Counts{}
	for _, r := range rs.rules {
		n := strings.Count(line, r.From)
		if n == 0 {
			continue
		}
		line = strings.ReplaceAll(line, r.From, r.To)
		counts[r.Kind] += n
	}
	return line, counts
}

// Apply runs ApplyLine over every line. It returns the new lines, the number of
// lines that changed and the substitution counts.
func (rs *RuleSet) Apply(lines []string) ([]string, int, Counts) {
	out := make([]string, len(lines))
	total := Counts{}
	changed := 0
	for i, line := range lines {
		next, counts := rs.ApplyLine(line)
		if next != line {
			changed++
		}
		total.add(counts)
		out[i] = next
	}
	return out, changed, total
}
