// Package drc checks a flat cell against a process rule set. Checks
// are read-only region algebra: the cell is never modified, and the
// same cell always yields the same report.
package drc

import (
	"fmt"
	"io"
	"strings"

	"analog-macros/internal/cell"
	"analog-macros/internal/tech"
	"analog-macros/pkg/geometry"
)

// Status is the outcome of a single rule.
type Status int

const (
	// Pass means the rule ran and found no violations.
	Pass Status = iota
	// Fail means the rule ran and produced markers.
	Fail
	// Skipped means the rule's layer(s) carry no shapes in this cell.
	// An absent layer is not evidence of correctness, so it is
	// reported distinctly from Pass.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skipped:
		return "SKIP"
	default:
		return "unknown"
	}
}

// Result is the outcome of one rule: its status and, on failure, one
// marker rectangle per violation site.
type Result struct {
	Rule    tech.Rule
	Status  Status
	Markers []geometry.Rect
}

// Count returns the number of violation markers.
func (r Result) Count() int {
	return len(r.Markers)
}

// Report collects the per-rule results for one cell, in rule table
// order.
type Report struct {
	Cell    string
	Results []Result
}

// Total returns the violation count across all rules.
func (rep Report) Total() int {
	n := 0
	for _, r := range rep.Results {
		n += r.Count()
	}
	return n
}

// Clean reports whether no rule failed.
func (rep Report) Clean() bool {
	return rep.Total() == 0
}

// Check runs every rule in rs against the cell.
func Check(c *cell.Cell, rs tech.RuleSet) Report {
	rep := Report{Cell: c.Name}
	for _, rule := range rs.Rules {
		rep.Results = append(rep.Results, checkRule(c, rule))
	}
	return rep
}

func checkRule(c *cell.Cell, rule tech.Rule) Result {
	res := Result{Rule: rule}
	min := geometry.DBU(rule.Value)

	switch rule.Kind {
	case tech.Width, tech.Space:
		region := c.RegionOf(rule.Layer)
		if region.IsEmpty() {
			res.Status = Skipped
			return res
		}
		if rule.Kind == tech.Width {
			res.Markers = region.WidthViolations(min)
		} else {
			res.Markers = region.SpaceViolations(min)
		}

	case tech.Enclosure:
		inner := c.RegionOf(rule.Inner)
		outer := c.RegionOf(rule.Outer)
		if inner.IsEmpty() || outer.IsEmpty() {
			res.Status = Skipped
			return res
		}
		// Only inner shapes that sit on the outer layer are held to
		// the rule. A contact on a poly resistor is not an Activ
		// enclosure error.
		seed := inner.Intersect(outer)
		if seed.IsEmpty() {
			res.Status = Skipped
			return res
		}
		res.Markers = seed.Grown(min).Subtract(outer).Rects()
	}

	if len(res.Markers) > 0 {
		res.Status = Fail
	}
	return res
}

// WriteText prints the report in the checker's column format: the
// width/space table, the enclosure table, and a summary block.
func (rep Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Running DRC on cell: %s\n\n", rep.Cell)

	writeTable := func(kinds ...tech.RuleKind) {
		fmt.Fprintf(w, "%-8s %-42s %6s\n", "Rule", "Description", "Errors")
		fmt.Fprintln(w, dashes(60))
		for _, r := range rep.Results {
			if !kindIn(r.Rule.Kind, kinds) {
				continue
			}
			switch r.Status {
			case Fail:
				fmt.Fprintf(w, "%-8s %-42s %6d  *** FAIL ***\n",
					r.Rule.Name, r.Rule.Desc, r.Count())
			default:
				fmt.Fprintf(w, "%-8s %-42s %6d  %s\n",
					r.Rule.Name, r.Rule.Desc, r.Count(), r.Status)
			}
		}
	}
	writeTable(tech.Width, tech.Space)
	fmt.Fprintln(w)
	writeTable(tech.Enclosure)

	fmt.Fprintln(w)
	fmt.Fprintln(w, equals(60))
	if rep.Clean() {
		fmt.Fprintln(w, "DRC CLEAN — 0 violations")
	} else {
		fmt.Fprintf(w, "DRC ERRORS — %d total violations\n\n", rep.Total())
		fmt.Fprintln(w, "Violations by rule:")
		for _, r := range rep.Results {
			if r.Count() > 0 {
				fmt.Fprintf(w, "  %s: %d (%s)\n", r.Rule.Name, r.Count(), r.Rule.Desc)
			}
		}
	}
	fmt.Fprintln(w, equals(60))
}

func kindIn(k tech.RuleKind, kinds []tech.RuleKind) bool {
	for _, c := range kinds {
		if k == c {
			return true
		}
	}
	return false
}

func dashes(n int) string { return strings.Repeat("-", n) }
func equals(n int) string { return strings.Repeat("=", n) }
