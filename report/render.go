// Package report turns findings into human-readable text and structured run
// reports, and publishes reports to NATS.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/c360studio/nidmcheck/finding"
)

// group collects the sources and first detail of one (kind, key) pair.
type group struct {
	key     string
	detail  string
	sources []string
}

// Render formats findings grouped by kind, in a fixed kind order, then by
// key in first-occurrence order. Each key lists the sources that reported
// it. When every finding comes from the same source, the source is named
// once in the header instead.
//
// Render makes no pass/fail decision.
func Render(findings []finding.Finding) string {
	if len(findings) == 0 {
		return "No findings.\n"
	}

	byKind := make(map[finding.Kind][]*group)
	index := make(map[finding.Kind]map[string]*group)
	sources := make(map[string]bool)
	for _, f := range findings {
		sources[f.Source] = true
		if index[f.Kind] == nil {
			index[f.Kind] = make(map[string]*group)
		}
		g, ok := index[f.Kind][f.Key]
		if !ok {
			g = &group{key: f.Key, detail: f.Detail}
			index[f.Kind][f.Key] = g
			byKind[f.Kind] = append(byKind[f.Kind], g)
		}
		if !slices.Contains(g.sources, f.Source) {
			g.sources = append(g.sources, f.Source)
		}
	}

	single := len(sources) == 1
	total := 0
	for _, groups := range byKind {
		total += len(groups)
	}

	var b strings.Builder
	if single {
		fmt.Fprintf(&b, "%d finding(s) in %s\n", total, findings[0].Source)
	} else {
		fmt.Fprintf(&b, "%d finding(s) across %d sources\n", total, len(sources))
	}

	for _, kind := range finding.Kinds() {
		groups := byKind[kind]
		if len(groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", kind.Title(), len(groups))
		for _, g := range groups {
			b.WriteString("  - ")
			b.WriteString(g.key)
			if g.detail != "" {
				fmt.Fprintf(&b, " [%s]", g.detail)
			}
			if !single {
				fmt.Fprintf(&b, " (from %s)", strings.Join(g.sources, ", "))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
