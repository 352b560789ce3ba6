// Package aggregate holds the pure client-side transforms behind the
// findings explorer, trend charts, and comparison views. Everything
// here is a function of its inputs: no network, no hidden state, safe
// to re-run on every redraw.
package aggregate

import (
	"sort"
	"strings"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

// UnknownKey is the sentinel group for records whose grouping field is
// empty or unrecognized. Grouping never drops a record.
const UnknownKey = "unknown"

// FindingFilter is a set of ANDed predicates over findings. Zero-value
// fields are inactive; an empty filter matches everything.
type FindingFilter struct {
	Severity  api.Severity
	Tool      string
	Technique string
	// Search matches case-insensitively against title and description.
	Search string
}

// Matches reports whether a finding passes every active predicate.
func (f FindingFilter) Matches(finding api.Finding) bool {
	if f.Severity != "" && finding.Severity != f.Severity {
		return false
	}
	if f.Tool != "" && finding.ToolName != f.Tool {
		return false
	}
	if f.Technique != "" && finding.MitreTechnique != f.Technique {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(finding.Title), needle) &&
			!strings.Contains(strings.ToLower(finding.Description), needle) {
			return false
		}
	}
	return true
}

// FilterFindings returns the findings passing the filter, preserving
// input order.
func FilterFindings(findings []api.Finding, filter FindingFilter) []api.Finding {
	out := make([]api.Finding, 0, len(findings))
	for _, f := range findings {
		if filter.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// Tools returns the sorted, deduplicated tool names present in the
// findings. Empty values are ignored.
func Tools(findings []api.Finding) []string {
	return distinct(findings, func(f api.Finding) string { return f.ToolName })
}

// Techniques returns the sorted, deduplicated MITRE techniques present
// in the findings. Empty values are ignored.
func Techniques(findings []api.Finding) []string {
	return distinct(findings, func(f api.Finding) string { return f.MitreTechnique })
}

func distinct(findings []api.Finding, field func(api.Finding) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range findings {
		v := field(f)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SeverityCounts groups findings by severity in one pass. Unrecognized
// severities land in the UnknownKey bucket, so the counts always sum
// to the collection size.
func SeverityCounts(findings []api.Finding) map[string]int {
	counts := make(map[string]int)
	known := make(map[api.Severity]struct{}, len(api.Severities))
	for _, s := range api.Severities {
		known[s] = struct{}{}
	}
	for _, f := range findings {
		if _, ok := known[f.Severity]; ok {
			counts[string(f.Severity)]++
		} else {
			counts[UnknownKey]++
		}
	}
	return counts
}

// CountByTool groups findings by tool name, bucketing empty names
// under UnknownKey.
func CountByTool(findings []api.Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		key := f.ToolName
		if key == "" {
			key = UnknownKey
		}
		counts[key]++
	}
	return counts
}

// CountByTechnique groups findings by MITRE technique, bucketing
// missing techniques under UnknownKey.
func CountByTechnique(findings []api.Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		key := f.MitreTechnique
		if key == "" {
			key = UnknownKey
		}
		counts[key]++
	}
	return counts
}
