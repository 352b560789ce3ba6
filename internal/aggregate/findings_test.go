package aggregate

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

var sampleFindings = []api.Finding{
	{ID: "1", Title: "System prompt leak", Description: "extracted via roleplay", Severity: api.SeverityCritical, ToolName: "garak", MitreTechnique: "T1059"},
	{ID: "2", Title: "Jailbreak via DAN", Severity: api.SeverityHigh, ToolName: "pyrit", MitreTechnique: "T1059"},
	{ID: "3", Title: "PII echo", Description: "model repeats emails", Severity: api.SeverityMedium, ToolName: "garak", MitreTechnique: "T1566"},
	{ID: "4", Title: "Verbose errors", Severity: api.SeverityLow, ToolName: "garak"},
	{ID: "5", Title: "Odd classifier output", Severity: api.Severity("bizarre")},
}

func TestFilterFindings(t *testing.T) {
	tests := []struct {
		name   string
		filter FindingFilter
		want   []string
	}{
		{"empty filter matches all", FindingFilter{}, []string{"1", "2", "3", "4", "5"}},
		{"by severity", FindingFilter{Severity: api.SeverityCritical}, []string{"1"}},
		{"by tool", FindingFilter{Tool: "garak"}, []string{"1", "3", "4"}},
		{"by technique", FindingFilter{Technique: "T1059"}, []string{"1", "2"}},
		{"search title case-insensitive", FindingFilter{Search: "jailbreak"}, []string{"2"}},
		{"search description", FindingFilter{Search: "ROLEPLAY"}, []string{"1"}},
		{"anded predicates", FindingFilter{Tool: "garak", Technique: "T1059"}, []string{"1"}},
		{"no matches", FindingFilter{Severity: api.SeverityInfo}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFindings(sampleFindings, tt.filter)
			ids := make([]string, 0, len(got))
			for _, f := range got {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTools(t *testing.T) {
	assert.Equal(t, []string{"garak", "pyrit"}, Tools(sampleFindings))
}

func TestTechniques(t *testing.T) {
	assert.Equal(t, []string{"T1059", "T1566"}, Techniques(sampleFindings))
}

func TestSeverityCounts(t *testing.T) {
	counts := SeverityCounts(sampleFindings)
	assert.Equal(t, 1, counts["critical"])
	assert.Equal(t, 1, counts["high"])
	assert.Equal(t, 1, counts["medium"])
	assert.Equal(t, 1, counts["low"])
	assert.Equal(t, 1, counts[UnknownKey], "unrecognized severities land in the unknown bucket")
}

func TestCountByTool(t *testing.T) {
	counts := CountByTool(sampleFindings)
	assert.Equal(t, 3, counts["garak"])
	assert.Equal(t, 1, counts["pyrit"])
	assert.Equal(t, 1, counts[UnknownKey])
}

func genFinding() gopter.Gen {
	return gen.Struct(reflect.TypeOf(api.Finding{}), map[string]gopter.Gen{
		"Title":       gen.AlphaString(),
		"Description": gen.AlphaString(),
		"Severity": gen.OneConstOf(
			api.SeverityCritical, api.SeverityHigh, api.SeverityMedium,
			api.SeverityLow, api.SeverityInfo,
			api.Severity("mystery"), api.Severity(""),
		),
		"ToolName":       gen.OneConstOf("garak", "pyrit", "promptfoo", ""),
		"MitreTechnique": gen.OneConstOf("T1059", "T1566", ""),
	})
}

func TestSeverityCounts_Partition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("counts sum to the collection size", prop.ForAll(
		func(findings []api.Finding) bool {
			total := 0
			for _, n := range SeverityCounts(findings) {
				total += n
			}
			return total == len(findings)
		},
		gen.SliceOf(genFinding()),
	))

	properties.TestingRun(t)
}

func TestFilterFindings_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	filters := gen.Struct(reflect.TypeOf(FindingFilter{}), map[string]gopter.Gen{
		"Severity":  gen.OneConstOf(api.Severity(""), api.SeverityCritical, api.SeverityHigh),
		"Tool":      gen.OneConstOf("", "garak", "pyrit"),
		"Technique": gen.OneConstOf("", "T1059"),
		"Search":    gen.OneConstOf("", "a", "zz"),
	})

	properties.Property("filtering is idempotent", prop.ForAll(
		func(findings []api.Finding, filter FindingFilter) bool {
			once := FilterFindings(findings, filter)
			twice := FilterFindings(once, filter)
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genFinding()),
		filters,
	))

	properties.Property("every kept finding matches the filter", prop.ForAll(
		func(findings []api.Finding, filter FindingFilter) bool {
			for _, f := range FilterFindings(findings, filter) {
				if !filter.Matches(f) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genFinding()),
		filters,
	))

	properties.TestingRun(t)
}
