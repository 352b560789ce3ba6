package api

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle state of a run. Transitions only move
// forward: queued -> running -> completed|failed.
type RunStatus string

const (
	StatusQueued    RunStatus = "queued"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Terminal reports whether the run has reached a final state.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Severity of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists all severities from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Run is a single execution of an attack scenario or evaluation against
// a target model. The server owns all run state; the client only
// reflects it.
type Run struct {
	ID           string          `json:"id"`
	RunType      string          `json:"run_type,omitempty"`
	ScenarioID   string          `json:"scenario_id,omitempty"`
	TargetModel  string          `json:"target_model,omitempty"`
	Status       RunStatus       `json:"status"`
	Progress     float64         `json:"progress"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at,omitzero"`
	FinishedAt   time.Time       `json:"finished_at,omitzero"`
	Findings     []Finding       `json:"findings,omitempty"`
	RawResults   json.RawMessage `json:"results,omitempty"`
}

// Results decodes the run's raw results payload into its typed variant.
func (r *Run) Results() (*RunResults, error) {
	return DecodeResults(r.RunType, r.RawResults)
}

// Finding is one discovered issue attached to a run. Findings are
// immutable once created.
type Finding struct {
	ID             string    `json:"id"`
	RunID          string    `json:"run_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Severity       Severity  `json:"severity"`
	ToolName       string    `json:"tool_name,omitempty"`
	MitreTechnique string    `json:"mitre_technique,omitempty"`
	EvidenceHash   string    `json:"evidence_hash,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
}

// Scenario is a reusable attack configuration.
type Scenario struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitzero"`
}

// LaunchRequest starts a new attack run.
type LaunchRequest struct {
	ScenarioID  string `json:"scenario_id,omitempty"`
	TargetModel string `json:"target_model"`
}

// LaunchResponse carries the id of a newly created run.
type LaunchResponse struct {
	ID string `json:"id"`
}

// ScorecardRow is the per-model summary row of a comparison. PassRate
// is a pointer: a missing score ranks below every present score.
type ScorecardRow struct {
	RunID         string   `json:"run_id"`
	Model         string   `json:"model"`
	PassRate      *float64 `json:"pass_rate"`
	FindingsCount int      `json:"findings_count"`
	CriticalCount int      `json:"critical_count"`
}

// Comparison is a multi-model comparison header.
type Comparison struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Models    []string  `json:"models,omitempty"`
	Status    RunStatus `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ComparisonDetail includes the scorecard rows.
type ComparisonDetail struct {
	Comparison
	Scorecards []ScorecardRow `json:"scorecards"`
}

// CompareRequest launches a multi-model comparison.
type CompareRequest struct {
	Name       string   `json:"name,omitempty"`
	ScenarioID string   `json:"scenario_id,omitempty"`
	Models     []string `json:"models"`
}

// Baseline is a recorded safety-score baseline for drift tracking.
type Baseline struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Name      string    `json:"name,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// DriftPoint is one measured comparison against a baseline.
type DriftPoint struct {
	ID         string    `json:"id"`
	BaselineID string    `json:"baseline_id"`
	Score      float64   `json:"score"`
	Delta      float64   `json:"delta"`
	MeasuredAt time.Time `json:"measured_at,omitzero"`
}

// Framework is a compliance framework with coverage counts.
type Framework struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TotalControls   int     `json:"total_controls"`
	CoveredControls int     `json:"covered_controls"`
	Coverage        float64 `json:"coverage"`
}

// ComplianceSummary is the overall coverage percentage per framework.
type ComplianceSummary struct {
	OverallCoverage float64            `json:"overall_coverage"`
	ByFramework     map[string]float64 `json:"by_framework,omitempty"`
}

// Report is a generated report's lifecycle record.
type Report struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Format    string    `json:"format,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// GenerateReportRequest asks the backend to build a report.
type GenerateReportRequest struct {
	RunID  string `json:"run_id,omitempty"`
	Format string `json:"format,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Schedule is a recurring scan configuration.
type Schedule struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Cron       string    `json:"cron"`
	ScenarioID string    `json:"scenario_id,omitempty"`
	Enabled    bool      `json:"enabled"`
	LastRunAt  time.Time `json:"last_run_at,omitzero"`
	NextRunAt  time.Time `json:"next_run_at,omitzero"`
}

// Webhook is an outbound event delivery endpoint.
type Webhook struct {
	ID      string   `json:"id,omitempty"`
	URL     string   `json:"url"`
	Events  []string `json:"events,omitempty"`
	Enabled bool     `json:"enabled"`
}

// Channel is a notification channel (slack, email, ...).
type Channel struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Config  json.RawMessage `json:"config,omitempty"`
	Enabled bool            `json:"enabled"`
}

// APIKey is a programmatic access token. Secret is only populated in
// the creation response and never shown again.
type APIKey struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Prefix     string    `json:"prefix,omitempty"`
	Secret     string    `json:"secret,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	LastUsedAt time.Time `json:"last_used_at,omitzero"`
}

// AuditEntry is one row of the server-side audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// AuditPage is a page of audit entries plus the total match count.
type AuditPage struct {
	Items []AuditEntry `json:"items"`
	Total int          `json:"total"`
}

// AuditQuery filters and pages the audit trail.
type AuditQuery struct {
	Actor  string
	Action string
	Limit  int
	Offset int
}

// Rubric is a scoring rubric with its pass threshold.
type Rubric struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name"`
	Threshold float64            `json:"threshold"`
	Weights   map[string]float64 `json:"weights,omitempty"`
}

// CalibrationRun tracks a scoring calibration in progress.
type CalibrationRun struct {
	ID         string          `json:"id"`
	RubricID   string          `json:"rubric_id,omitempty"`
	Status     RunStatus       `json:"status"`
	Progress   float64         `json:"progress"`
	RawResults json.RawMessage `json:"results,omitempty"`
}

// HealthStatus is the backend health summary.
type HealthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// ToolInfo describes one attack tool available on the backend.
type ToolInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Description string `json:"description,omitempty"`
}

// UserInfo is an administrative view of a platform user.
type UserInfo struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}
