package model

import "time"

// AuditReport is the sole output of an audit run
type AuditReport struct {
	DocumentTitle  string     `json:"document_title"`
	AuditTimestamp time.Time  `json:"audit_timestamp"`
	DocumentDate   *time.Time `json:"document_date,omitempty"`

	TotalReferences int `json:"total_references"`
	ValidReferences int `json:"valid_references"`

	// Issues are ordered by discovery order of the originating references
	Issues []AuditIssue `json:"issues"`

	// ConformityScore is 100 * valid/total, or 100 when no references were
	// found (including the empty-document case)
	ConformityScore float64 `json:"conformity_score"`

	Recommendations []string `json:"recommendations"`

	// Generation describes the recommendation phrasing run, if any
	Generation *GenerationInfo `json:"generation,omitempty"`
}

// GenerationInfo records how the free-text recommendations were produced.
// It never affects the score or the issue list.
type GenerationInfo struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Fallback bool     `json:"fallback"` // deterministic fallback was used
	Warnings []string `json:"warnings,omitempty"`
}

// CountBySeverity tallies issues per severity for display
func (r *AuditReport) CountBySeverity() map[IssueSeverity]int {
	counts := make(map[IssueSeverity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}
