// Package score aggregates verification outcomes into the compliance report.
package score

import (
	"time"

	"github.com/clerval/juriscan/internal/model"
)

// Scorer builds the audit report from the verification tally
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Conformity computes the 0-100 compliance score. A document with no
// references scores 100: nothing to check is treated as fully compliant.
func (s *Scorer) Conformity(total, valid int) float64 {
	if total <= 0 {
		return 100
	}
	score := float64(valid) / float64(total) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BuildReport assembles the report skeleton: counts, score, timestamp and
// the ordered issue list. Recommendations are attached by the caller.
func (s *Scorer) BuildReport(title string, documentDate *time.Time, totalRefs int, issues []model.AuditIssue) *model.AuditReport {
	if issues == nil {
		issues = []model.AuditIssue{}
	}

	valid := totalRefs - len(issues)
	if valid < 0 {
		valid = 0
	}

	return &model.AuditReport{
		DocumentTitle:   title,
		AuditTimestamp:  time.Now().UTC(),
		DocumentDate:    documentDate,
		TotalReferences: totalRefs,
		ValidReferences: valid,
		Issues:          issues,
		ConformityScore: s.Conformity(totalRefs, valid),
		Recommendations: []string{},
	}
}
