package model

// IssueSeverity grades how urgent a compliance problem is
type IssueSeverity string

const (
	SeverityLow      IssueSeverity = "low"
	SeverityMedium   IssueSeverity = "medium"
	SeverityHigh     IssueSeverity = "high"
	SeverityCritical IssueSeverity = "critical"
)

// IssueType classifies the detected compliance problem
type IssueType string

const (
	IssueReferenceNotFound IssueType = "reference_not_found"
	IssueArticleRepealed   IssueType = "article_repealed"
	IssueArticleAmended    IssueType = "article_amended"
	IssueVerificationError IssueType = "verification_error"
)

// Legal status values as carried by the corpus metadata
const (
	StatusInForce  = "VIGUEUR"
	StatusRepealed = "ABROGE"
	StatusAmended  = "MODIFIE"
	StatusUnknown  = "INCONNU"
	StatusError    = "ERREUR"
)

// AuditIssue is one detected compliance problem, created at most once per
// reference during verification and immutable afterwards.
type AuditIssue struct {
	Severity       IssueSeverity `json:"severity"`
	Type           IssueType     `json:"issue_type"`
	ReferenceText  string        `json:"reference_text"`
	Context        string        `json:"context,omitempty"`
	Description    string        `json:"description"`
	CurrentStatus  string        `json:"current_status"`
	RepealDate     string        `json:"repeal_date,omitempty"`
	AmendmentDate  string        `json:"amendment_date,omitempty"`
	Recommendation string        `json:"recommendation"`
}
