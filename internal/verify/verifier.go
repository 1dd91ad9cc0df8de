// Package verify resolves extracted references against the legal corpus and
// classifies their compliance status.
package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clerval/juriscan/internal/corpus"
	"github.com/clerval/juriscan/internal/model"
)

// Verifier checks one reference at a time against the corpus lookup service
type Verifier struct {
	corpus     corpus.SearchClient
	maxResults int
}

// NewVerifier creates a verifier backed by the given lookup client
func NewVerifier(client corpus.SearchClient, maxResults int) *Verifier {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Verifier{
		corpus:     client,
		maxResults: maxResults,
	}
}

// Verify resolves a single reference. It returns nil when the cited article
// is in force with no temporal conflict, and an AuditIssue otherwise.
//
// A lookup failure is converted into a verification_error issue rather than
// returned: one bad corpus response must never abort the audit of the
// remaining references.
func (v *Verifier) Verify(ctx context.Context, ref model.Reference, documentDate *time.Time) *model.AuditIssue {
	results, err := v.corpus.Search(ctx, buildQuery(ref), v.maxResults)
	if err != nil {
		return &model.AuditIssue{
			Severity:       model.SeverityMedium,
			Type:           model.IssueVerificationError,
			ReferenceText:  ref.SourceText,
			Context:        ref.Context,
			Description:    fmt.Sprintf("Impossible de vérifier la référence : %v", err),
			CurrentStatus:  model.StatusError,
			Recommendation: "Vérifier manuellement cette référence.",
		}
	}

	if len(results) == 0 {
		return &model.AuditIssue{
			Severity:       model.SeverityHigh,
			Type:           model.IssueReferenceNotFound,
			ReferenceText:  ref.SourceText,
			Context:        ref.Context,
			Description:    fmt.Sprintf("Référence introuvable : %s", ref.SourceText),
			CurrentStatus:  model.StatusUnknown,
			Recommendation: "Vérifier la référence ou la supprimer si obsolète.",
		}
	}

	best := results[0]
	status := best.Metadata.Status
	if status == "" {
		status = model.StatusUnknown
	}

	switch status {
	case model.StatusRepealed:
		return v.repealedIssue(ref, best)
	case model.StatusAmended:
		return v.amendedIssue(ref, best, documentDate)
	default:
		// In force (or unrecognized status treated as in force): no issue
		return nil
	}
}

func (v *Verifier) repealedIssue(ref model.Reference, doc corpus.Document) *model.AuditIssue {
	repealDate := doc.Metadata.DateFin
	when := repealDate
	if when == "" {
		when = "date inconnue"
	}

	return &model.AuditIssue{
		Severity:       model.SeverityCritical,
		Type:           model.IssueArticleRepealed,
		ReferenceText:  ref.SourceText,
		Context:        ref.Context,
		Description:    fmt.Sprintf("Article %s abrogé", ref.ArticleNumber),
		CurrentStatus:  model.StatusRepealed,
		RepealDate:     repealDate,
		Recommendation: fmt.Sprintf("Mettre à jour la référence (article abrogé le %s).", when),
	}
}

func (v *Verifier) amendedIssue(ref model.Reference, doc corpus.Document, documentDate *time.Time) *model.AuditIssue {
	amendmentDate := doc.Metadata.DateDebut

	// Temporal anachronism: the document cites wording that did not yet
	// exist at the document's date.
	if documentDate != nil && amendmentDate != "" {
		if amended, err := parseDate(amendmentDate); err == nil && amended.After(*documentDate) {
			return &model.AuditIssue{
				Severity:       model.SeverityHigh,
				Type:           model.IssueArticleAmended,
				ReferenceText:  ref.SourceText,
				Context:        ref.Context,
				Description:    fmt.Sprintf("Article %s modifié après la signature du document", ref.ArticleNumber),
				CurrentStatus:  model.StatusAmended,
				AmendmentDate:  amendmentDate,
				Recommendation: fmt.Sprintf("Vérifier que le contenu correspond à la version en vigueur au %s.", amended.Format("02/01/2006")),
			}
		}
	}

	return &model.AuditIssue{
		Severity:       model.SeverityLow,
		Type:           model.IssueArticleAmended,
		ReferenceText:  ref.SourceText,
		Context:        ref.Context,
		Description:    fmt.Sprintf("Article %s a été modifié", ref.ArticleNumber),
		CurrentStatus:  model.StatusAmended,
		AmendmentDate:  amendmentDate,
		Recommendation: "Vérifier que la version citée correspond à la version actuelle.",
	}
}

// buildQuery forms the free-text corpus query for a reference
func buildQuery(ref model.Reference) string {
	if ref.CodeName != "" {
		return fmt.Sprintf("article %s %s", ref.ArticleNumber, ref.CodeName)
	}
	return fmt.Sprintf("article %s", ref.ArticleNumber)
}

// parseDate accepts the ISO date layouts the corpus emits
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
