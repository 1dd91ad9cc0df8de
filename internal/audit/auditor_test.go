package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clerval/juriscan/internal/corpus"
	"github.com/clerval/juriscan/internal/model"
)

// stubCorpus serves canned lookup results per query
type stubCorpus struct {
	results map[string][]corpus.Document
	errs    map[string]error
	queries []string
}

func (s *stubCorpus) Search(ctx context.Context, query string, limit int) ([]corpus.Document, error) {
	s.queries = append(s.queries, query)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	if docs, ok := s.results[query]; ok {
		return docs, nil
	}
	// Unknown articles default to in force
	return []corpus.Document{inForceDoc()}, nil
}

func inForceDoc() corpus.Document {
	return corpus.Document{
		ID:    "LEGIARTI000006436298",
		Title: "Article 1101",
		Metadata: corpus.Metadata{
			Status:    model.StatusInForce,
			DateDebut: "2016-10-01",
		},
	}
}

func newTestAuditor(t *testing.T, client corpus.SearchClient) *Auditor {
	t.Helper()
	cfg := model.DefaultConfig()
	a, err := NewAuditor(cfg, client)
	if err != nil {
		t.Fatalf("NewAuditor failed: %v", err)
	}
	return a
}

func TestAudit_ConformingDocument(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:   "Contrat de vente",
		Content: "Conformément à l'article 1101 du Code civil, le contrat est un accord de volontés.",
	})

	if report.TotalReferences != 1 {
		t.Fatalf("expected 1 reference, got %d", report.TotalReferences)
	}
	if report.ValidReferences != 1 {
		t.Errorf("expected 1 valid reference, got %d", report.ValidReferences)
	}
	if report.ConformityScore != 100 {
		t.Errorf("expected score 100, got %v", report.ConformityScore)
	}
	if len(report.Issues) != 0 {
		t.Errorf("expected no issues, got %v", report.Issues)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "conforme") {
		t.Errorf("expected the conformant recommendation, got %v", report.Recommendations)
	}
	if len(stub.queries) != 1 || stub.queries[0] != "article 1101 code civil" {
		t.Errorf("unexpected corpus queries: %v", stub.queries)
	}
}

func TestAudit_RepealedArticle(t *testing.T) {
	stub := &stubCorpus{
		results: map[string][]corpus.Document{
			"article 1142 code civil": {{
				ID: "LEGIARTI000006436342",
				Metadata: corpus.Metadata{
					Status:  model.StatusRepealed,
					DateFin: "2016-10-01",
				},
			}},
		},
	}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:   "Contrat ancien",
		Content: "Toute obligation de faire se résout en dommages et intérêts selon l'article 1142 du Code civil.",
	})

	if report.ConformityScore != 0 {
		t.Errorf("expected score 0, got %v", report.ConformityScore)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}
	issue := report.Issues[0]
	if issue.Severity != model.SeverityCritical {
		t.Errorf("expected critical severity, got %s", issue.Severity)
	}
	if issue.Type != model.IssueArticleRepealed {
		t.Errorf("expected article_repealed, got %s", issue.Type)
	}
	if issue.RepealDate != "2016-10-01" {
		t.Errorf("expected repeal date carried, got %q", issue.RepealDate)
	}
	// Degraded generation still yields recommendations
	if len(report.Recommendations) == 0 {
		t.Error("expected fallback recommendations")
	}
}

func TestAudit_MixedReferences(t *testing.T) {
	stub := &stubCorpus{
		results: map[string][]corpus.Document{
			"article 9999 code civil": {}, // not found
		},
	}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:   "Contrat",
		Content: "Vu l'article 1101 du Code civil et vu l'article 9999 du Code civil.",
	})

	if report.TotalReferences != 2 {
		t.Fatalf("expected 2 references, got %d", report.TotalReferences)
	}
	if report.ValidReferences != 1 {
		t.Errorf("expected 1 valid reference, got %d", report.ValidReferences)
	}
	if report.ConformityScore != 50 {
		t.Errorf("expected score 50, got %v", report.ConformityScore)
	}
	if len(report.Issues) != 1 || report.Issues[0].Type != model.IssueReferenceNotFound {
		t.Errorf("expected one not-found issue, got %v", report.Issues)
	}
}

func TestAudit_AnachronismFromParsedDate(t *testing.T) {
	stub := &stubCorpus{
		results: map[string][]corpus.Document{
			"article 1231-1 code civil": {{
				Metadata: corpus.Metadata{
					Status:    model.StatusAmended,
					DateDebut: "2016-10-01",
				},
			}},
		},
	}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title: "Contrat de prestation",
		Content: "Le débiteur est condamné au titre de l'article 1231-1 du Code civil.\n" +
			"Fait à Paris, le 15 janvier 2010.",
	})

	if report.DocumentDate == nil {
		t.Fatal("expected document date parsed from content")
	}
	if got := report.DocumentDate.Format("2006-01-02"); got != "2010-01-15" {
		t.Errorf("expected document date 2010-01-15, got %s", got)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}
	if report.Issues[0].Severity != model.SeverityHigh {
		t.Errorf("expected high severity for anachronism, got %s", report.Issues[0].Severity)
	}
}

func TestAudit_ExplicitDateOverridesParsed(t *testing.T) {
	stub := &stubCorpus{
		results: map[string][]corpus.Document{
			"article 1231-1 code civil": {{
				Metadata: corpus.Metadata{
					Status:    model.StatusAmended,
					DateDebut: "2016-10-01",
				},
			}},
		},
	}
	a := newTestAuditor(t, stub)

	// Explicit date after the amendment: only a low-severity notice
	explicit := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	report := a.Audit(context.Background(), AuditRequest{
		Title:        "Contrat",
		Content:      "Vu l'article 1231-1 du Code civil.\nFait à Paris, le 15 janvier 2010.",
		DocumentDate: &explicit,
	})

	if report.DocumentDate == nil || !report.DocumentDate.Equal(explicit) {
		t.Errorf("expected explicit date kept, got %v", report.DocumentDate)
	}
	if len(report.Issues) != 1 || report.Issues[0].Severity != model.SeverityLow {
		t.Errorf("expected one low-severity issue, got %v", report.Issues)
	}
}

func TestAudit_LookupFailureIsolated(t *testing.T) {
	stub := &stubCorpus{
		errs: map[string]error{
			"article 1101 code civil": errors.New("corpus timeout"),
		},
	}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:   "Contrat",
		Content: "Vu l'article 1101 du Code civil et l'article 1103 du Code civil.",
	})

	// The failing lookup degrades to one issue, the other reference is
	// still verified
	if report.TotalReferences != 2 {
		t.Fatalf("expected 2 references, got %d", report.TotalReferences)
	}
	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}
	if report.Issues[0].Type != model.IssueVerificationError {
		t.Errorf("expected verification_error, got %s", report.Issues[0].Type)
	}
	if report.Issues[0].Severity != model.SeverityMedium {
		t.Errorf("expected medium severity, got %s", report.Issues[0].Severity)
	}
	if len(stub.queries) != 2 {
		t.Errorf("expected both references verified, queries: %v", stub.queries)
	}
}

func TestAudit_EmptyContent(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{Content: "   \n  "})

	if report.DocumentTitle != "Document sans titre" {
		t.Errorf("expected default title, got %q", report.DocumentTitle)
	}
	if report.ConformityScore != 100 {
		t.Errorf("expected score 100 for empty content, got %v", report.ConformityScore)
	}
	if report.TotalReferences != 0 {
		t.Errorf("expected 0 references, got %d", report.TotalReferences)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "Aucun contenu") {
		t.Errorf("expected the empty-content recommendation, got %v", report.Recommendations)
	}
	if len(stub.queries) != 0 {
		t.Errorf("expected no corpus lookups, got %v", stub.queries)
	}
}

func TestAudit_IngestErrorScoresZero(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:       "contrat",
		IngestError: errors.New("unsupported format .pdf"),
	})

	if report.ConformityScore != 0 {
		t.Errorf("expected score 0 on ingest failure, got %v", report.ConformityScore)
	}
	if len(report.Recommendations) == 0 || !strings.Contains(report.Recommendations[0], "unsupported format .pdf") {
		t.Errorf("expected the ingest error surfaced, got %v", report.Recommendations)
	}
}

func TestAudit_RangeVerifiedByFirstArticle(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	report := a.Audit(context.Background(), AuditRequest{
		Title:   "CGV",
		Content: "Les articles 1101 à 1105 du Code civil s'appliquent.",
	})

	if report.TotalReferences != 1 {
		t.Fatalf("expected 1 reference for the range, got %d", report.TotalReferences)
	}
	if len(stub.queries) != 1 || stub.queries[0] != "article 1101 code civil" {
		t.Errorf("expected the range verified by its first article, queries: %v", stub.queries)
	}
}

func TestAuditFile(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	path := filepath.Join(t.TempDir(), "contrat.txt")
	content := "Conformément à l'article 1101 du Code civil."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := a.AuditFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AuditFile failed: %v", err)
	}

	if report.DocumentTitle != "contrat" {
		t.Errorf("expected title from file name, got %q", report.DocumentTitle)
	}
	if report.TotalReferences != 1 {
		t.Errorf("expected 1 reference, got %d", report.TotalReferences)
	}
}

func TestAuditFile_UnsupportedFormat(t *testing.T) {
	stub := &stubCorpus{}
	a := newTestAuditor(t, stub)

	path := filepath.Join(t.TempDir(), "contrat.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := a.AuditFile(context.Background(), path)
	if err != nil {
		t.Fatalf("AuditFile should not fail: %v", err)
	}

	if report.ConformityScore != 0 {
		t.Errorf("expected zero-score report, got %v", report.ConformityScore)
	}
	if report.DocumentTitle != "contrat" {
		t.Errorf("expected title from file name, got %q", report.DocumentTitle)
	}
}
