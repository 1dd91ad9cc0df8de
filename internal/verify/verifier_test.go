package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/clerval/juriscan/internal/corpus"
	"github.com/clerval/juriscan/internal/model"
)

// stubClient returns canned results per query
type stubClient struct {
	results map[string][]corpus.Document
	errs    map[string]error
	queries []string
}

func (s *stubClient) Search(ctx context.Context, query string, limit int) ([]corpus.Document, error) {
	s.queries = append(s.queries, query)
	if err, ok := s.errs[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func docWithStatus(status, dateDebut, dateFin string) corpus.Document {
	return corpus.Document{
		Title: "Article",
		Score: 0.9,
		Metadata: corpus.Metadata{
			Status:    status,
			DateDebut: dateDebut,
			DateFin:   dateFin,
		},
	}
}

func standardRef(article, code string) model.Reference {
	return model.Reference{
		Kind:          model.RefKindStandard,
		ArticleNumber: article,
		CodeName:      code,
		SourceText:    fmt.Sprintf("article %s du %s", article, code),
		Context:       "…contexte…",
	}
}

func TestVerify_InForce(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 1101 code civil": {docWithStatus("VIGUEUR", "2016-10-01", "")},
	}}
	v := NewVerifier(client, 3)

	issue := v.Verify(context.Background(), standardRef("1101", "code civil"), nil)

	if issue != nil {
		t.Errorf("Expected no issue for an in-force article, got %+v", issue)
	}
	if len(client.queries) != 1 || client.queries[0] != "article 1101 code civil" {
		t.Errorf("Unexpected queries: %v", client.queries)
	}
}

func TestVerify_QueryOmitsMissingCode(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 414": {docWithStatus("VIGUEUR", "", "")},
	}}
	v := NewVerifier(client, 3)

	ref := model.Reference{Kind: model.RefKindBare, ArticleNumber: "414", SourceText: "article 414"}
	if issue := v.Verify(context.Background(), ref, nil); issue != nil {
		t.Errorf("Expected no issue, got %+v", issue)
	}
	if client.queries[0] != "article 414" {
		t.Errorf("Expected bare query without code, got %q", client.queries[0])
	}
}

func TestVerify_NotFound(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{}}
	v := NewVerifier(client, 3)

	issue := v.Verify(context.Background(), standardRef("9999", "code civil"), nil)

	if issue == nil {
		t.Fatal("Expected an issue")
	}
	if issue.Type != model.IssueReferenceNotFound {
		t.Errorf("Expected reference_not_found, got %q", issue.Type)
	}
	if issue.Severity != model.SeverityHigh {
		t.Errorf("Expected high severity, got %q", issue.Severity)
	}
	if issue.CurrentStatus != model.StatusUnknown {
		t.Errorf("Expected status INCONNU, got %q", issue.CurrentStatus)
	}
}

func TestVerify_Repealed(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 1142 code civil": {docWithStatus("ABROGE", "", "2016-10-01")},
	}}
	v := NewVerifier(client, 3)

	issue := v.Verify(context.Background(), standardRef("1142", "code civil"), nil)

	if issue == nil {
		t.Fatal("Expected an issue")
	}
	if issue.Type != model.IssueArticleRepealed {
		t.Errorf("Expected article_repealed, got %q", issue.Type)
	}
	if issue.Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %q", issue.Severity)
	}
	if issue.RepealDate != "2016-10-01" {
		t.Errorf("Expected repeal date populated, got %q", issue.RepealDate)
	}
}

func TestVerify_AmendedAnachronism(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 1101 code civil": {docWithStatus("MODIFIE", "2016-10-01", "")},
	}}
	v := NewVerifier(client, 3)

	// Document signed before the amendment took effect
	docDate := time.Date(2010, time.January, 15, 0, 0, 0, 0, time.UTC)
	issue := v.Verify(context.Background(), standardRef("1101", "code civil"), &docDate)

	if issue == nil {
		t.Fatal("Expected an issue")
	}
	if issue.Type != model.IssueArticleAmended {
		t.Errorf("Expected article_amended, got %q", issue.Type)
	}
	if issue.Severity != model.SeverityHigh {
		t.Errorf("Expected high severity for anachronism, got %q", issue.Severity)
	}
	if issue.AmendmentDate != "2016-10-01" {
		t.Errorf("Expected amendment date populated, got %q", issue.AmendmentDate)
	}
}

func TestVerify_AmendedNoAnachronism(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 1101 code civil": {docWithStatus("MODIFIE", "2016-10-01", "")},
	}}
	v := NewVerifier(client, 3)

	tests := []struct {
		name    string
		docDate *time.Time
	}{
		{"no document date", nil},
		{"document after amendment", timePtr(time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := v.Verify(context.Background(), standardRef("1101", "code civil"), tt.docDate)
			if issue == nil {
				t.Fatal("Expected an issue")
			}
			if issue.Severity != model.SeverityLow {
				t.Errorf("Expected low severity without anachronism, got %q", issue.Severity)
			}
		})
	}
}

func TestVerify_MalformedAmendmentDate(t *testing.T) {
	client := &stubClient{results: map[string][]corpus.Document{
		"article 1101 code civil": {docWithStatus("MODIFIE", "pas-une-date", "")},
	}}
	v := NewVerifier(client, 3)

	docDate := time.Date(2010, time.January, 15, 0, 0, 0, 0, time.UTC)
	issue := v.Verify(context.Background(), standardRef("1101", "code civil"), &docDate)

	if issue == nil {
		t.Fatal("Expected an issue")
	}
	// A date that cannot be compared never produces an anachronism
	if issue.Severity != model.SeverityLow {
		t.Errorf("Expected low severity for unparseable date, got %q", issue.Severity)
	}
}

func TestVerify_LookupFailureBecomesIssue(t *testing.T) {
	client := &stubClient{errs: map[string]error{
		"article 1101 code civil": fmt.Errorf("corpus timeout"),
	}}
	v := NewVerifier(client, 3)

	issue := v.Verify(context.Background(), standardRef("1101", "code civil"), nil)

	if issue == nil {
		t.Fatal("Expected an issue, not a panic or nil")
	}
	if issue.Type != model.IssueVerificationError {
		t.Errorf("Expected verification_error, got %q", issue.Type)
	}
	if issue.Severity != model.SeverityMedium {
		t.Errorf("Expected medium severity, got %q", issue.Severity)
	}
	if issue.CurrentStatus != model.StatusError {
		t.Errorf("Expected status ERREUR, got %q", issue.CurrentStatus)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
