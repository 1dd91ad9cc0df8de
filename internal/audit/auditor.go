// Package audit orchestrates the conformity pipeline: extract citations,
// verify each one against the corpus, score the outcome and phrase
// recommendations.
package audit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/clerval/juriscan/internal/corpus"
	"github.com/clerval/juriscan/internal/extract"
	"github.com/clerval/juriscan/internal/ingest"
	"github.com/clerval/juriscan/internal/llm"
	"github.com/clerval/juriscan/internal/model"
	"github.com/clerval/juriscan/internal/score"
	"github.com/clerval/juriscan/internal/verify"
)

const defaultTitle = "Document sans titre"

// Auditor runs the complete conformity audit
type Auditor struct {
	extractor   *extract.ReferenceExtractor
	verifier    *verify.Verifier
	scorer      *score.Scorer
	recommender *llm.Recommender
	config      *model.Config
}

// NewAuditor creates an auditor from configuration. A non-nil client
// overrides the configured corpus endpoint, which keeps tests hermetic.
func NewAuditor(cfg *model.Config, client corpus.SearchClient) (*Auditor, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	if client == nil {
		httpClient, err := corpus.NewHTTPClient(cfg.Corpus)
		if err != nil {
			return nil, fmt.Errorf("corpus client: %w", err)
		}
		client = httpClient
		if cfg.Cache.Enabled {
			client = corpus.NewCachingClient(client, cfg.Cache.Dir, cfg.Cache.TTL)
		}
	}

	// Recommendation phrasing is best-effort: a provider that fails to
	// initialize degrades to the deterministic fallbacks
	llmConfig := llm.ConfigFromModel(cfg.LLM)
	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		provider = nil
	}

	return &Auditor{
		extractor:   extract.NewReferenceExtractor(),
		verifier:    verify.NewVerifier(client, cfg.Corpus.MaxResults),
		scorer:      score.NewScorer(),
		recommender: llm.NewRecommender(provider, llmConfig),
		config:      cfg,
	}, nil
}

// AuditRequest is the input for one audit run
type AuditRequest struct {
	// Title of the document; defaults to "Document sans titre"
	Title string

	// Content is the plain text to audit
	Content string

	// DocumentDate overrides the date parsed from the content
	DocumentDate *time.Time

	// IngestError marks content that could not be extracted upstream; the
	// audit degrades to a zero-score report instead of failing
	IngestError error
}

// Audit runs the full pipeline and always returns a report
func (a *Auditor) Audit(ctx context.Context, req AuditRequest) *model.AuditReport {
	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	if req.IngestError != nil {
		report := a.scorer.BuildReport(title, req.DocumentDate, 0, nil)
		report.ConformityScore = 0
		report.Recommendations = []string{
			fmt.Sprintf("Impossible d'extraire le contenu du document : %v", req.IngestError),
			"Vérifier le format du fichier et relancer l'audit.",
		}
		return report
	}

	if strings.TrimSpace(req.Content) == "" {
		report := a.scorer.BuildReport(title, req.DocumentDate, 0, nil)
		report.Recommendations = []string{"Aucun contenu fourni pour l'audit."}
		return report
	}

	documentDate := req.DocumentDate
	if documentDate == nil {
		documentDate = extract.DocumentDate(req.Content)
	}

	references := a.extractor.Extract(req.Content)

	// Verify sequentially so issues keep discovery order; concurrency
	// lives at the batch level, across documents
	var issues []model.AuditIssue
	for _, ref := range references {
		if issue := a.verifier.Verify(ctx, ref, documentDate); issue != nil {
			issues = append(issues, *issue)
		}
	}

	report := a.scorer.BuildReport(title, documentDate, len(references), issues)

	recs, generation := a.recommender.Recommend(ctx, title, documentDate, report.TotalReferences, report.ValidReferences, issues)
	report.Recommendations = recs
	report.Generation = generation

	return report
}

// AuditFile ingests a document from disk and audits it. Ingestion failures
// become zero-score reports, so a batch never aborts on one bad file.
func (a *Auditor) AuditFile(ctx context.Context, path string) (*model.AuditReport, error) {
	doc, err := ingest.ReadFile(path)
	if err != nil {
		return a.Audit(ctx, AuditRequest{
			Title:       ingest.TitleFromPath(path),
			IngestError: err,
		}), nil
	}

	return a.Audit(ctx, AuditRequest{
		Title:   doc.Title,
		Content: doc.Content,
	}), nil
}
