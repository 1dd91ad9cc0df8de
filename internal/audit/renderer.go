package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/clerval/juriscan/internal/model"
)

// Renderer writes audit reports as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.AuditReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// severityLabels maps severities to their French display form
var severityLabels = map[model.IssueSeverity]string{
	model.SeverityCritical: "Critique",
	model.SeverityHigh:     "Élevée",
	model.SeverityMedium:   "Moyenne",
	model.SeverityLow:      "Faible",
}

// severityOrder lists severities from most to least severe for display
var severityOrder = []model.IssueSeverity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
}

// RenderMarkdown writes the report as a French Markdown document
func (r *Renderer) RenderMarkdown(report *model.AuditReport, path string) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Rapport d'audit de conformité : %s\n\n", report.DocumentTitle))
	b.WriteString(fmt.Sprintf("**Date de l'audit** : %s\n\n", report.AuditTimestamp.Format("02/01/2006 15:04")))
	if report.DocumentDate != nil {
		b.WriteString(fmt.Sprintf("**Date du document** : %s\n\n", report.DocumentDate.Format("02/01/2006")))
	}

	b.WriteString("## Synthèse\n\n")
	b.WriteString(fmt.Sprintf("- Score de conformité : **%.1f/100**\n", report.ConformityScore))
	b.WriteString(fmt.Sprintf("- Références analysées : %d\n", report.TotalReferences))
	b.WriteString(fmt.Sprintf("- Références valides : %d\n", report.ValidReferences))
	b.WriteString(fmt.Sprintf("- Problèmes détectés : %d\n\n", len(report.Issues)))

	if len(report.Issues) > 0 {
		b.WriteString("## Problèmes détectés\n\n")
		b.WriteString("| Gravité | Référence | Description | Statut |\n")
		b.WriteString("|---------|-----------|-------------|--------|\n")
		for _, issue := range sortedIssues(report.Issues) {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				severityLabels[issue.Severity],
				escapeCell(issue.ReferenceText),
				escapeCell(issue.Description),
				issue.CurrentStatus))
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommandations\n\n")
		for _, rec := range report.Recommendations {
			b.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		b.WriteString("\n")
	}

	if report.Generation != nil && report.Generation.Enabled {
		b.WriteString(fmt.Sprintf("*Recommandations générées par %s", report.Generation.Provider))
		if report.Generation.Model != "" {
			b.WriteString(fmt.Sprintf(" (%s)", report.Generation.Model))
		}
		b.WriteString("*\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Généré par juriscan. Cet audit signale les références à vérifier ; il ne constitue pas un avis juridique.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a human summary to stdout
func (r *Renderer) RenderSummary(report *model.AuditReport) {
	fmt.Println()
	fmt.Printf("📋 %s\n", report.DocumentTitle)
	fmt.Printf("   Score de conformité : %.1f/100\n", report.ConformityScore)
	fmt.Printf("   Références : %d analysées, %d valides\n", report.TotalReferences, report.ValidReferences)

	if len(report.Issues) > 0 {
		counts := report.CountBySeverity()
		var parts []string
		for _, sev := range severityOrder {
			if counts[sev] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[sev], strings.ToLower(severityLabels[sev])))
			}
		}
		fmt.Printf("   ⚠️  Problèmes : %s\n", strings.Join(parts, ", "))
	} else {
		fmt.Printf("   ✓ Aucun problème détecté\n")
	}

	for _, rec := range report.Recommendations {
		fmt.Printf("   → %s\n", rec)
	}
	fmt.Println()
}

// sortedIssues orders issues by severity for display, keeping discovery
// order within a severity. The report itself stays in discovery order.
func sortedIssues(issues []model.AuditIssue) []model.AuditIssue {
	rank := make(map[model.IssueSeverity]int, len(severityOrder))
	for i, sev := range severityOrder {
		rank[sev] = i
	}

	sorted := make([]model.AuditIssue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank[sorted[i].Severity] < rank[sorted[j].Severity]
	})
	return sorted
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
