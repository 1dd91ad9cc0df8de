package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clerval/juriscan/internal/model"
)

// Recommender turns a finalized issue list into French remediation
// recommendations. Generation is best-effort: any provider failure degrades
// to deterministic fallback lines, never to an error.
type Recommender struct {
	provider Provider
	config   Config
}

// NewRecommender creates a recommender. A nil provider disables generation
// and the deterministic fallbacks are used.
func NewRecommender(provider Provider, config Config) *Recommender {
	return &Recommender{
		provider: provider,
		config:   config,
	}
}

// Deterministic recommendations used when generation is disabled or fails.
func conformantRecommendations() []string {
	return []string{"Le document est conforme. Aucune mise à jour nécessaire."}
}

func fallbackRecommendations() []string {
	return []string{
		"Des problèmes de conformité ont été détectés.",
		"Consulter la liste des problèmes pour identifier les mises à jour nécessaires.",
	}
}

// Recommend produces recommendations for an audit outcome. The returned
// GenerationInfo records whether a provider ran and why a fallback was used.
func (r *Recommender) Recommend(ctx context.Context, title string, documentDate *time.Time, totalRefs, validRefs int, issues []model.AuditIssue) ([]string, *model.GenerationInfo) {
	info := &model.GenerationInfo{}

	if len(issues) == 0 {
		return conformantRecommendations(), info
	}

	if r.provider == nil {
		info.Fallback = true
		return fallbackRecommendations(), info
	}

	info.Enabled = true
	info.Provider = r.provider.Name()

	if !r.provider.IsAvailable(ctx) {
		info.Fallback = true
		info.Warnings = append(info.Warnings, fmt.Sprintf("provider %s unavailable, using fallback recommendations", r.provider.Name()))
		return fallbackRecommendations(), info
	}

	prompt := BuildPrompt(title, documentDate, totalRefs, validRefs, issues)
	resp, err := r.provider.Generate(ctx, GenerateRequest{
		Prompt:    prompt,
		Model:     r.config.Model,
		MaxTokens: r.config.MaxTokens,
	})
	if err != nil {
		info.Fallback = true
		info.Warnings = append(info.Warnings, fmt.Sprintf("generation failed: %v", err))
		return fallbackRecommendations(), info
	}

	info.Model = resp.Model

	recs := parseRecommendations(resp.Text)
	if len(recs) == 0 {
		info.Fallback = true
		info.Warnings = append(info.Warnings, "provider returned no usable recommendations")
		return fallbackRecommendations(), info
	}

	return recs, info
}

// parseRecommendations splits a generated reply into individual
// recommendations. Bullet lines are preferred; a reply without bullets is
// kept whole as a single recommendation.
func parseRecommendations(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var recs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		stripped := stripBullet(line)
		if stripped == "" || stripped == line {
			continue
		}
		recs = append(recs, stripped)
	}

	if len(recs) == 0 {
		return []string{text}
	}
	return recs
}

// stripBullet removes a leading list marker. Returns the line unchanged when
// no marker is present.
func stripBullet(line string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	// Numbered lists: "1. ...", "2) ..."
	for i, r := range line {
		if r >= '0' && r <= '9' {
			continue
		}
		if i > 0 && (r == '.' || r == ')') {
			return strings.TrimSpace(line[i+1:])
		}
		break
	}
	return line
}
