// Package llm phrases remediation recommendations from a finalized issue
// list. It never influences extraction, verification or scoring.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/clerval/juriscan/internal/model"
)

// Provider defines the interface for text generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces free text for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for text generation
type GenerateRequest struct {
	// Prompt is the full prompt (use BuildPrompt for the default)
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// maxPromptIssues bounds how many issues are summarized in the prompt
const maxPromptIssues = 10

// systemPrompt frames the assistant for every provider
const systemPrompt = "Tu es un expert juridique qui rédige des recommandations de mise à jour pour des documents de droit français."

// BuildPrompt constructs the default recommendation prompt from the audit
// outcome. Only the first ten issues are summarized to keep the prompt small.
func BuildPrompt(title string, documentDate *time.Time, totalRefs, validRefs int, issues []model.AuditIssue) string {
	dateStr := "Non spécifiée"
	if documentDate != nil {
		dateStr = documentDate.Format("02/01/2006")
	}

	summary := ""
	for i, issue := range issues {
		if i >= maxPromptIssues {
			summary += fmt.Sprintf("... et %d autre(s) problème(s)\n", len(issues)-maxPromptIssues)
			break
		}
		summary += fmt.Sprintf("- %s: %s (%s)\n", issue.Severity, issue.Description, issue.ReferenceText)
	}

	return fmt.Sprintf(`En tant qu'expert juridique, analyse ce rapport d'audit et propose des recommandations concrètes.

Document audité : %s
Date du document : %s

Statistiques :
- Références totales : %d
- Références valides : %d
- Problèmes détectés : %d

Problèmes identifiés :
%s
Fournis 3 à 5 recommandations concrètes et actionnables pour mettre à jour ce document.
Format : liste à puces, une recommandation par ligne.`, title, dateStr, totalRefs, validRefs, len(issues), summary)
}
