package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clerval/juriscan/internal/audit"
	"github.com/clerval/juriscan/internal/ingest"
	"github.com/clerval/juriscan/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON      string
	outMD        string
	docTitle     string
	docDate      string
	corpusURL    string
	auditTimeout time.Duration
	noCache      bool
	noFooter     bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <fichier>",
	Short: "Audit a legal document and generate a conformity report",
	Long: `Audit analyzes a single document to:
- Extract statutory citations (articles of French codes)
- Verify each citation against the legal corpus service
- Detect repealed articles, amendments and temporal anachronisms
- Compute a conformity score and actionable recommendations

Example:
  juriscan audit contrat.txt
  juriscan audit contrat.txt --json rapport.json --md rapport.md
  juriscan audit contrat.txt --date 15/01/2010
  juriscan audit contrat.txt --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// Output flags
	auditCmd.Flags().StringVar(&outJSON, "json", "rapport.json", "output JSON path")
	auditCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Document flags
	auditCmd.Flags().StringVar(&docTitle, "title", "", "document title (default: file name)")
	auditCmd.Flags().StringVar(&docDate, "date", "", "document date (JJ/MM/AAAA or AAAA-MM-JJ, default: parsed from content)")

	// Corpus flags
	auditCmd.Flags().StringVar(&corpusURL, "corpus-url", "", "legal corpus service base URL (or JURISCAN_CORPUS_URL)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 2*time.Minute, "overall audit timeout")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable corpus lookup cache")
	auditCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	auditCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM recommendation generation")
	auditCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	auditCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

// buildConfig assembles configuration from flags, environment and defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Corpus endpoint: flag > JURISCAN_CORPUS_URL > config file
	cfg.Corpus.BaseURL = corpusURL
	if cfg.Corpus.BaseURL == "" {
		cfg.Corpus.BaseURL = viper.GetString("corpus_url")
	}
	if cfg.Corpus.BaseURL == "" {
		cfg.Corpus.BaseURL = viper.GetString("corpus.base_url")
	}
	if cfg.Corpus.BaseURL == "" {
		return nil, fmt.Errorf("corpus service URL not set (use --corpus-url or JURISCAN_CORPUS_URL)")
	}
	cfg.Corpus.APIKey = os.Getenv("JURISCAN_CORPUS_API_KEY")

	cfg.Cache.Enabled = !noCache
	if cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".juriscan", "cache")
		}
	}

	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Configure LLM if enabled
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// parseDocDate accepts the French and ISO date layouts
func parseDocDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q (expected JJ/MM/AAAA or AAAA-MM-JJ)", s)
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Auditing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", auditTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	explicitDate, err := parseDocDate(docDate)
	if err != nil {
		return err
	}

	auditor, err := audit.NewAuditor(cfg, nil)
	if err != nil {
		return fmt.Errorf("initialize auditor: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Reading document...\n")
	}

	req := audit.AuditRequest{
		Title:        docTitle,
		DocumentDate: explicitDate,
	}
	doc, err := ingest.ReadFile(path)
	if err != nil {
		req.IngestError = err
		if req.Title == "" {
			req.Title = ingest.TitleFromPath(path)
		}
	} else {
		req.Content = doc.Content
		if req.Title == "" {
			req.Title = doc.Title
		}
	}

	if verbose && err == nil {
		fmt.Fprintf(os.Stderr, "✓ Read %d bytes (%s)\n", len(doc.Content), doc.Format)
		fmt.Fprintf(os.Stderr, "⚙️  Verifying references...\n")
	}

	report := auditor.Audit(ctx, req)

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d references\n", report.TotalReferences)
		fmt.Fprintf(os.Stderr, "✓ Conformity score: %.1f/100\n", report.ConformityScore)
		if report.Generation != nil && report.Generation.Enabled && !report.Generation.Fallback {
			fmt.Fprintf(os.Stderr, "✓ Generated recommendations using %s/%s\n", report.Generation.Provider, report.Generation.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	renderer := audit.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)

	return nil
}
