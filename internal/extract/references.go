package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/clerval/juriscan/internal/model"
)

// contextWindow is the number of bytes of surrounding text kept on each side
// of a match for display purposes.
const contextWindow = 50

// codeNames matches the statutory codes the extractor knows about
const codeNames = `[Cc]ode\s+(?:civil|pénal|du\s+travail|de\s+commerce|de\s+procédure\s+civile)`

// pattern associates one citation idiom with its recognizer.
// Patterns are evaluated in declaration order: when two patterns match at the
// same start offset, the earlier (more specific) one wins.
type pattern struct {
	kind model.RefKind
	re   *regexp.Regexp
}

// ReferenceExtractor recognizes French statutory citations in document text
type ReferenceExtractor struct {
	patterns []pattern
}

// NewReferenceExtractor creates an extractor with the fixed pattern priority
func NewReferenceExtractor() *ReferenceExtractor {
	return &ReferenceExtractor{
		patterns: []pattern{
			// "article 1101 du Code civil"
			{model.RefKindStandard, regexp.MustCompile(`(?i)article\s+(\d+(?:-\d+)?)\s+(?:du\s+)?(` + codeNames + `)`)},
			// "art. 1101 du Code civil"
			{model.RefKindAbbreviated, regexp.MustCompile(`(?i)art\.\s+(\d+(?:-\d+)?)\s+(?:du\s+)?(` + codeNames + `)`)},
			// "article premier du Code civil" / "article 1er ..."
			{model.RefKindOrdinal, regexp.MustCompile(`(?i)article\s+(premier|1er|1ère|première)\s+(?:du\s+)?(` + codeNames + `)`)},
			// "L. 110-1" / "L110-1" (legistic notation, Code de commerce by
			// default). The leading \b keeps a trailing "l" of a longer word,
			// as in "vol. 110-1", from being read as a citation.
			{model.RefKindLegistic, regexp.MustCompile(`(?i)\bL\.?\s*(\d+(?:-\d+)+)`)},
			// "article 1101, alinéa 2" / "article 1101, al. 2"
			{model.RefKindAlinea, regexp.MustCompile(`(?i)article\s+(\d+(?:-\d+)?),?\s+(?:alinéa|al\.)\s+(\d+)`)},
			// "articles 1101 à 1105 du Code civil"
			{model.RefKindRange, regexp.MustCompile(`(?i)articles?\s+(\d+)\s+(?:à|au|et)\s+(\d+)\s+(?:du\s+)?(` + codeNames + `)`)},
			// "article 1101" with no named code, lowest priority
			{model.RefKindBare, regexp.MustCompile(`(?i)articles?\s+(\d+(?:-\d+)?)`)},
		},
	}
}

// Extract scans the text with every recognizer and returns the accepted
// references sorted by position of first appearance. Unmatched text simply
// yields no references; Extract never fails.
//
// The patterns are not mutually exclusive: the same citation can match both
// the bare form and a more specific one. A match is accepted only if no
// higher-priority pattern already claimed the same start offset, so each
// citation is counted exactly once.
func (e *ReferenceExtractor) Extract(text string) []model.Reference {
	seen := make(map[int]bool)
	var refs []model.Reference

	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			ref := e.buildReference(p.kind, text, m)
			if seen[ref.Position] {
				continue
			}
			seen[ref.Position] = true
			refs = append(refs, ref)
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Position < refs[j].Position
	})

	return refs
}

// buildReference maps a raw submatch to a Reference for the given kind
func (e *ReferenceExtractor) buildReference(kind model.RefKind, text string, m []int) model.Reference {
	start, end := m[0], m[1]

	ref := model.Reference{
		Kind:       kind,
		SourceText: text[start:end],
		Position:   start,
		Context:    surroundingContext(text, start, end),
	}

	group := func(n int) string {
		lo, hi := m[2*n], m[2*n+1]
		if lo < 0 {
			return ""
		}
		return text[lo:hi]
	}

	switch kind {
	case model.RefKindStandard, model.RefKindAbbreviated:
		ref.ArticleNumber = group(1)
		ref.CodeName = strings.ToLower(group(2))
	case model.RefKindOrdinal:
		// "premier"/"1er" forms all normalize to article 1
		ref.ArticleNumber = "1"
		ref.CodeName = strings.ToLower(group(2))
	case model.RefKindLegistic:
		ref.ArticleNumber = group(1)
		// Legistic L-notation without an explicit code defaults to the
		// commercial code
		ref.CodeName = "code de commerce"
	case model.RefKindAlinea:
		ref.ArticleNumber = group(1)
		ref.AlineaNumber = group(2)
		// Code left empty: inferred from surrounding context downstream
	case model.RefKindRange:
		// Only the first article of the range is verified
		ref.ArticleNumber = group(1)
		ref.RangeEnd = group(2)
		ref.CodeName = strings.ToLower(group(3))
	case model.RefKindBare:
		ref.ArticleNumber = group(1)
	}

	return ref
}

// surroundingContext returns a window of text around [start,end), clamped to
// the text bounds and snapped to rune boundaries.
func surroundingContext(text string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}

	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}

	return strings.TrimSpace(text[lo:hi])
}
