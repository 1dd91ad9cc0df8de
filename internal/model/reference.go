package model

// RefKind identifies which citation idiom produced a reference
type RefKind string

const (
	RefKindStandard    RefKind = "standard"    // "article 1101 du Code civil"
	RefKindAbbreviated RefKind = "abbreviated" // "art. 1101 du Code civil"
	RefKindOrdinal     RefKind = "ordinal"     // "article premier" / "article 1er"
	RefKindLegistic    RefKind = "legistic"    // "L. 110-1" style identifiers
	RefKindAlinea      RefKind = "alinea"      // "article 1101, alinéa 2"
	RefKindRange       RefKind = "range"       // "articles 1101 à 1105"
	RefKindBare        RefKind = "bare"        // "article 1101" with no named code
)

// Reference represents one recognized statutory citation in the document.
// Kind is the discriminant: AlineaNumber is only set for alinea references,
// RangeEnd only for range references, CodeName is empty for bare and alinea
// citations (the code is inferred downstream, not by the extractor).
type Reference struct {
	Kind          RefKind `json:"kind"`
	ArticleNumber string  `json:"article_number"`
	CodeName      string  `json:"code_name,omitempty"`
	AlineaNumber  string  `json:"alinea_number,omitempty"`
	RangeEnd      string  `json:"range_end,omitempty"`
	SourceText    string  `json:"source_text"`
	Position      int     `json:"position"`
	Context       string  `json:"context,omitempty"`
}
