// Package corpus provides the client for the external legal-corpus lookup
// service. The audit engine only depends on the query/response contract
// defined here, not on the service's indexing or ranking.
package corpus

import "context"

// Document is one ranked candidate returned by a lookup
type Document struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content,omitempty"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the legal-status fields the verifier reads.
// Field names follow the LEGI corpus conventions: etat is the legal status,
// date_debut the effective date of the current version, date_fin the repeal
// date when the article is no longer in force.
type Metadata struct {
	Status     string `json:"etat"`
	DateDebut  string `json:"date_debut,omitempty"`
	DateFin    string `json:"date_fin,omitempty"`
	CodeID     string `json:"code_id,omitempty"`
	ArticleNum string `json:"num,omitempty"`
}

// SearchClient is the lookup contract the verifier depends on.
// Search returns candidates ordered by descending relevance.
type SearchClient interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}
