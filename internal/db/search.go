package db

import "github.com/kailas-cloud/vocabdex/internal/domain/search/filter"

// Query is the input for an FT.SEARCH call.
// Text is a raw query fragment already escaped by the caller; Filters are
// translated into TAG clauses and AND-ed with it.
type Query struct {
	IndexName    string
	Text         string
	Filters      filter.Expression
	SortBy       string
	SortDesc     bool
	WithScores   bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
