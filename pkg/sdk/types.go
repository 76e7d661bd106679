package vocabdex

import "time"

// Identifier schemes accepted for awards.
const (
	SchemeURL = "url"
	SchemeDOI = "doi"
)

// Sort options for award search.
const (
	SortBestMatch = "bestmatch"
	SortNewest    = "newest"
	SortOldest    = "oldest"
)

// Identifier is an external identifier of an award.
type Identifier struct {
	Value  string
	Scheme string
}

// FunderRef is the funder an award references.
type FunderRef struct {
	ID   string
	Name string
}

// Award is a vocabulary record. A deleted award keeps only its pid,
// timestamps and revision.
type Award struct {
	PID         string
	Number      string
	Title       map[string]string
	Identifiers []Identifier
	Funder      *FunderRef
	Created     time.Time
	Updated     time.Time
	Revision    int
	Deleted     bool
}

// AwardInput is the writable part of an award.
type AwardInput struct {
	PID         string
	Number      string
	Title       map[string]string
	Identifiers []Identifier
	// Funder is the id of a registered funder. Empty for none.
	Funder string
}

// Funder is a funding organization.
type Funder struct {
	ID      string
	Name    string
	Country string
	Created time.Time
	Updated time.Time
}

// SearchOptions are the inputs of an award search. Zero values select
// the defaults: page 1, size 10, newest first without Query or Suggest.
type SearchOptions struct {
	Query   string
	Suggest string
	Sort    string
	Page    int
	Size    int
	Funders []string
}

// Hit is a single search hit.
type Hit struct {
	Award Award
	Score float64
}

// SearchResult is a page of hits.
type SearchResult struct {
	Hits   []Hit
	Total  int
	SortBy string
	Page   int
	Size   int
}

// HasNext reports whether more hits follow this page.
func (r *SearchResult) HasNext() bool {
	return (r.Page-1)*r.Size+len(r.Hits) < r.Total
}
