package result

import "github.com/kailas-cloud/vocabdex/internal/domain/award"

// Hit is a single search hit.
type Hit struct {
	award award.Award
	score float64
}

// NewHit creates a search hit.
func NewHit(a award.Award, score float64) Hit {
	return Hit{award: a, score: score}
}

// Award returns the matched record.
func (h *Hit) Award() award.Award { return h.award }

// Score returns the relevance score (0 for non-relevance orderings).
func (h *Hit) Score() float64 { return h.score }

// Page is one page of search hits plus the total match count.
type Page struct {
	Hits  []Hit
	Total int
}

// HasNext reports whether hits remain after a page at the given offset.
func (p *Page) HasNext(offset int) bool {
	return offset+len(p.Hits) < p.Total
}
