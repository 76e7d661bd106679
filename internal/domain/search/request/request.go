package request

import (
	"fmt"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/filter"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/sortby"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query or suggest length.
	MaxQueryLength = 1024
	DefaultSize    = 10
	MaxSize        = 100
	// MaxWindow caps page*size so deep pagination stays cheap for the index.
	MaxWindow = 10000
)

// Request is a validated search query.
type Request struct {
	query   string
	suggest string
	sort    sortby.Option
	page    int
	size    int
	filters filter.Expression
}

// New validates and normalizes search parameters.
// Defaults: page=1, size=DefaultSize, sort=newest without query, bestmatch otherwise.
// maxSize <= 0 falls back to MaxSize.
func New(query, suggest string, sort sortby.Option, page, size, maxSize int, filters filter.Expression) (Request, error) {
	if len(query) > MaxQueryLength || len(suggest) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrValidation)
	}
	if sort == "" {
		sort = sortby.Default(query != "" || suggest != "")
	}
	if !sort.IsValid() {
		return Request{}, fmt.Errorf("invalid sort option %q: %w", sort, domain.ErrValidation)
	}
	if page <= 0 {
		page = 1
	}
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	if page > MaxWindow/size {
		return Request{}, fmt.Errorf("page %d is beyond the result window (%d): %w", page, MaxWindow, domain.ErrValidation)
	}
	return Request{
		query:   query,
		suggest: suggest,
		sort:    sort,
		page:    page,
		size:    size,
		filters: filters,
	}, nil
}

// Query returns the full-text query.
func (r *Request) Query() string { return r.query }

// Suggest returns the autocomplete input.
func (r *Request) Suggest() string { return r.suggest }

// Sort returns the result ordering.
func (r *Request) Sort() sortby.Option { return r.sort }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// Offset returns the number of hits to skip.
func (r *Request) Offset() int { return (r.page - 1) * r.size }

// Filters returns the pre-filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }
