package awardindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/vocabdex/internal/db"
	"github.com/kailas-cloud/vocabdex/internal/db/redis"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/sortby"
)

// DefaultKeyPrefix namespaces index keys when no prefix is configured.
const DefaultKeyPrefix = "vocabdex:"

const (
	refreshInterval = 20 * time.Millisecond
	// tieBatch is the minimum number of extra hits fetched per round while a
	// score tie straddles the page edge.
	tieBatch = 50
	// pidTagSeparator cannot occur in a pid, so every pid indexes as one tag.
	pidTagSeparator = "#"
)

// store is the consumer interface for the index mirror (ISP).
type store interface {
	Ping(ctx context.Context) error
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	Del(ctx context.Context, keys ...string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// RedisIndex mirrors awards into a Redis Search JSON index.
type RedisIndex struct {
	store     store
	keyPrefix string
}

// NewRedis creates a Redis-backed award index.
func NewRedis(s store, keyPrefix string) *RedisIndex {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisIndex{store: s, keyPrefix: keyPrefix}
}

func (r *RedisIndex) docPrefix() string { return r.keyPrefix + "award:" }

func (r *RedisIndex) indexName() string { return r.keyPrefix + "awards:idx" }

func (r *RedisIndex) docKey(pid string) string { return r.docPrefix() + pid }

func (r *RedisIndex) definition() (*db.IndexDefinition, error) {
	return db.NewIndex(r.indexName()).
		OnJSON().
		Prefix(r.docPrefix()).
		TagWithOpts("$.pid", pidTagSeparator, false).As("pid").
		TextWeighted("$.number", 2).As("number").NoStem().
		Text("$.title").As("title").NoStem().
		Text("$.identifiers").As("identifiers").NoStem().
		Tag("$.suggest[*]").As("suggest").
		Tag("$.funder").As("funder").
		Numeric("$.created").As("created").Sortable().
		Build()
}

// Ensure creates the FT index if it does not exist yet.
func (r *RedisIndex) Ensure(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}
	def, err := r.definition()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Reset drops the index with all documents and recreates it empty.
func (r *RedisIndex) Reset(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName(), true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}
	return r.Ensure(ctx)
}

// Put indexes a live award, replacing any previous version.
func (r *RedisIndex) Put(ctx context.Context, a domaward.Award) error {
	data, err := json.Marshal(buildDocument(a))
	if err != nil {
		return fmt.Errorf("marshal index document: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.docKey(a.PID()), "$", data); err != nil {
		return fmt.Errorf("index award %s: %w", a.PID(), err)
	}
	return nil
}

// PutMany indexes a batch of awards in one round-trip.
func (r *RedisIndex) PutMany(ctx context.Context, awards []domaward.Award) error {
	items := make([]db.JSONSetItem, 0, len(awards))
	for _, a := range awards {
		data, err := json.Marshal(buildDocument(a))
		if err != nil {
			return fmt.Errorf("marshal index document %s: %w", a.PID(), err)
		}
		items = append(items, db.JSONSetItem{Key: r.docKey(a.PID()), Path: "$", Data: data})
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}
	return nil
}

// Remove drops an award from the index. Missing documents are ignored.
func (r *RedisIndex) Remove(ctx context.Context, pid string) error {
	if err := r.store.Del(ctx, r.docKey(pid)); err != nil {
		return fmt.Errorf("unindex award %s: %w", pid, err)
	}
	return nil
}

// Refresh blocks until background indexing has caught up.
func (r *RedisIndex) Refresh(ctx context.Context) error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		info, err := r.store.IndexInfo(ctx, r.indexName())
		if err != nil {
			return fmt.Errorf("index info: %w", err)
		}
		if info.Ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("refresh index: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ping checks index connectivity.
func (r *RedisIndex) Ping(ctx context.Context) error {
	return r.store.Ping(ctx) //nolint:wrapcheck // health probe passthrough
}

// Search runs a keyword/suggest query with the requested ordering.
func (r *RedisIndex) Search(ctx context.Context, req request.Request) (result.Page, error) {
	q := &db.Query{
		IndexName: r.indexName(),
		Text:      buildQueryText(req.Query(), req.Suggest()),
		Filters:   req.Filters(),
		Offset:    req.Offset(),
		Limit:     req.Size(),
	}

	var (
		hits  []scoredDoc
		total int
		err   error
	)
	switch {
	case req.Sort() == sortby.BestMatch && strings.TrimSpace(req.Query()) != "":
		hits, total, err = r.relevanceWindow(ctx, q, req.Offset()+req.Size())
		if err != nil {
			return result.Page{}, err
		}
		sortByRelevance(hits)
		hits = window(hits, req.Offset(), req.Size())
	default:
		q.SortBy = "created"
		q.SortDesc = req.Sort() != sortby.Oldest
		sr, err := r.store.Search(ctx, q)
		if err != nil {
			return result.Page{}, fmt.Errorf("search awards: %w", err)
		}
		if hits, err = decodeHits(sr.Entries); err != nil {
			return result.Page{}, err
		}
		total = sr.Total
	}

	page := result.Page{Total: total, Hits: make([]result.Hit, 0, len(hits))}
	for _, h := range hits {
		page.Hits = append(page.Hits, result.NewHit(h.doc.award(), h.score))
	}
	return page, nil
}

// relevanceWindow fetches hits in engine score order covering the first want
// positions. The engine does not order equal scores by creation time, so the
// window grows until the hit at its edge is followed by a strictly lower score
// and the whole tied group can be re-sorted locally.
func (r *RedisIndex) relevanceWindow(ctx context.Context, q *db.Query, want int) ([]scoredDoc, int, error) {
	q.WithScores = true
	q.Offset = 0
	q.Limit = want

	var hits []scoredDoc
	for {
		sr, err := r.store.Search(ctx, q)
		if err != nil {
			return nil, 0, fmt.Errorf("search awards: %w", err)
		}
		batch, err := decodeHits(sr.Entries)
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, batch...)

		fetched := q.Offset + len(sr.Entries)
		switch {
		case len(sr.Entries) < q.Limit, fetched >= sr.Total, fetched >= request.MaxWindow:
			return hits, sr.Total, nil
		case hits[len(hits)-1].score < hits[want-1].score:
			return hits, sr.Total, nil
		}
		q.Offset = fetched
		q.Limit = min(max(want, tieBatch), request.MaxWindow-fetched)
	}
}

func decodeHits(entries []db.SearchEntry) ([]scoredDoc, error) {
	hits := make([]scoredDoc, 0, len(entries))
	for _, e := range entries {
		doc, err := decodeDocument(e.Fields["$"])
		if err != nil {
			return nil, fmt.Errorf("hit %s: %w", e.Key, err)
		}
		hits = append(hits, scoredDoc{doc: doc, score: e.Score})
	}
	return hits, nil
}

// buildQueryText renders keyword and suggest input as an FT.SEARCH query.
// Keyword terms are AND-ed over all TEXT fields, or the input matches a pid
// exactly; every suggest token must be a prefix of some indexed token.
func buildQueryText(query, suggest string) string {
	var parts []string
	if query = strings.TrimSpace(query); query != "" {
		pidClause := fmt.Sprintf("@pid:{%s}", redis.EscapeTag(query))
		if terms := tokenize(query); len(terms) > 0 {
			parts = append(parts, fmt.Sprintf("((%s) | %s)", strings.Join(terms, " "), pidClause))
		} else {
			parts = append(parts, pidClause)
		}
	}
	for _, tok := range suggestTokens(suggest) {
		parts = append(parts, fmt.Sprintf("@suggest:{%s}", redis.EscapeTag(tok)))
	}
	return strings.Join(parts, " ")
}

type scoredDoc struct {
	doc   document
	score float64
}

// sortByRelevance orders by score, newest first on ties.
func sortByRelevance(hits []scoredDoc) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].doc.Created > hits[j].doc.Created
	})
}

func window(hits []scoredDoc, offset, size int) []scoredDoc {
	if offset >= len(hits) {
		return nil
	}
	end := min(offset+size, len(hits))
	return hits[offset:end]
}
