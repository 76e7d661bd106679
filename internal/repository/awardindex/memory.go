package awardindex

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/sortby"
)

// numberWeight matches the TEXT weight of the number field in the Redis index.
const numberWeight = 2

// InMemoryIndex evaluates index queries in process. Writes are visible
// immediately, so Refresh is a no-op.
type InMemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]document
}

// NewInMemory creates an empty in-memory index.
func NewInMemory() *InMemoryIndex {
	return &InMemoryIndex{docs: make(map[string]document)}
}

func (m *InMemoryIndex) Ensure(context.Context) error { return nil }

func (m *InMemoryIndex) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]document)
	return nil
}

func (m *InMemoryIndex) Put(_ context.Context, a domaward.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[a.PID()] = buildDocument(a)
	return nil
}

func (m *InMemoryIndex) PutMany(_ context.Context, awards []domaward.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range awards {
		m.docs[a.PID()] = buildDocument(a)
	}
	return nil
}

func (m *InMemoryIndex) Remove(_ context.Context, pid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, pid)
	return nil
}

func (m *InMemoryIndex) Refresh(context.Context) error { return nil }

func (m *InMemoryIndex) Ping(context.Context) error { return nil }

// Len returns the number of indexed documents.
func (m *InMemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *InMemoryIndex) Search(_ context.Context, req request.Request) (result.Page, error) {
	m.mu.RLock()
	pids := make([]string, 0, len(m.docs))
	for pid := range m.docs {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	query := strings.TrimSpace(req.Query())
	terms := tokenize(query)
	prefixes := suggestTokens(req.Suggest())
	filters := req.Filters()

	hits := make([]scoredDoc, 0, len(pids))
	for _, pid := range pids {
		doc := m.docs[pid]
		if !filters.Matches(map[string][]string{"funder": {doc.Funder}, "pid": {doc.PID}}) {
			continue
		}
		score := 0.0
		if query != "" {
			score = textScore(&doc, terms)
			if score == 0 && doc.PID == query {
				score = 1
			}
			if score == 0 {
				continue
			}
		}
		if !hasAllPrefixes(&doc, prefixes) {
			continue
		}
		hits = append(hits, scoredDoc{doc: doc, score: score})
	}
	m.mu.RUnlock()

	switch {
	case req.Sort() == sortby.BestMatch && query != "":
		sortByRelevance(hits)
	case req.Sort() == sortby.Oldest:
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].doc.Created < hits[j].doc.Created })
	default:
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].doc.Created > hits[j].doc.Created })
	}

	page := result.Page{Total: len(hits)}
	for _, h := range window(hits, req.Offset(), req.Size()) {
		page.Hits = append(page.Hits, result.NewHit(h.doc.award(), h.score))
	}
	return page, nil
}

// textScore counts term occurrences; zero unless every term occurs.
func textScore(doc *document, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, t := range tokenize(doc.Number) {
		counts[t] += numberWeight
	}
	for _, t := range tokenize(doc.Title + " " + doc.Identifiers) {
		counts[t]++
	}
	total := 0
	for _, term := range terms {
		n := counts[term]
		if n == 0 {
			return 0
		}
		total += n
	}
	return float64(total)
}

func hasAllPrefixes(doc *document, prefixes []string) bool {
	for _, p := range prefixes {
		if !slices.Contains(doc.Suggest, p) {
			return false
		}
	}
	return true
}
