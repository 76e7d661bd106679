package awardindex

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
)

// maxGram caps edge n-gram length; longer suggest tokens are truncated.
const maxGram = 24

// document is the JSON shape stored per award in the index.
type document struct {
	PID         string   `json:"pid"`
	Number      string   `json:"number"`
	Title       string   `json:"title"`
	Identifiers string   `json:"identifiers"`
	Suggest     []string `json:"suggest"`
	Funder      string   `json:"funder,omitempty"`
	Created     int64    `json:"created"`
	Record      record   `json:"record"`
}

// record is the serialized award carried by a hit.
type record struct {
	ID          int64                 `json:"id"`
	PID         string                `json:"pid"`
	Number      string                `json:"number,omitempty"`
	Title       map[string]string     `json:"title,omitempty"`
	Identifiers []domaward.Identifier `json:"identifiers,omitempty"`
	Funder      *domaward.FunderRef   `json:"funder,omitempty"`
	Created     time.Time             `json:"created"`
	Updated     time.Time             `json:"updated"`
	Revision    int                   `json:"revision"`
}

func buildDocument(a domaward.Award) document {
	ids := make([]string, 0, len(a.Identifiers()))
	for _, id := range a.Identifiers() {
		ids = append(ids, id.Identifier)
	}
	title := strings.Join(a.TitleTexts(), " ")
	identifiers := strings.Join(ids, " ")

	doc := document{
		PID:         a.PID(),
		Number:      a.Number(),
		Title:       title,
		Identifiers: identifiers,
		Suggest:     edgeGrams(tokenize(a.Number() + " " + title + " " + identifiers)),
		Created:     a.Created().UnixMicro(),
		Record: record{
			ID:          a.ID(),
			PID:         a.PID(),
			Number:      a.Number(),
			Title:       a.Title(),
			Identifiers: a.Identifiers(),
			Funder:      a.Funder(),
			Created:     a.Created(),
			Updated:     a.Updated(),
			Revision:    a.Revision(),
		},
	}
	if f := a.Funder(); f != nil {
		doc.Funder = f.ID
	}
	return doc
}

func (d *document) award() domaward.Award {
	r := d.Record
	return domaward.Reconstruct(domaward.Snapshot{
		ID:          r.ID,
		PID:         r.PID,
		Number:      r.Number,
		Title:       r.Title,
		Identifiers: r.Identifiers,
		Funder:      r.Funder,
		Created:     r.Created.UTC(),
		Updated:     r.Updated.UTC(),
		Revision:    r.Revision,
	})
}

func decodeDocument(raw string) (document, error) {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return document{}, fmt.Errorf("decode index document: %w", err)
	}
	return doc, nil
}

// tokenize splits s into lowercase runs of letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// edgeGrams returns the distinct prefixes (length 1..maxGram) of every token.
func edgeGrams(tokens []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(tokens)*4)
	for _, tok := range tokens {
		runes := []rune(tok)
		for n := 1; n <= len(runes) && n <= maxGram; n++ {
			g := string(runes[:n])
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// suggestTokens normalizes autocomplete input into prefix tokens.
func suggestTokens(input string) []string {
	toks := tokenize(input)
	for i, t := range toks {
		if r := []rune(t); len(r) > maxGram {
			toks[i] = string(r[:maxGram])
		}
	}
	return toks
}
