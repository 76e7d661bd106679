package funder

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/vocabdex/internal/domain"
)

var (
	idRegex      = regexp.MustCompile(`^[a-z0-9]{1,64}$`)
	countryRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Funder is a funding organization referenced by awards.
type Funder struct {
	id      string
	name    string
	country string
	created time.Time
	updated time.Time
}

// New validates and creates a Funder.
// ID: lowercase alphanumeric (ROR-style), name required, country optional ISO 3166 alpha-2.
func New(id, name, country string, now time.Time) (Funder, error) {
	if !idRegex.MatchString(id) {
		return Funder{}, fmt.Errorf("funder id %q must be lowercase alphanumeric: %w", id, domain.ErrValidation)
	}
	if name == "" {
		return Funder{}, fmt.Errorf("funder name is required: %w", domain.ErrValidation)
	}
	if country != "" && !countryRegex.MatchString(country) {
		return Funder{}, fmt.Errorf("country %q is not an ISO 3166 code: %w", country, domain.ErrValidation)
	}
	now = now.UTC()
	return Funder{id: id, name: name, country: country, created: now, updated: now}, nil
}

// Reconstruct creates a Funder without validation (storage hydration).
func Reconstruct(id, name, country string, created, updated time.Time) Funder {
	return Funder{id: id, name: name, country: country, created: created, updated: updated}
}

// ID returns the funder identifier.
func (f Funder) ID() string { return f.id }

// Name returns the funder display name.
func (f Funder) Name() string { return f.name }

// Country returns the ISO country code.
func (f Funder) Country() string { return f.country }

// Created returns the creation time.
func (f Funder) Created() time.Time { return f.created }

// Updated returns the last modification time.
func (f Funder) Updated() time.Time { return f.updated }
