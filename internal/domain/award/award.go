package award

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"time"

	"github.com/kailas-cloud/vocabdex/internal/domain"
)

// MaxPIDLength is the maximum persistent identifier length.
const MaxPIDLength = 256

var (
	pidRegex  = regexp.MustCompile(`^[^\s/?#]+$`)
	langRegex = regexp.MustCompile(`^[a-z]{2,3}$`)
)

// FunderRef is a dereferenced link to a funder record.
type FunderRef struct {
	ID   string
	Name string
}

// Draft is the client-supplied award data used for create and full update.
type Draft struct {
	PID         string
	Number      string
	Title       map[string]string
	Identifiers []Identifier
	FunderID    string
}

// Validate checks the draft fields. Errors wrap domain.ErrValidation.
func (d *Draft) Validate() error {
	if err := ValidatePID(d.PID); err != nil {
		return err
	}
	if len(d.Number) > MaxPIDLength {
		return fmt.Errorf("number too long (max %d): %w", MaxPIDLength, domain.ErrValidation)
	}
	for lang, text := range d.Title {
		if !langRegex.MatchString(lang) {
			return fmt.Errorf("title language %q is not a language code: %w", lang, domain.ErrValidation)
		}
		if text == "" {
			return fmt.Errorf("title for %q is empty: %w", lang, domain.ErrValidation)
		}
	}
	seen := make(map[Identifier]struct{}, len(d.Identifiers))
	for _, id := range d.Identifiers {
		if err := id.Validate(); err != nil {
			return fmt.Errorf("identifiers: %w: %w", err, domain.ErrValidation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate identifier %q: %w", id.Identifier, domain.ErrValidation)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidatePID checks a persistent identifier.
func ValidatePID(pid string) error {
	if pid == "" {
		return fmt.Errorf("pid is required: %w", domain.ErrValidation)
	}
	if len(pid) > MaxPIDLength {
		return fmt.Errorf("pid too long (max %d): %w", MaxPIDLength, domain.ErrValidation)
	}
	if !pidRegex.MatchString(pid) {
		return fmt.Errorf("pid %q contains whitespace or reserved characters: %w", pid, domain.ErrValidation)
	}
	return nil
}

// Snapshot is the flat persisted form of an Award.
type Snapshot struct {
	ID          int64
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

// Award is the award aggregate (immutable value object).
type Award struct {
	s Snapshot
}

// New creates a fresh award from a validated draft.
// The internal id is assigned by the record store.
func New(d Draft, funder *FunderRef, now time.Time) Award {
	now = now.UTC()
	return Award{s: Snapshot{
		PID:         d.PID,
		Number:      d.Number,
		Title:       maps.Clone(d.Title),
		Identifiers: slices.Clone(d.Identifiers),
		Funder:      cloneFunder(funder),
		Created:     now,
		Updated:     now,
		Revision:    1,
	}}
}

// Reconstruct creates an Award without validation (storage hydration).
func Reconstruct(s Snapshot) Award {
	return Award{s: s}
}

// Snapshot returns a copy of the persisted form.
func (a Award) Snapshot() Snapshot {
	s := a.s
	s.Title = maps.Clone(a.s.Title)
	s.Identifiers = slices.Clone(a.s.Identifiers)
	s.Funder = cloneFunder(a.s.Funder)
	return s
}

// ID returns the internal record id.
func (a Award) ID() int64 { return a.s.ID }

// PID returns the persistent identifier.
func (a Award) PID() string { return a.s.PID }

// Number returns the funder-assigned award number.
func (a Award) Number() string { return a.s.Number }

// Title returns the localized titles keyed by language code.
func (a Award) Title() map[string]string { return a.s.Title }

// Identifiers returns the ordered external identifiers.
func (a Award) Identifiers() []Identifier { return a.s.Identifiers }

// Funder returns the funder reference, nil if unset.
func (a Award) Funder() *FunderRef { return a.s.Funder }

// Created returns the creation time.
func (a Award) Created() time.Time { return a.s.Created }

// Updated returns the last modification time.
func (a Award) Updated() time.Time { return a.s.Updated }

// Revision returns the revision number.
func (a Award) Revision() int { return a.s.Revision }

// IsDeleted reports whether the award was soft-deleted.
func (a Award) IsDeleted() bool { return a.s.Deleted }

// WithID returns a copy carrying the store-assigned id.
func (a Award) WithID(id int64) Award {
	a.s.ID = id
	return a
}

// Replace returns the next revision with all metadata replaced by the draft.
// Identity fields (id, pid, created) are kept.
func (a Award) Replace(d Draft, funder *FunderRef, now time.Time) Award {
	return Award{s: Snapshot{
		ID:          a.s.ID,
		PID:         a.s.PID,
		Number:      d.Number,
		Title:       maps.Clone(d.Title),
		Identifiers: slices.Clone(d.Identifiers),
		Funder:      cloneFunder(funder),
		Created:     a.s.Created,
		Updated:     now.UTC(),
		Revision:    a.s.Revision + 1,
	}}
}

// Tombstone returns the next revision with metadata removed.
// The record stays resolvable by pid.
func (a Award) Tombstone(now time.Time) Award {
	return Award{s: Snapshot{
		ID:       a.s.ID,
		PID:      a.s.PID,
		Created:  a.s.Created,
		Updated:  now.UTC(),
		Revision: a.s.Revision + 1,
		Deleted:  true,
	}}
}

// TitleTexts returns the title values ordered by language code.
func (a Award) TitleTexts() []string {
	langs := slices.Sorted(maps.Keys(a.s.Title))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, a.s.Title[l])
	}
	return out
}

func cloneFunder(f *FunderRef) *FunderRef {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
