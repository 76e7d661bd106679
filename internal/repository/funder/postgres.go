package funder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vocabdex/internal/db/postgres"
	"github.com/kailas-cloud/vocabdex/internal/domain"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
)

// PostgresStore persists funders in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed funder store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a funder. A duplicate id is ErrAlreadyExists.
func (s *PostgresStore) Create(ctx context.Context, f domfunder.Funder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO funders (id, name, country, created, updated) VALUES ($1, $2, $3, $4, $5)`,
		f.ID(), f.Name(), f.Country(), f.Created(), f.Updated(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("funder %q: %w", f.ID(), domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert funder: %w", err)
	}
	return nil
}

// Get returns a funder by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (domfunder.Funder, error) {
	var (
		name, country    string
		created, updated sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, country, created, updated FROM funders WHERE id = $1`, id,
	).Scan(&name, &country, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domfunder.Funder{}, fmt.Errorf("funder %q: %w", id, domain.ErrNotFound)
		}
		return domfunder.Funder{}, fmt.Errorf("get funder: %w", err)
	}
	return domfunder.Reconstruct(id, name, country, created.Time.UTC(), updated.Time.UTC()), nil
}
