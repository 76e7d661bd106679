package award

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vocabdex/internal/db/postgres"
	"github.com/kailas-cloud/vocabdex/internal/domain"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
)

const awardColumns = `id, pid, number, title, identifiers, funder_id, funder_name, created, updated, revision, deleted`

// PostgresStore persists awards in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed award store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new award and returns it with the assigned id.
func (s *PostgresStore) Create(ctx context.Context, a domaward.Award) (domaward.Award, error) {
	row, err := toRow(a)
	if err != nil {
		return domaward.Award{}, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO awards (pid, number, title, identifiers, funder_id, funder_name, created, updated, revision, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		row.PID, row.Number, row.Title, row.Identifiers, row.FunderID, row.FunderName,
		row.Created, row.Updated, row.Revision, row.Deleted,
	).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return domaward.Award{}, fmt.Errorf("award %q: %w", a.PID(), domain.ErrAlreadyExists)
		}
		return domaward.Award{}, fmt.Errorf("insert award: %w", err)
	}
	return a.WithID(id), nil
}

// GetByPID returns the award (live or soft-deleted) with the given pid.
func (s *PostgresStore) GetByPID(ctx context.Context, pid string) (domaward.Award, error) {
	a, err := scanAward(s.db.QueryRowContext(ctx, `SELECT `+awardColumns+` FROM awards WHERE pid = $1`, pid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domaward.Award{}, fmt.Errorf("award %q: %w", pid, domain.ErrNotFound)
		}
		return domaward.Award{}, fmt.Errorf("get award: %w", err)
	}
	return a, nil
}

// Update stores the next revision of an award if the stored revision still
// equals expectedRevision.
func (s *PostgresStore) Update(ctx context.Context, a domaward.Award, expectedRevision int) error {
	row, err := toRow(a)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE awards SET
			number = $1, title = $2, identifiers = $3, funder_id = $4, funder_name = $5,
			updated = $6, revision = $7, deleted = $8
		WHERE id = $9 AND revision = $10`,
		row.Number, row.Title, row.Identifiers, row.FunderID, row.FunderName,
		row.Updated, row.Revision, row.Deleted, a.ID(), expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("update award: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update award rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var current int
	err = s.db.QueryRowContext(ctx, `SELECT revision FROM awards WHERE id = $1`, a.ID()).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("award %q: %w", a.PID(), domain.ErrNotFound)
		}
		return fmt.Errorf("read award revision: %w", err)
	}
	return domain.NewRevisionConflict(current)
}

// ForceDelete physically removes an award.
func (s *PostgresStore) ForceDelete(ctx context.Context, pid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM awards WHERE pid = $1`, pid)
	if err != nil {
		return fmt.Errorf("delete award: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete award rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("award %q: %w", pid, domain.ErrNotFound)
	}
	return nil
}

// ListLive returns up to limit non-deleted awards with id > afterID, ordered by id.
func (s *PostgresStore) ListLive(ctx context.Context, afterID int64, limit int) ([]domaward.Award, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+awardColumns+` FROM awards
		WHERE NOT deleted AND id > $1
		ORDER BY id
		LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	defer rows.Close()

	var out []domaward.Award
	for rows.Next() {
		a, err := scanAward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate awards: %w", err)
	}
	return out, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

type awardRow struct {
	ID          int64
	PID         string
	Number      string
	Title       []byte
	Identifiers []byte
	FunderID    sql.NullString
	FunderName  string
	Created     sql.NullTime
	Updated     sql.NullTime
	Revision    int
	Deleted     bool
}

func toRow(a domaward.Award) (awardRow, error) {
	title := a.Title()
	if title == nil {
		title = map[string]string{}
	}
	titleJSON, err := json.Marshal(title)
	if err != nil {
		return awardRow{}, fmt.Errorf("marshal title: %w", err)
	}
	ids := a.Identifiers()
	if ids == nil {
		ids = []domaward.Identifier{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return awardRow{}, fmt.Errorf("marshal identifiers: %w", err)
	}
	row := awardRow{
		ID:          a.ID(),
		PID:         a.PID(),
		Number:      a.Number(),
		Title:       titleJSON,
		Identifiers: idsJSON,
		Created:     sql.NullTime{Time: a.Created(), Valid: true},
		Updated:     sql.NullTime{Time: a.Updated(), Valid: true},
		Revision:    a.Revision(),
		Deleted:     a.IsDeleted(),
	}
	if f := a.Funder(); f != nil {
		row.FunderID = sql.NullString{String: f.ID, Valid: true}
		row.FunderName = f.Name
	}
	return row, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAward(sc rowScanner) (domaward.Award, error) {
	var row awardRow
	if err := sc.Scan(
		&row.ID, &row.PID, &row.Number, &row.Title, &row.Identifiers,
		&row.FunderID, &row.FunderName, &row.Created, &row.Updated, &row.Revision, &row.Deleted,
	); err != nil {
		return domaward.Award{}, err //nolint:wrapcheck // callers wrap with operation context
	}
	return fromRow(row)
}

func fromRow(row awardRow) (domaward.Award, error) {
	snap := domaward.Snapshot{
		ID:       row.ID,
		PID:      row.PID,
		Number:   row.Number,
		Created:  row.Created.Time.UTC(),
		Updated:  row.Updated.Time.UTC(),
		Revision: row.Revision,
		Deleted:  row.Deleted,
	}
	if err := json.Unmarshal(row.Title, &snap.Title); err != nil {
		return domaward.Award{}, fmt.Errorf("decode title: %w", err)
	}
	if len(snap.Title) == 0 {
		snap.Title = nil
	}
	if err := json.Unmarshal(row.Identifiers, &snap.Identifiers); err != nil {
		return domaward.Award{}, fmt.Errorf("decode identifiers: %w", err)
	}
	if len(snap.Identifiers) == 0 {
		snap.Identifiers = nil
	}
	if row.FunderID.Valid {
		snap.Funder = &domaward.FunderRef{ID: row.FunderID.String, Name: row.FunderName}
	}
	return domaward.Reconstruct(snap), nil
}
