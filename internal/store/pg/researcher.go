package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/orcidgate/internal/store"
)

const researcherColumns = `id, orcid, name, sign_in_count, last_sign_in_at, created_at, updated_at`

func scanResearcher(row pgx.Row) (*store.Researcher, error) {
	var r store.Researcher
	err := row.Scan(
		&r.ID, &r.ORCID, &r.Name, &r.SignInCount,
		&r.LastSignInAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetByORCID(ctx context.Context, orcid string) (*store.Researcher, error) {
	const query = `
		SELECT ` + researcherColumns + `
		FROM researcher
		WHERE orcid = $1
	`
	return scanResearcher(s.pool.QueryRow(ctx, query, orcid))
}

func (s *Store) GetByID(ctx context.Context, id string) (*store.Researcher, error) {
	const query = `
		SELECT ` + researcherColumns + `
		FROM researcher
		WHERE id = $1
	`
	return scanResearcher(s.pool.QueryRow(ctx, query, id))
}

func (s *Store) FindOrCreate(ctx context.Context, in store.UpsertResearcherInput) (*store.Researcher, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	// 1. Look the researcher up by ORCID iD.
	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM researcher WHERE orcid = $1`,
		in.ORCID,
	).Scan(&existingID)

	if err == nil {
		// Known researcher, advance the sign-in counters.
		row := tx.QueryRow(ctx, `
			UPDATE researcher
			SET name = CASE WHEN $2 <> '' THEN $2 ELSE name END,
			    sign_in_count = sign_in_count + 1,
			    last_sign_in_at = NOW(),
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+researcherColumns,
			existingID, in.Name,
		)
		r, err := scanResearcher(row)
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return r, false, nil
	} else if err != pgx.ErrNoRows {
		return nil, false, err
	}

	// 2. First sign-in, provision the record.
	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		INSERT INTO researcher (id, orcid, name, sign_in_count, last_sign_in_at, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4, $4)
		RETURNING `+researcherColumns,
		uuid.NewString(), in.ORCID, in.Name, now,
	)
	r, err := scanResearcher(row)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]store.Researcher, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + researcherColumns + `
		FROM researcher
		ORDER BY last_sign_in_at DESC NULLS LAST, orcid
		LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Researcher
	for rows.Next() {
		var r store.Researcher
		if err := rows.Scan(
			&r.ID, &r.ORCID, &r.Name, &r.SignInCount,
			&r.LastSignInAt, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM researcher`).Scan(&n)
	return n, err
}
