package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type CVsRepo struct {
	pool *pgxpool.Pool
}

func NewCVsRepo(pool *pgxpool.Pool) *CVsRepo {
	return &CVsRepo{pool: pool}
}

func (r *CVsRepo) Save(ctx context.Context, cv *domain.CV) error {
	docB, err := json.Marshal(cv.Document)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO cvs (id, user_id, title, lang, document, tier, tier_expires_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, lang = EXCLUDED.lang, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		cv.ID, cv.UserID, cv.Title, cv.Lang, docB, cv.Tier, cv.TierExpiresAt, cv.CreatedAt, cv.UpdatedAt)
	return err
}

func (r *CVsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CV, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, title, lang, document, tier, tier_expires_at, created_at, updated_at
		FROM cvs WHERE id = $1`, id)
	return scanCV(row)
}

func (r *CVsRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CV, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, title, lang, document, tier, tier_expires_at, created_at, updated_at
		FROM cvs WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CV
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

func (r *CVsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cvs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivateSubscription marks all of the user's CVs as pro until the given
// time. Called on successful payment reconciliation.
func (r *CVsRepo) ActivateSubscription(ctx context.Context, userID uuid.UUID, until time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE cvs SET tier = $2, tier_expires_at = $3, updated_at = now()
		WHERE user_id = $1`, userID, domain.TierPro, until)
	return err
}

func scanCV(row pgx.Row) (*domain.CV, error) {
	var cv domain.CV
	var docB []byte
	err := row.Scan(&cv.ID, &cv.UserID, &cv.Title, &cv.Lang, &docB, &cv.Tier, &cv.TierExpiresAt, &cv.CreatedAt, &cv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(docB) > 0 {
		if err := json.Unmarshal(docB, &cv.Document); err != nil {
			return nil, err
		}
	}
	return &cv, nil
}
