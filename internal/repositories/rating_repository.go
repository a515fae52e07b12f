package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"workhub/internal/models"
)

// RatingRepository stores one row per (rater, rated) pair; an upsert
// replaces the prior submission for that pair.
type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error)
	DeleteByRated(ctx context.Context, ratedID string) error
	// DeleteByRater removes every rating the rater gave and returns the
	// distinct ids of the users those ratings scored, so the caller can
	// recompute their aggregates.
	DeleteByRater(ctx context.Context, raterID string) ([]string, error)
}

type ratingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	const q = `
		INSERT INTO ratings (rater_id, rated_id, scores, average, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (rater_id, rated_id)
		DO UPDATE SET scores = EXCLUDED.scores, average = EXCLUDED.average, updated_at = NOW()
		RETURNING updated_at`
	return r.db.QueryRowContext(ctx, q,
		rating.RaterID, rating.RatedID, pq.Array(rating.Scores), rating.Average,
	).Scan(&rating.UpdatedAt)
}

func (r *ratingRepository) ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rater_id, rated_id, scores, average, updated_at
		FROM ratings WHERE rated_id = $1
		ORDER BY updated_at DESC`, ratedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Rating
	for rows.Next() {
		var rec models.Rating
		if err := rows.Scan(
			&rec.RaterID, &rec.RatedID, pq.Array(&rec.Scores), &rec.Average, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ratingRepository) DeleteByRated(ctx context.Context, ratedID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE rated_id = $1`, ratedID)
	return err
}

func (r *ratingRepository) DeleteByRater(ctx context.Context, raterID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`DELETE FROM ratings WHERE rater_id = $1 RETURNING rated_id`, raterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := map[string]bool{}
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, rows.Err()
}
