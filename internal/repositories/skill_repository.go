package repositories

import (
	"context"
	"database/sql"

	"workhub/internal/models"
)

type SkillRepository interface {
	Create(ctx context.Context, skill *models.UserSkill) error
	ListByUser(ctx context.Context, userID string) ([]models.UserSkill, error)
	Validate(ctx context.Context, skillID int64, validatorID string) error
	DeleteByOwner(ctx context.Context, userID string) error
	DeleteByValidator(ctx context.Context, validatorID string) error
}

type skillRepository struct {
	db *sql.DB
}

func NewSkillRepository(db *sql.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(ctx context.Context, skill *models.UserSkill) error {
	const q = `
		INSERT INTO user_skills (user_id, skill_name, proficiency, validated, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		skill.UserID, skill.SkillName, skill.Proficiency,
	).Scan(&skill.ID, &skill.CreatedAt)
}

func (r *skillRepository) ListByUser(ctx context.Context, userID string) ([]models.UserSkill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, skill_name, proficiency, validated,
		       COALESCE(validated_by,''), validated_at, created_at
		FROM user_skills WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserSkill
	for rows.Next() {
		var s models.UserSkill
		var validatedAt sql.NullTime
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SkillName, &s.Proficiency, &s.Validated,
			&s.ValidatedBy, &validatedAt, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if validatedAt.Valid {
			t := validatedAt.Time
			s.ValidatedAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *skillRepository) Validate(ctx context.Context, skillID int64, validatorID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_skills
		SET validated = TRUE, validated_by = $1, validated_at = NOW()
		WHERE id = $2`,
		validatorID, skillID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *skillRepository) DeleteByOwner(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID)
	return err
}

func (r *skillRepository) DeleteByValidator(ctx context.Context, validatorID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE validated_by = $1`, validatorID)
	return err
}
