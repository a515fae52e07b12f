package repositories

import (
	"context"
	"database/sql"
	"time"

	"workhub/internal/authz"
	"workhub/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)

	// aggregate writes (rating recompute and point awards only)
	UpdateRatingAggregate(ctx context.Context, userID string, score float64, count int) error
	AddPoints(ctx context.Context, userID string, delta int) error
	Leaderboard(ctx context.Context, department string) ([]*models.User, error)

	// refresh helpers
	UpdateRefresh(ctx context.Context, userID string, token string, expiresAt time.Time) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	ClearRefresh(ctx context.Context, userID string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, name, email, password_hash, role_id, COALESCE(department,''),
	points, rating_score, rating_count,
	refresh_token, refresh_expires_at, refresh_revoked,
	COALESCE(telegram_chat_id,0), COALESCE(notify_telegram,TRUE), created_at`

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (
			id, name, email, password_hash, role_id, department,
			points, rating_score, rating_count,
			refresh_token, refresh_expires_at, refresh_revoked,
			telegram_chat_id, notify_telegram, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,0,0,0,NULL,NULL,FALSE,$7,$8,NOW())
		RETURNING created_at`
	return r.DB.QueryRowContext(ctx, q,
		user.ID, user.Name, user.Email, user.PasswordHash, user.RoleID, user.Department,
		user.TelegramChatID, user.NotifyTelegram,
	).Scan(&user.CreatedAt)
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		rt  sql.NullString
		rte sql.NullTime
		rr  sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Department,
		&u.Points, &u.RatingScore, &u.RatingCount,
		&rt, &rte, &rr,
		&u.TelegramChatID, &u.NotifyTelegram, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET name=$1, email=$2, role_id=$3, department=$4,
		    telegram_chat_id=$5, notify_telegram=$6
		WHERE id=$7`,
		user.Name, user.Email, user.RoleID, user.Department,
		user.TelegramChatID, user.NotifyTelegram, user.ID,
	)
	return err
}

// Delete is idempotent.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	return r.scanUsers(rows)
}

func (r *userRepository) UpdateRatingAggregate(ctx context.Context, userID string, score float64, count int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET rating_score=$1, rating_count=$2 WHERE id=$3`,
		score, count, userID)
	return err
}

func (r *userRepository) AddPoints(ctx context.Context, userID string, delta int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET points = points + $1 WHERE id = $2`, delta, userID)
	return err
}

// Leaderboard orders contributors by rating score, ties broken by points.
func (r *userRepository) Leaderboard(ctx context.Context, department string) ([]*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE role_id = $1`
	args := []interface{}{authz.RoleEmployee}
	if department != "" {
		q += ` AND department = $2`
		args = append(args, department)
	}
	q += ` ORDER BY rating_score DESC, points DESC`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return r.scanUsers(rows)
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3`,
		token, expiresAt, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE refresh_token = $1 AND refresh_revoked = FALSE`, token))
}

func (r *userRepository) ClearRefresh(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1`, userID)
	return err
}

func (r *userRepository) scanUsers(rows *sql.Rows) ([]*models.User, error) {
	defer rows.Close()
	var out []*models.User
	for rows.Next() {
		u := &models.User{}
		var (
			rt  sql.NullString
			rte sql.NullTime
			rr  sql.NullBool
		)
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Department,
			&u.Points, &u.RatingScore, &u.RatingCount,
			&rt, &rte, &rr,
			&u.TelegramChatID, &u.NotifyTelegram, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rt.Valid {
			s := rt.String
			u.RefreshToken = &s
		}
		if rte.Valid {
			t := rte.Time
			u.RefreshExpiresAt = &t
		}
		if rr.Valid {
			u.RefreshRevoked = rr.Bool
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
