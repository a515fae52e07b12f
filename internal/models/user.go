package models

import "time"

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`
	Department   string `json:"department,omitempty"`

	// Leaderboard aggregates. RatingScore and RatingCount are derived from
	// rating records and are only written by the rating recompute.
	Points      int     `json:"points"`
	RatingScore float64 `json:"rating_score"`
	RatingCount int     `json:"rating_count"`

	// refresh-token storage
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	TelegramChatID int64     `json:"-"`
	NotifyTelegram bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
