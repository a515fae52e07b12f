package models

import "time"

// Rating is a lead's score card for one user. There is at most one current
// rating per (rater, rated) pair; a resubmission overwrites the previous one.
type Rating struct {
	RaterID   string    `json:"rater_id"`
	RatedID   string    `json:"rated_id"`
	Scores    []float64 `json:"scores"`
	Average   float64   `json:"average"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSkill is a skill claim owned by a user, optionally validated by a lead.
type UserSkill struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	SkillName   string     `json:"skill_name"`
	Proficiency int        `json:"proficiency"` // 1-5
	Validated   bool       `json:"validated"`
	ValidatedBy string     `json:"validated_by,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
