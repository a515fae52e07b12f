package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"workhub/internal/models"
	"workhub/internal/repositories"
	"workhub/internal/workflow"
)

// RatingService keeps user rating aggregates consistent with the underlying
// rating records: every upsert or cascade deletion is followed by a full
// recompute from the remaining records.
type RatingService interface {
	SubmitRating(ctx context.Context, raterID, ratedID string, scores []float64) (*models.Rating, error)
	Recompute(ctx context.Context, userID string) (float64, int, error)
	ListForUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingService struct {
	ratings repositories.RatingRepository
	users   repositories.UserRepository
}

func NewRatingService(ratings repositories.RatingRepository, users repositories.UserRepository) RatingService {
	return &ratingService{ratings: ratings, users: users}
}

// SubmitRating upserts the (rater, rated) record; a second submission by the
// same rater overwrites the first. The rated user's aggregate is recomputed
// from all records afterwards.
func (s *ratingService) SubmitRating(ctx context.Context, raterID, ratedID string, scores []float64) (*models.Rating, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: at least one score is required", workflow.ErrValidation)
	}
	if raterID == ratedID {
		return nil, fmt.Errorf("%w: cannot rate yourself", workflow.ErrValidation)
	}
	sum := 0.0
	for _, sc := range scores {
		if sc < 0 || sc > 5 {
			return nil, fmt.Errorf("%w: scores must be between 0 and 5", workflow.ErrValidation)
		}
		sum += sc
	}

	rating := &models.Rating{
		RaterID:   raterID,
		RatedID:   ratedID,
		Scores:    scores,
		Average:   sum / float64(len(scores)),
		UpdatedAt: time.Now(),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, err
	}
	if _, _, err := s.Recompute(ctx, ratedID); err != nil {
		return nil, err
	}
	return rating, nil
}

// Recompute rebuilds the user's aggregate from the rating records that
// currently exist: the mean of per-record averages rounded to two decimals,
// and the exact record count. No records means zero, not a stale value.
func (s *ratingService) Recompute(ctx context.Context, userID string) (float64, int, error) {
	records, err := s.ratings.ListByRated(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	score := 0.0
	if len(records) > 0 {
		sum := 0.0
		for _, rec := range records {
			sum += rec.Average
		}
		score = math.Round(sum/float64(len(records))*100) / 100
	}

	if err := s.users.UpdateRatingAggregate(ctx, userID, score, len(records)); err != nil {
		return 0, 0, err
	}
	return score, len(records), nil
}

func (s *ratingService) ListForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.ratings.ListByRated(ctx, userID)
}
