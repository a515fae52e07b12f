package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhub/internal/models"
	"workhub/internal/workflow"
)

func newRatingFixture(users ...*models.User) (RatingService, *fakeRatingRepo, *fakeUserRepo) {
	ratingRepo := newFakeRatingRepo()
	userRepo := newFakeUserRepo(users...)
	return NewRatingService(ratingRepo, userRepo), ratingRepo, userRepo
}

func TestSubmitRatingValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRatingFixture(&models.User{ID: "bob"})

	_, err := svc.SubmitRating(ctx, "lead1", "bob", nil)
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = svc.SubmitRating(ctx, "lead1", "lead1", []float64{4})
	assert.ErrorIs(t, err, workflow.ErrValidation, "self-rating is forbidden")

	_, err = svc.SubmitRating(ctx, "lead1", "bob", []float64{4, 5.5})
	assert.ErrorIs(t, err, workflow.ErrValidation, "scores are capped at 5")

	_, err = svc.SubmitRating(ctx, "lead1", "bob", []float64{-1})
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestSubmitRatingUpsertsAndRecomputes(t *testing.T) {
	ctx := context.Background()
	svc, ratingRepo, userRepo := newRatingFixture(&models.User{ID: "bob"})

	rating, err := svc.SubmitRating(ctx, "lead1", "bob", []float64{4, 4})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rating.Average, 1e-9)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 4.0, bob.RatingScore)
	assert.Equal(t, 1, bob.RatingCount)

	// a second submission by the same rater replaces the first record
	_, err = svc.SubmitRating(ctx, "lead1", "bob", []float64{2})
	require.NoError(t, err)
	records, err := ratingRepo.ListByRated(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, records, 1)

	bob, err = userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2.0, bob.RatingScore)
	assert.Equal(t, 1, bob.RatingCount)

	// a different rater adds a second record: mean of per-record averages
	_, err = svc.SubmitRating(ctx, "lead2", "bob", []float64{5})
	require.NoError(t, err)
	bob, err = userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 3.5, bob.RatingScore)
	assert.Equal(t, 2, bob.RatingCount)
}

func TestRecomputeRounding(t *testing.T) {
	ctx := context.Background()
	svc, _, userRepo := newRatingFixture(&models.User{ID: "bob"})

	_, err := svc.SubmitRating(ctx, "lead1", "bob", []float64{5})
	require.NoError(t, err)
	_, err = svc.SubmitRating(ctx, "lead2", "bob", []float64{4})
	require.NoError(t, err)
	_, err = svc.SubmitRating(ctx, "lead3", "bob", []float64{4})
	require.NoError(t, err)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 4.33, bob.RatingScore, "mean 13/3 rounds to two decimals")
	assert.Equal(t, 3, bob.RatingCount)
}

func TestRecomputeWithNoRecordsZeroes(t *testing.T) {
	ctx := context.Background()
	svc, ratingRepo, userRepo := newRatingFixture(&models.User{ID: "bob", RatingScore: 4.5, RatingCount: 3})

	require.NoError(t, ratingRepo.DeleteByRated(ctx, "bob"))
	score, count, err := svc.Recompute(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Zero(t, count)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, bob.RatingScore, "stale aggregate is overwritten, not kept")
	assert.Zero(t, bob.RatingCount)
}
