package service

import (
	"testing"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	reviewService := NewReviewService(reviewRepo, fishRepo, testDB)

	user := &model.User{
		Email:        "reviewer@example.com",
		PasswordHash: "hash",
		Name:         "Reviewer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return reviewService, testDB, user
}

func TestReviewService_CreateReview_RecomputesRating(t *testing.T) {
	reviewService, testDB, user := setupReviewServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	_, err := reviewService.CreateReview(user.ID, fish.ID, 4, "Healthy and active")
	require.NoError(t, err)

	var afterFirst model.Fish
	testDB.First(&afterFirst, fish.ID)
	assert.Equal(t, 4.0, afterFirst.Rating)
	assert.Equal(t, 1, afterFirst.NumReviews)

	_, err = reviewService.CreateReview(user.ID, fish.ID, 5, "Beautiful coloring")
	require.NoError(t, err)

	var afterSecond model.Fish
	testDB.First(&afterSecond, fish.ID)
	assert.Equal(t, 4.5, afterSecond.Rating)
	assert.Equal(t, 2, afterSecond.NumReviews)
}

func TestReviewService_CreateReview_RatingBounds(t *testing.T) {
	reviewService, testDB, user := setupReviewServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	_, err := reviewService.CreateReview(user.ID, fish.ID, -0.5, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.CreateReview(user.ID, fish.ID, 5.5, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	// Both bounds are themselves valid
	_, err = reviewService.CreateReview(user.ID, fish.ID, 0, "")
	assert.NoError(t, err)
	_, err = reviewService.CreateReview(user.ID, fish.ID, 5, "")
	assert.NoError(t, err)
}

func TestReviewService_CreateReview_FishNotFound(t *testing.T) {
	reviewService, _, user := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, 9999, 4, "")
	assert.ErrorIs(t, err, ErrFishNotFound)
}

func TestReviewService_GetFishReviews_NewestFirst(t *testing.T) {
	reviewService, testDB, user := setupReviewServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	older := &model.Review{
		UserID:     user.ID,
		FishID:     fish.ID,
		Rating:     3,
		Comment:    "older",
		ReviewDate: time.Now().Add(-2 * time.Hour),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
	}
	newer := &model.Review{
		UserID:     user.ID,
		FishID:     fish.ID,
		Rating:     5,
		Comment:    "newer",
		ReviewDate: time.Now(),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, testDB.Create(older).Error)
	require.NoError(t, testDB.Create(newer).Error)

	reviews, err := reviewService.GetFishReviews(fish.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "newer", reviews[0].Comment)
	assert.Equal(t, "older", reviews[1].Comment)
}

func TestReviewService_GetFishReviews_FishNotFound(t *testing.T) {
	reviewService, _, _ := setupReviewServiceTest(t)

	_, err := reviewService.GetFishReviews(9999)
	assert.ErrorIs(t, err, ErrFishNotFound)
}
