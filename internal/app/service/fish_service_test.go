package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupFishServiceTest(t *testing.T) (FishService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	fishRepo := repository.NewFishRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewFishService(fishRepo, categoryRepo, testDB), testDB
}

func TestFishService_CreateFish_AvailabilityFromStock(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	inStock, err := fishService.CreateFish(CreateFishInput{
		Name:          "Neon Tetra",
		Species:       "Paracheirodon innesi",
		Size:          3.0,
		Price:         2.5,
		StockQuantity: 12,
	})
	require.NoError(t, err)
	assert.True(t, inStock.IsAvailable)
	assert.Equal(t, 0.0, inStock.Rating)
	assert.Equal(t, 0, inStock.NumReviews)

	outOfStock, err := fishService.CreateFish(CreateFishInput{
		Name:          "Mandarinfish",
		Species:       "Synchiropus splendidus",
		Size:          6.0,
		Price:         45.0,
		StockQuantity: 0,
	})
	require.NoError(t, err)
	assert.False(t, outOfStock.IsAvailable)
}

func TestFishService_CreateFish_InvalidData(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	_, err := fishService.CreateFish(CreateFishInput{Species: "Poecilia reticulata"})
	assert.ErrorIs(t, err, ErrInvalidFishData)

	_, err = fishService.CreateFish(CreateFishInput{
		Name:    "Guppy",
		Species: "Poecilia reticulata",
		Price:   -1,
	})
	assert.ErrorIs(t, err, ErrInvalidFishData)
}

func TestFishService_CreateFish_CategoryNotFound(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	_, err := fishService.CreateFish(CreateFishInput{
		Name:        "Guppy",
		Species:     "Poecilia reticulata",
		Size:        4.0,
		Price:       3.0,
		CategoryIDs: []uint{9999},
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestFishService_UpdateStock_RecomputesAvailability(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	updated, err := fishService.UpdateStock(fish.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.StockQuantity)
	assert.False(t, updated.IsAvailable)

	updated, err = fishService.UpdateStock(fish.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.True(t, updated.IsAvailable)
}

func TestFishService_UpdateStock_NegativeRejected(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	_, err := fishService.UpdateStock(fish.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidFishData)

	var unchanged model.Fish
	testDB.First(&unchanged, fish.ID)
	assert.Equal(t, 5, unchanged.StockQuantity)
}

func TestFishService_UpdateStock_NotFound(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	_, err := fishService.UpdateStock(9999, 3)
	assert.ErrorIs(t, err, ErrFishNotFound)
}

func TestFishService_ReconcileAggregates_HealsDrift(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	user := &model.User{Email: "r@example.com", PasswordHash: "hash", Name: "Reviewer"}
	testDB.Create(user)
	testDB.Create(&model.Review{UserID: user.ID, FishID: fish.ID, Rating: 4, ReviewDate: time.Now()})
	testDB.Create(&model.Review{UserID: user.ID, FishID: fish.ID, Rating: 5, ReviewDate: time.Now()})

	// Corrupt the derived columns as an out-of-band write would
	require.NoError(t, testDB.Model(&model.Fish{}).Where("id = ?", fish.ID).
		Updates(map[string]interface{}{
			"is_available": false,
			"rating":       1.0,
			"num_reviews":  99,
		}).Error)

	swept, err := fishService.ReconcileAggregates()
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	var healed model.Fish
	testDB.First(&healed, fish.ID)
	assert.True(t, healed.IsAvailable)
	assert.Equal(t, 4.5, healed.Rating)
	assert.Equal(t, 2, healed.NumReviews)
}

func TestFishService_ReconcileAggregates_NoReviewsRatingZero(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 0)

	require.NoError(t, testDB.Model(&model.Fish{}).Where("id = ?", fish.ID).
		Updates(map[string]interface{}{"rating": 3.0, "num_reviews": 4}).Error)

	_, err := fishService.ReconcileAggregates()
	require.NoError(t, err)

	var healed model.Fish
	testDB.First(&healed, fish.ID)
	assert.Equal(t, 0.0, healed.Rating)
	assert.Equal(t, 0, healed.NumReviews)
	assert.False(t, healed.IsAvailable)
}

func TestFishService_DeleteFish_NotFound(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	err := fishService.DeleteFish(9999)
	assert.ErrorIs(t, err, ErrFishNotFound)
}

func TestFishService_ExportCatalog(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	createTestFish(t, testDB, "Clownfish", 10.0, 5)
	createTestFish(t, testDB, "Guppy", 2.5, 0)

	data, err := fishService.ExportCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	header, err := workbook.GetCellValue("Catalog", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	name, err := workbook.GetCellValue("Catalog", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Clownfish", name)

	rows, err := workbook.GetRows("Catalog")
	require.NoError(t, err)
	assert.Len(t, rows, 3) // header + two fish
}

func TestFishService_UpdateFish_PreservesConcurrentStockChanges(t *testing.T) {
	fishService, testDB := setupFishServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	// Stock and aggregates move underneath the catalog edit, as a concurrent
	// order confirmation would
	require.NoError(t, testDB.Model(&model.Fish{}).
		Where("id = ?", fish.ID).
		Updates(map[string]interface{}{
			"stock_quantity": 2,
			"rating":         4.5,
			"num_reviews":    3,
		}).Error)

	updated, err := fishService.UpdateFish(fish.ID, CreateFishInput{
		Name:  "Ocellaris Clownfish",
		Price: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ocellaris Clownfish", updated.Name)
	assert.Equal(t, 12.5, updated.Price)

	// The edit writes only its own columns
	assert.Equal(t, 2, updated.StockQuantity)
	assert.Equal(t, 4.5, updated.Rating)
	assert.Equal(t, 3, updated.NumReviews)
}

func TestFishService_UpdateFish_NotFound(t *testing.T) {
	fishService, _ := setupFishServiceTest(t)

	_, err := fishService.UpdateFish(9999, CreateFishInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrFishNotFound)
}
