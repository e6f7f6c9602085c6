package repository

import (
	"testing"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFishRepositoryTest(t *testing.T) (FishRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewFishRepository(testDB), testDB
}

func seedFish(t *testing.T, repo FishRepository, name, species string, price float64, stock int) *model.Fish {
	t.Helper()
	fish := &model.Fish{
		Name:          name,
		Species:       species,
		Size:          5.0,
		Price:         price,
		StockQuantity: stock,
		IsAvailable:   stock > 0,
	}
	require.NoError(t, repo.Create(fish))
	return fish
}

func TestFishRepository_FindAll_NoFilter(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	first := seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	second := seedFish(t, repo, "Betta", "Betta splendens", 7.0, 0)

	fishes, err := repo.FindAll(FishFilter{})
	require.NoError(t, err)
	require.Len(t, fishes, 2)
	// Stable ascending ID order
	assert.Equal(t, first.ID, fishes[0].ID)
	assert.Equal(t, second.ID, fishes[1].ID)
}

func TestFishRepository_FindAll_SpeciesFilter(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 5)

	fishes, err := repo.FindAll(FishFilter{Species: "Betta splendens"})
	require.NoError(t, err)
	require.Len(t, fishes, 1)
	assert.Equal(t, "Betta", fishes[0].Name)
}

func TestFishRepository_FindAll_AvailableOnly(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 0)

	fishes, err := repo.FindAll(FishFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, fishes, 1)
	assert.Equal(t, "Guppy", fishes[0].Name)
}

func TestFishRepository_FindAll_PriceRange(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 5)
	seedFish(t, repo, "Discus", "Symphysodon discus", 40.0, 3)

	fishes, err := repo.FindAll(FishFilter{MinPrice: 5, MaxPrice: 20})
	require.NoError(t, err)
	require.Len(t, fishes, 1)
	assert.Equal(t, "Betta", fishes[0].Name)
}

func TestFishRepository_FindAll_Search(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	seedFish(t, repo, "Neon Tetra", "Paracheirodon innesi", 2.0, 20)
	seedFish(t, repo, "Cardinal Tetra", "Paracheirodon axelrodi", 3.0, 15)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 5)

	// Name and species both match
	fishes, err := repo.FindAll(FishFilter{Search: "Tetra"})
	require.NoError(t, err)
	assert.Len(t, fishes, 2)

	fishes, err = repo.FindAll(FishFilter{Search: "Paracheirodon"})
	require.NoError(t, err)
	assert.Len(t, fishes, 2)
}

func TestFishRepository_FindAll_CategoryFilter(t *testing.T) {
	repo, testDB := setupFishRepositoryTest(t)
	tagged := seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 5)

	category := &model.Category{Name: "Freshwater"}
	require.NoError(t, testDB.Create(category).Error)
	require.NoError(t, testDB.Model(tagged).Association("Categories").Append(category))

	fishes, err := repo.FindAll(FishFilter{CategoryID: category.ID})
	require.NoError(t, err)
	require.Len(t, fishes, 1)
	assert.Equal(t, tagged.ID, fishes[0].ID)
}

func TestFishRepository_FindByIDs(t *testing.T) {
	repo, _ := setupFishRepositoryTest(t)
	first := seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)
	seedFish(t, repo, "Betta", "Betta splendens", 7.0, 5)
	third := seedFish(t, repo, "Discus", "Symphysodon discus", 40.0, 3)

	fishes, err := repo.FindByIDs([]uint{first.ID, third.ID})
	require.NoError(t, err)
	assert.Len(t, fishes, 2)
}

func TestFishRepository_Delete_SoftDeletes(t *testing.T) {
	repo, testDB := setupFishRepositoryTest(t)
	fish := seedFish(t, repo, "Guppy", "Poecilia reticulata", 2.5, 10)

	require.NoError(t, repo.Delete(fish.ID))

	_, err := repo.FindByID(fish.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Row survives with a deletion timestamp
	var raw model.Fish
	require.NoError(t, testDB.Unscoped().First(&raw, fish.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}
