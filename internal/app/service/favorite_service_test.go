package service

import (
	"testing"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFavoriteServiceTest(t *testing.T) (FavoriteService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	favoriteRepo := repository.NewFavoriteRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	favoriteService := NewFavoriteService(favoriteRepo, fishRepo)

	user := &model.User{
		Email:        "collector@example.com",
		PasswordHash: "hash",
		Name:         "Collector",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return favoriteService, testDB, user
}

func TestFavoriteService_AddFavorite(t *testing.T) {
	favoriteService, testDB, user := setupFavoriteServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	favorite, err := favoriteService.AddFavorite(user.ID, fish.ID)
	require.NoError(t, err)
	assert.NotZero(t, favorite.ID)

	favorites, err := favoriteService.GetUserFavorites(user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestFavoriteService_AddFavorite_DuplicatesAllowed(t *testing.T) {
	favoriteService, testDB, user := setupFavoriteServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	_, err := favoriteService.AddFavorite(user.ID, fish.ID)
	require.NoError(t, err)
	_, err = favoriteService.AddFavorite(user.ID, fish.ID)
	require.NoError(t, err)

	favorites, err := favoriteService.GetUserFavorites(user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 2)
}

func TestFavoriteService_AddFavorite_FishNotFound(t *testing.T) {
	favoriteService, _, user := setupFavoriteServiceTest(t)

	_, err := favoriteService.AddFavorite(user.ID, 9999)
	assert.ErrorIs(t, err, ErrFishNotFound)
}

func TestFavoriteService_RemoveFavorite_DeletesAllRows(t *testing.T) {
	favoriteService, testDB, user := setupFavoriteServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	_, err := favoriteService.AddFavorite(user.ID, fish.ID)
	require.NoError(t, err)
	_, err = favoriteService.AddFavorite(user.ID, fish.ID)
	require.NoError(t, err)

	require.NoError(t, favoriteService.RemoveFavorite(user.ID, fish.ID))

	favorites, err := favoriteService.GetUserFavorites(user.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 0)
}

func TestFavoriteService_RemoveFavorite_AbsentIsNoOp(t *testing.T) {
	favoriteService, testDB, user := setupFavoriteServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 5)

	assert.NoError(t, favoriteService.RemoveFavorite(user.ID, fish.ID))
}
