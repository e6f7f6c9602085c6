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

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	cartService := NewCartService(cartRepo, fishRepo)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return cartService, testDB, user
}

func TestCartService_GetCart_CreatesOnFirstUse(t *testing.T) {
	cartService, _, user := setupCartServiceTest(t)

	view, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, view.Cart.ID)
	assert.Equal(t, 0, view.ItemCount)
	assert.Equal(t, 0.0, view.TotalPrice)
}

func TestCartService_AddItem(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	fish := createTestFish(t, testDB, "Guppy", 2.5, 10)

	view, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, 2.5, view.TotalPrice)
}

func TestCartService_AddItem_DuplicateIsNoOp(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	fish := createTestFish(t, testDB, "Guppy", 2.5, 10)

	_, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)

	// Membership is a set: adding the same fish again changes nothing
	view, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, 2.5, view.TotalPrice)
}

func TestCartService_AddItem_FishNotFound(t *testing.T) {
	cartService, _, user := setupCartServiceTest(t)

	_, err := cartService.AddItem(user.ID, 9999)
	assert.ErrorIs(t, err, ErrFishNotFound)
}

func TestCartService_TotalPriceFollowsCatalog(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	fish := createTestFish(t, testDB, "Discus", 40.0, 3)

	view, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, view.TotalPrice)

	// Price changes after the add are reflected in the total
	require.NoError(t, testDB.Model(&model.Fish{}).Where("id = ?", fish.ID).Update("price", 55.0).Error)

	view, err = cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, view.TotalPrice)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	fish := createTestFish(t, testDB, "Guppy", 2.5, 10)

	_, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)

	view, err := cartService.RemoveItem(user.ID, fish.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemCount)
}

func TestCartService_RemoveItem_NotInCart(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	inCart := createTestFish(t, testDB, "Guppy", 2.5, 10)
	notInCart := createTestFish(t, testDB, "Betta", 7.0, 5)

	_, err := cartService.AddItem(user.ID, inCart.ID)
	require.NoError(t, err)

	_, err = cartService.RemoveItem(user.ID, notInCart.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem_NoCart(t *testing.T) {
	cartService, _, user := setupCartServiceTest(t)

	_, err := cartService.RemoveItem(user.ID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_EmptyCart_Idempotent(t *testing.T) {
	cartService, testDB, user := setupCartServiceTest(t)
	fish := createTestFish(t, testDB, "Guppy", 2.5, 10)

	// Emptying with no cart at all succeeds
	require.NoError(t, cartService.EmptyCart(user.ID))

	_, err := cartService.AddItem(user.ID, fish.ID)
	require.NoError(t, err)

	require.NoError(t, cartService.EmptyCart(user.ID))

	view, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemCount)

	// Emptying an already empty cart also succeeds
	require.NoError(t, cartService.EmptyCart(user.ID))
}
