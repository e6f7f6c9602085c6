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

func setupNotificationServiceTest(t *testing.T) (NotificationService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationRepo := repository.NewNotificationRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, favoriteRepo)

	user := &model.User{
		Email:        "notify@example.com",
		PasswordHash: "hash",
		Name:         "Notified User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return notificationService, testDB, user
}

func TestNotificationService_Notify(t *testing.T) {
	notificationService, _, user := setupNotificationServiceTest(t)

	require.NoError(t, notificationService.Notify(user.ID, "Order confirmed", "Order abc has been confirmed"))

	notifications, err := notificationService.GetUserNotifications(user.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Order confirmed", notifications[0].Title)
	assert.False(t, notifications[0].IsRead)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	notificationService, _, user := setupNotificationServiceTest(t)

	require.NoError(t, notificationService.Notify(user.ID, "Title", "Message"))

	notifications, err := notificationService.GetUserNotifications(user.ID, true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	require.NoError(t, notificationService.MarkAsRead(user.ID, notifications[0].ID))

	unread, err := notificationService.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// Read notifications drop out of the unread-only listing
	notifications, err = notificationService.GetUserNotifications(user.ID, true)
	require.NoError(t, err)
	assert.Len(t, notifications, 0)
}

func TestNotificationService_MarkAsRead_OwnershipMismatch(t *testing.T) {
	notificationService, testDB, user := setupNotificationServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	require.NoError(t, notificationService.Notify(user.ID, "Title", "Message"))

	notifications, err := notificationService.GetUserNotifications(user.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	err = notificationService.MarkAsRead(other.ID, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_NotifyFishSoldOut_FansOutToFavoriteHolders(t *testing.T) {
	notificationService, testDB, user := setupNotificationServiceTest(t)
	fish := createTestFish(t, testDB, "Clownfish", 10.0, 0)

	second := &model.User{
		Email:        "fan@example.com",
		PasswordHash: "hash",
		Name:         "Fan",
		Role:         model.RoleUser,
	}
	testDB.Create(second)

	bystander := &model.User{
		Email:        "bystander@example.com",
		PasswordHash: "hash",
		Name:         "Bystander",
		Role:         model.RoleUser,
	}
	testDB.Create(bystander)

	// The first user favorited the fish twice; fan-out still delivers once
	testDB.Create(&model.Favorite{UserID: user.ID, FishID: fish.ID})
	testDB.Create(&model.Favorite{UserID: user.ID, FishID: fish.ID})
	testDB.Create(&model.Favorite{UserID: second.ID, FishID: fish.ID})

	notificationService.NotifyFishSoldOut(fish)

	firstList, err := notificationService.GetUserNotifications(user.ID, false)
	require.NoError(t, err)
	assert.Len(t, firstList, 1)
	assert.Contains(t, firstList[0].Message, "Clownfish")

	secondList, err := notificationService.GetUserNotifications(second.ID, false)
	require.NoError(t, err)
	assert.Len(t, secondList, 1)

	bystanderList, err := notificationService.GetUserNotifications(bystander.ID, false)
	require.NoError(t, err)
	assert.Len(t, bystanderList, 0)
}

func TestOrderConfirmation_DeliversNotifications(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	notificationService := NewNotificationService(notificationRepo, favoriteRepo)
	orderService := NewOrderService(orderRepo, fishRepo, cartRepo, testDB, notificationService)

	buyer := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer", Role: model.RoleUser}
	testDB.Create(buyer)
	fan := &model.User{Email: "fan@example.com", PasswordHash: "hash", Name: "Fan", Role: model.RoleUser}
	testDB.Create(fan)

	fish := createTestFish(t, testDB, "Clownfish", 10.0, 2)
	testDB.Create(&model.Favorite{UserID: fan.ID, FishID: fish.ID})

	order, err := orderService.CreateOrder(buyer.ID, []OrderLineInput{
		{FishID: fish.ID, Quantity: 2},
	})
	require.NoError(t, err)

	_, err = orderService.ConfirmOrder(buyer.ID, order.ID)
	require.NoError(t, err)

	// The buyer hears about the confirmation
	buyerList, err := notificationService.GetUserNotifications(buyer.ID, false)
	require.NoError(t, err)
	require.Len(t, buyerList, 1)
	assert.Equal(t, "Order confirmed", buyerList[0].Title)

	// The confirmation sold the fish out, so favorite holders hear too
	fanList, err := notificationService.GetUserNotifications(fan.ID, false)
	require.NoError(t, err)
	require.Len(t, fanList, 1)
	assert.Equal(t, "Fish sold out", fanList[0].Title)
}
