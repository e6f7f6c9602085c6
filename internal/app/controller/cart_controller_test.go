package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/app/service"
	"github.com/dkim/aquamarket-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Fish) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	cartService := service.NewCartService(cartRepo, fishRepo)
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	fish := &model.Fish{
		Name:          "Clownfish",
		Species:       "Amphiprion ocellaris",
		Size:          8.5,
		Price:         10.0,
		StockQuantity: 5,
		IsAvailable:   true,
	}
	testDB.Create(fish)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, fish
}

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestCartController_GetCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["item_count"])
	assert.Equal(t, float64(0), response["total_price"])
}

func TestCartController_AddItem(t *testing.T) {
	controller, router, _, user, fish := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(map[string]interface{}{"fish_id": fish.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["item_count"])
	assert.Equal(t, 10.0, response["total_price"])
}

func TestCartController_AddItem_FishNotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/items", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddItem(c)
	})

	body, _ := json.Marshal(map[string]interface{}{"fish_id": 9999})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_RemoveItem_NotInCart(t *testing.T) {
	controller, router, testDB, user, fish := setupCartControllerTest(t)

	// The user has a cart, but the fish is not in it
	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Create(&model.ShoppingCart{UserID: user.ID}))

	router.DELETE("/cart/items/:fish_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveItem(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/"+itoa(fish.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.EmptyCart(c)
	})

	// Emptying with no cart still succeeds
	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
