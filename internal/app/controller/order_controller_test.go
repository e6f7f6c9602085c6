package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Fish) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(orderRepo, fishRepo, cartRepo, testDB)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Buyer",
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

	return orderController, router, testDB, user, fish
}

func createDraftOrder(t *testing.T, testDB *gorm.DB, user *model.User, fish *model.Fish, quantity int) *model.Order {
	t.Helper()
	orderRepo := repository.NewOrderRepository(testDB)
	fishRepo := repository.NewFishRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(orderRepo, fishRepo, cartRepo, testDB)

	order, err := orderService.CreateOrder(user.ID, []service.OrderLineInput{
		{FishID: fish.ID, Quantity: quantity},
	})
	require.NoError(t, err)
	return order
}

func TestOrderController_CreateOrder(t *testing.T) {
	controller, router, _, user, fish := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"lines": []map[string]interface{}{
			{"fish_id": fish.ID, "quantity": 2},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 20.0, response["total_price"])

	order := response["order"].(map[string]interface{})
	assert.Equal(t, "draft", order["status"])
}

func TestOrderController_ConfirmOrder(t *testing.T) {
	controller, router, testDB, user, fish := setupOrderControllerTest(t)
	order := createDraftOrder(t, testDB, user, fish, 3)

	router.POST("/orders/:id/confirm", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ConfirmOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/"+itoa(order.ID)+"/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 30.0, response["total_price"])

	confirmed := response["order"].(map[string]interface{})
	assert.Equal(t, "confirmed", confirmed["status"])
}

func TestOrderController_ConfirmOrder_InsufficientStock(t *testing.T) {
	controller, router, testDB, user, fish := setupOrderControllerTest(t)
	order := createDraftOrder(t, testDB, user, fish, 9)

	router.POST("/orders/:id/confirm", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ConfirmOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/"+itoa(order.ID)+"/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	// The shortage list rides along in the error details
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	details := response["details"].([]interface{})
	require.Len(t, details, 1)

	shortage := details[0].(map[string]interface{})
	assert.Equal(t, "Clownfish", shortage["fish_name"])
	assert.Equal(t, float64(9), shortage["requested"])
	assert.Equal(t, float64(5), shortage["available"])
}

func TestOrderController_ConfirmOrder_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders/:id/confirm", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ConfirmOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/9999/confirm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_GetOrders(t *testing.T) {
	controller, router, testDB, user, fish := setupOrderControllerTest(t)
	createDraftOrder(t, testDB, user, fish, 1)
	createDraftOrder(t, testDB, user, fish, 2)

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
}
