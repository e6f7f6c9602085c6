package controller

import (
	"errors"
	"net/http"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CreateOrderRequest struct {
	Lines []service.OrderLineInput `json:"lines" binding:"required"`
}

// orderResponse decorates an order with its live total.
func orderResponse(order *model.Order) gin.H {
	return gin.H{
		"order":       order,
		"total_price": order.TotalPrice(),
	}
}

// GetOrders lists the user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// CreateOrder opens a draft order from explicit lines
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, req.Lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderEmpty):
			apperrors.BadRequest(c, apperrors.OrderEmpty, "Order must contain at least one line")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Line quantity must be positive")
		case errors.Is(err, service.ErrFishNotFound):
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})

	c.JSON(http.StatusCreated, orderResponse(order))
}

// CreateOrderFromCart turns the cart into a draft order
// POST /api/v1/orders/from-cart
func (ctrl *OrderController) CreateOrderFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	order, err := ctrl.orderService.CreateOrderFromCart(userID)
	if err != nil {
		if errors.Is(err, service.ErrCartEmpty) {
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
			return
		}
		log.Error("Failed to create order from cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Order created from cart", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})

	c.JSON(http.StatusCreated, orderResponse(order))
}

// ConfirmOrder commits a draft order's stock atomically
// POST /api/v1/orders/:id/confirm
func (ctrl *OrderController) ConfirmOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.ConfirmOrder(userID, orderID)
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			log.Warn("Order confirmation blocked by stock", map[string]interface{}{
				"user_id":        userID,
				"order_id":       orderID,
				"shortage_count": len(stockErr.Shortages),
			})
			apperrors.RespondWithDetails(c, http.StatusConflict, apperrors.OrderInsufficientStock,
				"Insufficient stock for one or more fish", stockErr.Shortages)
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAlreadyConfirmed):
			apperrors.Conflict(c, apperrors.OrderAlreadyConfirmed, "Order is already confirmed")
		case errors.Is(err, service.ErrOrderEmpty):
			apperrors.BadRequest(c, apperrors.OrderEmpty, "Order has no lines")
		case errors.Is(err, service.ErrFishNotFound):
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish referenced by order no longer exists")
		default:
			log.Error("Failed to confirm order", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Order confirmed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total_price":  order.TotalPrice(),
	})

	c.JSON(http.StatusOK, orderResponse(order))
}
