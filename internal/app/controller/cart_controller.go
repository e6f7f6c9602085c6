package controller

import (
	"errors"
	"net/http"

	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	FishID uint `json:"fish_id" binding:"required"`
}

// GetCart returns the user's cart with its live total
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	view, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddItem puts a fish into the cart; re-adding is a no-op
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add cart item request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	view, err := ctrl.cartService.AddItem(userID, req.FishID)
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to add fish to cart", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": req.FishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Fish added to cart", map[string]interface{}{
		"user_id": userID,
		"fish_id": req.FishID,
	})

	c.JSON(http.StatusOK, view)
}

// RemoveItem takes a fish out of the cart
// DELETE /api/v1/cart/items/:fish_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	fishID, ok := parseIDParam(c, "fish_id")
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveItem(userID, fishID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) || errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Fish is not in the cart")
			return
		}
		log.Error("Failed to remove fish from cart", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// EmptyCart clears the cart; emptying an empty cart succeeds
// DELETE /api/v1/cart
func (ctrl *CartController) EmptyCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.EmptyCart(userID); err != nil {
		log.Error("Failed to empty cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart emptied successfully",
	})
}
