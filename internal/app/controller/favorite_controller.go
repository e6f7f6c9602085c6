package controller

import (
	"errors"
	"net/http"

	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type AddFavoriteRequest struct {
	FishID uint `json:"fish_id" binding:"required"`
}

// GetFavorites lists the user's favorites
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	favorites, err := ctrl.favoriteService.GetUserFavorites(userID)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// AddFavorite records a favorite for the user
// POST /api/v1/favorites
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	favorite, err := ctrl.favoriteService.AddFavorite(userID, req.FishID)
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": req.FishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"favorite": favorite,
	})
}

// RemoveFavorite deletes the user's favorites for a fish
// DELETE /api/v1/favorites/:fish_id
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
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

	if err := ctrl.favoriteService.RemoveFavorite(userID, fishID); err != nil {
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Favorite removed successfully",
	})
}
