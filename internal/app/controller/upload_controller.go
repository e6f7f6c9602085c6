package controller

import (
	"net/http"

	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/dkim/aquamarket-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

type UploadController struct {
	s3Storage *storage.S3Storage
}

func NewUploadController(s3Storage *storage.S3Storage) *UploadController {
	return &UploadController{
		s3Storage: s3Storage,
	}
}

type PresignedUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// CreatePresignedUpload issues a presigned PUT URL for a fish image
// POST /api/v1/upload/presigned
func (ctrl *UploadController) CreatePresignedUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PresignedUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.s3Storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Upload rejected: content type not allowed", map[string]interface{}{
			"user_id":      userID,
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image uploads are allowed")
		return
	}

	result, err := ctrl.s3Storage.GeneratePresignedURL(req.Filename, req.ContentType, "fish-images")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"user_id":  userID,
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	log.Info("Presigned upload URL issued", map[string]interface{}{
		"user_id": userID,
		"key":     result.Key,
	})

	c.JSON(http.StatusOK, result)
}
