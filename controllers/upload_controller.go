package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/storage"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
)

const presignTTL = time.Hour

type UploadController struct {
	Images storage.ImageStore
	Log    *logger.Logger
	Now    func() time.Time
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadCompleteRequest struct {
	Key string `json:"key" binding:"required"`
}

// NewUploadController accepts a nil store; every endpoint then answers 503.
func NewUploadController(images storage.ImageStore, log *logger.Logger) *UploadController {
	return &UploadController{Images: images, Log: log, Now: time.Now}
}

func (uc *UploadController) enabled(c *gin.Context) bool {
	if uc.Images == nil {
		abortWithError(c, http.StatusServiceUnavailable, "storage_disabled", "Image uploads are not configured")
		return false
	}
	return true
}

// GetPresignedURL godoc
// @Summary Presigned upload URL for a post image
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body PresignedURLRequest true "File to upload"
// @Router /uploads/presigned-url [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	if !uc.enabled(c) {
		return
	}
	user := utils.GetUser(c)
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if !storage.IsAllowedImage(req.ContentType, req.FileSize) {
		abortWithError(c, http.StatusBadRequest, "invalid_file", "Only JPEG, PNG, WebP or GIF images up to 10 MB are accepted")
		return
	}

	key := storage.PostImageKey(user.UserID, req.FileName, uc.Now())
	uploadURL, err := uc.Images.PresignUpload(c.Request.Context(), key, req.ContentType, presignTTL)
	if err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: uploadURL,
			FileURL:   uc.Images.PublicURL(key),
			Key:       key,
			ExpiresIn: int(presignTTL.Seconds()),
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload checks that an uploaded image arrived before a post points
// at it.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	if !uc.enabled(c) {
		return
	}
	user := utils.GetUser(c)
	var req UploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !storage.OwnsKey(req.Key, user.UserID) {
		abortWithError(c, http.StatusForbidden, "forbidden", "Unknown image")
		return
	}

	exists, err := uc.Images.Exists(c.Request.Context(), req.Key)
	if err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return
	}
	if !exists {
		abortWithError(c, http.StatusNotFound, "not_found", "File not found in storage")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"key": req.Key, "fileUrl": uc.Images.PublicURL(req.Key)},
		Message: "Upload confirmed successfully",
	})
}

// DeleteFile removes an image the caller uploaded but no longer needs.
func (uc *UploadController) DeleteFile(c *gin.Context) {
	if !uc.enabled(c) {
		return
	}
	user := utils.GetUser(c)
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !storage.OwnsKey(key, user.UserID) {
		abortWithError(c, http.StatusForbidden, "forbidden", "Unknown image")
		return
	}
	if err := uc.Images.Delete(c.Request.Context(), key); err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "File deleted successfully"})
}
