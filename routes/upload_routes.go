package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUploadRoutes(site *gin.RouterGroup, requireLogin gin.HandlerFunc, uploadController *controllers.UploadController) {
	uploads := site.Group("/uploads", requireLogin)
	{
		uploads.POST("/presigned-url", uploadController.GetPresignedURL)
		uploads.POST("/confirm", uploadController.ConfirmUpload)
		uploads.DELETE("/*key", uploadController.DeleteFile)
	}
}
