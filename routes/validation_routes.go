package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupValidationRoutes(site *gin.RouterGroup, validationController *controllers.ValidationController) {
	validation := site.Group("/auth/validation")
	{
		validation.GET("/username/:username", validationController.ValidateUsername)
	}
}
