package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(site *gin.RouterGroup, requireLogin gin.HandlerFunc, userController *controllers.UserController) {
	profile := site.Group("/profile/:username", requireLogin)
	{
		profile.GET("/edit", userController.EditProfileForm)
		profile.POST("/edit", userController.EditProfile)
	}
}
