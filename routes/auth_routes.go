package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(site *gin.RouterGroup, requireLogin gin.HandlerFunc, authController *controllers.AuthController) {
	auth := site.Group("/auth")
	{
		auth.POST("/registration/", authController.Register)
		auth.GET("/login/", authController.LoginForm)
		auth.POST("/login/", authController.Login)
		auth.POST("/logout/", authController.Logout)
		auth.POST("/password_change/", requireLogin, authController.PasswordChange)
		auth.GET("/google/login", authController.GoogleLogin)
		auth.GET("/google/callback", authController.GoogleCallback)
	}
}
