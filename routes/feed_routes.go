package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupFeedRoutes(site *gin.RouterGroup, feedController *controllers.FeedController) {
	site.GET("/", feedController.Index)
	site.GET("/category/:slug/", feedController.Category)
	site.GET("/profile/:username/", feedController.Profile)
}
