package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

// Edit and delete are reachable anonymously; non-authors are redirected to
// the post by the controller.
func SetupPostRoutes(site *gin.RouterGroup, requireLogin gin.HandlerFunc, postController *controllers.PostController) {
	posts := site.Group("/posts")
	{
		posts.GET("/create/", requireLogin, postController.CreateForm)
		posts.POST("/create/", requireLogin, postController.Create)
		posts.GET("/:id/", postController.Detail)
		posts.GET("/:id/edit/", postController.EditForm)
		posts.POST("/:id/edit/", postController.Edit)
		posts.GET("/:id/delete/", postController.DeleteForm)
		posts.POST("/:id/delete/", postController.Delete)
	}
}
