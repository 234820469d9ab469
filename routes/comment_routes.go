package routes

import (
	"github.com/blogicum/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupCommentRoutes(site *gin.RouterGroup, requireLogin gin.HandlerFunc, commentController *controllers.CommentController) {
	posts := site.Group("/posts/:id")
	{
		posts.POST("/comment/", requireLogin, commentController.Add)
		posts.GET("/edit_comment/:comment_id/", commentController.EditForm)
		posts.POST("/edit_comment/:comment_id/", commentController.Edit)
		posts.GET("/delete_comment/:comment_id/", commentController.DeleteForm)
		posts.POST("/delete_comment/:comment_id/", commentController.Delete)
	}
}
