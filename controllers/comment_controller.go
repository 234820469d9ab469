package controllers

import (
	"errors"
	"net/http"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
)

type CommentController struct {
	Comments *services.CommentService
	Log      *logger.Logger
}

type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

func NewCommentController(comments *services.CommentService, log *logger.Logger) *CommentController {
	return &CommentController{Comments: comments, Log: log}
}

// Add godoc
// @Summary Comment on a post
// @Description Creates a comment and redirects to the post. Invalid input is ignored.
// @Tags comments
// @Accept json
// @Param id path int true "Post ID"
// @Router /posts/{id}/comment/ [post]
func (cc *CommentController) Add(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	user := utils.GetUser(c)

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, postDetailPath(postID))
		return
	}

	_, err := cc.Comments.AddComment(c.Request.Context(), postID, user.UserID, req.Text)
	var verr *services.ValidationError
	if err != nil && !errors.As(err, &verr) {
		respondServiceError(c, cc.Log, err, postID)
		return
	}
	c.Redirect(http.StatusSeeOther, postDetailPath(postID))
}

// EditForm returns the comment to its author.
func (cc *CommentController) EditForm(c *gin.Context) {
	cc.ownedComment(c)
}

func (cc *CommentController) Edit(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	viewerID := utils.ViewerID(c)
	ctx := c.Request.Context()
	if _, err := cc.Comments.GetOwnedComment(ctx, postID, commentID, viewerID); err != nil {
		respondServiceError(c, cc.Log, err, postID)
		return
	}

	var req CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if _, err := cc.Comments.UpdateComment(ctx, postID, commentID, viewerID, req.Text); err != nil {
		respondServiceError(c, cc.Log, err, postID)
		return
	}
	c.Redirect(http.StatusSeeOther, postDetailPath(postID))
}

// DeleteForm returns the comment to its author for confirmation.
func (cc *CommentController) DeleteForm(c *gin.Context) {
	cc.ownedComment(c)
}

func (cc *CommentController) Delete(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	if err := cc.Comments.DeleteComment(c.Request.Context(), postID, commentID, utils.ViewerID(c)); err != nil {
		respondServiceError(c, cc.Log, err, postID)
		return
	}
	c.Redirect(http.StatusSeeOther, postDetailPath(postID))
}

func (cc *CommentController) ownedComment(c *gin.Context) {
	postID, commentID, ok := commentParams(c)
	if !ok {
		return
	}
	comment, err := cc.Comments.GetOwnedComment(c.Request.Context(), postID, commentID, utils.ViewerID(c))
	if err != nil {
		respondServiceError(c, cc.Log, err, postID)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: comment})
}

func commentParams(c *gin.Context) (uint, uint, bool) {
	postID, ok := idParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return 0, 0, false
	}
	return postID, commentID, true
}
