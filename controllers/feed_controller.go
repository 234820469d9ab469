package controllers

import (
	"net/http"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/storage"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
)

type FeedController struct {
	Feed   *services.FeedService
	Images storage.ImageStore
	Log    *logger.Logger
}

func NewFeedController(feed *services.FeedService, images storage.ImageStore, log *logger.Logger) *FeedController {
	return &FeedController{Feed: feed, Images: images, Log: log}
}

// Index godoc
// @Summary Public feed
// @Description Published posts in published (or no) categories whose pub_date has passed, newest first
// @Tags feed
// @Produce json
// @Param page query string false "Page number or \"last\""
// @Router / [get]
func (fc *FeedController) Index(c *gin.Context) {
	fc.list(c, services.AllPosts())
}

// Category lists the public posts of one published category.
func (fc *FeedController) Category(c *gin.Context) {
	fc.list(c, services.ByCategory(c.Param("slug")))
}

// Profile lists a user's posts. The owner also sees drafts and scheduled
// posts.
func (fc *FeedController) Profile(c *gin.Context) {
	fc.list(c, services.ByAuthor(c.Param("username"), utils.ViewerID(c)))
}

func (fc *FeedController) list(c *gin.Context, filter services.FeedFilter) {
	page, err := fc.Feed.ListPosts(c.Request.Context(), filter, c.Query("page"))
	if err != nil {
		respondServiceError(c, fc.Log, err, 0)
		return
	}

	for i := range page.Posts {
		decoratePost(fc.Images, &page.Posts[i])
	}

	meta := gin.H{}
	if page.Category != nil {
		meta["category"] = page.Category
	}
	if page.Profile != nil {
		meta["profile"] = page.Profile
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       page.Posts,
		Meta:       meta,
		Pagination: newPaginationMeta(page.Page),
	})
}
