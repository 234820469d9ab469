package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/storage"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
)

type PostController struct {
	Posts   *services.PostService
	Users   *services.UserService
	Catalog *services.CatalogService
	Images  storage.ImageStore
	Log     *logger.Logger
}

// PostRequest is the post form. Bound from JSON or form data.
type PostRequest struct {
	Title       string    `json:"title" form:"title"`
	Text        string    `json:"text" form:"text"`
	PubDate     string    `json:"pub_date" form:"pub_date"`
	CategoryID  *uint     `json:"category_id" form:"category_id"`
	LocationID  *uint     `json:"location_id" form:"location_id"`
	IsPublished *Checkbox `json:"is_published" form:"is_published"`
	Image       *string   `json:"image" form:"image"`
}

// Checkbox is a boolean form field. Browsers submit a ticked box as "on".
type Checkbox bool

func (b *Checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "true", "1", "yes":
		*b = true
	case "", "off", "false", "0", "no":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q", param)
	}
	return nil
}

func (b *Checkbox) value() *bool {
	if b == nil {
		return nil
	}
	v := bool(*b)
	return &v
}

var pubDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parsePubDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, &services.ValidationError{Fields: map[string]string{"pub_date": "Enter a valid date/time."}}
}

// Input converts the request to service input. An empty or zero foreign
// key means "none".
func (r PostRequest) Input() (services.PostInput, error) {
	pubDate, err := parsePubDate(r.PubDate)
	if err != nil {
		return services.PostInput{}, err
	}
	return services.PostInput{
		Title:       r.Title,
		Text:        r.Text,
		PubDate:     pubDate,
		CategoryID:  nonZero(r.CategoryID),
		LocationID:  nonZero(r.LocationID),
		IsPublished: r.IsPublished.value(),
		Image:       r.Image,
	}, nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func NewPostController(posts *services.PostService, users *services.UserService, catalog *services.CatalogService, images storage.ImageStore, log *logger.Logger) *PostController {
	return &PostController{Posts: posts, Users: users, Catalog: catalog, Images: images, Log: log}
}

// idParam reads a positive numeric path parameter. Anything else is a 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, http.StatusNotFound, "not_found", "Not found")
		return 0, false
	}
	return uint(id), true
}

// Detail godoc
// @Summary Post detail
// @Description A post with its comments, oldest first. Hidden posts are 404 for everyone but their author.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Router /posts/{id}/ [get]
func (pc *PostController) Detail(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	post, comments, err := pc.Posts.GetPostDetail(c.Request.Context(), postID, utils.ViewerID(c))
	if err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}
	decoratePost(pc.Images, post)

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    post,
		Meta:    gin.H{"comments": comments},
	})
}

// CreateForm returns the choices the post form offers.
func (pc *PostController) CreateForm(c *gin.Context) {
	categories, locations, err := pc.Catalog.FormChoices(c.Request.Context())
	if err != nil {
		respondServiceError(c, pc.Log, err, 0)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Meta:    gin.H{"categories": categories, "locations": locations},
	})
}

func (pc *PostController) Create(c *gin.Context) {
	user := utils.GetUser(c)
	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		respondServiceError(c, pc.Log, err, 0)
		return
	}

	ctx := c.Request.Context()
	if _, err := pc.Posts.CreatePost(ctx, user.UserID, in); err != nil {
		respondServiceError(c, pc.Log, err, 0)
		return
	}

	author, err := pc.Users.GetByID(ctx, user.UserID)
	if err != nil {
		respondServiceError(c, pc.Log, err, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, profilePath(author.Username))
}

// EditForm returns the post to its author for prefilling the form.
func (pc *PostController) EditForm(c *gin.Context) {
	pc.ownedPost(c)
}

func (pc *PostController) Edit(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	// Ownership is checked before the form is looked at.
	viewerID := utils.ViewerID(c)
	ctx := c.Request.Context()
	if _, err := pc.Posts.GetOwnedPost(ctx, postID, viewerID); err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}

	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	in, err := req.Input()
	if err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}
	if _, err := pc.Posts.UpdatePost(ctx, postID, viewerID, in); err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}
	c.Redirect(http.StatusSeeOther, postDetailPath(postID))
}

// DeleteForm returns the post to its author for the confirmation page.
func (pc *PostController) DeleteForm(c *gin.Context) {
	pc.ownedPost(c)
}

func (pc *PostController) Delete(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := pc.Posts.DeletePost(c.Request.Context(), postID, utils.ViewerID(c)); err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (pc *PostController) ownedPost(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := pc.Posts.GetOwnedPost(c.Request.Context(), postID, utils.ViewerID(c))
	if err != nil {
		respondServiceError(c, pc.Log, err, postID)
		return
	}
	decoratePost(pc.Images, post)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: post})
}
