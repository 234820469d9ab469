package controllers

import (
	"net/http"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
	Log   *logger.Logger
}

type ProfileRequest struct {
	Username  string `json:"username" form:"username"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Bio       string `json:"bio" form:"bio"`
}

func NewUserController(users *services.UserService, log *logger.Logger) *UserController {
	return &UserController{Users: users, Log: log}
}

// EditProfileForm returns the viewer's own profile for prefilling the form.
func (uc *UserController) EditProfileForm(c *gin.Context) {
	if !uc.ownsProfile(c) {
		return
	}
	user, err := uc.Users.GetByID(c.Request.Context(), utils.ViewerID(c))
	if err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user})
}

func (uc *UserController) EditProfile(c *gin.Context) {
	if !uc.ownsProfile(c) {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.Users.UpdateProfile(c.Request.Context(), utils.ViewerID(c), services.ProfileInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, profilePath(user.Username))
}

// ownsProfile sends viewers editing someone else's profile to that
// profile's page.
func (uc *UserController) ownsProfile(c *gin.Context) bool {
	username := c.Param("username")
	viewer, err := uc.Users.GetByID(c.Request.Context(), utils.ViewerID(c))
	if err != nil {
		respondServiceError(c, uc.Log, err, 0)
		return false
	}
	if viewer.Username != username {
		c.Redirect(http.StatusSeeOther, profilePath(username))
		c.Abort()
		return false
	}
	return true
}
