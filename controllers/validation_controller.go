package controllers

import (
	"net/http"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/gin-gonic/gin"
)

type ValidationController struct {
	Users *services.UserService
	Log   *logger.Logger
}

func NewValidationController(users *services.UserService, log *logger.Logger) *ValidationController {
	return &ValidationController{Users: users, Log: log}
}

func (vc *ValidationController) ValidateUsername(c *gin.Context) {
	exists, err := vc.Users.UsernameExists(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, vc.Log, err, 0)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
