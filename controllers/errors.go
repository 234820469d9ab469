package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/gin-gonic/gin"
)

func postDetailPath(postID uint) string {
	return fmt.Sprintf("/posts/%d/", postID)
}

func profilePath(username string) string {
	return fmt.Sprintf("/profile/%s/", username)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Message: message, Code: code},
	})
}

// respondServiceError maps a service error to its HTTP outcome. A caller
// who is not the author is sent back to the post's detail page.
func respondServiceError(c *gin.Context, log *logger.Logger, err error, detailPostID uint) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, services.ErrNotAuthor):
		c.Redirect(http.StatusSeeOther, postDetailPath(detailPostID))
		c.Abort()
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorBody{Message: "Please correct the errors below.", Code: "validation_failed", Fields: verr.Fields},
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		_ = c.Error(err)
		log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		abortWithError(c, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

func respondBindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "bad_request", err.Error())
}
