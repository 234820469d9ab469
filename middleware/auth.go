package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/blogicum/api-go/utils"

	"github.com/gin-gonic/gin"
)

// LoadSession attaches the caller's claims when a valid session token is
// presented, either as the session cookie or as a bearer token. Requests
// without one continue anonymously.
func LoadSession(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(utils.SessionCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseSessionToken(secret, token)
		if err == nil {
			c.Set(string(utils.UserContextKey), claims)
		}
		c.Next()
	}
}

// RequireLogin redirects anonymous callers to loginURL with the current
// path in "next".
func RequireLogin(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUser(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, LoginRedirect(loginURL, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func LoginRedirect(loginURL, next string) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "next=" + url.QueryEscape(next)
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
