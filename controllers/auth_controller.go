package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "blogicum_oauth_state"

// SessionSettings controls how session tokens are issued.
type SessionSettings struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

type AuthController struct {
	Users        *services.UserService
	GoogleConfig *config.GoogleConfig
	Session      SessionSettings
	Log          *logger.Logger
	Now          func() time.Time
}

type RegisterRequest struct {
	Username  string `json:"username" form:"username" binding:"required"`
	Password  string `json:"password" form:"password" binding:"required"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Bio       string `json:"bio" form:"bio"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required"`
}

// NewAuthController accepts a nil google config; the Google routes then
// answer 404.
func NewAuthController(users *services.UserService, google *config.GoogleConfig, session SessionSettings, log *logger.Logger) *AuthController {
	return &AuthController{
		Users:        users,
		GoogleConfig: google,
		Session:      session,
		Log:          log,
		Now:          time.Now,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	_, err := ac.Users.Register(c.Request.Context(), services.RegisterInput{
		ProfileInput: services.ProfileInput{
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Bio:       req.Bio,
		},
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// LoginForm describes the login form and echoes the return path.
func (ac *AuthController) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Meta: gin.H{
			"fields": []string{"username", "password"},
			"next":   safeNext(c.Query("next")),
			"google": ac.GoogleConfig != nil,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	next := req.Next
	if next == "" {
		next = c.Query("next")
	}

	user, err := ac.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	if err := ac.startSession(c, user.ID, user.Username); err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	ac.Log.Info("User logged in", "user_id", user.ID)
	c.Redirect(http.StatusSeeOther, safeNext(next))
}

func (ac *AuthController) Logout(c *gin.Context) {
	ac.setCookie(c, utils.SessionCookieName, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}

// PasswordChange sets a new password for the signed-in user and reissues
// the session cookie.
func (ac *AuthController) PasswordChange(c *gin.Context) {
	user := utils.GetUser(c)
	var req PasswordChangeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ac.Users.ChangePassword(c.Request.Context(), user.UserID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	if err := ac.startSession(c, user.UserID, user.Username); err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Google sign-in is not configured")
		return
	}
	state := uuid.New().String()
	ac.setCookie(c, oauthStateCookie, state, 600)
	c.Redirect(http.StatusFound, ac.GoogleConfig.AuthCodeURL(state))
}

func (ac *AuthController) GoogleCallback(c *gin.Context) {
	if ac.GoogleConfig == nil {
		abortWithError(c, http.StatusNotFound, "not_found", "Google sign-in is not configured")
		return
	}
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		abortWithError(c, http.StatusBadRequest, "invalid_state", "Invalid OAuth state")
		return
	}
	ac.setCookie(c, oauthStateCookie, "", -1)

	ctx := c.Request.Context()
	token, err := ac.GoogleConfig.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		ac.Log.Warn("Google code exchange failed", "error", err)
		abortWithError(c, http.StatusUnauthorized, "invalid_credentials", "Failed to exchange code for token")
		return
	}
	info, err := ac.GoogleConfig.GetUserInfo(ctx, token)
	if err != nil {
		ac.Log.Warn("Google user info failed", "error", err)
		abortWithError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid Google token")
		return
	}

	user, err := ac.Users.SignInWithGoogle(ctx, info)
	if err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	if err := ac.startSession(c, user.ID, user.Username); err != nil {
		respondServiceError(c, ac.Log, err, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ac *AuthController) startSession(c *gin.Context, userID uint, username string) error {
	token, err := utils.IssueSessionToken(ac.Session.Secret, userID, username, ac.Session.TTL, ac.Now())
	if err != nil {
		return err
	}
	ac.setCookie(c, utils.SessionCookieName, token, int(ac.Session.TTL.Seconds()))
	return nil
}

func (ac *AuthController) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", ac.Session.Secure, true)
}

// safeNext keeps redirects on this site: only absolute paths without a
// host are honoured.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}
