package routes

import (
	"github.com/blogicum/api-go/config"
	"github.com/blogicum/api-go/controllers"
	"github.com/blogicum/api-go/logger"
	"github.com/blogicum/api-go/middleware"
	"github.com/blogicum/api-go/services"
	"github.com/blogicum/api-go/storage"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Dependencies is everything the HTTP layer needs. Images and Google may be
// nil when those integrations are not configured.
type Dependencies struct {
	Config   *config.Config
	Services *services.Services
	Images   storage.ImageStore
	Google   *config.GoogleConfig
	Log      *logger.Logger
}

// NewRouter builds the engine with the middleware stack and every route.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(deps.Config.Tracing.ServiceName))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORS(deps.Config.CORSAllowedOrigins))
	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	svc := deps.Services

	// Initialize controllers
	feedController := controllers.NewFeedController(svc.Feed, deps.Images, deps.Log)
	postController := controllers.NewPostController(svc.Posts, svc.Users, svc.Catalog, deps.Images, deps.Log)
	commentController := controllers.NewCommentController(svc.Comments, deps.Log)
	userController := controllers.NewUserController(svc.Users, deps.Log)
	authController := controllers.NewAuthController(svc.Users, deps.Google, controllers.SessionSettings{
		Secret: cfg.JWTSecret,
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}, deps.Log)
	validationController := controllers.NewValidationController(svc.Users, deps.Log)
	uploadController := controllers.NewUploadController(deps.Images, deps.Log)

	site := r.Group("/")
	site.Use(middleware.LoadSession(cfg.JWTSecret))
	requireLogin := middleware.RequireLogin(cfg.LoginURL)

	SetupAuthRoutes(site, requireLogin, authController)
	SetupValidationRoutes(site, validationController)
	SetupFeedRoutes(site, feedController)
	SetupPostRoutes(site, requireLogin, postController)
	SetupCommentRoutes(site, requireLogin, commentController)
	SetupUserRoutes(site, requireLogin, userController)
	SetupUploadRoutes(site, requireLogin, uploadController)
}
