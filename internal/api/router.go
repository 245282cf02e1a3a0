package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postline/postline/internal/api/pages"
	"github.com/postline/postline/internal/api/rest"
	"github.com/postline/postline/internal/auth"
	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/db"
	"github.com/postline/postline/internal/media"
	"github.com/postline/postline/pkg/config"
	"github.com/postline/postline/pkg/logging"
	"github.com/postline/postline/pkg/telemetry"
)

// Router sets up the page and REST routes
type Router struct {
	cfg    *config.Config
	db     *db.DB
	cache  *cache.Cache
	tokens *auth.Manager
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(cfg *config.Config, database *db.DB, pageCache *cache.Cache) *Router {
	return &Router{
		cfg:    cfg,
		db:     database,
		cache:  pageCache,
		tokens: auth.NewManager(cfg.Auth.Secret),
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all routes on the engine
func (r *Router) SetupRoutes(engine *gin.Engine) {
	repo := db.NewRepository(r.db.DB)
	mediaStore := media.NewStore(&r.cfg.Media)

	engine.Use(r.observe())
	engine.Use(r.tokens.Identify())

	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)
	engine.Static("/media", r.cfg.Media.Root)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(ErrRouteNotFound.Code, gin.H{"detail": ErrRouteNotFound.Message})
	})
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(ErrMethodNotAllowed.Code, gin.H{"detail": ErrMethodNotAllowed.Message})
	})

	// Page routes
	pageHandlers := pages.New(repo, r.cache, mediaStore, r.cfg)
	authHandlers := pages.NewAuthHandlers(pageHandlers, r.tokens)

	engine.GET("/", pageHandlers.Index)
	engine.GET("/group/:slug/", pageHandlers.GroupPosts)
	engine.GET("/profile/:username/", pageHandlers.Profile)
	engine.GET("/posts/:post_id/", pageHandlers.PostDetail)

	engine.POST("/auth/signup/", authHandlers.Signup)
	engine.GET("/auth/login/", authHandlers.LoginForm)
	engine.POST("/auth/login/", authHandlers.Login)
	engine.POST("/auth/refresh/", authHandlers.Refresh)
	engine.GET("/auth/me/", auth.RequireJSON(), authHandlers.Me)

	// Guarded page routes: anonymous callers are redirected to login
	guarded := engine.Group("/", auth.RequirePage())
	guarded.GET("/create/", pageHandlers.PostCreateForm)
	guarded.POST("/create/", pageHandlers.PostCreate)
	guarded.GET("/posts/:post_id/edit/", pageHandlers.PostEdit)
	guarded.POST("/posts/:post_id/edit/", pageHandlers.PostEdit)
	guarded.POST("/posts/:post_id/comment/", pageHandlers.AddComment)
	guarded.GET("/follow/", pageHandlers.FollowIndex)
	guarded.GET("/profile/:username/follow/", pageHandlers.FollowProfile)
	guarded.GET("/profile/:username/unfollow/", pageHandlers.UnfollowProfile)

	// REST surface: serializer validation only, no session guard
	postsAPI := rest.NewPostsAPI(repo)
	v1 := engine.Group("/api/v1")
	v1.GET("/posts", postsAPI.List)
	v1.POST("/posts", postsAPI.Create)
	v1.GET("/posts/:post_id", postsAPI.Retrieve)
	v1.PUT("/posts/:post_id", postsAPI.Update)
	v1.PATCH("/posts/:post_id", postsAPI.PartialUpdate)
	v1.DELETE("/posts/:post_id", postsAPI.Delete)
}

// observe traces requests and logs slow or failing ones
func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "http "+c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			r.logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Duration("elapsed", time.Since(start)))
		}
	}
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "postline-api",
	})
}
