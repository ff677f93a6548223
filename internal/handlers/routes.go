package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RpheeD/ClassMate/internal/middleware"
	"github.com/RpheeD/ClassMate/internal/services"
	"github.com/RpheeD/ClassMate/internal/utils"
	"github.com/RpheeD/ClassMate/internal/ws"
)

// SetupRoutes mounts every route on the engine. Session and CORS
// middleware are the caller's concern so tests can mount the exact same
// surface with their own limiter.
func SetupRoutes(r *gin.Engine, hub *ws.Hub, refresher *services.Refresher, cache *utils.Cache, limiter *middleware.IPRateLimiter) {
	authHandler := NewAuthHandler()
	postHandler := NewPostHandler(refresher, cache)
	commentHandler := NewCommentHandler(refresher)
	profileHandler := NewProfileHandler()

	r.Use(middleware.LoadUser())

	// Session
	r.POST("/signup", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/me", authHandler.Me)

	// Public reads
	api := r.Group("/api")
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:pid", postHandler.Detail)
	api.GET("/posts/:pid/comments", commentHandler.List)

	// Authenticated
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", middleware.RateLimit(limiter), postHandler.Create)
		authorized.PUT("/posts/:pid", postHandler.Update)
		authorized.DELETE("/posts/:pid", postHandler.Delete)
		authorized.POST("/posts/:pid/comments", middleware.RateLimit(limiter), commentHandler.Create)
		authorized.GET("/me/posts", postHandler.ListMine)
		authorized.GET("/profile", profileHandler.Get)
		authorized.PUT("/profile", profileHandler.Save)
	}

	// Live query subscriptions
	r.GET("/ws", func(c *gin.Context) {
		ws.Serve(hub, c.Writer, c.Request)
	})
}
