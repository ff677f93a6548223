package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/RpheeD/ClassMate/internal/config"
	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/handlers"
	"github.com/RpheeD/ClassMate/internal/middleware"
	"github.com/RpheeD/ClassMate/internal/services"
	"github.com/RpheeD/ClassMate/internal/utils"
	"github.com/RpheeD/ClassMate/internal/ws"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}
	cfg := config.Load()

	// Initialize Database
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Live subscription hub and the refresh worker feeding it
	hub := ws.NewHub(services.BuildSnapshot)
	go hub.Run()
	refresher := services.NewRefresher(hub)
	go refresher.Run()

	cache, err := utils.NewCache(500)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	r := gin.Default()

	// Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("classmate_session", store))

	// One origin policy for both the REST and websocket surfaces
	ws.AllowOrigin(cfg.CORSOrigin)

	// CORS for the mobile/web clients
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	// One post or comment every 3 seconds per IP, small burst
	limiter := middleware.NewIPRateLimiter(rate.Limit(1.0/3.0), 5)

	handlers.SetupRoutes(r, hub, refresher, cache, limiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("ClassMate server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
