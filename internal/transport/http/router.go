package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"quizbot/internal/chat"
)

// ReadyCheck reports whether backing services are reachable.
type ReadyCheck func(ctx context.Context) error

// DefaultAllowedOrigins is the local SPA dev server.
var DefaultAllowedOrigins = []string{"http://localhost:4200", "https://localhost:4200"}

// NewRouter wires the chat surface and tool endpoints onto a gin engine.
func NewRouter(assistant *chat.Assistant, allowedOrigins []string, ready ReadyCheck) *gin.Engine {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "quizbot",
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	ws := NewWSHandler(assistant, allowedOrigins)
	router.GET("/ws", ws.ServeWS)

	tools := NewToolHandler(assistant)
	api := router.Group("/api/quiz")
	api.POST("/start", tools.Start)
	api.POST("/answer", tools.Answer)
	api.POST("/status", tools.Status)
	api.POST("/end", tools.End)
	api.GET("/categories", tools.Categories)

	return router
}
