// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trailmate/internal/http/handlers"
	"trailmate/internal/http/middleware"
	"trailmate/internal/infra"
	"trailmate/internal/metrics"
)

func NewRouter(dialogue handlers.Dialogue, verifier infra.TokenVerifier, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	chatHandler := handlers.NewChatHandler(dialogue)
	chat := r.Group("/chat", middleware.Auth(verifier))
	chat.POST("", chatHandler.Chat)
	chat.GET("/:sessionId", chatHandler.Info)
	chat.GET("/:sessionId/history", chatHandler.History)
	chat.DELETE("/:sessionId", chatHandler.Clear)

	r.GET("/stats", chatHandler.Stats)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}
