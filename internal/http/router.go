// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wayfare/internal/http/handlers"
	"wayfare/internal/http/middleware"
	"wayfare/internal/service"
	"wayfare/pkg/logger"
)

func NewRouter(assistant *service.Assistant, historyLimit int, log logger.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))

	chatHandler := handlers.NewChatHandler(assistant)
	r.POST("/api/chat", chatHandler.Chat)

	historyHandler := handlers.NewHistoryHandler(assistant, historyLimit)
	r.GET("/api/history", historyHandler.Recent)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
