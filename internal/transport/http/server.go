package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/meetrelay-server/internal/auth"
	"github.com/vovakirdan/meetrelay-server/internal/config"
	"github.com/vovakirdan/meetrelay-server/internal/core"
	"github.com/vovakirdan/meetrelay-server/internal/store"
)

// NewServer builds the HTTP server: REST API under /api/v1 and the
// WebSocket relay at /ws.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	api := NewAPIHandlers(authService, logger)
	meetings := NewMeetingHandlers(st, logger)

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthHandler)

	users := v1.Group("/users")
	users.POST("/register", api.Register)
	users.POST("/login", api.Login)
	users.POST("/guest", api.GuestLogin)

	history := v1.Group("/meetings")
	history.Use(AuthMiddleware(authService, logger))
	history.POST("", meetings.Add)
	history.GET("", meetings.List)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, authService, cfg.WSMessageRateLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
}
