package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/config"
	"github.com/codepair/codepair-server/internal/core"
	"github.com/codepair/codepair-server/internal/store"
	"github.com/codepair/codepair-server/internal/suggest"
)

// NewServer builds the HTTP server with REST and websocket routes.
func NewServer(
	registry *core.Registry,
	protocol *core.Protocol,
	st store.RoomStore,
	suggester *suggest.Service,
	cfg *config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/", statusHandler)
	router.GET("/health", healthHandler)

	roomHandlers := NewRoomHandlers(st, logger)
	suggestHandlers := NewSuggestHandlers(suggester, logger)

	api := router.Group("/api")
	{
		api.POST("/rooms", roomHandlers.CreateRoom)
		api.GET("/rooms/:roomId", roomHandlers.GetRoom)
		api.POST("/autocomplete", suggestHandlers.Autocomplete)
	}

	wsHandler := NewWSHandler(registry, protocol, st, cfg, logger)
	router.GET("/ws/:roomId", wsHandler.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func statusHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "ok", "message": "codepair server"})
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, gin.H{"status": "healthy"})
}
