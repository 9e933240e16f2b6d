package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/session"
)

// NewServer builds the HTTP server: entry and room-view endpoints plus the WebSocket relay.
func NewServer(hub *core.Hub, lobby *core.Lobby, rooms *core.Registry, tokens *session.TokenConfig, cfg *config.Config, logger *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.Header("X-Active-Rooms", strconv.Itoa(rooms.Len()))
		c.String(http.StatusOK, "ok")
	})

	sessions := SessionMiddleware(tokens, cfg.SessionCookie, cfg.SessionTTL, logger)
	entryHandlers := NewEntryHandlers(lobby, logger)
	roomHandlers := NewRoomHandlers(lobby, logger)
	wsHandler := NewWSHandler(hub, cfg, logger)

	api := router.Group("/api", sessions)
	{
		api.POST("/entry", entryHandlers.Enter)
		api.GET("/room", roomHandlers.GetRoom)
		api.DELETE("/session", roomHandlers.Leave)
	}
	router.GET("/ws", sessions, wsHandler.Handle)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
