package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
)

// RoomHandlers provides the room view and leave endpoints.
type RoomHandlers struct {
	lobby *core.Lobby
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(lobby *core.Lobby, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		lobby: lobby,
		log:   logger,
	}
}

// RoomResponse is the room view: its code and full history.
type RoomResponse struct {
	Code     string              `json:"code"`
	Messages []proto.ChatMessage `json:"messages"`
}

// GetRoom returns the session's room and its messages.
// GET /api/room
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	sessionID := c.GetString(ContextKeySessionID)

	view, err := h.lobby.RoomView(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, core.ErrInactiveSession) {
			ce := core.AsCoreError(err)
			c.JSON(http.StatusNotFound, ErrorResponse{Error: ce.Message, Code: ce.Code})
			return
		}
		h.log.Error().Err(err).Msg("failed to load room view")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, RoomResponse{
		Code:     view.Code,
		Messages: chatMessages(view.Messages),
	})
}

// Leave clears the session's room binding.
// DELETE /api/session
func (h *RoomHandlers) Leave(c *gin.Context) {
	if err := h.lobby.Leave(c.Request.Context(), c.GetString(ContextKeySessionID)); err != nil {
		h.log.Error().Err(err).Msg("failed to clear session")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
