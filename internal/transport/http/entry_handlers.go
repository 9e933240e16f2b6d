package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
)

// EntryHandlers provides the create/join endpoint.
type EntryHandlers struct {
	lobby *core.Lobby
	log   *zerolog.Logger
}

// NewEntryHandlers creates a new entry handlers instance.
func NewEntryHandlers(lobby *core.Lobby, logger *zerolog.Logger) *EntryHandlers {
	return &EntryHandlers{
		lobby: lobby,
		log:   logger,
	}
}

// EntryRequest is the entry form. Mode is "create" or "join"; HTML forms may instead
// send a non-empty create or join field named after the pressed button.
type EntryRequest struct {
	Name   string `json:"name" form:"name"`
	Code   string `json:"code" form:"code"`
	Mode   string `json:"mode" form:"mode"`
	Create string `json:"-" form:"create"`
	Join   string `json:"-" form:"join"`
}

func (r EntryRequest) mode() string {
	switch {
	case r.Mode != "":
		return r.Mode
	case r.Create != "":
		return "create"
	default:
		return "join"
	}
}

// EntryResponse carries the resolved room and the session token to open the socket with.
type EntryResponse struct {
	Room  string `json:"room"`
	Token string `json:"token"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Enter handles room creation and joining.
// POST /api/entry
func (h *EntryHandlers) Enter(c *gin.Context) {
	sessionID := c.GetString(ContextKeySessionID)

	var req EntryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid entry request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	mode, err := core.ParseEntryMode(req.mode())
	if err != nil {
		ce := core.AsCoreError(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ce.Message, Code: ce.Code})
		return
	}

	code, err := h.lobby.Enter(c.Request.Context(), sessionID, core.EntryRequest{
		Name: req.Name,
		Code: req.Code,
		Mode: mode,
	})
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			ce := core.AsCoreError(ve)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: ce.Message, Code: ce.Code})
			return
		}
		h.log.Error().Err(err).Str("mode", mode.String()).Msg("failed to enter room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Debug().Str("room", code).Str("user", req.Name).Str("mode", mode.String()).Msg("entry accepted")
	c.JSON(http.StatusOK, EntryResponse{
		Room:  code,
		Token: c.GetString(ContextKeySessionToken),
	})
}
