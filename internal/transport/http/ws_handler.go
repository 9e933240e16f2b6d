package http

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
// Opening the socket is the connect event and closing it is the disconnect event.
type WSHandler struct {
	hub               *core.Hub
	accept            *websocket.AcceptOptions
	maxMessageBytes   int64
	messagesPerMinute int
	log               *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	accept := &websocket.AcceptOptions{}
	if slices.Contains(cfg.AllowedOrigins, "*") {
		accept.InsecureSkipVerify = true
	} else {
		accept.OriginPatterns = cfg.AllowedOrigins
	}

	return &WSHandler{
		hub:               hub,
		accept:            accept,
		maxMessageBytes:   cfg.MaxMessageBytes,
		messagesPerMinute: cfg.MessagesPerMinute,
		log:               logger,
	}
}

// Handle serves GET /ws. SessionMiddleware must run first.
func (h *WSHandler) Handle(c *gin.Context) {
	sessionID := c.GetString(ContextKeySessionID)

	conn, err := websocket.Accept(c.Writer, c.Request, h.accept)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.maxMessageBytes > 0 {
		conn.SetReadLimit(h.maxMessageBytes)
	}

	client := core.NewClient(utils.NewID(), sessionID)
	h.hub.Connect(client)
	defer h.hub.Disconnect(client)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	limiter := newRateLimiter(h.messagesPerMinute)
	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		text, ok := decodeInbound(raw)
		if !ok {
			h.log.Debug().Str("client_id", client.ID).Msg("ignoring malformed frame")
			continue
		}
		if !limiter.allow() {
			h.log.Debug().Str("client_id", client.ID).Msg("rate limit exceeded, message dropped")
			continue
		}
		h.hub.Send(client, text)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Debug().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
