package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
)

// decodeInbound extracts chat text from a client frame. Anything that is not a
// well-formed message envelope is rejected.
func decodeInbound(raw []byte) (string, bool) {
	var inbound proto.Inbound
	if err := json.Unmarshal(raw, &inbound); err != nil {
		return "", false
	}
	if inbound.Type != proto.InboundTypeMessage || len(inbound.Data) == 0 {
		return "", false
	}

	// proto.MessageData with a required data key
	var msg struct {
		Data *string `json:"data"`
	}
	if err := json.Unmarshal(inbound.Data, &msg); err != nil || msg.Data == nil {
		return "", false
	}
	return *msg.Data, true
}

func chatMessage(msg core.Message) proto.ChatMessage {
	return proto.ChatMessage{Name: msg.From, Message: msg.Text}
}

func chatMessages(msgs []core.Message) []proto.ChatMessage {
	return lo.Map(msgs, func(item core.Message, _ int) proto.ChatMessage {
		return chatMessage(item)
	})
}

// outboundFromEvent maps every room event, system notices included, to the single
// "message" broadcast the protocol defines.
func outboundFromEvent(event *core.Event) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventMessage,
		Data:  chatMessage(event.Message),
	}
}
