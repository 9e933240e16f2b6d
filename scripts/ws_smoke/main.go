package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

type entryResponse struct {
	Room  string `json:"room"`
	Token string `json:"token"`
	Error string `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:5000", "server base URL")
	name := flag.String("name", "tester", "display name")
	code := flag.String("code", "", "room code to join; empty creates a room")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mode := "join"
	if *code == "" {
		mode = "create"
	}
	entry, err := enter(ctx, *base, map[string]string{"name": *name, "code": *code, "mode": mode})
	if err != nil {
		return err
	}
	fmt.Printf("Entered room %s as %s\n", entry.Room, *name)

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + entry.Token}},
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	payload, err := json.Marshal(proto.MessageData{Data: *text})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Data: payload}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	for {
		var outbound struct {
			Type  string            `json:"type"`
			Event string            `json:"event"`
			Data  proto.ChatMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received: type=%s event=%s name=%s message=%q\n",
			outbound.Type, outbound.Event, outbound.Data.Name, outbound.Data.Message)
		if outbound.Data.Name == *name && outbound.Data.Message == *text {
			return nil
		}
	}
}

func enter(ctx context.Context, base string, body map[string]string) (entryResponse, error) {
	var out entryResponse

	payload, err := json.Marshal(body)
	if err != nil {
		return out, fmt.Errorf("marshal entry: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/entry", bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("build entry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("entry: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode entry response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("entry rejected (%d): %s", resp.StatusCode, out.Error)
	}
	return out, nil
}
