package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

type entryResponse struct {
	Room  string `json:"room"`
	Token string `json:"token"`
	Error string `json:"error"`
}

type roomResponse struct {
	Code     string              `json:"code"`
	Messages []proto.ChatMessage `json:"messages"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:5000", "server base URL")
	name := flag.String("name", "cli-user", "display name")
	code := flag.String("code", "", "room code to join; empty creates a room")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	mode := "join"
	if *code == "" {
		mode = "create"
	}
	entry, err := enter(ctx, *base, map[string]string{"name": *name, "code": *code, "mode": mode})
	if err != nil {
		return err
	}

	history, err := roomHistory(ctx, *base, entry.Token)
	if err != nil {
		return err
	}
	for _, msg := range history.Messages {
		fmt.Printf("%s: %s\n", msg.Name, msg.Message)
	}

	wsURL := strings.Replace(*base, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + entry.Token}},
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	fmt.Printf("Connected to room %s as %s\n", entry.Room, *name)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
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

func roomHistory(ctx context.Context, base, token string) (roomResponse, error) {
	var out roomResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/room", nil)
	if err != nil {
		return out, fmt.Errorf("build room request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("room: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("room view returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode room response: %w", err)
	}
	return out, nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound struct {
			Event string            `json:"event"`
			Data  proto.ChatMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Event != proto.EventMessage {
			continue
		}
		fmt.Printf("%s: %s\n", outbound.Data.Name, outbound.Data.Message)
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			payload, err := json.Marshal(proto.MessageData{Data: text})
			if err != nil {
				log.Printf("marshal message: %v", err)
				return
			}
			if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Data: payload}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
