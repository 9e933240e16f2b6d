package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/session"
	"github.com/vovakirdan/roomrelay/internal/store/memory"
)

type testEnv struct {
	ts     *httptest.Server
	rooms  *core.Registry
	tokens *session.TokenConfig
	cfg    config.Config
}

func startTestServer(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Port = 8080
	for _, m := range mutate {
		m(&cfg)
	}

	disabledLogger := zerolog.New(nil)
	rooms := core.NewRegistry()
	sessions := memory.New()
	hub := core.NewHub(rooms, sessions, &disabledLogger)
	lobby := core.NewLobby(rooms, sessions, cfg.CodeLength, &disabledLogger)
	tokens := &session.TokenConfig{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, lobby, rooms, tokens, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return &testEnv{ts: ts, rooms: rooms, tokens: tokens, cfg: cfg}
}

// enter posts to the entry endpoint. An empty token starts a new session.
func (e *testEnv) enter(t *testing.T, token string, body map[string]string) (int, EntryResponse, ErrorResponse) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/api/entry", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("entry request: %v", err)
	}
	defer resp.Body.Close()

	var ok EntryResponse
	var fail ErrorResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
			t.Fatalf("decode entry response: %v", err)
		}
	} else if err := json.NewDecoder(resp.Body).Decode(&fail); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.StatusCode, ok, fail
}

func (e *testEnv) mustEnter(t *testing.T, token string, body map[string]string) EntryResponse {
	t.Helper()

	status, ok, fail := e.enter(t, token, body)
	if status != http.StatusOK {
		t.Fatalf("entry failed with %d: %s", status, fail.Error)
	}
	return ok
}

func (e *testEnv) dial(t *testing.T, ctx context.Context, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(e.ts.URL, "http", "ws", 1) + "/ws"
	opts := &websocket.DialOptions{HTTPHeader: http.Header{}}
	if token != "" {
		opts.HTTPHeader.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.Dial(ctx, wsURL, opts)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendText(t *testing.T, ctx context.Context, conn *websocket.Conn, text string) {
	t.Helper()

	payload, _ := json.Marshal(proto.MessageData{Data: text})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Data: payload}); err != nil {
		t.Fatalf("send message: %v", err)
	}
}

func readChat(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.ChatMessage {
	t.Helper()

	var outbound struct {
		Type  string            `json:"type"`
		Event string            `json:"event"`
		Data  proto.ChatMessage `json:"data"`
	}
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if outbound.Type != proto.OutboundTypeEvent || outbound.Event != proto.EventMessage {
		t.Fatalf("unexpected outbound envelope: %+v", outbound)
	}
	return outbound.Data
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func memberCount(r *core.Registry, code string) int {
	room, err := r.Get(code)
	if err != nil {
		return -1
	}
	return room.Members
}
