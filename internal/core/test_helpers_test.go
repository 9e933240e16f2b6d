package core

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/roomrelay/internal/store/memory"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for kind %v", kind)
			}
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustClosed(t *testing.T, ch <-chan *Event) {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("event channel not closed")
		}
	}
}

// drain returns every event currently buffered on ch.
func drain(ch <-chan *Event) []*Event {
	var out []*Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

type fixture struct {
	rooms    *Registry
	sessions *memory.MemoryStore
	lobby    *Lobby
	hub      *Hub
}

func newFixture(tb testing.TB) *fixture {
	tb.Helper()

	rooms := NewRegistry()
	sessions := memory.New()
	return &fixture{
		rooms:    rooms,
		sessions: sessions,
		lobby:    NewLobby(rooms, sessions, DefaultCodeLength, nil),
		hub:      NewHub(rooms, sessions, nil),
	}
}

// connect runs the connect handler synchronously.
func (f *fixture) connect(c *Client) {
	f.hub.handle(context.Background(), &Command{Kind: CommandConnect, Client: c})
}

func (f *fixture) send(c *Client, text string) {
	f.hub.handle(context.Background(), &Command{Kind: CommandSendMessage, Client: c, Text: text})
}

func (f *fixture) disconnect(c *Client) {
	f.hub.handle(context.Background(), &Command{Kind: CommandDisconnect, Client: c})
}
