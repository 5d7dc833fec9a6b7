package core

import (
	"encoding/json"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
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

// expectNoEvent asserts that nothing arrives on ch within a short window.
func expectNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func join(c *Client, room string, p Participant) {
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room, Participant: p}
}

func offer(c *Client, to string, payload string) {
	c.Commands <- &Command{
		Kind: CommandSignal,
		Signal: &Signal{
			Kind:    SignalOffer,
			To:      to,
			Payload: json.RawMessage(payload),
		},
	}
}
