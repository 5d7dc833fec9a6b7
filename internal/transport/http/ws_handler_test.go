package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/peerline/signald/internal/config"
	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/ice"
	"github.com/peerline/signald/internal/proto"
)

type outboundFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	iceSvc := ice.NewService(ice.Config{
		Secret:        "test-secret",
		Realm:         "test",
		STUNURLs:      []string{"stun:stun.example.test:3478"},
		CredentialTTL: time.Hour,
	}, &logger)

	server := NewServer(hub, iceSvc, config.Config{
		Addr:              ":0",
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

// readFrame reads outbound frames until one of the wanted type arrives.
func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) outboundFrame {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read frame (waiting for %s): %v", wantType, err)
		}
		if frame.Type == wantType {
			return frame
		}
	}
}

func connect(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()

	frame := readFrame(t, ctx, conn, proto.OutboundTypeConnected)
	var data proto.ConnectedData
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		t.Fatalf("unmarshal connected: %v", err)
	}
	if data.ConnectionID == "" {
		t.Fatal("empty connection id")
	}
	return data.ConnectionID
}

func sendJoin(t *testing.T, ctx context.Context, conn *websocket.Conn, room string, info proto.UserInfo) {
	t.Helper()

	payload, _ := json.Marshal(proto.JoinRoomData{RoomID: room, UserInfo: info})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: payload}); err != nil {
		t.Fatalf("send join: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestICEServersEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/ice-servers")
	if err != nil {
		t.Fatalf("ice-servers request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body ICEServersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.ICEServers) != 1 || len(body.ICEServers[0].URLs) != 1 {
		t.Fatalf("unexpected ice servers: %+v", body.ICEServers)
	}
	if body.ICEServers[0].URLs[0] != "stun:stun.example.test:3478" {
		t.Fatalf("unexpected stun url: %s", body.ICEServers[0].URLs[0])
	}
}

func TestWebSocketSignalingFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	idA := connect(t, ctx, connA)
	idB := connect(t, ctx, connB)

	aliceInfo := proto.UserInfo{UserID: "u1", DisplayName: "Alice"}
	bobInfo := proto.UserInfo{UserID: "u2", DisplayName: "Bob"}

	sendJoin(t, ctx, connA, "r1", aliceInfo)
	frame := readFrame(t, ctx, connA, proto.OutboundTypeExistingUsers)
	var snapshotA []proto.RoomMember
	if err := json.Unmarshal(frame.Data, &snapshotA); err != nil {
		t.Fatalf("unmarshal existing-users: %v", err)
	}
	if len(snapshotA) != 0 {
		t.Fatalf("first joiner snapshot must be empty, got %+v", snapshotA)
	}

	sendJoin(t, ctx, connB, "r1", bobInfo)
	frame = readFrame(t, ctx, connB, proto.OutboundTypeExistingUsers)
	var snapshotB []proto.RoomMember
	if err := json.Unmarshal(frame.Data, &snapshotB); err != nil {
		t.Fatalf("unmarshal existing-users: %v", err)
	}
	if len(snapshotB) != 1 || snapshotB[0].ConnectionID != idA || snapshotB[0].UserInfo != aliceInfo {
		t.Fatalf("unexpected snapshot for B: %+v", snapshotB)
	}

	frame = readFrame(t, ctx, connA, proto.OutboundTypeUserJoined)
	var joined proto.UserJoinedData
	if err := json.Unmarshal(frame.Data, &joined); err != nil {
		t.Fatalf("unmarshal user-joined: %v", err)
	}
	if joined.ConnectionID != idB || joined.UserInfo != bobInfo {
		t.Fatalf("unexpected user-joined: %+v", joined)
	}

	// Directed offer A -> B, tagged with A's connection id.
	offerPayload, _ := json.Marshal(proto.SignalData{To: idB, Offer: json.RawMessage(`{"type":"offer","sdp":"v=0"}`)})
	if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.InboundTypeOffer, Data: offerPayload}); err != nil {
		t.Fatalf("send offer: %v", err)
	}

	frame = readFrame(t, ctx, connB, proto.InboundTypeOffer)
	var relayed proto.SignalData
	if err := json.Unmarshal(frame.Data, &relayed); err != nil {
		t.Fatalf("unmarshal relayed offer: %v", err)
	}
	if relayed.From != idA || relayed.To != idB {
		t.Fatalf("unexpected relay addressing: %+v", relayed)
	}
	if string(relayed.Offer) != `{"type":"offer","sdp":"v=0"}` {
		t.Fatalf("offer not forwarded verbatim: %s", relayed.Offer)
	}

	// B disconnects; A is told exactly once with B's participant info.
	connB.Close(websocket.StatusNormalClosure, "bye")

	frame = readFrame(t, ctx, connA, proto.OutboundTypeUserLeft)
	var left proto.UserLeftData
	if err := json.Unmarshal(frame.Data, &left); err != nil {
		t.Fatalf("unmarshal user-left: %v", err)
	}
	if left.ConnectionID != idB || left.UserInfo != bobInfo {
		t.Fatalf("unexpected user-left: %+v", left)
	}
}

func TestWebSocketJoinValidation(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	connect(t, ctx, conn)

	// Missing roomId is answered with an error and does not kill the link.
	payload, _ := json.Marshal(proto.JoinRoomData{UserInfo: proto.UserInfo{UserID: "u1"}})
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: payload}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	frame := readFrame(t, ctx, conn, proto.OutboundTypeError)
	if frame.Error == nil || frame.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", frame.Error)
	}

	// The connection still works afterwards.
	sendJoin(t, ctx, conn, "r1", proto.UserInfo{UserID: "u1"})
	readFrame(t, ctx, conn, proto.OutboundTypeExistingUsers)
}
