package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peerline/signald/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "smoke", "room to join")
	user := flag.String("user", "smoke-tester", "userId to announce")
	name := flag.String("name", "Smoke Tester", "displayName to announce")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joinPayload, err := json.Marshal(proto.JoinRoomData{
		RoomID:   *room,
		UserInfo: proto.UserInfo{UserID: *user, DisplayName: *name},
	})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	for {
		var frame struct {
			Type  string          `json:"type"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("<- type=%s", frame.Type)
		if len(frame.Data) > 0 {
			fmt.Printf(" data=%s", frame.Data)
		}
		if frame.Error != nil {
			fmt.Printf(" error=%s (%s)", frame.Error.Code, frame.Error.Msg)
		}
		fmt.Println()

		if frame.Type == proto.OutboundTypeRoomFull {
			return fmt.Errorf("room %q is full", *room)
		}
	}
}
