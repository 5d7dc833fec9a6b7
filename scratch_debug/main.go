package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/peerline/signald/internal/config"
	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/ice"
	transporthttp "github.com/peerline/signald/internal/transport/http"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	hub := core.NewHub(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	iceSvc := ice.NewService(ice.Config{
		Secret:        "test-secret",
		Realm:         "test",
		STUNURLs:      []string{"stun:stun.example.test:3478"},
		CredentialTTL: time.Hour,
	}, &logger)

	server := transporthttp.NewServer(hub, iceSvc, config.Config{
		Addr:              ":0",
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	dctx, dcancel := context.WithTimeout(ctx, 5*time.Second)
	defer dcancel()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, resp, err := websocket.Dial(dctx, wsURL, nil)
	if err != nil {
		fmt.Println("dial error:", err)
		if resp != nil {
			fmt.Println("status:", resp.Status)
		}
		return
	}
	fmt.Println("dialed ok")
	var frame map[string]any
	if err := wsjson.Read(dctx, conn, &frame); err != nil {
		fmt.Println("read error:", err)
		return
	}
	fmt.Printf("got frame: %+v\n", frame)
	conn.Close(websocket.StatusNormalClosure, "done")
}
