package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub     *core.Hub
	origins []string
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. origins is the allow-list
// checked during the upgrade handshake; "*" disables the check.
func NewWSHandler(hub *core.Hub, origins []string, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, origins: origins, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	opts := &websocket.AcceptOptions{OriginPatterns: h.origins}
	for _, o := range h.origins {
		if o == "*" {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
			break
		}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The client needs its server-assigned id to interpret the from field
	// of relayed signals.
	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type: proto.OutboundTypeConnected,
		Data: proto.ConnectedData{ConnectionID: client.ID},
	}); err != nil {
		h.log.Warn().Err(err).Str("client_id", client.ID).Msg("write connected greeting")
		return
	}

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
		if s := websocket.CloseStatus(err); s != 0 {
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
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			// Undecodable payload: answer the sender, keep the connection.
			h.log.Debug().Err(err).Str("client_id", client.ID).Str("type", inbound.Type).Msg("malformed inbound payload")
			protoErr = &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload"}
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if cmd != nil {
			client.Commands <- cmd
		}
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
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
