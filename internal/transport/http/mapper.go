package http

import (
	"encoding/json"

	"github.com/peerline/signald/internal/core"
	"github.com/peerline/signald/internal/proto"
)

// inboundToCommand validates an inbound envelope and maps it to a hub
// command. A non-nil proto.Error means the payload failed boundary
// validation and should be answered to the sender only; a non-nil error
// means the frame was not decodable at all.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		if join.UserInfo.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "userInfo.userId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.RoomID,
			Participant: core.Participant{
				UserID:      join.UserInfo.UserID,
				DisplayName: join.UserInfo.DisplayName,
				PhotoURL:    join.UserInfo.PhotoURL,
			},
		}, nil, nil

	case proto.InboundTypeOffer, proto.InboundTypeAnswer, proto.InboundTypeICECandidate:
		var signal proto.SignalData
		if err := json.Unmarshal(inbound.Data, &signal); err != nil {
			return nil, nil, err
		}
		if signal.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "to is required"}, nil
		}
		var kind core.SignalKind
		var payload json.RawMessage
		switch inbound.Type {
		case proto.InboundTypeOffer:
			kind, payload = core.SignalOffer, signal.Offer
		case proto.InboundTypeAnswer:
			kind, payload = core.SignalAnswer, signal.Answer
		default:
			kind, payload = core.SignalICECandidate, signal.Candidate
		}
		return &core.Command{
			Kind: core.CommandSignal,
			Signal: &core.Signal{
				Kind:    kind,
				To:      signal.To,
				Payload: payload,
			},
		}, nil, nil

	case proto.InboundTypeMediaToggle:
		var toggle proto.MediaToggleData
		if err := json.Unmarshal(inbound.Data, &toggle); err != nil {
			return nil, nil, err
		}
		if toggle.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		if toggle.Type == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "type is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandMediaToggle,
			Media: &core.MediaState{
				Room:    toggle.RoomID,
				Type:    toggle.Type,
				Enabled: toggle.Enabled,
			},
		}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventExistingUsers:
		members := make([]proto.RoomMember, 0, len(event.Members))
		for _, m := range event.Members {
			members = append(members, proto.RoomMember{
				ConnectionID: m.ConnectionID,
				UserInfo:     userInfoFromParticipant(m.Participant),
			})
		}
		return proto.Outbound{Type: proto.OutboundTypeExistingUsers, Data: members}

	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: proto.UserJoinedData{
				ConnectionID: event.From,
				UserInfo:     userInfoFromParticipant(event.Participant),
			},
		}

	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{
				ConnectionID: event.From,
				UserInfo:     userInfoFromParticipant(event.Participant),
			},
		}

	case core.EventRoomFull:
		return proto.Outbound{Type: proto.OutboundTypeRoomFull}

	case core.EventSignal:
		data := proto.SignalData{To: event.Signal.To, From: event.Signal.From}
		switch event.Signal.Kind {
		case core.SignalOffer:
			data.Offer = event.Signal.Payload
		case core.SignalAnswer:
			data.Answer = event.Signal.Payload
		case core.SignalICECandidate:
			data.Candidate = event.Signal.Payload
		}
		return proto.Outbound{Type: string(event.Signal.Kind), Data: data}

	case core.EventPeerMediaToggle:
		return proto.Outbound{
			Type: proto.OutboundTypePeerMediaToggle,
			Data: proto.PeerMediaToggleData{
				ConnectionID: event.From,
				Type:         event.Media.Type,
				Enabled:      event.Media.Enabled,
			},
		}

	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}

	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func userInfoFromParticipant(p core.Participant) proto.UserInfo {
	return proto.UserInfo{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
}
