package http

import (
	"encoding/json"

	"github.com/vovakirdan/meetrelay-server/internal/core"
	"github.com/vovakirdan/meetrelay-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinCall:
		var join proto.JoinCallData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandJoinCall,
			Room: join.Room,
			Name: join.Name,
		}, nil, nil
	case proto.InboundTypeSignal:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, nil, err
		}
		if sig.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "signal target is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSignal,
			Target:  sig.To,
			Payload: sig.Payload,
			Name:    sig.Name,
		}, nil, nil
	case proto.InboundTypeChat:
		var chat proto.ChatData
		if err := json.Unmarshal(inbound.Data, &chat); err != nil {
			return nil, nil, err
		}
		if chat.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandChatMessage,
			Text: chat.Text,
			Name: chat.Name,
		}, nil, nil
	case proto.InboundTypeLeaveCall:
		var leave proto.LeaveCallData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &leave); err != nil {
				return nil, nil, err
			}
		}
		return &core.Command{
			Kind: core.CommandLeaveCall,
			Room: leave.Room,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventJoined,
			Data: proto.EventJoinedData{
				Room:    event.Room,
				Self:    event.Conn,
				Members: membersFromEvent(event.Members),
			},
		}
	case core.EventPeerJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPeerJoined,
			Data: proto.EventPeerJoinedData{
				Room:    event.Room,
				ID:      event.Conn,
				Name:    event.Name,
				Members: membersFromEvent(event.Members),
			},
		}
	case core.EventPeerLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPeerLeft,
			Data: proto.EventPeerLeftData{
				Room: event.Room,
				ID:   event.Conn,
			},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSignal,
			Data: proto.EventSignalData{
				From:    event.Conn,
				Payload: event.Payload,
				Name:    event.Name,
			},
		}
	case core.EventChatMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatMessage,
			Data:  chatFromMessage(event.Message),
		}
	case core.EventHistory:
		messages := make([]proto.EventChatData, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, chatFromMessage(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventHistory,
			Data: proto.EventHistoryData{
				Room:     event.Room,
				Messages: messages,
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
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func membersFromEvent(members []core.Member) []proto.Member {
	out := make([]proto.Member, 0, len(members))
	for _, m := range members {
		out = append(out, proto.Member{ID: m.ID, Name: m.Name})
	}
	return out
}

func chatFromMessage(msg core.Message) proto.EventChatData {
	return proto.EventChatData{
		Room: msg.Room,
		Text: msg.Text,
		Name: msg.Name,
		From: msg.From,
		TS:   msg.SentAt.Unix(),
	}
}
