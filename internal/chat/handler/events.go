package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"chatcore/internal/common"
)

// Client event type tags. These strings are part of the wire contract.
const (
	clientEventMessage      = "message"
	clientEventStatusUpdate = "status_update"
)

// ClientEvent is the closed set of inbound event shapes. An unknown type
// is a decode error, never a silently-ignored branch.
type ClientEvent interface {
	clientEvent()
}

// ClientMessage asks the engine to deliver a new message to the session's
// room.
type ClientMessage struct {
	Body string
}

// ClientStatusUpdate reports that this client has delivered or read a
// message.
type ClientStatusUpdate struct {
	MessageID uint
	Status    common.Status
}

func (ClientMessage) clientEvent()      {}
func (ClientStatusUpdate) clientEvent() {}

type clientEnvelope struct {
	Type      string `json:"type"`
	Body      string `json:"body"`
	MessageID uint   `json:"message_id"`
	Status    string `json:"status"`
}

// DecodeClientEvent parses one inbound frame into its typed variant.
func DecodeClientEvent(data []byte) (ClientEvent, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed client event: %w", err)
	}

	switch env.Type {
	case clientEventMessage:
		if env.Body == "" {
			return nil, errors.New("message event requires a body")
		}
		return ClientMessage{Body: env.Body}, nil

	case clientEventStatusUpdate:
		if env.MessageID == 0 {
			return nil, errors.New("status_update event requires a message_id")
		}
		status, err := common.ParseStatus(env.Status)
		if err != nil {
			return nil, err
		}
		if status == common.StatusSent {
			return nil, errors.New("a client cannot report status \"sent\"")
		}
		return ClientStatusUpdate{MessageID: env.MessageID, Status: status}, nil
	}

	return nil, fmt.Errorf("unknown client event type %q", env.Type)
}
