package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypePing MessageType = "PING"

	// Server to Client
	MessageTypeConnected         MessageType = "CONNECTED"
	MessageTypePong              MessageType = "PONG"
	MessageTypeCharactersChanged MessageType = "CHARACTERS_CHANGED"
	MessageTypeError             MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Seq       int             `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Server to Client payloads

type ConnectedPayload struct {
	ClientID string `json:"clientId"`
}

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// CharactersChangedPayload tells clients to re-fetch the roster.
type CharactersChangedPayload struct {
	Action       ChangeAction `json:"action"`
	CharacterIDs []int        `json:"characterIds"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
