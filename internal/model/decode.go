package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingType is returned for inbound messages without a type field.
var ErrMissingType = errors.New("message has no type")

// DecodeEnvelope parses an inbound message.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return env, nil
}

// DecodeSnapshot extracts the game state carried by a game_state message.
// The snapshot is normally nested under "data"; when it is absent the fields
// are read from the top level of raw, which is how the server consumer
// sends its initial state.
func DecodeSnapshot(env Envelope, raw []byte) (GameStateSnapshot, error) {
	src := []byte(env.Data)
	if len(src) == 0 || string(src) == "null" {
		src = raw
	}

	var snap GameStateSnapshot
	if err := json.Unmarshal(src, &snap); err != nil {
		return GameStateSnapshot{}, fmt.Errorf("unmarshal game state: %w", err)
	}
	return snap, nil
}

// Encode marshals an outbound message of the given type.
func Encode(msgType string) []byte {
	// OutboundMessage has a single string field; Marshal cannot fail.
	data, _ := json.Marshal(OutboundMessage{Type: msgType})
	return data
}
