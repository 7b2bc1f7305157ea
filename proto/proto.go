// Package proto defines the wire protocol spoken between gblink clients and
// the relay: one JSON-encoded event per line over a plain TCP stream, plus
// the player state records those events carry.
package proto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlayerID identifies one connected session. It is assigned by the relay at
// join time and never changes for the life of the session.
type PlayerID uint32

// Facing values as the game engine stores them.
const (
	DirDown  byte = 0x00
	DirUp    byte = 0x04
	DirLeft  byte = 0x08
	DirRight byte = 0x0C
)

// WalkStart is the walk counter value at the start of a tile traversal.
// It counts down to zero, two pixels of travel per tick.
const WalkStart byte = 8

// MovementData is the portion of player state that changes while walking.
type MovementData struct {
	MapID       byte `json:"mapId"`
	MapX        byte `json:"mapX"`
	MapY        byte `json:"mapY"`
	Direction   byte `json:"direction"`
	WalkCounter byte `json:"walkCounter"`
}

// PlayerData is the full per-player record synchronized across the relay.
// Name holds the engine-encoded bytes of the player name, not UTF-8.
type PlayerData struct {
	ID       PlayerID     `json:"id"`
	Name     []byte       `json:"name"`
	Movement MovementData `json:"movement"`
}

// Equal reports structural equality, used to decide whether local state is
// worth broadcasting again.
func (p PlayerData) Equal(o PlayerData) bool {
	return p.ID == o.ID && bytes.Equal(p.Name, o.Name) && p.Movement == o.Movement
}

// PartySize is the fixed roster size exchanged for battles.
const PartySize = 6

// PartySlot describes one roster entry. Opaque beyond species and level.
type PartySlot struct {
	Species byte `json:"species"`
	Level   byte `json:"level"`
}

// Party is the battle roster payload. Count gives how many leading slots
// are populated.
type Party struct {
	Count byte                 `json:"count"`
	Slots [PartySize]PartySlot `json:"slots"`
}

// Event is the closed set of messages that cross the wire. Exactly the
// types in this package implement it.
type Event interface {
	eventType() string
}

// PlayerJoin is the first line a client receives; it carries the identity
// the relay assigned to that connection.
type PlayerJoin struct {
	ID PlayerID `json:"id"`
}

// FullUpdate replaces the receiver's entire record for a player.
type FullUpdate struct {
	ID     PlayerID   `json:"id"`
	Player PlayerData `json:"player"`
}

// MovementUpdate replaces only the movement portion of an existing record.
type MovementUpdate struct {
	ID       PlayerID     `json:"id"`
	Movement MovementData `json:"movement"`
}

// PlayerQuit removes a player's record.
type PlayerQuit struct {
	ID PlayerID `json:"id"`
}

// Chat carries one engine-encoded chat line.
type Chat struct {
	ID   PlayerID `json:"id"`
	Text []byte   `json:"text"`
}

// BattleDataRequest asks Target to send its party to Requester.
type BattleDataRequest struct {
	Target    PlayerID `json:"target"`
	Requester PlayerID `json:"requester"`
}

// BattleDataResponse delivers a party to Target.
type BattleDataResponse struct {
	Target PlayerID `json:"target"`
	Party  Party    `json:"party"`
}

// UpdateRequest asks the receiver to rebroadcast its full state.
type UpdateRequest struct{}

func (PlayerJoin) eventType() string         { return "playerJoin" }
func (FullUpdate) eventType() string         { return "fullUpdate" }
func (MovementUpdate) eventType() string     { return "movementUpdate" }
func (PlayerQuit) eventType() string         { return "playerQuit" }
func (Chat) eventType() string               { return "chat" }
func (BattleDataRequest) eventType() string  { return "battleDataRequest" }
func (BattleDataResponse) eventType() string { return "battleDataResponse" }
func (UpdateRequest) eventType() string      { return "updateRequest" }

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode serializes one event as a single newline-terminated JSON line.
func Encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	line, err := json.Marshal(envelope{Type: ev.eventType(), Data: data})
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}

// Decode parses one line back into an event. A malformed line or a type tag
// outside the closed set is an error; there is no silent catch-all.
func Decode(line []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	var ev Event
	switch env.Type {
	case "playerJoin":
		ev = &PlayerJoin{}
	case "fullUpdate":
		ev = &FullUpdate{}
	case "movementUpdate":
		ev = &MovementUpdate{}
	case "playerQuit":
		ev = &PlayerQuit{}
	case "chat":
		ev = &Chat{}
	case "battleDataRequest":
		ev = &BattleDataRequest{}
	case "battleDataResponse":
		ev = &BattleDataResponse{}
	case "updateRequest":
		return UpdateRequest{}, nil
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", env.Type)
	}
	if err := json.Unmarshal(env.Data, ev); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return deref(ev), nil
}

// deref returns the value form of a decoded event pointer so callers can
// type-switch on concrete values for both encoded and decoded events.
func deref(ev Event) Event {
	switch v := ev.(type) {
	case *PlayerJoin:
		return *v
	case *FullUpdate:
		return *v
	case *MovementUpdate:
		return *v
	case *PlayerQuit:
		return *v
	case *Chat:
		return *v
	case *BattleDataRequest:
		return *v
	case *BattleDataResponse:
		return *v
	}
	return ev
}
