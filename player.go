package main

import (
	"sync"

	"gblink/proto"
)

// The shared player table: every remote player we currently know about,
// keyed by relay-assigned id. The network reader never touches this map
// directly; decoded events are applied one at a time from the driver's
// inbound pass, and the render path takes the read lock.
var (
	playersMu sync.RWMutex
	players   = make(map[proto.PlayerID]*proto.PlayerData)
)

// upsertPlayer inserts or fully replaces a player record.
func upsertPlayer(p proto.PlayerData) {
	playersMu.Lock()
	cp := p
	players[p.ID] = &cp
	playersMu.Unlock()
}

// setPlayerMovement updates only the movement portion of an existing
// record. An unknown id is a no-op: a movement-only update must never
// create a partial entry.
func setPlayerMovement(id proto.PlayerID, m proto.MovementData) {
	playersMu.Lock()
	if p, ok := players[id]; ok {
		p.Movement = m
	}
	playersMu.Unlock()
}

func removePlayer(id proto.PlayerID) {
	playersMu.Lock()
	delete(players, id)
	playersMu.Unlock()
}

// getPlayers snapshots the table for rendering.
func getPlayers() []proto.PlayerData {
	playersMu.RLock()
	defer playersMu.RUnlock()
	out := make([]proto.PlayerData, 0, len(players))
	for _, p := range players {
		out = append(out, *p)
	}
	return out
}

func playerCount() int {
	playersMu.RLock()
	defer playersMu.RUnlock()
	return len(players)
}

// playerName resolves a display name for chat. Absent ids return nil so the
// caller can substitute a fallback.
func playerName(id proto.PlayerID) []byte {
	playersMu.RLock()
	defer playersMu.RUnlock()
	if p, ok := players[id]; ok && len(p.Name) > 0 {
		return append([]byte(nil), p.Name...)
	}
	return nil
}

// occupies reports whether p stands on the given tile of the given map.
func occupies(p proto.PlayerData, mapID, x, y byte) bool {
	m := p.Movement
	return m.MapID == mapID && m.MapX == x && m.MapY == y
}

// playerAt scans the table for a player occupying the tile. Used by the
// sprite checkpoint to decide whether something is "in the way".
func playerAt(mapID, x, y byte) (proto.PlayerID, bool) {
	playersMu.RLock()
	defer playersMu.RUnlock()
	for id, p := range players {
		if occupies(*p, mapID, x, y) {
			return id, true
		}
	}
	return 0, false
}

// resetPlayers empties the table. Test helper.
func resetPlayers() {
	playersMu.Lock()
	players = make(map[proto.PlayerID]*proto.PlayerData)
	playersMu.Unlock()
}
