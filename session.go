package main

import (
	"gblink/proto"
)

// Local state as of the last engine step, and the last value we broadcast.
// Both belong to the driver goroutine.
var (
	localPlayer   proto.PlayerData
	lastBroadcast proto.PlayerData
)

func localName() []byte {
	return localPlayer.Name
}

// sendUpdates is the driver's outbound pass: one full update when local
// state changed since the last broadcast, plus at most one queued battle
// request. The request is cleared whether or not the send succeeds.
func sendUpdates(gd *gameData) {
	if !localPlayer.Equal(lastBroadcast) {
		lastBroadcast = localPlayer
		sendEvent(proto.FullUpdate{ID: localID, Player: localPlayer})
	}
	if target, ok := gd.takeBattleRequest(); ok {
		sendEvent(proto.BattleDataRequest{Target: target, Requester: localID})
	}
}

// recvUpdates is the driver's inbound pass and the single reconciliation
// point for the player table: it drains whatever the reader decoded since
// the last pass and applies the events one at a time.
func recvUpdates(gd *gameData, e Engine) {
	for {
		select {
		case ev := <-inbound:
			applyEvent(gd, e, ev)
		default:
			return
		}
	}
}

func applyEvent(gd *gameData, e Engine, ev proto.Event) {
	switch ev := ev.(type) {
	case proto.FullUpdate:
		upsertPlayer(ev.Player)
	case proto.MovementUpdate:
		setPlayerMovement(ev.ID, ev.Movement)
	case proto.PlayerQuit:
		removePlayer(ev.ID)
		logDebug("player %d quit", ev.ID)
	case proto.Chat:
		appendChat(ev.ID, ev.Text)
	case proto.BattleDataRequest:
		sendEvent(proto.BattleDataResponse{Target: ev.Requester, Party: extractParty(e)})
	case proto.BattleDataResponse:
		gd.phase = phaseNormal
		loadBattle(e, ev.Party)
		addChatLine("* battle data received")
	case proto.UpdateRequest:
		lastBroadcast = proto.PlayerData{}
	case proto.PlayerJoin:
		// Valid only as the handshake line; ignore mid-session.
		logDebug("stray playerJoin for %d", ev.ID)
	}
}
