package main

import (
	"gblink/gbtext"
	"gblink/proto"
)

// dataState tells a checkpoint handler whether the engine is currently
// reading its own data or data we planted.
type dataState int

const (
	stateNormal dataState = iota
	stateHacked
)

// sessionPhase gates engine stepping. Waiting means we asked a peer for
// battle data and must not advance the engine until it arrives.
type sessionPhase int

const (
	phaseNormal sessionPhase = iota
	phaseWaiting
)

// gameData is the interception state shared by the checkpoint handlers and
// the session driver. It is created once per session and only ever mutated
// on the driver goroutine; hook handlers run synchronously inside an engine
// step and must not block.
//
// The two states are deliberately separate machines: spriteState resets at
// the top of every overworld frame, textState only when the text processor
// returns, and the two are out of lock-step in between.
type gameData struct {
	phase           sessionPhase
	spriteState     dataState
	textState       dataState
	lastInteraction proto.PlayerID

	// battleWith is the queued network request raised by the text hook;
	// the outbound pass consumes it exactly once.
	battleWith    proto.PlayerID
	battlePending bool

	// message is the FIFO of engine-encoded bytes the text checkpoint
	// feeds to the engine while textState is hacked.
	message []byte
}

func newGameData() *gameData {
	return &gameData{}
}

// queueMessageBox frames text for the in-game text engine and queues it for
// the next hacked text read.
func (g *gameData) queueMessageBox(text string) {
	g.message = append(g.message, gbtext.MessageBox(text)...)
}

// popMessageByte yields the next queued byte, or the terminator once the
// queue runs dry so the text engine always sees a well-formed string.
func (g *gameData) popMessageByte() byte {
	if len(g.message) == 0 {
		return gbtext.Terminator
	}
	b := g.message[0]
	g.message = g.message[1:]
	return b
}

// checkpoint is the hook installed into the engine. It runs both
// sub-machines against the current program counter.
func (g *gameData) checkpoint(e Engine) {
	g.spriteCheckHack(e)
	g.displayTextHack(e)
}

// spriteCheckHack makes the engine believe a remote player standing in the
// local player's path is a sprite in the way. The engine knows nothing
// about remote players, so when its sprite-collision routine is about to
// report "nothing there", we overwrite its answer.
func (g *gameData) spriteCheckHack(e Engine) {
	pc := e.PC()

	// The overworld loop restarts every frame; any hack from the previous
	// frame is stale by now.
	if pc == kOverworldLoopStart {
		g.spriteState = stateNormal
	}

	if (pc == kSpriteCheckExit1 && e.ReadByte(kNumSprites) == 0) || pc == kSpriteCheckExit2 {
		mapID := e.ReadByte(kMapID)
		m := proto.MovementData{
			MapID:     mapID,
			MapX:      e.ReadByte(kMapX),
			MapY:      e.ReadByte(kMapY),
			Direction: e.ReadByte(kPlayerDir),
		}
		x, y := facingTile(m)
		if id, ok := playerAt(mapID, x, y); ok {
			// 0xFF marks an inanimate object so the engine refuses to
			// walk into the tile and will start a dialogue on interact.
			e.WriteByte(kSpriteIndex, 0xFF)
			g.spriteState = stateHacked
			g.lastInteraction = id
		}
	}
}

// displayTextHack substitutes our own dialogue when the engine starts a
// text box for the ghost sprite, then feeds it glyph by glyph.
func (g *gameData) displayTextHack(e Engine) {
	pc := e.PC()

	if g.spriteState == stateHacked && pc == kDisplayTextIDAfterInit {
		// The routine between these two checkpoints resolves the message
		// address for a real sprite; ours has none, so skip straight to
		// the end of setup and plant the delay the skipped code would
		// have set.
		e.SetPC(kDisplayTextSetupDone)
		e.WriteByte(kFrameCounter, 30)

		g.textState = stateHacked
		g.queueMessageBox("PLAYER has nothing\nto say.")

		g.battleWith = g.lastInteraction
		g.battlePending = true
		g.phase = phaseWaiting
		pc = e.PC()
	}

	// While hacked, the text processor reads from our queue instead of
	// engine memory: drop the byte into the accumulator and step past the
	// load instruction.
	if g.textState == stateHacked && (pc == kTextNextChar1 || pc == kTextNextChar2) {
		e.SetAccumulator(g.popMessageByte())
		e.SetPC(pc + 1)
	}

	// Leaving the text processor always rearms the real read path.
	if pc == kTextProcessorEnd {
		g.textState = stateNormal
	}
}

// takeBattleRequest returns and clears the pending battle request. The
// request is cleared regardless of whether the send later succeeds.
func (g *gameData) takeBattleRequest() (proto.PlayerID, bool) {
	if !g.battlePending {
		return 0, false
	}
	g.battlePending = false
	return g.battleWith, true
}

// loadBattle arms a trainer battle against the fabricated opponent and
// writes the received party over the roster slot the engine will read.
// Layout: 0xFF marker, then (level, species) per populated slot, then a
// zero terminator.
func loadBattle(e Engine, party proto.Party) {
	e.WriteByte(kBattleType, kBattleTypeNormal)
	e.WriteByte(kActiveBattle, kActiveBattleTrainer)
	e.WriteByte(kTrainerNum, 1)
	e.WriteByte(kCurOpponent, kTrainerClassRival+kTrainerTag)

	addr := kOpponentDataAddr & 0x3FFF
	e.WriteROM(kOpponentDataBank, addr, 0xFF)
	addr++
	n := int(party.Count)
	if n > proto.PartySize {
		n = proto.PartySize
	}
	for _, mon := range party.Slots[:n] {
		e.WriteROM(kOpponentDataBank, addr, mon.Level)
		e.WriteROM(kOpponentDataBank, addr+1, mon.Species)
		addr += 2
	}
	e.WriteROM(kOpponentDataBank, addr, 0)
}

// extractParty reads the local roster out of engine memory, the payload for
// a battle data response.
func extractParty(e Engine) proto.Party {
	var party proto.Party
	n := e.ReadByte(kPartyCount)
	if n > proto.PartySize {
		n = proto.PartySize
	}
	party.Count = n
	for i := byte(0); i < n; i++ {
		base := kPartyMons + uint16(i)*kPartyMonSize
		party.Slots[i] = proto.PartySlot{
			Species: e.ReadByte(base),
			Level:   e.ReadByte(base + kPartyLevel),
		}
	}
	return party
}

// readLocalPlayer assembles our own PlayerData from engine memory after a
// frame step.
func readLocalPlayer(e Engine, id proto.PlayerID) proto.PlayerData {
	name := make([]byte, 0, kPlayerNameLen)
	for i := uint16(0); i < kPlayerNameLen; i++ {
		b := e.ReadByte(kPlayerName + i)
		if b == gbtext.Terminator || b == 0 {
			break
		}
		name = append(name, b)
	}
	return proto.PlayerData{
		ID:   id,
		Name: name,
		Movement: proto.MovementData{
			MapID:       e.ReadByte(kMapID),
			MapX:        e.ReadByte(kMapX),
			MapY:        e.ReadByte(kMapY),
			Direction:   e.ReadByte(kPlayerDir),
			WalkCounter: e.ReadByte(kWalkCounter),
		},
	}
}
