package main

import (
	"testing"

	"gblink/gbtext"
	"gblink/proto"
)

func TestSimCoreWalksOneTile(t *testing.T) {
	c := newSimCore("RED", nil)
	c.SetJoypad(Joypad{Down: true})

	c.StepFrame()
	if c.ReadByte(kWalkCounter) != proto.WalkStart {
		t.Fatalf("walk counter = %d, want %d", c.ReadByte(kWalkCounter), proto.WalkStart)
	}
	if c.ReadByte(kPlayerDir) != proto.DirDown {
		t.Fatalf("direction = %#x", c.ReadByte(kPlayerDir))
	}
	if c.ReadByte(kMapY) != 8 {
		t.Fatal("tile committed before the stride finished")
	}

	c.SetJoypad(Joypad{})
	for i := 0; i < int(proto.WalkStart); i++ {
		c.StepFrame()
	}
	if c.ReadByte(kWalkCounter) != 0 {
		t.Fatalf("walk counter = %d after full stride", c.ReadByte(kWalkCounter))
	}
	if c.ReadByte(kMapY) != 9 || c.ReadByte(kMapX) != 8 {
		t.Fatalf("tile = (%d,%d), want (8,9)", c.ReadByte(kMapX), c.ReadByte(kMapY))
	}
}

func TestSimCoreBlockedByRemotePlayer(t *testing.T) {
	resetPlayers()
	defer resetPlayers()

	gd := newGameData()
	c := newSimCore("RED", gd.checkpoint)
	upsertPlayer(proto.PlayerData{ID: 7, Name: gbtext.Encode("BLUE"),
		Movement: proto.MovementData{MapID: 1, MapX: 8, MapY: 9}})

	c.SetJoypad(Joypad{Down: true})
	c.StepFrame()

	if c.ReadByte(kWalkCounter) != 0 {
		t.Fatal("walked into an occupied tile")
	}
	if c.ReadByte(kPlayerDir) != proto.DirDown {
		t.Fatal("should still turn to face the blocked tile")
	}
	if gd.lastInteraction != 7 {
		t.Fatalf("lastInteraction = %d, want 7", gd.lastInteraction)
	}
}

func TestSimCoreInteractionRunsDialogue(t *testing.T) {
	resetPlayers()
	defer resetPlayers()

	gd := newGameData()
	c := newSimCore("RED", gd.checkpoint)
	upsertPlayer(proto.PlayerData{ID: 7, Name: gbtext.Encode("BLUE"),
		Movement: proto.MovementData{MapID: 1, MapX: 8, MapY: 9}})

	// Face the peer, then press A.
	c.SetJoypad(Joypad{Down: true})
	c.StepFrame()
	c.SetJoypad(Joypad{A: true})
	c.StepFrame()

	if c.dialogue != "PLAYER has nothing\nto say." {
		t.Fatalf("dialogue = %q", c.dialogue)
	}
	if c.dialogueFrames == 0 {
		t.Fatal("dialogue box not held on screen")
	}
	if gd.phase != phaseWaiting {
		t.Fatal("interaction should leave the session waiting on battle data")
	}
	if target, ok := gd.takeBattleRequest(); !ok || target != 7 {
		t.Fatalf("battle request = (%d,%v), want (7,true)", target, ok)
	}
}

func TestSimCoreBattleFreezesOverworld(t *testing.T) {
	c := newSimCore("RED", nil)

	var party proto.Party
	party.Count = 1
	party.Slots[0] = proto.PartySlot{Species: 0x99, Level: 34}
	loadBattle(c, party)

	c.SetJoypad(Joypad{Down: true})
	c.StepFrame()
	if c.ReadByte(kWalkCounter) != 0 {
		t.Fatal("walked during a battle")
	}
	if c.ReadByte(kActiveBattle) == 0 {
		t.Fatal("battle cleared too early")
	}

	for c.ReadByte(kActiveBattle) != 0 {
		c.StepFrame()
	}
	// Battle over; input works again.
	c.StepFrame()
	if c.ReadByte(kWalkCounter) != proto.WalkStart {
		t.Fatal("input not restored after the battle")
	}
}

func TestSimCoreSeedsRoster(t *testing.T) {
	c := newSimCore("RED", nil)
	party := extractParty(c)
	if party.Count == 0 {
		t.Fatal("no roster seeded")
	}
	for _, mon := range party.Slots[:party.Count] {
		if mon.Species == 0 || mon.Level == 0 {
			t.Fatalf("bad slot %+v", mon)
		}
	}
}

func TestSimCoreNameRoundTrip(t *testing.T) {
	c := newSimCore("RED", nil)
	p := readLocalPlayer(c, 1)
	if got := gbtext.Decode(p.Name); got != "RED" {
		t.Fatalf("name = %q", got)
	}
}
