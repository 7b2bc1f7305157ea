package proto

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	move := MovementData{MapID: 2, MapX: 10, MapY: 12, Direction: DirLeft, WalkCounter: 4}
	player := PlayerData{ID: 7, Name: []byte{0x91, 0x84, 0x83}, Movement: move}
	var party Party
	party.Count = 2
	party.Slots[0] = PartySlot{Species: 0x99, Level: 34}
	party.Slots[1] = PartySlot{Species: 0x04, Level: 12}

	events := []Event{
		PlayerJoin{ID: 7},
		FullUpdate{ID: 7, Player: player},
		MovementUpdate{ID: 7, Movement: move},
		PlayerQuit{ID: 7},
		Chat{ID: 7, Text: []byte{0x87, 0xA8}},
		BattleDataRequest{Target: 7, Requester: 3},
		BattleDataResponse{Target: 3, Party: party},
		UpdateRequest{},
	}
	for _, ev := range events {
		line, err := Encode(ev)
		if err != nil {
			t.Fatalf("encode %T: %v", ev, err)
		}
		if line[len(line)-1] != '\n' {
			t.Fatalf("encode %T: line not newline-terminated", ev)
		}
		if bytes.ContainsRune(line[:len(line)-1], '\n') {
			t.Fatalf("encode %T: embedded newline", ev)
		}
		got, err := Decode(line)
		if err != nil {
			t.Fatalf("decode %T: %v", ev, err)
		}
		switch want := ev.(type) {
		case FullUpdate:
			g := got.(FullUpdate)
			if g.ID != want.ID || !g.Player.Equal(want.Player) {
				t.Fatalf("round trip FullUpdate: got %+v", g)
			}
		case Chat:
			g := got.(Chat)
			if g.ID != want.ID || !bytes.Equal(g.Text, want.Text) {
				t.Fatalf("round trip Chat: got %+v", g)
			}
		default:
			if got != ev {
				t.Fatalf("round trip %T: got %+v want %+v", ev, got, ev)
			}
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport","data":{}}`))
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if !strings.Contains(err.Error(), "teleport") {
		t.Fatalf("error does not name the offending type: %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, line := range []string{"", "not json", `{"type":`, `{"type":"fullUpdate","data":"nope"}`} {
		if _, err := Decode([]byte(line)); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}

func TestPlayerDataEqual(t *testing.T) {
	a := PlayerData{ID: 1, Name: []byte{0x80}, Movement: MovementData{MapX: 3}}
	b := a
	b.Name = []byte{0x80}
	if !a.Equal(b) {
		t.Fatal("expected structural equality")
	}
	b.Movement.WalkCounter = 2
	if a.Equal(b) {
		t.Fatal("movement change not detected")
	}
	b = a
	b.Name = []byte{0x81}
	if a.Equal(b) {
		t.Fatal("name change not detected")
	}
}
