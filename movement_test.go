package main

import (
	"testing"

	"gblink/proto"
)

func TestDrawOffsetMagnitude(t *testing.T) {
	dirs := []byte{proto.DirDown, proto.DirUp, proto.DirLeft, proto.DirRight}
	for _, dir := range dirs {
		for wc := byte(0); wc <= 8; wc++ {
			dx, dy := drawOffset(dir, wc)
			want := int(8-wc) * 2
			if wc == 0 {
				want = 0
			}
			if abs(dx)+abs(dy) != want {
				t.Fatalf("dir %#x wc %d: offset (%d,%d), want magnitude %d", dir, wc, dx, dy, want)
			}
			if dx != 0 && dy != 0 {
				t.Fatalf("dir %#x wc %d: offset on both axes (%d,%d)", dir, wc, dx, dy)
			}
		}
	}
}

func TestDrawOffsetDirections(t *testing.T) {
	// Walk counter 6 puts the sprite 4 pixels into the traversal.
	cases := []struct {
		dir    byte
		dx, dy int
	}{
		{proto.DirDown, 0, 4},
		{proto.DirUp, 0, -4},
		{proto.DirLeft, -4, 0},
		{proto.DirRight, 4, 0},
	}
	for _, c := range cases {
		dx, dy := drawOffset(c.dir, 6)
		if dx != c.dx || dy != c.dy {
			t.Errorf("dir %#x: offset (%d,%d), want (%d,%d)", c.dir, dx, dy, c.dx, c.dy)
		}
	}
}

func TestFrameIndex(t *testing.T) {
	cases := []struct {
		dir   byte
		wc    byte
		index int
		flip  bool
	}{
		{proto.DirDown, 0, 0, false},
		{proto.DirUp, 0, 1, false},
		{proto.DirRight, 0, 2, true},
		{proto.DirLeft, 0, 2, false},
		{proto.DirDown, 4, 3, false},
		{proto.DirUp, 7, 4, false},
		{proto.DirRight, 5, 5, true},
		{proto.DirLeft, 6, 5, false},
		{proto.DirDown, 3, 0, false},
		{proto.DirDown, 8, 0, false},
	}
	for _, c := range cases {
		index, flip := frameIndex(c.dir, c.wc)
		if index != c.index || flip != c.flip {
			t.Errorf("dir %#x wc %d: frame (%d,%v), want (%d,%v)",
				c.dir, c.wc, index, flip, c.index, c.flip)
		}
		// Re-computation is stable.
		again, aflip := frameIndex(c.dir, c.wc)
		if again != index || aflip != flip {
			t.Errorf("dir %#x wc %d: frame not stable", c.dir, c.wc)
		}
	}
}

func TestRelativeDrawPosition(t *testing.T) {
	self := proto.MovementData{MapX: 10, MapY: 10}
	other := proto.MovementData{MapX: 11, MapY: 9}
	x, y := relativeDrawPosition(self, other)
	if x != anchorX+tileSize || y != anchorY-tileSize {
		t.Fatalf("relative position (%d,%d), want (%d,%d)", x, y, anchorX+tileSize, anchorY-tileSize)
	}

	// A peer mid-stride is offset by the walk interpolation.
	other.WalkCounter = 6
	other.Direction = proto.DirDown
	_, y = relativeDrawPosition(self, other)
	if y != anchorY-tileSize+4 {
		t.Fatalf("mid-stride y = %d, want %d", y, anchorY-tileSize+4)
	}
}

func TestOccupies(t *testing.T) {
	p := proto.PlayerData{Movement: proto.MovementData{MapID: 3, MapX: 5, MapY: 7}}
	if !occupies(p, 3, 5, 7) {
		t.Fatal("expected occupancy")
	}
	if occupies(p, 2, 5, 7) || occupies(p, 3, 6, 7) || occupies(p, 3, 5, 6) {
		t.Fatal("unexpected occupancy")
	}
}

func TestFacingTile(t *testing.T) {
	m := proto.MovementData{MapX: 4, MapY: 4}
	cases := []struct {
		dir  byte
		x, y byte
	}{
		{proto.DirDown, 4, 5},
		{proto.DirUp, 4, 3},
		{proto.DirRight, 5, 4},
		{proto.DirLeft, 3, 4},
	}
	for _, c := range cases {
		m.Direction = c.dir
		if x, y := facingTile(m); x != c.x || y != c.y {
			t.Errorf("dir %#x: facing (%d,%d), want (%d,%d)", c.dir, x, y, c.x, c.y)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
