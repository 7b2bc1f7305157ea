package main

import "gblink/proto"

const (
	screenWidth  = 160
	screenHeight = 144
	tileSize     = 16

	// Screen anchor that keeps the local player fixed at the center of the
	// field while the map scrolls beneath it.
	anchorX = screenWidth/2 - 16
	anchorY = screenHeight/2 - 12
)

// drawOffset returns the sub-tile pixel offset of a walking player. The
// walk counter starts at 8 and counts down; each tick moves the sprite two
// pixels toward the destination tile. At zero the player sits exactly on
// its tile coordinate.
func drawOffset(direction, walkCounter byte) (int, int) {
	if walkCounter == 0 {
		return 0, 0
	}
	off := int(8-walkCounter) * 2
	switch direction {
	case proto.DirDown:
		return 0, off
	case proto.DirUp:
		return 0, -off
	case proto.DirLeft:
		return -off, 0
	case proto.DirRight:
		return off, 0
	}
	return 0, 0
}

// frameIndex picks the animation frame for a facing and walk phase, and
// whether the sprite is drawn mirrored. Right and left share the side
// frame, distinguished only by the flip. The +3 row is the mid-stride
// frame.
func frameIndex(direction, walkCounter byte) (int, bool) {
	var index int
	var flip bool
	switch direction {
	case proto.DirDown:
		index = 0
	case proto.DirUp:
		index = 1
	case proto.DirRight:
		index, flip = 2, true
	case proto.DirLeft:
		index = 2
	}
	if walkCounter/4 == 1 {
		index += 3
	}
	return index, flip
}

// pixelPosition converts a movement record into absolute map pixels.
func pixelPosition(m proto.MovementData) (int, int) {
	dx, dy := drawOffset(m.Direction, m.WalkCounter)
	return int(m.MapX)*tileSize + dx, int(m.MapY)*tileSize + dy
}

// relativeDrawPosition places another player on screen relative to our own
// position, with the local player pinned at the anchor.
func relativeDrawPosition(self, other proto.MovementData) (int, int) {
	sx, sy := pixelPosition(self)
	ox, oy := pixelPosition(other)
	return ox - sx + anchorX, oy - sy + anchorY
}

// facingTile returns the tile one step in front of a player, the tile the
// engine checks when it looks for something to bump into or talk to.
func facingTile(m proto.MovementData) (byte, byte) {
	x, y := m.MapX, m.MapY
	switch m.Direction {
	case proto.DirDown:
		y++
	case proto.DirUp:
		y--
	case proto.DirRight:
		x++
	default:
		x--
	}
	return x, y
}
