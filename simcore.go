package main

import (
	"gblink/gbtext"
	"gblink/proto"
)

// simCore is a stand-in emulator core. It models only the slice of the
// game the hook layer interacts with — tile walking, the sprite collision
// check, the dialogue routine and the battle flags — and raises the same
// program-counter checkpoints a real core would, so the whole interception
// path runs without the external collaborator. Attach a real core through
// the Engine interface and this file stays out of the build path.
type simCore struct {
	hook Hook

	mem [0x10000]byte
	rom map[int][]byte
	pc  uint16
	a   byte

	joy   Joypad
	prevA bool

	dialogue       string
	dialogueFrames int
	battleFrames   int

	fb []byte
}

func newSimCore(name string, hook Hook) *simCore {
	c := &simCore{
		hook: hook,
		rom:  make(map[int][]byte),
		fb:   make([]byte, screenWidth*screenHeight*4),
	}

	// Seed the memory the hook layer reads: name, starting tile, and a
	// small roster so battle data requests have something to answer with.
	encoded := gbtext.Encode(name)
	if len(encoded) > kPlayerNameLen-1 {
		encoded = encoded[:kPlayerNameLen-1]
	}
	copy(c.mem[kPlayerName:], encoded)
	c.mem[kPlayerName+uint16(len(encoded))] = gbtext.Terminator

	c.mem[kMapID] = 1
	c.mem[kMapX] = 8
	c.mem[kMapY] = 8
	c.mem[kPlayerDir] = proto.DirDown

	demo := []proto.PartySlot{{Species: 0xB0, Level: 12}, {Species: 0x99, Level: 20}, {Species: 0x04, Level: 36}}
	c.mem[kPartyCount] = byte(len(demo))
	for i, mon := range demo {
		base := kPartyMons + uint16(i)*kPartyMonSize
		c.mem[base] = mon.Species
		c.mem[base+kPartyLevel] = mon.Level
	}
	return c
}

func (c *simCore) ReadByte(addr uint16) byte     { return c.mem[addr] }
func (c *simCore) WriteByte(addr uint16, b byte) { c.mem[addr] = b }
func (c *simCore) PC() uint16                    { return c.pc }
func (c *simCore) SetPC(pc uint16)               { c.pc = pc }
func (c *simCore) Accumulator() byte             { return c.a }
func (c *simCore) SetAccumulator(b byte)         { c.a = b }
func (c *simCore) SetJoypad(j Joypad)            { c.joy = j }

func (c *simCore) WriteROM(bank int, addr uint16, b byte) {
	bk, ok := c.rom[bank]
	if !ok {
		bk = make([]byte, 0x4000)
		c.rom[bank] = bk
	}
	bk[addr&0x3FFF] = b
}

// checkpointAt parks the program counter at a known address and gives the
// hook its chance to intervene, exactly as a real core does at every
// instruction boundary.
func (c *simCore) checkpointAt(pc uint16) {
	c.pc = pc
	if c.hook != nil {
		c.hook(c)
	}
}

// spriteCheck mimics the engine's collision routine for the facing tile.
// The sim map has no sprites of its own, so only the hook can make the
// check come back positive.
func (c *simCore) spriteCheck() bool {
	c.mem[kNumSprites] = 0
	c.mem[kSpriteIndex] = 0
	c.checkpointAt(kSpriteCheckExit1)
	return c.mem[kSpriteIndex] == 0xFF
}

// StepFrame advances the world by one video frame.
func (c *simCore) StepFrame() {
	c.checkpointAt(kOverworldLoopStart)

	if c.mem[kActiveBattle] != 0 && c.battleFrames == 0 {
		// loadBattle armed a fight; freeze the overworld while it "runs".
		c.battleFrames = 180
		c.dialogue = ""
		c.dialogueFrames = 0
	}
	if c.battleFrames > 0 {
		c.battleFrames--
		if c.battleFrames == 0 {
			c.mem[kActiveBattle] = 0
		}
		c.render()
		return
	}

	if c.dialogueFrames > 0 {
		c.dialogueFrames--
	} else if wc := c.mem[kWalkCounter]; wc > 0 {
		wc--
		c.mem[kWalkCounter] = wc
		if wc == 0 {
			// Traversal complete; the tile coordinate catches up.
			x, y := facingTile(c.movement())
			c.mem[kMapX] = x
			c.mem[kMapY] = y
		}
	} else {
		c.handleInput()
	}

	c.prevA = c.joy.A
	c.render()
}

func (c *simCore) handleInput() {
	if dir, ok := heldDirection(c.joy); ok {
		c.mem[kPlayerDir] = dir
		if !c.spriteCheck() {
			c.mem[kWalkCounter] = proto.WalkStart
		}
		return
	}

	if c.joy.A && !c.prevA && c.spriteCheck() {
		// Something is in the way and the player pressed A: the engine
		// would start its dialogue routine here.
		c.checkpointAt(kDisplayTextIDAfterInit)
		if c.pc != kDisplayTextSetupDone {
			// Nothing intercepted the init; a real sprite would have a
			// message of its own, the sim has none.
			return
		}
		var buf []byte
		for i := 0; i < 256; i++ {
			c.checkpointAt(kTextNextChar1)
			if c.pc == kTextNextChar1 {
				break // no substitution active
			}
			if c.a == gbtext.Terminator {
				break
			}
			buf = append(buf, c.a)
		}
		c.checkpointAt(kTextProcessorEnd)
		c.dialogue = gbtext.Decode(buf)
		c.dialogueFrames = int(c.mem[kFrameCounter]) * 3
	}
}

func heldDirection(j Joypad) (byte, bool) {
	switch {
	case j.Down:
		return proto.DirDown, true
	case j.Up:
		return proto.DirUp, true
	case j.Left:
		return proto.DirLeft, true
	case j.Right:
		return proto.DirRight, true
	}
	return 0, false
}

func (c *simCore) movement() proto.MovementData {
	return proto.MovementData{
		MapID:       c.mem[kMapID],
		MapX:        c.mem[kMapX],
		MapY:        c.mem[kMapY],
		Direction:   c.mem[kPlayerDir],
		WalkCounter: c.mem[kWalkCounter],
	}
}

// Four-shade palette in RGBA, lightest first.
var simShades = [4][3]byte{
	{0xE0, 0xF8, 0xD0},
	{0x88, 0xC0, 0x70},
	{0x34, 0x68, 0x56},
	{0x08, 0x18, 0x20},
}

// render paints a minimal overworld into the framebuffer: a scrolling tile
// checker, the player at the anchor, a text box while dialogue is showing
// and a dark flash during battles.
func (c *simCore) render() {
	px, py := pixelPosition(c.movement())

	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			shade := 0
			tx := (x + px - anchorX) / tileSize
			ty := (y + py - anchorY) / tileSize
			if (tx+ty)%2 == 0 {
				shade = 1
			}
			if c.battleFrames > 0 {
				shade = 3 - shade%2
			}
			c.setPixel(x, y, shade)
		}
	}

	// Local player marker.
	for y := anchorY; y < anchorY+tileSize && y < screenHeight; y++ {
		for x := anchorX; x < anchorX+tileSize && x < screenWidth; x++ {
			c.setPixel(x, y, 3)
		}
	}

	// Dialogue box along the bottom.
	if c.dialogueFrames > 0 {
		for y := screenHeight - 40; y < screenHeight; y++ {
			for x := 0; x < screenWidth; x++ {
				shade := 0
				if y == screenHeight-40 || y == screenHeight-1 || x == 0 || x == screenWidth-1 {
					shade = 3
				}
				c.setPixel(x, y, shade)
			}
		}
	}
}

func (c *simCore) setPixel(x, y, shade int) {
	i := (y*screenWidth + x) * 4
	c.fb[i] = simShades[shade][0]
	c.fb[i+1] = simShades[shade][1]
	c.fb[i+2] = simShades[shade][2]
	c.fb[i+3] = 0xFF
}

func (c *simCore) FrameBuffer() []byte { return c.fb }
