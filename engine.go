package main

// Engine is the narrow capability surface the hook layer needs from an
// emulator core. The core itself is an external collaborator: anything that
// can step one video frame, expose its bus and the two registers the hooks
// touch, and call the installed hook at each instruction boundary can sit
// behind this interface. The built-in simCore implements it for development
// and tests.
type Engine interface {
	// StepFrame executes one video frame. The hook installed at
	// construction time is invoked synchronously at each checkpoint the
	// core passes through; hook code must never block.
	StepFrame()

	ReadByte(addr uint16) byte
	WriteByte(addr uint16, b byte)

	// WriteROM pokes a byte into a switched cartridge bank. The fabricated
	// opponent roster overwrites trainer data that a plain bus write
	// cannot reach.
	WriteROM(bank int, addr uint16, b byte)

	PC() uint16
	SetPC(pc uint16)
	Accumulator() byte
	SetAccumulator(b byte)

	SetJoypad(j Joypad)

	// FrameBuffer returns the current screen as RGBA pixels,
	// screenWidth*screenHeight*4 bytes, or nil if no frame is ready.
	FrameBuffer() []byte
}

// Hook is called by the core with the program counter parked at a
// checkpoint. It may rewrite memory, registers or the program counter.
type Hook func(Engine)

// Joypad mirrors the eight buttons of the handheld.
type Joypad struct {
	Up, Down, Left, Right bool
	A, B, Start, Select   bool
}
