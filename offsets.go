package main

// Every fixed address in the target program image lives in this one table.
// The checkpoint values are program-counter addresses the game is known to
// reach inside its overworld, sprite and text subroutines; the rest are
// memory locations read or rewritten by the hook layer. Porting to another
// revision of the cartridge means regenerating this table and nothing else.
const (
	// Program-counter checkpoints.
	kOverworldLoopStart     uint16 = 0x03FF // top of the overworld frame loop
	kSpriteCheckExit1       uint16 = 0x0B23 // sprite slot check, empty-table path
	kSpriteCheckExit2       uint16 = 0x0B4A // sprite slot check, populated path
	kDisplayTextIDAfterInit uint16 = 0x2920 // just after dialogue init
	kDisplayTextSetupDone   uint16 = 0x29CD // dialogue setup complete
	kTextNextChar1          uint16 = 0x1B55 // text processor fetches a glyph
	kTextNextChar2          uint16 = 0x1956 // alternate glyph fetch path
	kTextProcessorEnd       uint16 = 0x1B5E // text processor returns

	// Overworld state.
	kNumSprites  uint16 = 0xD4E1 // sprites loaded on the current map
	kSpriteIndex uint16 = 0xFF8C // sprite the engine found in the way
	kMapID       uint16 = 0xD35E
	kMapY        uint16 = 0xD361
	kMapX        uint16 = 0xD362
	kPlayerDir   uint16 = 0xC109
	kWalkCounter uint16 = 0xCFC5
	kPlayerName  uint16 = 0xD158 // 11 bytes, terminator-padded

	// Dialogue.
	kFrameCounter uint16 = 0xFFD5

	// Battle setup.
	kActiveBattle uint16 = 0xD057
	kCurOpponent  uint16 = 0xD059
	kBattleType   uint16 = 0xD05A
	kTrainerNum   uint16 = 0xD05D

	// Local party, read when a peer requests battle data.
	kPartyCount   uint16 = 0xD163
	kPartyMons    uint16 = 0xD16B
	kPartyMonSize        = 44
	kPartyLevel          = 33 // offset of the level byte within a mon record
)

// The fabricated opponent party is written over a trainer roster that lives
// in a switched ROM bank, so it has its own bank/address pair.
const (
	kOpponentDataBank int    = 0x0E
	kOpponentDataAddr uint16 = 0x621D
)

// Battle setup values.
const (
	kBattleTypeNormal    byte = 0x00
	kActiveBattleTrainer byte = 0x02 // trainer battle, as opposed to wild
	kTrainerTag          byte = 0xC8 // offset separating trainers from species
	kTrainerClassRival   byte = 0x1A // roster slot we overwrite
)

const kPlayerNameLen = 11
