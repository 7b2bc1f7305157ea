package main

import (
	"fmt"
	"sync"

	"gblink/gbtext"
	"gblink/proto"
)

const maxChatLines = 16

// Chat transcript and the input line being typed. The transcript holds
// already-decoded display strings; the wire carries engine-encoded bytes.
var (
	chatMu    sync.Mutex
	chatLines []string

	chatInput  []rune
	chatActive bool
)

// appendChat resolves the sender's name from the player table and appends
// one transcript line. Unknown senders get a literal placeholder name.
func appendChat(id proto.PlayerID, text []byte) {
	name := playerName(id)
	if name == nil {
		name = gbtext.Encode("UNKNOWN")
	}
	addChatLine(fmt.Sprintf("%s: %s", gbtext.Decode(name), gbtext.Decode(text)))
}

func addChatLine(line string) {
	chatMu.Lock()
	defer chatMu.Unlock()
	chatLines = append(chatLines, line)
	if len(chatLines) > maxChatLines {
		chatLines = chatLines[len(chatLines)-maxChatLines:]
	}
}

func getChatLines() []string {
	chatMu.Lock()
	defer chatMu.Unlock()
	return append([]string(nil), chatLines...)
}

// submitChat sends the typed line to the relay and echoes it locally; the
// relay does not reflect our own messages back.
func submitChat() {
	line := string(chatInput)
	chatInput = chatInput[:0]
	if line == "" {
		return
	}
	sendEvent(proto.Chat{ID: localID, Text: gbtext.Encode(line)})
	addChatLine(fmt.Sprintf("%s: %s", gbtext.Decode(localName()), line))
}
