package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hako/durafmt"

	"gblink/proto"
)

// Session recordings capture the inbound event stream with timestamps so a
// session can be replayed later without a relay. One JSON object per line:
// elapsed milliseconds plus the raw wire line.
type recordedEvent struct {
	Ms   int64           `json:"ms"`
	Line json.RawMessage `json:"line"`
}

var (
	recordMu    sync.Mutex
	recordFile  *os.File
	recordStart time.Time
)

func startRecording(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	recordMu.Lock()
	recordFile = f
	recordStart = time.Now()
	recordMu.Unlock()
	return nil
}

// recordEvent appends one raw inbound line to the recording, if any.
func recordEvent(line []byte) {
	recordMu.Lock()
	defer recordMu.Unlock()
	if recordFile == nil {
		return
	}
	re := recordedEvent{
		Ms:   time.Since(recordStart).Milliseconds(),
		Line: json.RawMessage(line),
	}
	data, err := json.Marshal(re)
	if err != nil {
		return
	}
	recordFile.Write(append(data, '\n'))
}

func stopRecording() {
	recordMu.Lock()
	defer recordMu.Unlock()
	if recordFile != nil {
		recordFile.Close()
		recordFile = nil
	}
}

// loadRecording parses a recording file into memory.
func loadRecording(path string) ([]recordedEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []recordedEvent
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var re recordedEvent
		if err := json.Unmarshal(sc.Bytes(), &re); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", len(events)+1, err)
		}
		events = append(events, re)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// replaySession feeds a recording into the inbound queue on its original
// schedule, standing in for a live relay connection.
func replaySession(ctx context.Context, events []recordedEvent) {
	if len(events) == 0 {
		return
	}
	total := time.Duration(events[len(events)-1].Ms) * time.Millisecond
	addChatLine(fmt.Sprintf("* replaying %d events over %s",
		len(events), durafmt.Parse(total.Round(time.Second)).LimitFirstN(2).Format(shortUnits)))

	start := time.Now()
	for _, re := range events {
		at := time.Duration(re.Ms) * time.Millisecond
		if wait := at - time.Since(start); wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
		ev, err := proto.Decode(re.Line)
		if err != nil {
			logDebug("replay: %v", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case inbound <- ev:
		}
	}
	addChatLine("* replay finished")
}
