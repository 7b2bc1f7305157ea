package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"

	"gblink/relay"
)

var (
	baseDir string
	doDebug bool
)

func main() {
	host := flag.String("connect", "", "relay address (host:port)")
	hostMode := flag.Bool("host", false, "host a relay in-process and connect to it")
	name := flag.String("name", "", "player name shown to others")
	replayPath := flag.String("replay", "", "play back a recorded session instead of connecting")
	recordPath := flag.String("record", "", "record the inbound session to a file")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}

	loadSettings()
	if *name != "" {
		gs.PlayerName = *name
	}
	if *host != "" {
		gs.LastHost = *host
	}
	setupLogging(doDebug)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applyTheme()
	bakeGhostFrames()

	gd := newGameData()
	engine := newSimCore(gs.PlayerName, gd.checkpoint)

	switch {
	case *replayPath != "":
		events, err := loadRecording(resolveReplayPath(*replayPath))
		if err != nil {
			log.Fatalf("load recording: %v", err)
		}
		go replaySession(ctx, events)
	default:
		if *hostMode {
			addr, err := relay.Start(ctx)
			if err != nil {
				log.Fatalf("host relay: %v", err)
			}
			gs.LastHost = addr
			addChatLine("* hosting relay on " + addr)
		}
		if *recordPath != "" {
			if err := startRecording(*recordPath); err != nil {
				log.Fatalf("%v", err)
			}
			defer stopRecording()
		}
		if err := connectRelay(ctx, gs.LastHost); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if gs.DiscordRPC {
		initDiscordRPC(ctx)
	}

	ebiten.SetWindowTitle("GBLink")
	ebiten.SetWindowSize(screenWidth*gs.Scale+chatPanelWidth, screenHeight*gs.Scale)
	ebiten.SetVsyncEnabled(gs.Vsync)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(newGame(ctx, gd, engine)); err != nil && err != ebiten.Termination {
		logError("game loop: %v", err)
	}
	saveSettings()
}

// resolveReplayPath falls back to a file picker when the given recording
// does not exist.
func resolveReplayPath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	picked, err := dialog.File().Title("Choose a session recording").Filter("gblink recording", "jsonl").Load()
	if err != nil {
		return path
	}
	return picked
}
