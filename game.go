package main

import (
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	dark "github.com/thiagokokada/dark-mode-go"
	"golang.org/x/image/font/basicfont"
)

const (
	chatPanelWidth = 250
	frameBudget    = time.Second / 60
)

// Colors for the chat panel, picked from the system theme at startup.
var (
	panelBG   = color.NRGBA{0x18, 0x18, 0x20, 0xFF}
	panelText = color.NRGBA{0xE8, 0xE8, 0xE8, 0xFF}
	panelDim  = color.NRGBA{0x90, 0x90, 0x98, 0xFF}
)

var chatFace = text.NewGoXFace(basicfont.Face7x13)

// Game is the session driver: one Update is one pass of the fixed order
// input → engine step → movement refresh → network passes, and one Draw
// renders framebuffer, ghosts and chat. The engine and network budgets are
// independent 1/60 s timers and drift out of phase freely.
type Game struct {
	ctx    context.Context
	gd     *gameData
	engine Engine

	engineLast  time.Time
	networkLast time.Time
	fastMode    bool

	fbImage *ebiten.Image
}

func newGame(ctx context.Context, gd *gameData, engine Engine) *Game {
	return &Game{
		ctx:     ctx,
		gd:      gd,
		engine:  engine,
		fbImage: ebiten.NewImage(screenWidth, screenHeight),
	}
}

func applyTheme() {
	darkMode, err := dark.IsDarkMode()
	if err != nil {
		darkMode = true
	}
	if !darkMode {
		panelBG = color.NRGBA{0xF0, 0xF0, 0xE8, 0xFF}
		panelText = color.NRGBA{0x20, 0x20, 0x20, 0xFF}
		panelDim = color.NRGBA{0x70, 0x70, 0x78, 0xFF}
	}
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if chatActive {
		g.updateChatInput()
	} else {
		if inpututil.IsKeyJustPressed(ebiten.KeyT) {
			chatActive = true
		}
		g.fastMode = ebiten.IsKeyPressed(ebiten.KeySpace)
	}

	now := time.Now()
	if g.gd.phase == phaseNormal && (g.fastMode || now.Sub(g.engineLast) >= frameBudget) {
		g.engineLast = now
		g.engine.SetJoypad(readJoypad())
		g.engine.StepFrame()
		localPlayer = readLocalPlayer(g.engine, localID)
	}

	if now.Sub(g.networkLast) >= frameBudget {
		g.networkLast = now
		sendUpdates(g.gd)
		recvUpdates(g.gd, g.engine)
	}
	return nil
}

// readJoypad maps the keyboard onto the handheld's buttons. Disabled while
// the chat input owns the keyboard.
func readJoypad() Joypad {
	if chatActive {
		return Joypad{}
	}
	return Joypad{
		Up:     ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:   ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:  ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter),
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	}
}

func (g *Game) updateChatInput() {
	chatInput = append(chatInput, ebiten.AppendInputChars(nil)...)
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(chatInput) > 0 {
		chatInput = chatInput[:len(chatInput)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		chatInput = chatInput[:0]
		chatActive = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		submitChat()
		chatActive = false
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	scale := float64(gs.Scale)

	if fb := g.engine.FrameBuffer(); fb != nil {
		g.fbImage.WritePixels(fb)
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.fbImage, op)

	g.drawGhosts(screen)
	g.drawChatPanel(screen)

	if g.gd.phase == phaseWaiting {
		drawLabel(screen, "waiting for battle data...", 8, 8, panelText)
	}
}

// drawGhosts overlays every remote player on the same map at its
// interpolated position.
func (g *Game) drawGhosts(screen *ebiten.Image) {
	scale := float64(gs.Scale)
	self := localPlayer.Movement
	for _, p := range getPlayers() {
		if p.ID == localID || p.Movement.MapID != self.MapID {
			continue
		}
		x, y := relativeDrawPosition(self, p.Movement)
		if x < -tileSize || x > screenWidth || y < -tileSize || y > screenHeight {
			continue
		}
		frame, flip := frameIndex(p.Movement.Direction, p.Movement.WalkCounter)
		img := ghostFrames[frame]
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
		if flip {
			op.GeoM.Scale(-1, 1)
			op.GeoM.Translate(tileSize, 0)
		}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(x)*scale, float64(y)*scale)
		screen.DrawImage(img, op)
	}
}

func (g *Game) drawChatPanel(screen *ebiten.Image) {
	panelX := screenWidth * gs.Scale
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	vector.DrawFilledRect(screen, float32(panelX), 0, float32(w-panelX), float32(h), panelBG, false)

	lineH := gs.ChatFontSize + 3
	y := 6
	for _, line := range getChatLines() {
		drawLabel(screen, line, panelX+6, y, panelText)
		y += lineH
	}

	input := "[press T to chat]"
	clr := panelDim
	if chatActive {
		input = "> " + string(chatInput) + "_"
		clr = panelText
	}
	drawLabel(screen, input, panelX+6, h-2*lineH, clr)
	drawLabel(screen, statsLine(), panelX+6, h-lineH, panelDim)
}

func drawLabel(screen *ebiten.Image, s string, x, y int, clr color.NRGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, chatFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth*gs.Scale + chatPanelWidth, screenHeight * gs.Scale
}
