package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/nescore/internal/config"
	"github.com/nevisdale/nescore/internal/logger"
	"github.com/nevisdale/nescore/internal/nes"
	"github.com/nevisdale/nescore/internal/ppu"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Tab - show debug info
// P - pause
// R - reset
// M - toggle audio

const (
	gameScreenWidth  = ppu.Width
	gameScreenHeight = ppu.Height

	debugScreenWidth = 286
	disasmLines      = 7
)

type UI struct {
	console *nes.NES
	scale   int
	keys    [2]keyBindings

	frame  *image.RGBA
	screen *ebiten.Image

	showDebugInfo bool
	disasm        map[uint16]string
	disasmAddrs   []uint16
}

func New(console *nes.NES, cfg config.Config) *UI {
	ui := &UI{
		console: console,
		scale:   cfg.Scale,
		frame:   image.NewRGBA(image.Rect(0, 0, gameScreenWidth, gameScreenHeight)),
		screen:  ebiten.NewImage(gameScreenWidth, gameScreenHeight),
	}
	for port := range ui.keys {
		ui.keys[port] = newKeyBindings(cfg.Bindings(port))
	}
	ui.refreshDisasm()
	return ui
}

func (ui *UI) refreshDisasm() {
	ui.disasm = ui.console.Disassemble(0x8000, 0xffff)
	ui.disasmAddrs = maps.Keys(ui.disasm)
	slices.Sort(ui.disasmAddrs)
}

func (ui *UI) togglePause() {
	if ui.console.State() == nes.Running {
		ui.console.Stop()
		return
	}
	if err := ui.console.Start(); err != nil {
		logger.Logf("ui", "start: %v", err)
	}
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ui.showDebugInfo = !ui.showDebugInfo
		if ui.showDebugInfo {
			ui.refreshDisasm()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.togglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ui.console.Reset()
		ui.refreshDisasm()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if err := ui.console.EnableAudio(!ui.console.Config().Sound); err != nil {
			logger.Logf("ui", "audio: %v", err)
		}
	}

	for port, keys := range ui.keys {
		ui.console.SetButtons(port, keys.pressed(ebiten.IsKeyPressed))
	}

	if ui.console.State() == nes.Destroyed {
		return ebiten.Termination
	}
	return nil
}

func (ui *UI) drawDebugInfo(screen *ebiten.Image) {
	info := ui.console.Info()
	var infoStr strings.Builder
	fmt.Fprintf(&infoStr, " FPS: %0.0f\n", ebiten.ActualFPS())
	fmt.Fprintf(&infoStr, " STATUS: %s\n", ui.console.State())
	fmt.Fprintf(&infoStr, " MAPPER: %s\n", info.Mapper)
	fmt.Fprintf(&infoStr, " PC: %04X\n", info.PC)
	fmt.Fprintf(&infoStr, " A: $%02X [%03d]", info.A, info.A)
	fmt.Fprintf(&infoStr, " X: $%02X [%03d]", info.X, info.X)
	fmt.Fprintf(&infoStr, " Y: $%02X [%03d]\n", info.Y, info.Y)
	fmt.Fprintf(&infoStr, " SP: $%02X P: $%02X\n", info.SP, info.P)
	fmt.Fprintf(&infoStr, " LINE: %d DOT: %d FRAME: %d\n", info.Scanline, info.Dot, info.Frames)
	fmt.Fprintf(&infoStr, " AUDIO: %d queued, %d dropped\n", info.Buffered, info.Dropped)

	at, found := slices.BinarySearch(ui.disasmAddrs, info.PC)
	for i := max(0, at-disasmLines); i < min(len(ui.disasmAddrs), at+disasmLines); i++ {
		marker := " "
		if found && i == at {
			marker = "*"
		}
		infoStr.WriteString(marker + ui.disasm[ui.disasmAddrs[i]] + "\n")
	}

	debugScreenOffsetX := float32(gameScreenWidth * ui.scale)
	vector.DrawFilledRect(screen, debugScreenOffsetX, 0, debugScreenWidth, float32(gameScreenHeight*ui.scale), color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, infoStr.String(), int(debugScreenOffsetX), 0)
}

func (ui *UI) Draw(screen *ebiten.Image) {
	if ui.console.FrameReady() {
		ui.console.DrawFrame(ui.frame)
		ui.screen.WritePixels(ui.frame.Pix)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(ui.scale), float64(ui.scale))
	screen.DrawImage(ui.screen, op)

	if ui.showDebugInfo {
		ui.drawDebugInfo(screen)
	}
}

func (ui *UI) Layout(_, _ int) (int, int) {
	w, h := gameScreenWidth*ui.scale, gameScreenHeight*ui.scale
	if ui.showDebugInfo {
		w += debugScreenWidth
	}
	return w, h
}

// RunUI blocks until the window is closed.
func RunUI(ui *UI) error {
	w, h := ui.Layout(0, 0)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetTPS(60)

	err := ebiten.RunGame(ui)
	if err == ebiten.Termination {
		return nil
	}
	return err
}
