// Package nes owns every console unit and drives them against the CPU
// clock. It exposes the lifecycle a host controls (load, start, stop,
// reset, destroy) and pull accessors for the frame and sample streams.
package nes

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/nevisdale/nescore/internal/apu"
	"github.com/nevisdale/nescore/internal/cartridge"
	"github.com/nevisdale/nescore/internal/config"
	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/input"
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/logger"
	"github.com/nevisdale/nescore/internal/mapper"
	"github.com/nevisdale/nescore/internal/memory"
	"github.com/nevisdale/nescore/internal/palette"
	"github.com/nevisdale/nescore/internal/ppu"
)

var (
	ErrDestroyed   = errors.New("console destroyed")
	ErrNoCartridge = errors.New("no cartridge loaded")
	ErrRunning     = errors.New("console is running")
)

type State uint8

const (
	Uninitialized State = iota
	Loaded
	Running
	Stopped
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// AudioSink is the host's playback device. It pulls samples with
// ReadSamples while started.
type AudioSink interface {
	Start() error
	Stop()
}

type Option func(n *NES)

// WithAudioSink attaches the playback device toggled by EnableAudio.
func WithAudioSink(sink AudioSink) Option {
	return func(n *NES) {
		n.sink = sink
	}
}

// WithTrace writes a trace line for every executed instruction to w.
func WithTrace(w io.Writer) Option {
	return func(n *NES) {
		n.trace = w
	}
}

// RAM power-up pattern written at every 2 KiB mirror.
var ramPattern = map[int]uint8{
	0x008: 0xf7,
	0x009: 0xef,
	0x00a: 0xdf,
	0x00f: 0xbf,
}

type NES struct {
	cfg config.Config

	// ctl serialises lifecycle calls, mu guards the units while they
	// are stepped
	ctl sync.Mutex
	mu  sync.Mutex

	state State

	cpuMem    *memory.Region
	vram      *memory.Region
	spriteMem *memory.Region

	bus     cpuMemory
	cpu     *cpu.CPU
	irq     *irq.Wire
	ppu     *ppu.PPU
	apu     *apu.APU
	pads    [2]*input.Controller
	palette *palette.Palette

	img    *cartridge.Image
	mapper mapper.Mapper

	sink  AudioSink
	trace io.Writer

	stopping atomic.Bool
	quit     chan struct{}
	done     chan struct{}
	fault    error
}

// New builds a console with no cartridge.
func New(cfg config.Config, opts ...Option) (*NES, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("nes: %w", err)
	}

	n := &NES{cfg: cfg}
	for _, opt := range opts {
		opt(n)
	}
	if cfg.Trace && n.trace == nil {
		n.trace = traceLog{}
	}

	n.cpuMem = memory.New("cpu", memory.CPUSize)
	n.vram = memory.New("ppu", memory.PPUSize)
	n.spriteMem = memory.New("sprite", memory.SpriteSize)

	policy := cpu.Lenient
	if cfg.StrictOpcodes {
		policy = cpu.Strict
	}
	n.bus = cpuMemory{nes: n}
	n.cpu = cpu.New(n.bus, policy)
	n.irq = irq.NewWire(n.cpu)
	n.ppu = ppu.New(n.vram, n.spriteMem, n.cpu)
	n.apu = apu.New(audioHost{nes: n}, n.bus, cfg.SampleRate, cfg.FrameRate, cfg.AudioBuffer)
	n.apu.SetOutput(cfg.Sound)
	n.pads = [2]*input.Controller{{}, {}}
	n.palette = palette.Load(cfg.Palette)

	n.reset()
	logger.Logf("nes", "console created, %d fps, %d Hz audio", cfg.FrameRate, cfg.SampleRate)
	return n, nil
}

func (n *NES) State() State {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()
	return n.state
}

// Config is the current configuration, including changes made through
// SetFrameRate and EnableAudio.
func (n *NES) Config() config.Config {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	return n.cfg
}

// Err is the fault that stopped the run loop, if any. It is cleared by
// Reset and LoadROM.
func (n *NES) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fault
}

// LoadROM installs the cartridge at path. On failure the console is left
// as it was.
func (n *NES) LoadROM(path string) error {
	img, err := cartridge.Load(path)
	if err != nil {
		logger.Logf("nes", "load %s: %v", path, err)
		return err
	}
	return n.install(path, img)
}

// LoadROMBytes installs a cartridge from an in-memory iNES or zip image.
func (n *NES) LoadROMBytes(data []uint8) error {
	img, err := cartridge.Parse(data)
	if err != nil {
		logger.Logf("nes", "load: %v", err)
		return err
	}
	return n.install("", img)
}

// LoadImage installs an already parsed cartridge.
func (n *NES) LoadImage(img *cartridge.Image) error {
	return n.install("", img)
}

func (n *NES) install(path string, img *cartridge.Image) error {
	n.ctl.Lock()
	defer n.ctl.Unlock()

	if n.state == Destroyed {
		return ErrDestroyed
	}
	if !img.Valid() {
		logger.Logf("nes", "load: %v", cartridge.ErrNoProgram)
		return &cartridge.LoadError{Path: path, Err: cartridge.ErrNoProgram}
	}

	m, err := mapper.New(img, cartridgeHost{nes: n})
	if err != nil {
		logger.Logf("nes", "load: %v", err)
		return &cartridge.LoadError{Path: path, Err: err}
	}

	n.stop()

	n.mu.Lock()
	n.img = img
	n.mapper = m
	n.ppu.SetCartridge(m)
	m.LoadROM()
	n.reset()
	n.mu.Unlock()

	n.state = Loaded
	logger.Logf("nes", "loaded %s (%s)", img, m.Name())
	return nil
}

// Cartridge is the loaded image, or nil.
func (n *NES) Cartridge() *cartridge.Image {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.img
}

// Reset returns every unit to its power-up state. A running console is
// resumed afterwards. Reset never fails and is a no-op once destroyed.
func (n *NES) Reset() {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	switch n.state {
	case Destroyed:
		return
	case Running:
		n.stop()
		n.mu.Lock()
		n.reset()
		n.mu.Unlock()
		n.start()
		return
	case Stopped:
		n.state = Loaded
	}

	n.mu.Lock()
	n.reset()
	n.mu.Unlock()
}

// reset runs with mu held. The order is fixed: later units read memory
// the earlier steps prepared.
func (n *NES) reset() {
	if n.mapper != nil {
		n.mapper.Reset()
	}

	n.cpuMem.Reset()
	n.vram.Reset()
	n.spriteMem.Reset()

	n.fillRAM()

	n.irq.Reset()
	n.cpu.Reset()
	n.ppu.Reset()
	n.palette.Reset()
	n.apu.Reset()
	for _, pad := range n.pads {
		pad.Reset()
	}

	n.fault = nil
}

func (n *NES) fillRAM() {
	for addr := 0; addr < 0x2000; addr++ {
		n.cpuMem.Write8(uint16(addr), n.cfg.MemoryFlushValue)
	}
	for p := 0; p < 4; p++ {
		for off, v := range ramPattern {
			n.cpuMem.Write8(uint16(p*0x800+off), v)
		}
	}
}

// SetFrameRate changes the run loop pacing and rescales the audio
// resampler to match.
func (n *NES) SetFrameRate(rate int) error {
	if rate <= 0 {
		return fmt.Errorf("nes: frame rate must be positive, got %d", rate)
	}

	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	if n.state == Destroyed {
		return ErrDestroyed
	}

	running := n.stop()
	n.mu.Lock()
	n.cfg.FrameRate = rate
	n.apu.SetFrameRate(rate)
	n.mu.Unlock()
	if running {
		n.start()
	}

	logger.Logf("nes", "frame rate %d", rate)
	return nil
}

// SetSampleRate changes the audio output rate. Queued samples are kept
// unless resetBuffers is set.
func (n *NES) SetSampleRate(rate int, resetBuffers bool) error {
	if rate <= 0 {
		return fmt.Errorf("nes: sample rate must be positive, got %d", rate)
	}

	n.ctl.Lock()
	defer n.ctl.Unlock()

	if n.state == Destroyed {
		return ErrDestroyed
	}

	n.mu.Lock()
	n.cfg.SampleRate = rate
	n.apu.SetSampleRate(rate, resetBuffers)
	n.mu.Unlock()
	return nil
}

// EnableAudio turns sample output and the attached sink on or off. The
// run loop is paused around the sink transition.
func (n *NES) EnableAudio(enabled bool) error {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	if n.state == Destroyed {
		return ErrDestroyed
	}

	running := n.stop()
	defer func() {
		if running {
			n.start()
		}
	}()

	if n.sink != nil {
		if enabled {
			if err := n.sink.Start(); err != nil {
				logger.Logf("nes", "audio: %v", err)
				return fmt.Errorf("nes: start audio: %w", err)
			}
		} else {
			n.sink.Stop()
		}
	}

	n.mu.Lock()
	n.cfg.Sound = enabled
	n.apu.SetOutput(enabled)
	n.mu.Unlock()

	logger.Logf("nes", "audio enabled: %v", enabled)
	return nil
}

// Destroy stops the console and releases the cartridge. Every later
// call is a no-op or returns ErrDestroyed.
func (n *NES) Destroy() {
	n.ctl.Lock()
	defer n.ctl.Unlock()

	if n.state == Destroyed {
		return
	}

	n.stop()
	if n.sink != nil && n.cfg.Sound {
		n.sink.Stop()
	}

	n.mu.Lock()
	n.ppu.SetCartridge(nil)
	n.mapper = nil
	n.img = nil
	n.mu.Unlock()

	n.state = Destroyed
	logger.Log("nes", "console destroyed")
}
