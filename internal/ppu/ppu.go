package ppu

import (
	"sync"

	"github.com/nevisdale/nescore/internal/cartridge"
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/mapper"
	"github.com/nevisdale/nescore/internal/memory"
)

const (
	Width  = 256
	Height = 240

	dotsPerLine    = 341
	linesPerFrame  = 262
	vblankLine     = 241
	preRenderLine  = 261
	counterDot     = 260
	nametableBase  = 0x2000
	paletteBase    = 0x3f00
	paletteEntries = 0x20
)

// register bits
const (
	ctrlNametable     = uint8(0x03)
	ctrlIncrement32   = uint8(1 << 2)
	ctrlSpriteTable   = uint8(1 << 3)
	ctrlBackTable     = uint8(1 << 4)
	ctrlSpriteSize16  = uint8(1 << 5)
	ctrlNMIEnable     = uint8(1 << 7)
	maskGreyscale     = uint8(1 << 0)
	maskLeftBack      = uint8(1 << 1)
	maskLeftSprites   = uint8(1 << 2)
	maskShowBack      = uint8(1 << 3)
	maskShowSprites   = uint8(1 << 4)
	statusOverflow    = uint8(1 << 5)
	statusSpriteZero  = uint8(1 << 6)
	statusVBlank      = uint8(1 << 7)
	statusLatchedBits = statusOverflow | statusSpriteZero | statusVBlank
)

// Cartridge is the picture unit's view of the loaded mapper.
type Cartridge interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, data uint8)
	Mirroring() cartridge.Mirroring
}

type PPU struct {
	vram *memory.Region
	oam  *memory.Region
	cart Cartridge
	line irq.Line

	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8
	openBus uint8
	buffer  uint8

	// loopy registers
	v uint16
	t uint16
	x uint8
	w bool

	dot      int
	scanline int
	oddFrame bool

	// background fetch latches and the two-tile shift register,
	// four bits per pixel (attribute and pattern)
	ntByte   uint8
	atByte   uint8
	lowByte  uint8
	highByte uint8
	tileData uint64

	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	back []uint8

	mu       sync.Mutex
	front    []uint8
	emphasis uint8
	ready    bool
	frames   uint64
}

// New wires the picture unit to its VRAM and OAM regions and the
// interrupt line it raises NMI on.
func New(vram, oam *memory.Region, line irq.Line) *PPU {
	p := &PPU{
		vram:  vram,
		oam:   oam,
		line:  line,
		back:  make([]uint8, Width*Height),
		front: make([]uint8, Width*Height),
	}
	p.Reset()
	return p
}

// SetCartridge attaches the mapper pattern tables are read through.
// A nil cartridge reads as zero with horizontal mirroring.
func (p *PPU) SetCartridge(c Cartridge) {
	p.cart = c
}

// Reset clears the registers and moves the raster to the top of the
// frame. VRAM and OAM are owned by the caller.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	p.openBus = 0
	p.buffer = 0
	p.v = 0
	p.t = 0
	p.x = 0
	p.w = false
	p.dot = 0
	p.scanline = 0
	p.oddFrame = false
	p.tileData = 0
	p.spriteCount = 0
	clear(p.back)

	p.mu.Lock()
	clear(p.front)
	p.emphasis = 0
	p.ready = false
	p.frames = 0
	p.mu.Unlock()
}

// Position is the current raster position.
func (p *PPU) Position() (scanline, dot int) {
	return p.scanline, p.dot
}

func (p *PPU) VBlank() bool {
	return p.status&statusVBlank > 0
}

func (p *PPU) rendering() bool {
	return p.mask&(maskShowBack|maskShowSprites) > 0
}

func (p *PPU) increment() uint16 {
	if p.ctrl&ctrlIncrement32 > 0 {
		return 32
	}
	return 1
}

func (p *PPU) mirroring() cartridge.Mirroring {
	if p.cart == nil {
		return cartridge.Horizontal
	}
	return p.cart.Mirroring()
}

func paletteAddr(addr uint16) uint16 {
	addr &= paletteEntries - 1
	// backdrop entries of the sprite palettes alias the background ones
	if addr >= 0x10 && addr&0x3 == 0 {
		addr -= 0x10
	}
	return paletteBase + addr
}

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3fff
	switch {
	case addr < nametableBase:
		if p.cart == nil {
			return 0
		}
		return p.cart.ReadCHR(addr)
	case addr < paletteBase:
		return p.vram.Read8(nametableBase + p.mirroring().NametableOffset(addr))
	}
	return p.vram.Read8(paletteAddr(addr))
}

func (p *PPU) write(addr uint16, data uint8) {
	addr &= 0x3fff
	switch {
	case addr < nametableBase:
		if p.cart != nil {
			p.cart.WriteCHR(addr, data)
		}
	case addr < paletteBase:
		p.vram.Write8(nametableBase+p.mirroring().NametableOffset(addr), data)
	default:
		p.vram.Write8(paletteAddr(addr), data)
	}
}

// ReadRegister serves CPU reads of $2000-$3FFF. addr is taken modulo 8.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 0x7 {
	case 0x2:
		r := p.status&statusLatchedBits | p.openBus&^statusLatchedBits
		p.status &^= statusVBlank
		p.w = false
		p.openBus = r
		return r
	case 0x4:
		p.openBus = p.oam.Read8(uint16(p.oamAddr))
		return p.openBus
	case 0x7:
		addr := p.v & 0x3fff
		var r uint8
		if addr < paletteBase {
			r = p.buffer
			p.buffer = p.read(addr)
		} else {
			// palette reads are not buffered, the buffer gets the
			// nametable byte underneath
			p.buffer = p.read(addr - 0x1000)
			r = p.read(addr)
		}
		p.v += p.increment()
		p.openBus = r
		return r
	}
	return p.openBus
}

// WriteRegister serves CPU writes of $2000-$3FFF. addr is taken modulo 8.
func (p *PPU) WriteRegister(addr uint16, data uint8) {
	p.openBus = data

	switch addr & 0x7 {
	case 0x0:
		enabled := p.ctrl&ctrlNMIEnable == 0 && data&ctrlNMIEnable > 0
		p.ctrl = data
		p.t = p.t&0xf3ff | uint16(data&ctrlNametable)<<10
		if enabled && p.VBlank() {
			p.line.RequestInterrupt(irq.NMI)
		}
	case 0x1:
		p.mask = data
	case 0x3:
		p.oamAddr = data
	case 0x4:
		p.oam.Write8(uint16(p.oamAddr), data)
		p.oamAddr++
	case 0x5:
		if !p.w {
			p.t = p.t&0xffe0 | uint16(data)>>3
			p.x = data & 0x07
		} else {
			p.t = p.t&0x8fff | uint16(data&0x07)<<12
			p.t = p.t&0xfc1f | uint16(data&0xf8)<<2
		}
		p.w = !p.w
	case 0x6:
		if !p.w {
			p.t = p.t&0x80ff | uint16(data&0x3f)<<8
		} else {
			p.t = p.t&0xff00 | uint16(data)
			p.v = p.t
		}
		p.w = !p.w
	case 0x7:
		p.write(p.v, data)
		p.v += p.increment()
	}
}

// WriteOAM copies a DMA page into OAM starting at OAMADDR.
func (p *PPU) WriteOAM(page []uint8) {
	for _, b := range page {
		p.oam.Write8(uint16(p.oamAddr), b)
		p.oamAddr++
	}
}

// Step advances the raster by dots picture unit cycles.
func (p *PPU) Step(dots int) {
	for i := 0; i < dots; i++ {
		p.tick()
	}
}

func (p *PPU) counter() mapper.ScanlineCounter {
	if sc, ok := p.cart.(mapper.ScanlineCounter); ok {
		return sc
	}
	return nil
}
