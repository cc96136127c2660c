package nes

import (
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/memory"
)

const (
	ramMask     = 0x07ff
	oamDMAAddr  = 0x4014
	apuStatus   = 0x4015
	pad1Addr    = 0x4016
	pad2Addr    = 0x4017
	oamDMAPage  = 0x100
	oamDMAStall = 513
)

// $0000-$07FF: 2 KB of internal RAM
// $0800-$1FFF: Mirrors of $0000-$07FF
// $2000-$2007: PPU (Picture Processing Unit) registers
// $2008-$3FFF: Mirrors of $2000-$2007 (every 8 bytes)
// $4000-$4017: APU (Audio Processing Unit) and I/O registers
// $4018-$401F: APU and I/O functionality that is normally disabled
// $4020-$FFFF: Cartridge space, including PRG-ROM, PRG-RAM, and mapper registers
type cpuMemory struct {
	nes *NES
}

func (c cpuMemory) Read8(addr uint16) uint8 {
	n := c.nes
	switch {
	// read from ram
	case addr < 0x2000:
		return n.cpuMem.Read8(addr & ramMask)
	// read from ppu
	case addr < 0x4000:
		return n.ppu.ReadRegister(addr)
	// read from apu and io
	case addr == apuStatus:
		return n.apu.ReadStatus()
	case addr == pad1Addr:
		return n.pads[0].Read()
	case addr == pad2Addr:
		return n.pads[1].Read()
	case addr < 0x4020:
		return 0
	}
	// read from cartridge
	if n.mapper == nil {
		return 0
	}
	return n.mapper.ReadPRG(addr)
}

func (c cpuMemory) Write8(addr uint16, data uint8) {
	n := c.nes
	switch {
	// write to ram
	case addr < 0x2000:
		n.cpuMem.Write8(addr&ramMask, data)
	// write to ppu
	case addr < 0x4000:
		n.ppu.WriteRegister(addr, data)
	// write to io
	case addr == oamDMAAddr:
		c.oamDMA(data)
	case addr == pad1Addr:
		// the strobe line is shared by both ports
		n.pads[0].Write(data)
		n.pads[1].Write(data)
	// write to apu, $4017 is the frame counter on writes
	case addr < 0x4018:
		n.apu.WriteRegister(addr, data)
	case addr < 0x4020:
	// write to cartridge
	default:
		if n.mapper != nil {
			n.mapper.WritePRG(addr, data)
		}
	}
}

// oamDMA copies a 256 byte CPU page into sprite memory. The CPU is
// suspended for 513 cycles, one more when the transfer starts on an odd
// cycle.
func (c cpuMemory) oamDMA(page uint8) {
	n := c.nes
	buf := make([]uint8, oamDMAPage)
	base := uint16(page) << 8
	for i := range buf {
		buf[i] = c.Read8(base + uint16(i))
	}
	n.ppu.WriteOAM(buf)

	stall := oamDMAStall
	if n.cpu.Cycles()%2 == 1 {
		stall++
	}
	n.cpu.Stall(stall)
}

// peek reads without side effects: RAM and cartridge space only.
// Registers read as zero.
func (c cpuMemory) peek(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return c.nes.cpuMem.Read8(addr & ramMask)
	case addr < 0x4020:
		return 0
	}
	if c.nes.mapper == nil {
		return 0
	}
	return c.nes.mapper.ReadPRG(addr)
}

// cartridgeHost is what a mapper sees of the console.
type cartridgeHost struct {
	nes *NES
}

func (h cartridgeHost) RequestInterrupt(kind irq.Kind) {
	h.nes.irq.Line(irq.Cartridge).RequestInterrupt(kind)
}

func (h cartridgeHost) AcknowledgeInterrupt(kind irq.Kind) {
	irq.Acknowledge(h.nes.irq.Line(irq.Cartridge), kind)
}

func (h cartridgeHost) CPUMemory() *memory.Region {
	return h.nes.cpuMem
}

// audioHost is what the audio unit sees of the console.
type audioHost struct {
	nes *NES
}

func (h audioHost) RequestInterrupt(kind irq.Kind) {
	h.nes.irq.Line(irq.APU).RequestInterrupt(kind)
}

func (h audioHost) AcknowledgeInterrupt(kind irq.Kind) {
	irq.Acknowledge(h.nes.irq.Line(irq.APU), kind)
}

func (h audioHost) Stall(cycles int) {
	h.nes.cpu.Stall(cycles)
}
