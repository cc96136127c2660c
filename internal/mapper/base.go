package mapper

import (
	"github.com/nevisdale/nescore/internal/cartridge"
)

const (
	prgSlotSize = 0x2000
	chrSlotSize = 0x0400
	chrRAMSize  = 0x2000
)

// base keeps the bank tables shared by every board: four 8 KiB program
// slots at $8000-$FFFF and eight 1 KiB character slots at $0000-$1FFF.
// Pages are selected in multiples of those slots.
type base struct {
	name string
	img  *cartridge.Image
	host Host

	prg    []uint8
	chr    []uint8
	chrRAM bool

	prgSlots [4]int
	chrSlots [8]int

	mirroring cartridge.Mirroring
}

func newBase(name string, img *cartridge.Image, host Host) *base {
	b := &base{
		name:      name,
		img:       img,
		host:      host,
		prg:       img.PRG(),
		chr:       img.CHR(),
		mirroring: img.Mirroring(),
	}
	if img.HasCHRRAM() {
		b.chr = make([]uint8, chrRAMSize)
		b.chrRAM = true
	}
	return b
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Mirroring() cartridge.Mirroring {
	return b.mirroring
}

// setMirroring applies a program written layout. Four-screen boards carry
// their own VRAM and ignore it.
func (b *base) setMirroring(m cartridge.Mirroring) {
	if b.img.Mirroring() == cartridge.FourScreen {
		return
	}
	b.mirroring = m
}

// pageOffset resolves page number n of the given size. Negative pages count
// from the end, out of range pages wrap.
func pageOffset(n, size, total int) int {
	count := total / size
	if count == 0 {
		return 0
	}
	n %= count
	if n < 0 {
		n += count
	}
	return n * size
}

// selectPRG maps page n of size bytes at slot (in units of size).
func (b *base) selectPRG(size, slot, n int) {
	off := pageOffset(n, size, len(b.prg))
	per := size / prgSlotSize
	for i := 0; i < per; i++ {
		b.prgSlots[slot*per+i] = (off + i*prgSlotSize) % len(b.prg)
	}
}

// selectCHR maps page n of size bytes at slot (in units of size).
func (b *base) selectCHR(size, slot, n int) {
	off := pageOffset(n, size, len(b.chr))
	per := size / chrSlotSize
	for i := 0; i < per; i++ {
		b.chrSlots[slot*per+i] = (off + i*chrSlotSize) % len(b.chr)
	}
}

func (b *base) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		slot := (addr - 0x8000) / prgSlotSize
		return b.prg[b.prgSlots[slot]+int(addr%prgSlotSize)]
	case addr >= 0x6000:
		return b.host.CPUMemory().Read8(addr)
	}
	// expansion area, open bus
	return uint8(addr >> 8)
}

// writeRAM stores writes to cartridge RAM. It returns false for addresses
// the board has to handle itself.
func (b *base) writeRAM(addr uint16, data uint8) bool {
	if addr >= 0x6000 && addr < 0x8000 {
		b.host.CPUMemory().Write8(addr, data)
		return true
	}
	return addr < 0x8000
}

func (b *base) WritePRG(addr uint16, data uint8) {
	b.writeRAM(addr, data)
}

func (b *base) ReadCHR(addr uint16) uint8 {
	addr &= 0x1fff
	return b.chr[b.chrSlots[addr/chrSlotSize]+int(addr%chrSlotSize)]
}

func (b *base) WriteCHR(addr uint16, data uint8) {
	if !b.chrRAM {
		return
	}
	addr &= 0x1fff
	b.chr[b.chrSlots[addr/chrSlotSize]+int(addr%chrSlotSize)] = data
}
