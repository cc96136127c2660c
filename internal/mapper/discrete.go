package mapper

import "github.com/nevisdale/nescore/internal/cartridge"

// Boards built from discrete logic: a single latch at $8000-$FFFF.

func init() {
	Register(2, "UxROM", newUxROM)
	Register(3, "CNROM", newCNROM)
	Register(7, "AxROM", newAxROM)
	Register(11, "Color Dreams", newColorDreams)
	Register(66, "GxROM", newGxROM)
}

// uxrom switches 16 KiB at $8000, the last bank is fixed at $C000.
type uxrom struct {
	*base
}

func newUxROM(img *cartridge.Image, host Host) Mapper {
	return &uxrom{base: newBase("UxROM", img, host)}
}

func (m *uxrom) LoadROM() {
	m.Reset()
}

func (m *uxrom) Reset() {
	m.selectPRG(0x4000, 0, 0)
	m.selectPRG(0x4000, 1, -1)
	m.selectCHR(0x2000, 0, 0)
}

func (m *uxrom) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}
	m.selectPRG(0x4000, 0, int(data&0x0f))
}

// cnrom switches 8 KiB of character data.
type cnrom struct {
	*base
}

func newCNROM(img *cartridge.Image, host Host) Mapper {
	return &cnrom{base: newBase("CNROM", img, host)}
}

func (m *cnrom) LoadROM() {
	m.Reset()
}

func (m *cnrom) Reset() {
	m.selectPRG(0x4000, 0, 0)
	m.selectPRG(0x4000, 1, -1)
	m.selectCHR(0x2000, 0, 0)
}

func (m *cnrom) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}
	m.selectCHR(0x2000, 0, int(data&0x03))
}

// axrom switches 32 KiB and selects one of two single-screen nametables.
type axrom struct {
	*base
}

func newAxROM(img *cartridge.Image, host Host) Mapper {
	return &axrom{base: newBase("AxROM", img, host)}
}

func (m *axrom) LoadROM() {
	m.Reset()
}

func (m *axrom) Reset() {
	m.selectPRG(0x8000, 0, 0)
	m.selectCHR(0x2000, 0, 0)
	m.setMirroring(cartridge.SingleScreenLow)
}

func (m *axrom) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}
	m.selectPRG(0x8000, 0, int(data&0x07))
	if data&0x10 != 0 {
		m.setMirroring(cartridge.SingleScreenHigh)
	} else {
		m.setMirroring(cartridge.SingleScreenLow)
	}
}

// colorDreams: PRG 32 KiB in bits 0-1, CHR 8 KiB in bits 4-7.
type colorDreams struct {
	*base
}

func newColorDreams(img *cartridge.Image, host Host) Mapper {
	return &colorDreams{base: newBase("Color Dreams", img, host)}
}

func (m *colorDreams) LoadROM() {
	m.Reset()
}

func (m *colorDreams) Reset() {
	m.selectPRG(0x8000, 0, 0)
	m.selectCHR(0x2000, 0, 0)
}

func (m *colorDreams) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}
	m.selectPRG(0x8000, 0, int(data&0x03))
	m.selectCHR(0x2000, 0, int(data>>4))
}

// gxrom: PRG 32 KiB in bits 4-5, CHR 8 KiB in bits 0-1.
type gxrom struct {
	*base
}

func newGxROM(img *cartridge.Image, host Host) Mapper {
	return &gxrom{base: newBase("GxROM", img, host)}
}

func (m *gxrom) LoadROM() {
	m.Reset()
}

func (m *gxrom) Reset() {
	m.selectPRG(0x8000, 0, 0)
	m.selectCHR(0x2000, 0, 0)
}

func (m *gxrom) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}
	m.selectPRG(0x8000, 0, int(data>>4)&0x03)
	m.selectCHR(0x2000, 0, int(data&0x03))
}
