package mapper

import "github.com/nevisdale/nescore/internal/cartridge"

func init() {
	Register(1, "MMC1", newMMC1)
}

// mmc1 is loaded serially: five writes to $8000-$FFFF shift one bit each
// into a register chosen by address bits 13-14 of the fifth write. A write
// with bit 7 set clears the shift register.
type mmc1 struct {
	*base

	shift   uint8
	count   uint8
	control uint8
	chr0    uint8
	chr1    uint8
	prgBank uint8
}

func newMMC1(img *cartridge.Image, host Host) Mapper {
	return &mmc1{base: newBase("MMC1", img, host)}
}

func (m *mmc1) LoadROM() {
	m.Reset()
}

func (m *mmc1) Reset() {
	m.shift = 0
	m.count = 0
	m.control = 0x0c
	m.chr0 = 0
	m.chr1 = 0
	m.prgBank = 0
	m.mirroring = m.img.Mirroring()
	m.update()
}

func (m *mmc1) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}

	if data&0x80 != 0 {
		m.shift = 0
		m.count = 0
		m.control |= 0x0c
		m.update()
		return
	}

	m.shift |= (data & 1) << m.count
	m.count++
	if m.count < 5 {
		return
	}

	value := m.shift
	m.shift = 0
	m.count = 0

	switch (addr >> 13) & 0x3 {
	case 0:
		m.control = value
		switch value & 0x3 {
		case 0:
			m.setMirroring(cartridge.SingleScreenLow)
		case 1:
			m.setMirroring(cartridge.SingleScreenHigh)
		case 2:
			m.setMirroring(cartridge.Vertical)
		case 3:
			m.setMirroring(cartridge.Horizontal)
		}
	case 1:
		m.chr0 = value
	case 2:
		m.chr1 = value
	case 3:
		m.prgBank = value & 0x0f
	}
	m.update()
}

func (m *mmc1) update() {
	switch (m.control >> 2) & 0x3 {
	case 0, 1:
		m.selectPRG(0x8000, 0, int(m.prgBank>>1))
	case 2:
		m.selectPRG(0x4000, 0, 0)
		m.selectPRG(0x4000, 1, int(m.prgBank))
	case 3:
		m.selectPRG(0x4000, 0, int(m.prgBank))
		m.selectPRG(0x4000, 1, -1)
	}

	if m.control&0x10 == 0 {
		m.selectCHR(0x2000, 0, int(m.chr0>>1))
	} else {
		m.selectCHR(0x1000, 0, int(m.chr0))
		m.selectCHR(0x1000, 1, int(m.chr1))
	}
}
