package mapper

import (
	"github.com/nevisdale/nescore/internal/cartridge"
	"github.com/nevisdale/nescore/internal/irq"
)

func init() {
	Register(4, "MMC3", newMMC3)
}

// mmc3 has eight bank registers selected through $8000 and a scanline
// counter that raises IRQ when it reaches zero.
type mmc3 struct {
	*base

	target    uint8
	prgMode   bool
	chrInvert bool
	regs      [8]uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
}

func newMMC3(img *cartridge.Image, host Host) Mapper {
	return &mmc3{base: newBase("MMC3", img, host)}
}

func (m *mmc3) LoadROM() {
	m.Reset()
}

func (m *mmc3) Reset() {
	m.target = 0
	m.prgMode = false
	m.chrInvert = false
	m.regs = [8]uint8{0, 2, 4, 5, 6, 7, 0, 1}
	m.irqLatch = 0
	m.irqCounter = 0
	m.irqReload = false
	m.irqEnabled = false
	m.mirroring = m.img.Mirroring()
	m.update()
}

func (m *mmc3) WritePRG(addr uint16, data uint8) {
	if m.writeRAM(addr, data) {
		return
	}

	even := addr&1 == 0
	switch {
	case addr < 0xa000 && even:
		m.target = data & 0x7
		m.prgMode = data&0x40 != 0
		m.chrInvert = data&0x80 != 0
		m.update()
	case addr < 0xa000:
		m.regs[m.target] = data
		m.update()
	case addr < 0xc000 && even:
		if data&1 == 0 {
			m.setMirroring(cartridge.Vertical)
		} else {
			m.setMirroring(cartridge.Horizontal)
		}
	case addr < 0xc000:
		// PRG-RAM protect, RAM is always enabled here
	case addr < 0xe000 && even:
		m.irqLatch = data
	case addr < 0xe000:
		m.irqCounter = 0
		m.irqReload = true
	case even:
		m.irqEnabled = false
		irq.Acknowledge(m.host, irq.IRQ)
	default:
		m.irqEnabled = true
	}
}

func (m *mmc3) update() {
	if m.prgMode {
		m.selectPRG(0x2000, 0, -2)
		m.selectPRG(0x2000, 2, int(m.regs[6]))
	} else {
		m.selectPRG(0x2000, 0, int(m.regs[6]))
		m.selectPRG(0x2000, 2, -2)
	}
	m.selectPRG(0x2000, 1, int(m.regs[7]))
	m.selectPRG(0x2000, 3, -1)

	// 2 KiB banks ignore the low bit
	lo, hi := 0, 4
	if m.chrInvert {
		lo, hi = 4, 0
	}
	m.selectCHR(0x0400, lo+0, int(m.regs[0]&0xfe))
	m.selectCHR(0x0400, lo+1, int(m.regs[0]|0x01))
	m.selectCHR(0x0400, lo+2, int(m.regs[1]&0xfe))
	m.selectCHR(0x0400, lo+3, int(m.regs[1]|0x01))
	m.selectCHR(0x0400, hi+0, int(m.regs[2]))
	m.selectCHR(0x0400, hi+1, int(m.regs[3]))
	m.selectCHR(0x0400, hi+2, int(m.regs[4]))
	m.selectCHR(0x0400, hi+3, int(m.regs[5]))
}

// Scanline clocks the IRQ counter.
func (m *mmc3) Scanline() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.host.RequestInterrupt(irq.IRQ)
	}
}
