package mapper

import "github.com/nevisdale/nescore/internal/cartridge"

func init() {
	Register(0, "NROM", newNROM)
}

// nrom has no registers. A single 16 KiB bank is mirrored at $C000.
type nrom struct {
	*base
}

func newNROM(img *cartridge.Image, host Host) Mapper {
	return &nrom{base: newBase("NROM", img, host)}
}

func (m *nrom) LoadROM() {
	m.Reset()
}

func (m *nrom) Reset() {
	m.selectPRG(0x4000, 0, 0)
	m.selectPRG(0x4000, 1, -1)
	m.selectCHR(0x2000, 0, 0)
	m.mirroring = m.img.Mirroring()
}
