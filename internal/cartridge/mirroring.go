package cartridge

// Mirroring is the nametable layout of the picture unit's 2 KiB of VRAM.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	SingleScreenLow
	SingleScreenHigh
	FourScreen
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case SingleScreenLow:
		return "single-screen low"
	case SingleScreenHigh:
		return "single-screen high"
	case FourScreen:
		return "four-screen"
	}
	return "unknown"
}

// nametable index (0..3) to physical 1 KiB page for each mode
var mirrorPages = [...][4]uint16{
	Horizontal:       {0, 0, 1, 1},
	Vertical:         {0, 1, 0, 1},
	SingleScreenLow:  {0, 0, 0, 0},
	SingleScreenHigh: {1, 1, 1, 1},
	FourScreen:       {0, 1, 2, 3},
}

// NametableOffset maps a picture unit address in $2000-$3EFF to an offset
// into nametable memory.
func (m Mirroring) NametableOffset(addr uint16) uint16 {
	addr = (addr - 0x2000) & 0x0fff
	table := addr / 0x400
	return mirrorPages[m][table]*0x400 | addr&0x3ff
}
