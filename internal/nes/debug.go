package nes

import (
	"io"
	"strings"

	"github.com/nevisdale/nescore/internal/cpu"
	"github.com/nevisdale/nescore/internal/logger"
)

// Info is a snapshot of the console for debug views.
type Info struct {
	cpu.Registers
	Halted   bool
	Cycles   uint64
	Scanline int
	Dot      int
	Frames   uint64
	Mapper   string
	Buffered int
	Dropped  uint64
}

func (n *NES) Info() Info {
	n.mu.Lock()
	defer n.mu.Unlock()

	scanline, dot := n.ppu.Position()
	info := Info{
		Registers: n.cpu.Registers(),
		Halted:    n.cpu.Halted(),
		Cycles:    n.cpu.Cycles(),
		Scanline:  scanline,
		Dot:       dot,
		Frames:    n.ppu.Frames(),
		Buffered:  n.apu.Buffered(),
		Dropped:   n.apu.Dropped(),
	}
	if n.mapper != nil {
		info.Mapper = n.mapper.Name()
	}
	return info
}

// Disassemble decodes cartridge or RAM code between from and to without
// touching any register.
func (n *NES) Disassemble(from, to uint16) map[uint16]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cpu.Disassemble(from, to, n.bus.peek)
}

// DumpRAM writes a hex dump of the 2 KiB internal RAM.
func (n *NES) DumpRAM(w io.Writer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cpuMem.Dump(w, 0, ramMask+1)
}

// traceLog sends trace lines to the central log.
type traceLog struct{}

func (traceLog) Write(p []byte) (int, error) {
	logger.Log("cpu", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
