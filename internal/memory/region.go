package memory

import (
	"fmt"
	"io"
)

// Standard region sizes.
const (
	CPUSize    = 0x10000
	PPUSize    = 0x8000
	SpriteSize = 0x100
)

// Region is a fixed size byte addressable array. It has no behaviour beyond
// bounds checked access and bulk fill. Addresses outside the region are
// programming errors and panic.
type Region struct {
	name string
	mem  []uint8
}

func New(name string, size int) *Region {
	return &Region{
		name: name,
		mem:  make([]uint8, size),
	}
}

func (r *Region) Size() int {
	return len(r.mem)
}

func (r *Region) check(addr, n int) {
	if addr < 0 || n < 0 || addr+n > len(r.mem) {
		panic(fmt.Sprintf("memory: %s: access %#x+%d outside region of size %#x", r.name, addr, n, len(r.mem)))
	}
}

func (r *Region) Read8(addr uint16) uint8 {
	r.check(int(addr), 1)
	return r.mem[addr]
}

func (r *Region) Write8(addr uint16, data uint8) {
	r.check(int(addr), 1)
	r.mem[addr] = data
}

// Load copies data into the region starting at addr.
func (r *Region) Load(addr int, data []uint8) {
	r.check(addr, len(data))
	copy(r.mem[addr:], data)
}

// Slice returns a copy of n bytes starting at addr.
func (r *Region) Slice(addr, n int) []uint8 {
	r.check(addr, n)
	out := make([]uint8, n)
	copy(out, r.mem[addr:addr+n])
	return out
}

// Fill sets every byte of the region to v.
func (r *Region) Fill(v uint8) {
	for i := range r.mem {
		r.mem[i] = v
	}
}

// Reset zeroes the region.
func (r *Region) Reset() {
	r.Fill(0)
}

// Dump writes a hex dump of [from, to) to w, 16 bytes per line.
func (r *Region) Dump(w io.Writer, from, to int) error {
	r.check(from, to-from)
	for addr := from; addr < to; addr += 16 {
		end := min(addr+16, to)
		if _, err := fmt.Fprintf(w, "%04X: % X\n", addr, r.mem[addr:end]); err != nil {
			return err
		}
	}
	return nil
}
