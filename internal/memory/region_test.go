package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion_ReadWrite(t *testing.T) {
	r := New("cpu", CPUSize)
	r.Write8(0x0000, 0x12)
	r.Write8(0xFFFF, 0x34)

	assert.Equal(t, uint8(0x12), r.Read8(0x0000))
	assert.Equal(t, uint8(0x34), r.Read8(0xFFFF))
	assert.Equal(t, CPUSize, r.Size())
}

func TestRegion_OutOfRange(t *testing.T) {
	r := New("sprite", SpriteSize)
	assert.Panics(t, func() { r.Read8(0x100) })
	assert.Panics(t, func() { r.Write8(0x100, 1) })
	assert.Panics(t, func() { r.Load(0xFF, []uint8{1, 2}) })
	assert.NotPanics(t, func() { r.Load(0xFE, []uint8{1, 2}) })
}

func TestRegion_FillReset(t *testing.T) {
	r := New("ppu", PPUSize)
	r.Fill(0xAA)
	for _, addr := range []uint16{0, 0x1234, 0x7FFF} {
		assert.Equal(t, uint8(0xAA), r.Read8(addr))
	}
	r.Reset()
	assert.Equal(t, uint8(0), r.Read8(0x1234))
}

func TestRegion_LoadSlice(t *testing.T) {
	r := New("cpu", CPUSize)
	r.Load(0x200, []uint8{1, 2, 3, 4})

	s := r.Slice(0x201, 2)
	require.Equal(t, []uint8{2, 3}, s)

	// slices are copies
	s[0] = 0xFF
	assert.Equal(t, uint8(2), r.Read8(0x201))
}

func TestRegion_Dump(t *testing.T) {
	r := New("sprite", SpriteSize)
	r.Load(0, []uint8{0xDE, 0xAD, 0xBE, 0xEF})

	var sb strings.Builder
	require.NoError(t, r.Dump(&sb, 0, 0x20))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0000: DE AD BE EF 00"))
	assert.True(t, strings.HasPrefix(lines[1], "0010: 00"))
}
