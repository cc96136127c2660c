package ppu

import (
	"testing"

	"github.com/nevisdale/nescore/internal/cartridge"
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCart struct {
	chr       [0x2000]uint8
	mirroring cartridge.Mirroring
}

func (c *fakeCart) ReadCHR(addr uint16) uint8 {
	return c.chr[addr]
}

func (c *fakeCart) WriteCHR(addr uint16, data uint8) {
	c.chr[addr] = data
}

func (c *fakeCart) Mirroring() cartridge.Mirroring {
	return c.mirroring
}

type countingCart struct {
	fakeCart
	scanlines int
}

func (c *countingCart) Scanline() {
	c.scanlines++
}

type testPPU struct {
	*PPU
	vram *memory.Region
	oam  *memory.Region
	nmis int
}

func newTestPPU(t *testing.T, cart Cartridge) *testPPU {
	t.Helper()
	tp := &testPPU{
		vram: memory.New("ppu", memory.PPUSize),
		oam:  memory.New("oam", memory.SpriteSize),
	}
	tp.PPU = New(tp.vram, tp.oam, irq.LineFunc(func(kind irq.Kind) {
		require.Equal(t, irq.NMI, kind)
		tp.nmis++
	}))
	tp.SetCartridge(cart)
	return tp
}

// stepTo runs the raster forward until it reaches scanline, dot.
func (tp *testPPU) stepTo(scanline, dot int) {
	for {
		s, d := tp.Position()
		if s == scanline && d == dot {
			return
		}
		tp.Step(1)
	}
}

func (tp *testPPU) setAddr(addr uint16) {
	tp.WriteRegister(0x2006, uint8(addr>>8))
	tp.WriteRegister(0x2006, uint8(addr))
}

func TestPPU_ScrollLatches(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})

	p.WriteRegister(0x2000, 0x00)
	p.WriteRegister(0x2005, 0x7d)
	assert.Equal(t, uint16(0x000f), p.t)
	assert.Equal(t, uint8(0x05), p.x)
	assert.True(t, p.w)

	p.WriteRegister(0x2005, 0x5e)
	assert.Equal(t, uint16(0x616f), p.t)
	assert.False(t, p.w)

	p.WriteRegister(0x2006, 0x3d)
	assert.Equal(t, uint16(0x3d6f), p.t)
	p.WriteRegister(0x2006, 0xf0)
	assert.Equal(t, uint16(0x3df0), p.t)
	assert.Equal(t, p.t, p.v)
}

func TestPPU_StatusReadClearsLatch(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.status = statusVBlank | statusSpriteZero
	p.w = true

	r := p.ReadRegister(0x2002)

	assert.Equal(t, statusVBlank|statusSpriteZero, r&statusLatchedBits)
	assert.False(t, p.VBlank())
	assert.False(t, p.w)
	assert.Equal(t, statusSpriteZero, p.ReadRegister(0x3ffa)&statusLatchedBits, "registers are mirrored every 8 bytes")
}

func TestPPU_DataReads(t *testing.T) {
	p := newTestPPU(t, &fakeCart{mirroring: cartridge.Vertical})

	p.setAddr(0x2400)
	p.WriteRegister(0x2007, 0x11)
	p.WriteRegister(0x2007, 0x22)

	p.setAddr(0x2400)
	_ = p.ReadRegister(0x2007) // stale buffer
	assert.Equal(t, uint8(0x11), p.ReadRegister(0x2007))
	assert.Equal(t, uint8(0x22), p.ReadRegister(0x2007))

	// vertical mirroring aliases $2C00 to $2400
	p.setAddr(0x2c01)
	_ = p.ReadRegister(0x2007)
	assert.Equal(t, uint8(0x22), p.ReadRegister(0x2007))

	p.setAddr(0x3f00)
	p.WriteRegister(0x2007, 0x0f)
	p.setAddr(0x3f00)
	assert.Equal(t, uint8(0x0f), p.ReadRegister(0x2007), "palette reads are not buffered")
}

func TestPPU_PaletteMirrors(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})

	p.setAddr(0x3f10)
	p.WriteRegister(0x2007, 0x2a)

	assert.Equal(t, uint8(0x2a), p.read(0x3f00))
	assert.Equal(t, uint8(0x2a), p.read(0x3f20))
}

func TestPPU_Increment32(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.WriteRegister(0x2000, ctrlIncrement32)

	p.setAddr(0x2000)
	p.WriteRegister(0x2007, 0x01)
	p.WriteRegister(0x2007, 0x02)

	assert.Equal(t, uint8(0x01), p.read(0x2000))
	assert.Equal(t, uint8(0x02), p.read(0x2020))
	assert.Equal(t, uint16(0x2040), p.v)
}

func TestPPU_VBlankNMI(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.WriteRegister(0x2000, ctrlNMIEnable)

	p.stepTo(vblankLine, 0)
	assert.False(t, p.VBlank())
	assert.Equal(t, 0, p.nmis)

	p.Step(1)
	assert.True(t, p.VBlank())
	assert.Equal(t, 1, p.nmis)

	p.stepTo(preRenderLine, 0)
	assert.Equal(t, 1, p.nmis, "raised once per frame")
	assert.True(t, p.VBlank())

	p.Step(1)
	assert.False(t, p.VBlank())
}

func TestPPU_NMIEnabledDuringVBlank(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.stepTo(vblankLine, 10)
	require.True(t, p.VBlank())
	require.Equal(t, 0, p.nmis)

	p.WriteRegister(0x2000, ctrlNMIEnable)
	assert.Equal(t, 1, p.nmis)

	p.WriteRegister(0x2000, ctrlNMIEnable)
	assert.Equal(t, 1, p.nmis, "only a rising edge raises")
}

func TestPPU_SolidBackground(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})

	p.setAddr(0x3f00)
	p.WriteRegister(0x2007, 0x21)
	p.WriteRegister(0x2001, maskShowBack|maskLeftBack)

	assert.False(t, p.FrameReady())
	p.Step((vblankLine*dotsPerLine + 1))
	require.True(t, p.FrameReady())
	assert.False(t, p.FrameReady(), "edge signal")

	frame := make([]uint8, Width*Height)
	p.Frame(frame)
	for i, c := range frame {
		if c != 0x21 {
			t.Fatalf("pixel %d,%d is %02X", i%Width, i/Width, c)
		}
	}
	assert.Equal(t, uint64(1), p.Frames())
}

func TestPPU_MidFrameScrollSplit(t *testing.T) {
	cart := &fakeCart{mirroring: cartridge.Horizontal}
	for i := 16; i < 24; i++ {
		cart.chr[i] = 0xff // tile 1, low plane solid
	}
	p := newTestPPU(t, cart)
	// solid tiles in even columns only
	for addr := 0x2000; addr < 0x23c0; addr++ {
		if (addr-0x2000)%2 == 0 {
			p.vram.Write8(uint16(addr), 0x01)
		}
	}
	p.setAddr(0x3f00)
	p.WriteRegister(0x2007, 0x0f)
	p.WriteRegister(0x2007, 0x21)
	p.WriteRegister(0x2000, 0x00)
	p.WriteRegister(0x2005, 0x00)
	p.WriteRegister(0x2005, 0x00)
	p.WriteRegister(0x2001, maskShowBack|maskLeftBack)

	// let the pre-render line load the scroll, then split the next frame
	p.stepTo(preRenderLine, 0)
	p.stepTo(120, 0)
	_ = p.ReadRegister(0x2002)
	p.WriteRegister(0x2005, 0x08)
	p.WriteRegister(0x2005, 0x00)
	p.stepTo(vblankLine, 1)

	frame := make([]uint8, Width*Height)
	p.Frame(frame)

	colour := func(x int, shifted bool) uint8 {
		if shifted {
			x += 8
		}
		if (x/8)%2 == 0 {
			return 0x21
		}
		return 0x0f
	}
	for y := 0; y < Height; y++ {
		// the line holding the write and the one after it mix both scrolls
		if y == 120 || y == 121 {
			continue
		}
		for x := 0; x < Width; x++ {
			if got, want := frame[y*Width+x], colour(x, y > 121); got != want {
				t.Fatalf("pixel %d,%d is %02X, want %02X", x, y, got, want)
			}
		}
	}
	assert.NotEqual(t, frame[119*Width:120*Width], frame[122*Width:123*Width])
}

func TestPPU_Emphasis(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.WriteRegister(0x2001, 0xa0)

	p.stepTo(vblankLine, 1)

	frame := make([]uint8, Width*Height)
	assert.Equal(t, uint8(0x05), p.Frame(frame))
}

func hideSprites(oam *memory.Region) {
	oam.Fill(0xff)
}

func TestPPU_SpriteOverflow(t *testing.T) {
	tests := []struct {
		name     string
		sprites  int
		overflow bool
	}{
		{name: "eight sprites", sprites: 8, overflow: false},
		{name: "nine sprites", sprites: 9, overflow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(t, &fakeCart{})
			hideSprites(p.oam)
			for i := 0; i < tt.sprites; i++ {
				p.oam.Write8(uint16(i*4), 10)
			}
			p.WriteRegister(0x2001, maskShowSprites)

			p.stepTo(10, 256)
			assert.Zero(t, p.status&statusOverflow)

			p.Step(1)
			assert.Equal(t, tt.overflow, p.status&statusOverflow > 0)
			assert.Equal(t, 8, p.spriteCount)
		})
	}
}

func TestPPU_SpriteZeroHit(t *testing.T) {
	cart := &fakeCart{}
	for i := 16; i < 24; i++ {
		cart.chr[i] = 0xff // tile 1, low plane solid
	}
	p := newTestPPU(t, cart)
	for addr := 0x2000; addr < 0x23c0; addr++ {
		p.vram.Write8(uint16(addr), 0x01)
	}
	hideSprites(p.oam)
	p.oam.Load(0, []uint8{10, 0x01, 0x00, 20})
	p.WriteRegister(0x2001, maskShowBack|maskShowSprites|maskLeftBack|maskLeftSprites)

	p.stepTo(11, 0)
	assert.Zero(t, p.status&statusSpriteZero)

	p.stepTo(11, 30)
	assert.Equal(t, statusSpriteZero, p.status&statusSpriteZero)

	p.stepTo(preRenderLine, 2)
	assert.Zero(t, p.status&statusSpriteZero, "cleared on the pre-render line")
}

func TestPPU_ScanlineCounter(t *testing.T) {
	cart := &countingCart{}
	p := newTestPPU(t, cart)

	p.Step(linesPerFrame * dotsPerLine)
	assert.Zero(t, cart.scanlines, "not clocked while rendering is off")

	p.WriteRegister(0x2001, maskShowBack)
	p.stepTo(0, 0)
	cart.scanlines = 0
	p.Step(linesPerFrame*dotsPerLine - 1)
	assert.Equal(t, Height+1, cart.scanlines)
}

func TestPPU_OddFrameSkip(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.WriteRegister(0x2001, maskShowBack)

	p.Step(linesPerFrame * dotsPerLine)
	s, d := p.Position()
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, d)

	// the second frame is odd and one dot shorter
	p.Step(linesPerFrame*dotsPerLine - 1)
	s, d = p.Position()
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, d)
}

func TestPPU_WriteOAM(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	page := make([]uint8, 256)
	for i := range page {
		page[i] = uint8(i)
	}

	p.WriteRegister(0x2003, 0x10)
	p.WriteOAM(page)

	assert.Equal(t, uint8(0x00), p.oam.Read8(0x10))
	assert.Equal(t, uint8(0xf0), p.oam.Read8(0x00), "wraps around")
	assert.Equal(t, uint8(0x10), p.oamAddr)
}

func TestPPU_Reset(t *testing.T) {
	p := newTestPPU(t, &fakeCart{})
	p.WriteRegister(0x2000, 0xff)
	p.Step(12345)

	p.Reset()
	s1, d1 := p.Position()
	p.Reset()
	s2, d2 := p.Position()

	assert.Equal(t, s1, s2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, 0, s1)
	assert.Zero(t, p.ctrl)
	assert.Zero(t, p.Frames())
}
