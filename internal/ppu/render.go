package ppu

import "github.com/nevisdale/nescore/internal/irq"

func (p *PPU) tick() {
	if p.rendering() && p.oddFrame && p.scanline == preRenderLine && p.dot == dotsPerLine-2 {
		// odd frames skip the last dot of the pre-render line
		p.dot = 0
		p.scanline = 0
		p.oddFrame = !p.oddFrame
		return
	}

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.scanline++
		if p.scanline == linesPerFrame {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}

	rendering := p.rendering()
	preLine := p.scanline == preRenderLine
	visibleLine := p.scanline < Height
	renderLine := preLine || visibleLine
	visibleDot := p.dot >= 1 && p.dot <= Width
	prefetchDot := p.dot >= 321 && p.dot <= 336
	fetchDot := visibleDot || prefetchDot

	if visibleLine && visibleDot {
		p.renderPixel(rendering)
	}

	if rendering {
		if renderLine && fetchDot {
			p.tileData <<= 4
			switch p.dot % 8 {
			case 1:
				p.fetchNametable()
			case 3:
				p.fetchAttribute()
			case 5:
				p.fetchLowTile()
			case 7:
				p.fetchHighTile()
			case 0:
				p.storeTileData()
				p.incrementX()
			}
		}
		if preLine && p.dot >= 280 && p.dot <= 304 {
			p.copyY()
		}
		if renderLine {
			switch p.dot {
			case 256:
				p.incrementY()
			case 257:
				p.copyX()
			}
		}

		if p.dot == 257 {
			if visibleLine {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}

		if renderLine && p.dot == counterDot {
			if sc := p.counter(); sc != nil {
				sc.Scanline()
			}
		}
	}

	if p.scanline == vblankLine && p.dot == 1 {
		p.status |= statusVBlank
		p.publish()
		if p.ctrl&ctrlNMIEnable > 0 {
			p.line.RequestInterrupt(irq.NMI)
		}
	}
	if preLine && p.dot == 1 {
		p.status &^= statusLatchedBits
	}
}

func (p *PPU) fetchNametable() {
	p.ntByte = p.read(nametableBase | p.v&0x0fff)
}

func (p *PPU) fetchAttribute() {
	addr := 0x23c0 | p.v&0x0c00 | (p.v>>4)&0x38 | (p.v>>2)&0x07
	shift := (p.v>>4)&0x04 | p.v&0x02
	p.atByte = (p.read(addr) >> shift) & 0x3 << 2
}

func (p *PPU) backTable() uint16 {
	if p.ctrl&ctrlBackTable > 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) fetchLowTile() {
	fineY := (p.v >> 12) & 0x7
	p.lowByte = p.read(p.backTable() + uint16(p.ntByte)*16 + fineY)
}

func (p *PPU) fetchHighTile() {
	fineY := (p.v >> 12) & 0x7
	p.highByte = p.read(p.backTable() + uint16(p.ntByte)*16 + fineY + 8)
}

func (p *PPU) storeTileData() {
	var data uint32
	lo, hi := p.lowByte, p.highByte
	for i := 0; i < 8; i++ {
		p1 := (lo & 0x80) >> 7
		p2 := (hi & 0x80) >> 6
		lo <<= 1
		hi <<= 1
		data <<= 4
		data |= uint32(p.atByte | p1 | p2)
	}
	p.tileData |= uint64(data)
}

func (p *PPU) incrementX() {
	if p.v&0x001f == 31 {
		p.v &= 0xffe0
		p.v ^= 0x0400
		return
	}
	p.v++
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &= 0x8fff
	y := (p.v & 0x03e0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&0xfc1f | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&0xfbe0 | p.t&0x041f
}

func (p *PPU) copyY() {
	p.v = p.v&0x841f | p.t&0x7be0
}

func (p *PPU) backgroundPixel() uint8 {
	if p.mask&maskShowBack == 0 {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0f)
}

func (p *PPU) spritePixel() (int, uint8) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := p.dot - 1 - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8(p.spritePatterns[i]>>((7-offset)*4)) & 0x0f
		if color&0x3 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

func (p *PPU) renderPixel(rendering bool) {
	x := p.dot - 1
	var color uint8
	if rendering {
		bg := p.backgroundPixel()
		i, sprite := p.spritePixel()
		if x < 8 && p.mask&maskLeftBack == 0 {
			bg = 0
		}
		if x < 8 && p.mask&maskLeftSprites == 0 {
			sprite = 0
		}
		b := bg&0x3 != 0
		s := sprite&0x3 != 0
		switch {
		case !b && s:
			color = sprite | 0x10
		case b && !s:
			color = bg
		case b && s:
			if p.spriteIndexes[i] == 0 && x < 255 {
				p.status |= statusSpriteZero
			}
			if p.spritePriorities[i] == 0 {
				color = sprite | 0x10
			} else {
				color = bg
			}
		}
	}

	c := p.read(paletteBase+uint16(color)) & 0x3f
	if p.mask&maskGreyscale > 0 {
		c &= 0x30
	}
	p.back[p.scanline*Width+x] = c
}

func (p *PPU) spriteHeight() int {
	if p.ctrl&ctrlSpriteSize16 > 0 {
		return 16
	}
	return 8
}

// evaluateSprites selects the sprites of the next scanline. Only the
// first eight are kept, a ninth sets the overflow flag. The hardware's
// buggy diagonal OAM scan is not reproduced.
func (p *PPU) evaluateSprites() {
	h := p.spriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam.Read8(uint16(i * 4))
		attr := p.oam.Read8(uint16(i*4 + 2))
		x := p.oam.Read8(uint16(i*4 + 3))
		row := p.scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = (attr >> 5) & 0x1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.status |= statusOverflow
	}
	p.spriteCount = count
}

func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := uint16(p.oam.Read8(uint16(i*4 + 1)))
	attr := p.oam.Read8(uint16(i*4 + 2))

	var addr uint16
	if p.spriteHeight() == 8 {
		if attr&0x80 > 0 {
			row = 7 - row
		}
		var table uint16
		if p.ctrl&ctrlSpriteTable > 0 {
			table = 0x1000
		}
		addr = table + tile*16 + uint16(row)
	} else {
		if attr&0x80 > 0 {
			row = 15 - row
		}
		table := (tile & 0x1) * 0x1000
		tile &= 0xfe
		if row > 7 {
			tile++
			row -= 8
		}
		addr = table + tile*16 + uint16(row)
	}

	palette := (attr & 0x3) << 2
	lo := p.read(addr)
	hi := p.read(addr + 8)
	var data uint32
	for j := 0; j < 8; j++ {
		var p1, p2 uint8
		if attr&0x40 > 0 {
			p1 = lo & 0x1
			p2 = (hi & 0x1) << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = (lo & 0x80) >> 7
			p2 = (hi & 0x80) >> 6
			lo <<= 1
			hi <<= 1
		}
		data <<= 4
		data |= uint32(palette | p1 | p2)
	}
	return data
}
