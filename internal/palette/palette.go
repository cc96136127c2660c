// Package palette maps the picture unit's 6-bit colour indices to RGB.
package palette

import (
	"bufio"
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nevisdale/nescore/internal/logger"
)

const (
	Size = 64

	// binary .pal files hold Size RGB triplets
	palFileSize = Size * 3

	emphasisFactor = 0.75
)

// ResourceFault reports a palette asset that could not be used.
type ResourceFault struct {
	Path string
	Err  error
}

func (e *ResourceFault) Error() string {
	return fmt.Sprintf("palette %s: %v", e.Path, e.Err)
}

func (e *ResourceFault) Unwrap() error {
	return e.Err
}

type Palette struct {
	base     [Size]color.RGBA
	tables   [8][Size]color.RGBA
	emphasis uint8
}

var defaultColors = [Size][3]uint8{
	{124, 124, 124}, {0, 0, 252}, {0, 0, 188}, {68, 40, 188},
	{148, 0, 132}, {168, 0, 32}, {168, 16, 0}, {136, 20, 0},
	{80, 48, 0}, {0, 120, 0}, {0, 104, 0}, {0, 88, 0},
	{0, 64, 88}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{188, 188, 188}, {0, 120, 248}, {0, 88, 248}, {104, 68, 252},
	{216, 0, 204}, {228, 0, 88}, {248, 56, 0}, {228, 92, 16},
	{172, 124, 0}, {0, 184, 0}, {0, 168, 0}, {0, 168, 68},
	{0, 136, 136}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{248, 248, 248}, {60, 188, 252}, {104, 136, 252}, {152, 120, 248},
	{248, 120, 248}, {248, 88, 152}, {248, 120, 88}, {252, 160, 68},
	{248, 184, 0}, {184, 248, 24}, {88, 216, 84}, {88, 248, 152},
	{0, 232, 216}, {120, 120, 120}, {0, 0, 0}, {0, 0, 0},
	{252, 252, 252}, {164, 228, 252}, {184, 184, 248}, {216, 184, 248},
	{248, 184, 248}, {248, 164, 192}, {240, 208, 176}, {252, 224, 168},
	{248, 216, 120}, {216, 248, 120}, {184, 248, 184}, {184, 248, 216},
	{0, 252, 252}, {216, 216, 16}, {0, 0, 0}, {0, 0, 0},
}

func newPalette(colors [Size][3]uint8) *Palette {
	p := &Palette{}
	for i, c := range colors {
		p.base[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
	}
	p.makeTables()
	return p
}

// Default returns the built-in table.
func Default() *Palette {
	return newPalette(defaultColors)
}

func scale(v uint8, attenuate bool) uint8 {
	if !attenuate {
		return v
	}
	return uint8(float64(v) * emphasisFactor)
}

// makeTables precomputes the eight emphasis variants. Each emphasis bit
// dims the two channels it does not favour.
func (p *Palette) makeTables() {
	for e := range p.tables {
		dimR := e&0x1 > 0 || e&0x2 > 0
		dimG := e&0x2 > 0 || e&0x4 > 0
		dimB := e&0x1 > 0 || e&0x4 > 0
		for i, c := range p.base {
			p.tables[e][i] = color.RGBA{
				R: scale(c.R, dimR),
				G: scale(c.G, dimG),
				B: scale(c.B, dimB),
				A: 0xff,
			}
		}
	}
}

// Parse reads a palette asset. Files ending in .pal are binary RGB
// triplets, anything else is text with one #RRGGBB colour per line.
func Parse(name string, data []uint8) (*Palette, error) {
	if strings.EqualFold(filepath.Ext(name), ".pal") {
		if len(data) < palFileSize {
			return nil, fmt.Errorf("need %d bytes, got %d", palFileSize, len(data))
		}
		var colors [Size][3]uint8
		for i := range colors {
			copy(colors[i][:], data[i*3:i*3+3])
		}
		return newPalette(colors), nil
	}

	var colors [Size][3]uint8
	n := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "//") {
			continue
		}
		if n == Size {
			break
		}
		hex, ok := strings.CutPrefix(line, "#")
		if !ok || len(hex) != 6 {
			return nil, fmt.Errorf("line %q: want #RRGGBB", line)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		}
		colors[n] = [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if n < Size {
		return nil, fmt.Errorf("need %d colours, got %d", Size, n)
	}
	return newPalette(colors), nil
}

// LoadFile reads and parses the palette at path.
func LoadFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceFault{Path: path, Err: err}
	}
	p, err := Parse(path, data)
	if err != nil {
		return nil, &ResourceFault{Path: path, Err: err}
	}
	return p, nil
}

// Load returns the palette at path, or the built-in table when path is
// empty, missing or malformed.
func Load(path string) *Palette {
	if path == "" {
		return Default()
	}
	p, err := LoadFile(path)
	if err != nil {
		logger.Logf("palette", "%v, using built-in table", err)
		return Default()
	}
	logger.Logf("palette", "loaded %s", path)
	return p
}

// SetEmphasis selects the colour emphasis bits (PPUMASK bits 5-7,
// shifted down).
func (p *Palette) SetEmphasis(e uint8) {
	p.emphasis = e & 0x7
}

func (p *Palette) Emphasis() uint8 {
	return p.emphasis
}

// RGBA resolves a colour index under the current emphasis.
func (p *Palette) RGBA(index uint8) color.RGBA {
	return p.Color(index, p.emphasis)
}

// Color resolves a colour index under the given emphasis bits. It does
// not touch the palette state and may be called from any goroutine.
func (p *Palette) Color(index, emphasis uint8) color.RGBA {
	return p.tables[emphasis&0x7][index&(Size-1)]
}

// Reset clears the emphasis.
func (p *Palette) Reset() {
	p.emphasis = 0
}
