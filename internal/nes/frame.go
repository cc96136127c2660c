package nes

import (
	"image"

	"github.com/nevisdale/nescore/internal/ppu"
)

// Frame copies the last completed frame into dst as palette indices and
// returns the colour emphasis bits it was rendered with. dst should hold
// ppu.Width*ppu.Height bytes.
func (n *NES) Frame(dst []uint8) uint8 {
	return n.ppu.Frame(dst)
}

// FrameReady reports whether a frame was completed since the last call.
func (n *NES) FrameReady() bool {
	return n.ppu.FrameReady()
}

// Frames is the number of frames completed since the last reset.
func (n *NES) Frames() uint64 {
	return n.ppu.Frames()
}

// FrameImage resolves the last completed frame through the palette.
func (n *NES) FrameImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ppu.Width, ppu.Height))
	n.DrawFrame(img)
	return img
}

// DrawFrame resolves the last completed frame into img, which must be
// ppu.Width by ppu.Height.
func (n *NES) DrawFrame(img *image.RGBA) {
	indices := make([]uint8, ppu.Width*ppu.Height)
	emphasis := n.ppu.Frame(indices)
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			img.SetRGBA(x, y, n.palette.Color(indices[y*ppu.Width+x], emphasis))
		}
	}
}
