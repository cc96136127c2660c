package ppu

// publish copies the finished back buffer to the front buffer readers use.
func (p *PPU) publish() {
	p.mu.Lock()
	copy(p.front, p.back)
	p.emphasis = p.mask >> 5
	p.ready = true
	p.frames++
	p.mu.Unlock()
}

// Frame copies the last completed frame into dst, Width*Height palette
// indices in row order, and returns the colour emphasis bits it was
// rendered with.
func (p *PPU) Frame(dst []uint8) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(dst, p.front)
	return p.emphasis
}

// FrameReady reports whether a frame was completed since the last call.
func (p *PPU) FrameReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ready := p.ready
	p.ready = false
	return ready
}

// Frames is the number of frames completed since reset.
func (p *PPU) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}
