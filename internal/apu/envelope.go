package apu

// envelope is the volume generator shared by the pulse and noise channels.
type envelope struct {
	start    bool
	loop     bool
	constant bool
	period   uint8
	divider  uint8
	decay    uint8
}

func (e *envelope) write(v uint8) {
	e.loop = v&0x20 > 0
	e.constant = v&0x10 > 0
	e.period = v & 0x0f
	e.start = true
}

// clock runs on quarter frames.
func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.period
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.period
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) volume() uint8 {
	if e.constant {
		return e.period
	}
	return e.decay
}
