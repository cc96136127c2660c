package apu

type noise struct {
	enabled bool

	env    envelope
	halt   bool
	length uint8

	mode        bool
	shift       uint16
	timerPeriod uint16
	timerValue  uint16
}

func (n *noise) writeControl(v uint8) {
	n.halt = v&0x20 > 0
	n.env.write(v)
}

func (n *noise) writePeriod(v uint8) {
	n.mode = v&0x80 > 0
	n.timerPeriod = noiseTable[v&0x0f]
}

func (n *noise) writeLength(v uint8) {
	if n.enabled {
		n.length = lengthTable[v>>3]
	}
	n.env.start = true
}

func (n *noise) setEnabled(enabled bool) {
	n.enabled = enabled
	if !enabled {
		n.length = 0
	}
}

// clockTimer runs every CPU cycle, the period table is in CPU cycles.
func (n *noise) clockTimer() {
	if n.timerValue > 0 {
		n.timerValue--
		return
	}
	if n.timerPeriod > 0 {
		n.timerValue = n.timerPeriod - 1
	}
	tap := uint16(1)
	if n.mode {
		tap = 6
	}
	feedback := (n.shift ^ n.shift>>tap) & 0x1
	n.shift = n.shift>>1 | feedback<<14
}

func (n *noise) clockLength() {
	if !n.halt && n.length > 0 {
		n.length--
	}
}

func (n *noise) output() uint8 {
	if !n.enabled || n.length == 0 || n.shift&0x1 == 1 {
		return 0
	}
	return n.env.volume()
}
