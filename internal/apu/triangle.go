package apu

type triangle struct {
	enabled bool

	control bool
	length  uint8

	linearPeriod uint8
	linearValue  uint8
	linearReload bool

	timerPeriod uint16
	timerValue  uint16
	step        uint8
}

func (t *triangle) writeControl(v uint8) {
	t.control = v&0x80 > 0
	t.linearPeriod = v & 0x7f
}

func (t *triangle) writeTimerLow(v uint8) {
	t.timerPeriod = t.timerPeriod&0xff00 | uint16(v)
}

func (t *triangle) writeTimerHigh(v uint8) {
	if t.enabled {
		t.length = lengthTable[v>>3]
	}
	t.timerPeriod = t.timerPeriod&0x00ff | uint16(v&0x07)<<8
	t.timerValue = t.timerPeriod
	t.linearReload = true
}

func (t *triangle) setEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled {
		t.length = 0
	}
}

// clockTimer runs every CPU cycle.
func (t *triangle) clockTimer() {
	if t.timerValue > 0 {
		t.timerValue--
		return
	}
	t.timerValue = t.timerPeriod
	if t.length > 0 && t.linearValue > 0 {
		t.step = (t.step + 1) % 32
	}
}

func (t *triangle) clockLength() {
	if !t.control && t.length > 0 {
		t.length--
	}
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linearValue = t.linearPeriod
	} else if t.linearValue > 0 {
		t.linearValue--
	}
	if !t.control {
		t.linearReload = false
	}
}

func (t *triangle) output() uint8 {
	if !t.enabled {
		return 0
	}
	// ultrasonic periods are silenced instead of aliasing
	if t.timerPeriod < 2 {
		return 7
	}
	return triangleTable[t.step]
}
