package apu

type pulse struct {
	// 1 or 2; pulse 1 negates its sweep in ones' complement
	channel uint8
	enabled bool

	env    envelope
	halt   bool
	length uint8

	duty     uint8
	dutyStep uint8

	timerPeriod uint16
	timerValue  uint16

	sweepEnabled bool
	sweepNegate  bool
	sweepReload  bool
	sweepPeriod  uint8
	sweepDivider uint8
	sweepShift   uint8
}

func (p *pulse) writeControl(v uint8) {
	p.duty = v >> 6
	p.halt = v&0x20 > 0
	p.env.write(v)
}

func (p *pulse) writeSweep(v uint8) {
	p.sweepEnabled = v&0x80 > 0
	p.sweepPeriod = (v >> 4) & 0x07
	p.sweepNegate = v&0x08 > 0
	p.sweepShift = v & 0x07
	p.sweepReload = true
}

func (p *pulse) writeTimerLow(v uint8) {
	p.timerPeriod = p.timerPeriod&0xff00 | uint16(v)
}

func (p *pulse) writeTimerHigh(v uint8) {
	if p.enabled {
		p.length = lengthTable[v>>3]
	}
	p.timerPeriod = p.timerPeriod&0x00ff | uint16(v&0x07)<<8
	p.env.start = true
	p.dutyStep = 0
}

func (p *pulse) setEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.length = 0
	}
}

// clockTimer runs every other CPU cycle.
func (p *pulse) clockTimer() {
	if p.timerValue > 0 {
		p.timerValue--
		return
	}
	p.timerValue = p.timerPeriod
	p.dutyStep = (p.dutyStep + 1) % 8
}

func (p *pulse) clockLength() {
	if !p.halt && p.length > 0 {
		p.length--
	}
}

func (p *pulse) sweepTarget() uint16 {
	delta := p.timerPeriod >> p.sweepShift
	if !p.sweepNegate {
		return p.timerPeriod + delta
	}
	target := p.timerPeriod - delta
	if p.channel == 1 {
		target--
	}
	if target > p.timerPeriod {
		return 0
	}
	return target
}

func (p *pulse) clockSweep() {
	if p.sweepDivider == 0 && p.sweepEnabled && p.sweepShift > 0 && !p.muted() {
		p.timerPeriod = p.sweepTarget()
	}
	if p.sweepDivider == 0 || p.sweepReload {
		p.sweepDivider = p.sweepPeriod
		p.sweepReload = false
		return
	}
	p.sweepDivider--
}

func (p *pulse) muted() bool {
	return p.timerPeriod < 8 || p.sweepTarget() > 0x7ff
}

func (p *pulse) output() uint8 {
	if !p.enabled || p.length == 0 || p.muted() {
		return 0
	}
	if dutyTable[p.duty][p.dutyStep] == 0 {
		return 0
	}
	return p.env.volume()
}
