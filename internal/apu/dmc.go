package apu

import "github.com/nevisdale/nescore/internal/irq"

// dmcFetchStall is the number of cycles the CPU loses per sample fetch.
const dmcFetchStall = 4

type dmc struct {
	cpu CPU
	mem MemoryReader

	enabled    bool
	irqEnabled bool
	irqFlag    bool
	loop       bool
	value      uint8

	sampleAddress  uint16
	sampleLength   uint16
	currentAddress uint16
	currentLength  uint16

	shift    uint8
	bitCount uint8

	timerPeriod uint16
	timerValue  uint16
}

func (d *dmc) writeControl(v uint8) {
	d.irqEnabled = v&0x80 > 0
	d.loop = v&0x40 > 0
	d.timerPeriod = dmcTable[v&0x0f]
	if !d.irqEnabled {
		d.irqFlag = false
	}
}

func (d *dmc) writeValue(v uint8) {
	d.value = v & 0x7f
}

func (d *dmc) writeAddress(v uint8) {
	d.sampleAddress = 0xc000 | uint16(v)<<6
}

func (d *dmc) writeLength(v uint8) {
	d.sampleLength = uint16(v)<<4 | 1
}

func (d *dmc) restart() {
	d.currentAddress = d.sampleAddress
	d.currentLength = d.sampleLength
}

func (d *dmc) setEnabled(enabled bool) {
	d.enabled = enabled
	d.irqFlag = false
	if !enabled {
		d.currentLength = 0
		return
	}
	if d.currentLength == 0 {
		d.restart()
	}
}

func (d *dmc) fetch() {
	if d.currentLength == 0 || d.bitCount > 0 {
		return
	}
	if d.cpu != nil {
		d.cpu.Stall(dmcFetchStall)
	}
	if d.mem != nil {
		d.shift = d.mem.Read8(d.currentAddress)
	}
	d.bitCount = 8
	d.currentAddress++
	if d.currentAddress == 0 {
		d.currentAddress = 0x8000
	}
	d.currentLength--
	if d.currentLength > 0 {
		return
	}
	if d.loop {
		d.restart()
		return
	}
	if d.irqEnabled {
		d.irqFlag = true
		if d.cpu != nil {
			d.cpu.RequestInterrupt(irq.IRQ)
		}
	}
}

func (d *dmc) shiftOut() {
	if d.bitCount == 0 {
		return
	}
	if d.shift&0x1 > 0 {
		if d.value <= 125 {
			d.value += 2
		}
	} else if d.value >= 2 {
		d.value -= 2
	}
	d.shift >>= 1
	d.bitCount--
}

// clockTimer runs every CPU cycle, the rate table is in CPU cycles.
func (d *dmc) clockTimer() {
	if !d.enabled {
		return
	}
	d.fetch()
	if d.timerValue > 0 {
		d.timerValue--
		return
	}
	if d.timerPeriod > 0 {
		d.timerValue = d.timerPeriod - 1
	}
	d.shiftOut()
}

func (d *dmc) output() uint8 {
	return d.value
}
