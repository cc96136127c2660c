package apu

import (
	"github.com/nevisdale/nescore/internal/irq"
	"github.com/nevisdale/nescore/internal/logger"
)

const (
	// CPUClock is the NTSC CPU frequency in Hz.
	CPUClock = 1789773

	// the resampler is balanced for this many frames per second
	nativeFrameRate = 60

	highPassCutoff = 37.0
)

// frame sequencer steps in CPU cycles
const (
	seqStep1    = 7457
	seqStep2    = 14913
	seqStep3    = 22371
	seqStep4    = 29829
	seqStep5    = 37281
	seqFourEnd  = seqStep4 + 1
	seqFiveEnd  = seqStep5 + 1
	statusFrame = uint8(1 << 6)
	statusDMC   = uint8(1 << 7)
)

type MemoryReader interface {
	Read8(addr uint16) uint8
}

// CPU is the part of the processor the audio unit talks to: the shared
// IRQ input and the DMA stall counter used by sample fetches.
type CPU interface {
	irq.Line
	Stall(cycles int)
}

type APU struct {
	cpu CPU

	pulse1   pulse
	pulse2   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	cycles     uint64
	frameCycle int
	fiveStep   bool
	irqInhibit bool
	frameIRQ   bool

	sampleRate int
	frameRate  int
	output     bool
	acc        uint64
	sum        float64
	count      int
	last       float64
	filter     highPass
	pending    []int16
	buf        *ring
}

// New creates an audio unit producing sampleRate samples per second of
// emulated time at frameRate frames per second. bufferSize bounds the
// number of samples waiting for the host.
func New(cpu CPU, mem MemoryReader, sampleRate, frameRate, bufferSize int) *APU {
	a := &APU{
		cpu:        cpu,
		sampleRate: sampleRate,
		frameRate:  frameRate,
		output:     true,
		filter:     newHighPass(float64(sampleRate), highPassCutoff),
		buf:        newRing(bufferSize),
	}
	a.pulse1.channel = 1
	a.pulse2.channel = 2
	a.dmc.cpu = cpu
	a.dmc.mem = mem
	a.Reset()
	return a
}

// Reset silences every channel and loads the power-up register values.
func (a *APU) Reset() {
	a.WriteRegister(0x4015, 0)
	for addr := uint16(0x4000); addr <= 0x4013; addr++ {
		v := uint8(0)
		if addr == 0x4010 {
			v = 0x10
		}
		a.WriteRegister(addr, v)
	}
	a.WriteRegister(0x4017, 0)

	a.noise.shift = 1
	a.dmc.shift = 0
	a.dmc.bitCount = 0
	a.dmc.currentLength = 0
	a.dmc.irqFlag = false
	a.cycles = 0
	a.frameCycle = 0
	a.frameIRQ = false

	a.acc = 0
	a.sum = 0
	a.count = 0
	a.last = 0
	a.filter.reset()
	a.pending = a.pending[:0]
	a.buf.reset()
}

// SetSampleRate changes the host output rate. Samples already queued are
// kept unless resetBuffers is set.
func (a *APU) SetSampleRate(rate int, resetBuffers bool) {
	a.sampleRate = rate
	a.filter = newHighPass(float64(rate), highPassCutoff)
	if resetBuffers {
		a.acc = 0
		a.sum = 0
		a.count = 0
		a.pending = a.pending[:0]
		a.buf.reset()
	}
	logger.Logf("apu", "sample rate %d Hz (reset buffers: %v)", rate, resetBuffers)
}

func (a *APU) SampleRate() int {
	return a.sampleRate
}

// SetFrameRate rescales the resampler so that a second of host time
// worth of frames produces a second of audio.
func (a *APU) SetFrameRate(rate int) {
	a.frameRate = rate
	a.acc = 0
}

// SetOutput turns sample generation on or off. Channels keep running
// either way.
func (a *APU) SetOutput(enabled bool) {
	a.output = enabled
}

// Read moves up to len(dst) queued samples into dst.
func (a *APU) Read(dst []int16) int {
	return a.buf.read(dst)
}

// Buffered is the number of samples waiting to be read.
func (a *APU) Buffered() int {
	return a.buf.len()
}

// Dropped is the number of samples lost to a full buffer.
func (a *APU) Dropped() uint64 {
	return a.buf.drops()
}

// Cycles is the number of CPU cycles stepped since reset.
func (a *APU) Cycles() uint64 {
	return a.cycles
}

// ReadStatus serves reads of $4015. It acknowledges the frame interrupt.
func (a *APU) ReadStatus() uint8 {
	var r uint8
	if a.pulse1.length > 0 {
		r |= 1 << 0
	}
	if a.pulse2.length > 0 {
		r |= 1 << 1
	}
	if a.triangle.length > 0 {
		r |= 1 << 2
	}
	if a.noise.length > 0 {
		r |= 1 << 3
	}
	if a.dmc.currentLength > 0 {
		r |= 1 << 4
	}
	if a.frameIRQ {
		r |= statusFrame
	}
	if a.dmc.irqFlag {
		r |= statusDMC
	}
	a.frameIRQ = false
	a.releaseIRQ()
	return r
}

// releaseIRQ withdraws the request once neither the frame counter nor the
// DMC holds the IRQ input.
func (a *APU) releaseIRQ() {
	if a.cpu != nil && !a.frameIRQ && !a.dmc.irqFlag {
		irq.Acknowledge(a.cpu, irq.IRQ)
	}
}

// WriteRegister serves writes of $4000-$4013, $4015 and $4017.
func (a *APU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case 0x4000:
		a.pulse1.writeControl(v)
	case 0x4001:
		a.pulse1.writeSweep(v)
	case 0x4002:
		a.pulse1.writeTimerLow(v)
	case 0x4003:
		a.pulse1.writeTimerHigh(v)
	case 0x4004:
		a.pulse2.writeControl(v)
	case 0x4005:
		a.pulse2.writeSweep(v)
	case 0x4006:
		a.pulse2.writeTimerLow(v)
	case 0x4007:
		a.pulse2.writeTimerHigh(v)
	case 0x4008:
		a.triangle.writeControl(v)
	case 0x400a:
		a.triangle.writeTimerLow(v)
	case 0x400b:
		a.triangle.writeTimerHigh(v)
	case 0x400c:
		a.noise.writeControl(v)
	case 0x400e:
		a.noise.writePeriod(v)
	case 0x400f:
		a.noise.writeLength(v)
	case 0x4010:
		a.dmc.writeControl(v)
		a.releaseIRQ()
	case 0x4011:
		a.dmc.writeValue(v)
	case 0x4012:
		a.dmc.writeAddress(v)
	case 0x4013:
		a.dmc.writeLength(v)
	case 0x4015:
		a.pulse1.setEnabled(v&0x01 > 0)
		a.pulse2.setEnabled(v&0x02 > 0)
		a.triangle.setEnabled(v&0x04 > 0)
		a.noise.setEnabled(v&0x08 > 0)
		a.dmc.setEnabled(v&0x10 > 0)
		a.releaseIRQ()
	case 0x4017:
		a.fiveStep = v&0x80 > 0
		a.irqInhibit = v&0x40 > 0
		if a.irqInhibit {
			a.frameIRQ = false
			a.releaseIRQ()
		}
		a.frameCycle = 0
		if a.fiveStep {
			a.quarterFrame()
			a.halfFrame()
		}
	}
}

// Step advances the audio unit by cycles CPU cycles.
func (a *APU) Step(cycles int) {
	for i := 0; i < cycles; i++ {
		a.clock()
	}
	if len(a.pending) > 0 {
		a.buf.push(a.pending)
		a.pending = a.pending[:0]
	}
}

func (a *APU) clock() {
	a.cycles++
	a.stepSequencer()

	if a.cycles%2 == 0 {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
	}
	a.triangle.clockTimer()
	a.noise.clockTimer()
	a.dmc.clockTimer()

	a.resample()
}

func (a *APU) quarterFrame() {
	a.pulse1.env.clock()
	a.pulse2.env.clock()
	a.noise.env.clock()
	a.triangle.clockLinear()
}

func (a *APU) halfFrame() {
	a.pulse1.clockLength()
	a.pulse2.clockLength()
	a.triangle.clockLength()
	a.noise.clockLength()
	a.pulse1.clockSweep()
	a.pulse2.clockSweep()
}

func (a *APU) stepSequencer() {
	a.frameCycle++
	switch a.frameCycle {
	case seqStep1, seqStep3:
		a.quarterFrame()
	case seqStep2:
		a.quarterFrame()
		a.halfFrame()
	case seqStep4:
		if a.fiveStep {
			return
		}
		a.quarterFrame()
		a.halfFrame()
		if !a.irqInhibit {
			a.frameIRQ = true
			if a.cpu != nil {
				a.cpu.RequestInterrupt(irq.IRQ)
			}
		}
	case seqFourEnd:
		if !a.fiveStep {
			a.frameCycle = 0
		}
	case seqStep5:
		a.quarterFrame()
		a.halfFrame()
	case seqFiveEnd:
		a.frameCycle = 0
	}
}

// resample averages the mixer output over each host sample interval. The
// phase accumulator is integer so no cycle is lost at any rate ratio.
func (a *APU) resample() {
	if !a.output || a.sampleRate <= 0 || a.frameRate <= 0 {
		return
	}
	a.sum += mix(a.pulse1.output(), a.pulse2.output(), a.triangle.output(), a.noise.output(), a.dmc.output())
	a.count++

	a.acc += uint64(a.sampleRate) * nativeFrameRate
	threshold := uint64(CPUClock) * uint64(a.frameRate)
	for a.acc >= threshold {
		a.acc -= threshold
		if a.count > 0 {
			a.last = a.sum / float64(a.count)
			a.sum = 0
			a.count = 0
		}
		a.pending = append(a.pending, toPCM(a.filter.filter(a.last)))
	}
}
