package cpu

import (
	"fmt"

	"github.com/nevisdale/nescore/internal/irq"
)

const (
	stackStartAddr = uint16(0x100)

	vectorNMI   = uint16(0xfffa)
	vectorReset = uint16(0xfffc)
	vectorIRQ   = uint16(0xfffe)

	interruptCycles = 7
)

const (
	flagC = uint8(1 << iota) // Carry
	flagZ                    // Zero
	flagI                    // Interrupt Disable
	flagD                    // Decimal Mode
	flagB                    // Break Command
	flagU                    // Unused
	flagV                    // Overflow
	flagN                    // Negative
)

type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// Policy decides what happens on opcodes outside the documented set.
type Policy uint8

const (
	// Lenient executes the undocumented opcodes. Opcodes that lock up the
	// real chip still fault.
	Lenient Policy = iota
	// Strict faults on every undocumented opcode.
	Strict
)

// DecodeFault is returned by Step when an opcode is refused by the policy.
// The CPU stays halted until Reset.
type DecodeFault struct {
	Opcode uint8
	Name   string
	PC     uint16
}

func (e *DecodeFault) Error() string {
	return fmt.Sprintf("cpu: opcode %02X (%s) at %04X refused", e.Opcode, e.Name, e.PC)
}

type instr struct {
	name    string
	mode    addrMode
	fn      func()
	cycles  uint8
	illegal bool
	jam     bool
}

// Registers is a snapshot of the register file.
type Registers struct {
	PC uint16
	A  uint8
	X  uint8
	Y  uint8
	P  uint8
	SP uint8
}

type CPU struct {
	a      uint8
	x      uint8
	y      uint8
	p      uint8
	sp     uint8
	pc     uint16
	mem    ReadWriter
	instrs [0x100]instr
	policy Policy

	cycles      int
	totalCycles uint64
	stall       int

	addrMode      addrMode
	baseAddr      uint16
	operandAddr   uint16
	operandValue  uint8
	operandLoaded bool
	pageCrossed   bool

	nmiPending bool
	irqPending bool

	halted bool
	fault  *DecodeFault
}

func isSameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

func isDiffPage(a, b uint16) bool {
	return a&0xff00 != b&0xff00
}

func New(mem ReadWriter, policy Policy) *CPU {
	c := &CPU{
		mem:    mem,
		policy: policy,
	}
	c.initInstructions()
	return c
}

func (c *CPU) read8(addr uint16) uint8 {
	return c.mem.Read8(addr)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.read8(addr)) | uint16(c.read8(addr+1))<<8
}

func (c *CPU) write8(addr uint16, data uint8) {
	c.mem.Write8(addr, data)
}

func (c *CPU) getFlag(flag uint8) bool {
	return c.p&flag > 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.p |= flag
		return
	}
	c.p &= ^flag
}

func (c *CPU) setFlagsZN(value uint8) {
	c.setFlag(flagZ, value == 0)
	c.setFlag(flagN, value&flagN > 0)
}

func (c *CPU) stackPop8() uint8 {
	c.sp++
	return c.read8(stackStartAddr | uint16(c.sp))
}

func (c *CPU) stackPop16() uint16 {
	lo := uint16(c.stackPop8())
	hi := uint16(c.stackPop8())
	return lo | hi<<8
}

func (c *CPU) stackPush8(data uint8) {
	c.write8(stackStartAddr|uint16(c.sp), data)
	c.sp--
}

func (c *CPU) stackPush16(data uint16) {
	lo := uint8(data & 0xff)
	hi := uint8(data >> 8)
	c.stackPush8(hi)
	c.stackPush8(lo)
}

// Reset loads the power-up register state and the reset vector. Pending
// interrupts and a decode fault are cleared.
func (c *CPU) Reset() {
	c.a = 0
	c.x = 0
	c.y = 0
	c.p = 0x00 | flagU | flagI
	c.sp = 0xfd
	c.pc = c.read16(vectorReset)
	c.cycles = 0
	c.totalCycles = interruptCycles
	c.stall = 0
	c.nmiPending = false
	c.irqPending = false
	c.halted = false
	c.fault = nil
}

// RequestInterrupt latches an interrupt. It is serviced at the start of
// the next Step. A maskable request stays latched while the interrupt
// disable flag is set.
func (c *CPU) RequestInterrupt(kind irq.Kind) {
	switch kind {
	case irq.NMI:
		c.nmiPending = true
	case irq.IRQ:
		c.irqPending = true
	}
}

// AcknowledgeInterrupt drops a latched maskable request that has not been
// serviced yet. A latched NMI stays.
func (c *CPU) AcknowledgeInterrupt(kind irq.Kind) {
	if kind == irq.IRQ {
		c.irqPending = false
	}
}

// Pending reports whether an interrupt of kind is latched.
func (c *CPU) Pending(kind irq.Kind) bool {
	switch kind {
	case irq.NMI:
		return c.nmiPending
	case irq.IRQ:
		return c.irqPending
	}
	return false
}

// Stall adds cycles the CPU spends suspended, e.g. during DMA. They are
// reported by the next Step.
func (c *CPU) Stall(cycles int) {
	c.stall += cycles
}

func (c *CPU) interrupt(vector uint16) {
	c.stackPush16(c.pc)
	c.stackPush8((c.p | flagU) &^ flagB)
	c.setFlag(flagI, true)
	c.pc = c.read16(vector)
	c.cycles += interruptCycles
}

// Step services a pending interrupt or executes one instruction and returns
// the cycles it took, including stall cycles owed to DMA.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, c.fault
	}

	c.cycles = c.stall
	c.stall = 0

	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.interrupt(vectorNMI)
	case c.irqPending && !c.getFlag(flagI):
		c.irqPending = false
		c.interrupt(vectorIRQ)
	default:
		opcode := c.read8(c.pc)
		in := c.instrs[opcode]
		if in.jam || (in.illegal && c.policy == Strict) {
			c.halted = true
			c.fault = &DecodeFault{Opcode: opcode, Name: in.name, PC: c.pc}
			c.totalCycles += uint64(c.cycles)
			return c.cycles, c.fault
		}
		c.pc++
		c.fetch(in.mode)
		in.fn()
		c.cycles += int(in.cycles)

		c.addrMode = 0
		c.baseAddr = 0
		c.operandAddr = 0
		c.operandValue = 0
		c.operandLoaded = false
		c.pageCrossed = false
	}

	c.totalCycles += uint64(c.cycles)
	return c.cycles, nil
}

// Halted reports whether a decode fault stopped the CPU.
func (c *CPU) Halted() bool {
	return c.halted
}

// Cycles is the number of cycles executed since reset.
func (c *CPU) Cycles() uint64 {
	return c.totalCycles
}

func (c *CPU) Registers() Registers {
	return Registers{PC: c.pc, A: c.a, X: c.x, Y: c.y, P: c.p, SP: c.sp}
}

// SetPC moves the program counter, used by test harnesses that start
// execution away from the reset vector.
func (c *CPU) SetPC(pc uint16) {
	c.pc = pc
}

// SetPolicy changes how undocumented opcodes are handled.
func (c *CPU) SetPolicy(policy Policy) {
	c.policy = policy
}

// Supported reports whether opcode executes under the current policy.
func (c *CPU) Supported(opcode uint8) bool {
	in := c.instrs[opcode]
	return in.fn != nil && !in.jam && !(in.illegal && c.policy == Strict)
}
