// Package irq is the interrupt request line between the units that raise
// interrupts (picture unit, audio unit, mappers) and the CPU that services
// them.
package irq

// Kind selects the interrupt input.
type Kind uint8

const (
	// NMI is the non-maskable input, edge triggered by the picture unit at
	// vertical blank.
	NMI Kind = iota + 1
	// IRQ is the maskable input shared by the audio unit and mappers.
	IRQ
)

func (k Kind) String() string {
	switch k {
	case NMI:
		return "NMI"
	case IRQ:
		return "IRQ"
	}
	return "???"
}

// Line raises an interrupt of a given kind. Raising a request that is already
// pending has no further effect.
type Line interface {
	RequestInterrupt(kind Kind)
}

// LineFunc adapts a function to Line.
type LineFunc func(kind Kind)

func (f LineFunc) RequestInterrupt(kind Kind) {
	f(kind)
}

// Acknowledger withdraws a maskable request that the CPU has not serviced
// yet. NMI is edge triggered and cannot be withdrawn.
type Acknowledger interface {
	AcknowledgeInterrupt(kind Kind)
}

// Acknowledge withdraws kind on line when the line supports it.
func Acknowledge(line Line, kind Kind) {
	if a, ok := line.(Acknowledger); ok {
		a.AcknowledgeInterrupt(kind)
	}
}

// Source identifies a unit driving the shared IRQ input.
type Source uint8

const (
	APU Source = iota
	Cartridge
)

// Wire is the IRQ input shared by several sources. A request reaches the
// CPU as soon as any source raises it and is withdrawn only once every
// source has acknowledged.
type Wire struct {
	cpu      Line
	asserted uint8
}

func NewWire(cpu Line) *Wire {
	return &Wire{cpu: cpu}
}

// Line returns the input driven by src.
func (w *Wire) Line(src Source) Line {
	return wireLine{wire: w, bit: 1 << src}
}

// Asserted reports whether src holds the IRQ input.
func (w *Wire) Asserted(src Source) bool {
	return w.asserted&(1<<src) > 0
}

// Reset releases every source without touching the CPU.
func (w *Wire) Reset() {
	w.asserted = 0
}

type wireLine struct {
	wire *Wire
	bit  uint8
}

func (l wireLine) RequestInterrupt(kind Kind) {
	if kind == IRQ {
		l.wire.asserted |= l.bit
	}
	l.wire.cpu.RequestInterrupt(kind)
}

func (l wireLine) AcknowledgeInterrupt(kind Kind) {
	if kind != IRQ || l.wire.asserted&l.bit == 0 {
		return
	}
	l.wire.asserted &^= l.bit
	if l.wire.asserted == 0 {
		Acknowledge(l.wire.cpu, IRQ)
	}
}
