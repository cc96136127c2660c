package cpu

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/nes/addressing"
	rcpu "github.com/retroenv/retrogolib/nes/cpu"
)

// modes maps the addressing modes of the reference opcode table to ours.
var modes = map[addressing.Mode]addrMode{
	addressing.ImpliedAddressing:     addrModeIMP,
	addressing.ImmediateAddressing:   addrModeIMM,
	addressing.AccumulatorAddressing: addrModeACC,
	addressing.AbsoluteAddressing:    addrModeABS,
	addressing.AbsoluteXAddressing:   addrModeABSX,
	addressing.AbsoluteYAddressing:   addrModeABSY,
	addressing.ZeroPageAddressing:    addrModeZP,
	addressing.ZeroPageXAddressing:   addrModeZPX,
	addressing.ZeroPageYAddressing:   addrModeZPY,
	addressing.RelativeAddressing:    addrModeREL,
	addressing.IndirectAddressing:    addrModeIND,
	addressing.IndirectXAddressing:   addrModeINDX,
	addressing.IndirectYAddressing:   addrModeINDY,
}

// mnemonic prefers the reference name of an opcode and falls back to
// the local table for opcodes it does not describe.
func (c *CPU) mnemonic(opcode uint8) string {
	in := c.instrs[opcode]
	name := in.name
	if ref := rcpu.Opcodes[opcode]; ref.Instruction != nil && !in.illegal {
		name = strings.ToUpper(ref.Instruction.Name)
	}
	if in.illegal {
		return "*" + name
	}
	return " " + name
}

// decode formats the instruction at pc using peek for memory access and
// returns the text, the raw bytes and the instruction length.
func (c *CPU) decode(pc uint16, peek func(uint16) uint8) (string, []uint8) {
	opcode := peek(pc)
	in := c.instrs[opcode]
	raw := []uint8{opcode}
	for i := uint16(1); i <= in.mode.size(); i++ {
		raw = append(raw, peek(pc+i))
	}

	var operand string
	switch in.mode {
	case addrModeIMM:
		operand = fmt.Sprintf("#$%02X", raw[1])
	case addrModeZP:
		operand = fmt.Sprintf("$%02X", raw[1])
	case addrModeZPX:
		operand = fmt.Sprintf("$%02X,X", raw[1])
	case addrModeZPY:
		operand = fmt.Sprintf("$%02X,Y", raw[1])
	case addrModeABS:
		operand = fmt.Sprintf("$%02X%02X", raw[2], raw[1])
	case addrModeABSX:
		operand = fmt.Sprintf("$%02X%02X,X", raw[2], raw[1])
	case addrModeABSY:
		operand = fmt.Sprintf("$%02X%02X,Y", raw[2], raw[1])
	case addrModeIND:
		operand = fmt.Sprintf("($%02X%02X)", raw[2], raw[1])
	case addrModeINDX:
		operand = fmt.Sprintf("($%02X,X)", raw[1])
	case addrModeINDY:
		operand = fmt.Sprintf("($%02X),Y", raw[1])
	case addrModeREL:
		offset := uint16(raw[1])
		if offset&0x80 > 0 {
			offset |= 0xff00
		}
		operand = fmt.Sprintf("$%04X", pc+2+offset)
	case addrModeACC:
		operand = "A"
	}

	text := c.mnemonic(opcode)
	if operand != "" {
		text += " " + operand
	}
	return text, raw
}

// Trace describes the instruction about to execute and the register file
// in the layout of the nestest reference log.
func (c *CPU) Trace() string {
	text, raw := c.decode(c.pc, c.read8)
	bytes := make([]string, len(raw))
	for i, b := range raw {
		bytes[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-8s %-32s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.pc, strings.Join(bytes, " "), text, c.a, c.x, c.y, c.p, c.sp, c.totalCycles)
}

// Disassemble decodes the instructions between from and to. Reads go
// through peek so callers can keep register side effects out of it.
func (c *CPU) Disassemble(from, to uint16, peek func(uint16) uint8) map[uint16]string {
	disasm := make(map[uint16]string)

	addr := uint32(from)
	for addr <= uint32(to) {
		pc := uint16(addr)
		text, raw := c.decode(pc, peek)
		disasm[pc] = fmt.Sprintf("$%04X:%s {%s}", pc, text, c.instrs[raw[0]].mode)
		addr += uint32(len(raw))
	}

	return disasm
}
