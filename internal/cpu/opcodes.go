package cpu

func (c *CPU) addWithCarry(v uint8) {
	r16 := uint16(c.a) + uint16(v)
	if c.getFlag(flagC) {
		r16++
	}
	r8 := uint8(r16)
	c.setFlag(flagC, r16 > 0xff)
	c.setFlagsZN(r8)
	c.setFlag(flagV, isSameSign(c.a, v) && !isSameSign(c.a, r8))
	c.a = r8
}

func (c *CPU) compare(reg, v uint8) {
	c.setFlag(flagC, reg >= v)
	c.setFlagsZN(reg - v)
}

func (c *CPU) adc() {
	c.addWithCarry(c.operand())
	c.penalty()
}

func (c *CPU) and() {
	c.a &= c.operand()
	c.setFlagsZN(c.a)
	c.penalty()
}

func (c *CPU) asl() {
	v := c.operand()
	c.setFlag(flagC, v&0x80 > 0)
	r := v << 1
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) jmpIf(condition bool) {
	if !condition {
		return
	}
	c.cycles++
	addr := c.pc + c.operandAddr
	if isDiffPage(c.pc, addr) {
		c.cycles++
	}
	c.pc = addr
}

func (c *CPU) bcc() {
	c.jmpIf(!c.getFlag(flagC))
}

func (c *CPU) bcs() {
	c.jmpIf(c.getFlag(flagC))
}

func (c *CPU) beq() {
	c.jmpIf(c.getFlag(flagZ))
}

func (c *CPU) bit() {
	v := c.operand()
	c.setFlag(flagZ, c.a&v == 0)
	c.setFlag(flagN, v&flagN > 0)
	c.setFlag(flagV, v&flagV > 0)
}

func (c *CPU) bmi() {
	c.jmpIf(c.getFlag(flagN))
}

func (c *CPU) bne() {
	c.jmpIf(!c.getFlag(flagZ))
}

func (c *CPU) bpl() {
	c.jmpIf(!c.getFlag(flagN))
}

func (c *CPU) brk() {
	c.pc++
	c.stackPush16(c.pc)
	c.stackPush8(c.p | flagB | flagU)
	c.setFlag(flagI, true)
	c.pc = c.read16(vectorIRQ)
}

func (c *CPU) bvc() {
	c.jmpIf(!c.getFlag(flagV))
}

func (c *CPU) bvs() {
	c.jmpIf(c.getFlag(flagV))
}

func (c *CPU) clc() {
	c.setFlag(flagC, false)
}

func (c *CPU) cld() {
	c.setFlag(flagD, false)
}

func (c *CPU) cli() {
	c.setFlag(flagI, false)
}

func (c *CPU) clv() {
	c.setFlag(flagV, false)
}

func (c *CPU) cmp() {
	c.compare(c.a, c.operand())
	c.penalty()
}

func (c *CPU) cpx() {
	c.compare(c.x, c.operand())
}

func (c *CPU) cpy() {
	c.compare(c.y, c.operand())
}

func (c *CPU) dec() {
	r := c.operand() - 1
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) dex() {
	c.x--
	c.setFlagsZN(c.x)
}

func (c *CPU) dey() {
	c.y--
	c.setFlagsZN(c.y)
}

func (c *CPU) eor() {
	c.a ^= c.operand()
	c.setFlagsZN(c.a)
	c.penalty()
}

func (c *CPU) inc() {
	r := c.operand() + 1
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) inx() {
	c.x++
	c.setFlagsZN(c.x)
}

func (c *CPU) iny() {
	c.y++
	c.setFlagsZN(c.y)
}

func (c *CPU) jmp() {
	c.pc = c.operandAddr
}

func (c *CPU) jsr() {
	// the return address pushed is the last byte of the instruction
	c.stackPush16(c.pc - 1)
	c.pc = c.operandAddr
}

func (c *CPU) lda() {
	c.a = c.operand()
	c.setFlagsZN(c.a)
	c.penalty()
}

func (c *CPU) ldx() {
	c.x = c.operand()
	c.setFlagsZN(c.x)
	c.penalty()
}

func (c *CPU) ldy() {
	c.y = c.operand()
	c.setFlagsZN(c.y)
	c.penalty()
}

func (c *CPU) lsr() {
	v := c.operand()
	c.setFlag(flagC, v&0x1 > 0)
	r := v >> 1
	c.setFlagsZN(r)
	c.store(r)
}

// nop covers the undocumented multi-byte NOPs too, which pay the
// page-cross cycle like reads.
func (c *CPU) nop() {
	c.penalty()
}

func (c *CPU) ora() {
	c.a |= c.operand()
	c.setFlagsZN(c.a)
	c.penalty()
}

func (c *CPU) pha() {
	c.stackPush8(c.a)
}

func (c *CPU) php() {
	c.stackPush8(c.p | flagB | flagU)
}

func (c *CPU) pla() {
	c.a = c.stackPop8()
	c.setFlagsZN(c.a)
}

func (c *CPU) plp() {
	c.p = (c.stackPop8() | flagU) &^ flagB
}

func (c *CPU) rol() {
	v := c.operand()
	r := v << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.setFlag(flagC, v&0x80 > 0)
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) ror() {
	v := c.operand()
	r := v >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, v&0x1 > 0)
	c.setFlagsZN(r)
	c.store(r)
}

func (c *CPU) rti() {
	c.p = (c.stackPop8() | flagU) &^ flagB
	c.pc = c.stackPop16()
}

func (c *CPU) rts() {
	c.pc = c.stackPop16() + 1
}

func (c *CPU) sbc() {
	c.addWithCarry(^c.operand())
	c.penalty()
}

func (c *CPU) sec() {
	c.setFlag(flagC, true)
}

func (c *CPU) sed() {
	c.setFlag(flagD, true)
}

func (c *CPU) sei() {
	c.setFlag(flagI, true)
}

func (c *CPU) sta() {
	c.write8(c.operandAddr, c.a)
}

func (c *CPU) stx() {
	c.write8(c.operandAddr, c.x)
}

func (c *CPU) sty() {
	c.write8(c.operandAddr, c.y)
}

func (c *CPU) tax() {
	c.x = c.a
	c.setFlagsZN(c.x)
}

func (c *CPU) tay() {
	c.y = c.a
	c.setFlagsZN(c.y)
}

func (c *CPU) tsx() {
	c.x = c.sp
	c.setFlagsZN(c.x)
}

func (c *CPU) txa() {
	c.a = c.x
	c.setFlagsZN(c.a)
}

func (c *CPU) txs() {
	c.sp = c.x
}

func (c *CPU) tya() {
	c.a = c.y
	c.setFlagsZN(c.a)
}

// undocumented opcodes

func (c *CPU) lax() {
	c.a = c.operand()
	c.x = c.a
	c.setFlagsZN(c.a)
	c.penalty()
}

func (c *CPU) sax() {
	c.write8(c.operandAddr, c.a&c.x)
}

func (c *CPU) dcp() {
	r := c.operand() - 1
	c.write8(c.operandAddr, r)
	c.compare(c.a, r)
}

func (c *CPU) isc() {
	r := c.operand() + 1
	c.write8(c.operandAddr, r)
	c.addWithCarry(^r)
}

func (c *CPU) slo() {
	v := c.operand()
	c.setFlag(flagC, v&0x80 > 0)
	r := v << 1
	c.write8(c.operandAddr, r)
	c.a |= r
	c.setFlagsZN(c.a)
}

func (c *CPU) rla() {
	v := c.operand()
	r := v << 1
	if c.getFlag(flagC) {
		r |= 0x1
	}
	c.write8(c.operandAddr, r)
	c.setFlag(flagC, v&0x80 > 0)
	c.a &= r
	c.setFlagsZN(c.a)
}

func (c *CPU) sre() {
	v := c.operand()
	c.setFlag(flagC, v&0x1 > 0)
	r := v >> 1
	c.write8(c.operandAddr, r)
	c.a ^= r
	c.setFlagsZN(c.a)
}

func (c *CPU) rra() {
	v := c.operand()
	r := v >> 1
	if c.getFlag(flagC) {
		r |= 0x80
	}
	c.setFlag(flagC, v&0x1 > 0)
	c.write8(c.operandAddr, r)
	c.addWithCarry(r)
}

// jam never runs: Step faults before dispatching it.
func (c *CPU) jam() {
	c.halted = true
}

func (c *CPU) anc() {
	c.a &= c.operand()
	c.setFlag(flagC, c.a&0x80 > 0)
	c.setFlagsZN(c.a)
}

func (c *CPU) alr() {
	c.a &= c.operand()
	c.setFlag(flagC, c.a&0x1 > 0)
	c.a >>= 1
	c.setFlagsZN(c.a)
}

func (c *CPU) arr() {
	c.a &= c.operand()
	c.a >>= 1
	if c.getFlag(flagC) {
		c.a |= 0x80
	}
	c.setFlagsZN(c.a)
	c.setFlag(flagC, c.a&0x40 > 0)
	c.setFlag(flagV, (c.a>>6^c.a>>5)&0x1 > 0)
}

func (c *CPU) las() {
	r := c.operand() & c.sp
	c.a = r
	c.x = r
	c.sp = r
	c.setFlagsZN(r)
	c.penalty()
}

// unstableMagic is the constant the analog behaviour of XAA and LXA is
// usually modelled with.
const unstableMagic = 0xee

func (c *CPU) xaa() {
	c.a = (c.a | unstableMagic) & c.x & c.operand()
	c.setFlagsZN(c.a)
}

func (c *CPU) lxa() {
	c.a = (c.a | unstableMagic) & c.operand()
	c.x = c.a
	c.setFlagsZN(c.a)
}

func (c *CPU) axs() {
	v := c.operand()
	ax := c.a & c.x
	c.setFlag(flagC, ax >= v)
	c.x = ax - v
	c.setFlagsZN(c.x)
}

// storeHigh implements the SHA/SHX/SHY/TAS family: the stored value is
// ANDed with the high byte of the base address plus one, and a page
// crossing replaces the target high byte with that value.
func (c *CPU) storeHigh(v uint8) {
	v &= uint8(c.baseAddr>>8) + 1
	addr := c.operandAddr
	if c.pageCrossed {
		addr = uint16(v)<<8 | addr&0xff
	}
	c.write8(addr, v)
}

func (c *CPU) ahx() {
	c.storeHigh(c.a & c.x)
}

func (c *CPU) shx() {
	c.storeHigh(c.x)
}

func (c *CPU) shy() {
	c.storeHigh(c.y)
}

func (c *CPU) tas() {
	c.sp = c.a & c.x
	c.storeHigh(c.sp)
}
