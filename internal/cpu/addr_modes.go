package cpu

type addrMode uint8

const (
	// Immediate: IMM
	//
	// The operand is the byte following the opcode.
	// For example, LDA #$10 loads the accumulator (A) with $10.
	addrModeIMM addrMode = iota + 1

	// Zero Page: ZP
	//
	// The operand is an address within the first 256 bytes of memory.
	// For example, LDA $20 loads the accumulator (A) from $0020.
	addrModeZP

	// Zero Page Indexed with X: ZPX
	//
	// Like ZP, offset by X. The sum wraps inside the zero page,
	// so LDA $FF,X with X=1 reads $0000.
	addrModeZPX

	// Zero Page Indexed with Y: ZPY
	//
	// Like ZPX but offset by Y. Only LDX, STX, LAX and SAX use it.
	addrModeZPY

	// Absolute: ABS
	//
	// The operand is a full 16-bit address, little endian.
	addrModeABS

	// Absolute Indexed with X: ABSX
	//
	// A 16-bit address plus X. Reads cost one more cycle
	// when the sum lands on another page.
	addrModeABSX

	// Absolute Indexed with Y: ABSY
	//
	// A 16-bit address plus Y, with the same page-cross rule as ABSX.
	addrModeABSY

	// Indirect: IND
	//
	// Only JMP uses it. The operand points to the target address.
	// The pointer high byte is read without carrying into the next page,
	// so JMP ($10FF) reads $10FF and $1000.
	addrModeIND

	// Indexed Indirect: INDX
	//
	// The operand plus X, wrapped inside the zero page, points to the
	// effective address. For example, LDA ($20,X).
	addrModeINDX

	// Indirect Indexed: INDY
	//
	// The zero page operand points to a base address, Y is added to it.
	// For example, LDA ($20),Y. Page crossing costs a cycle on reads.
	addrModeINDY

	// Relative: REL
	//
	// Branches only. The operand is a signed offset from the address
	// of the next instruction.
	addrModeREL

	// Accumulator: ACC
	//
	// The operation works on A, e.g. ASL A.
	addrModeACC

	// Implied: IMP
	//
	// The operation needs no operand, e.g. CLC or RTS.
	addrModeIMP
)

func (mode addrMode) String() string {
	switch mode {
	case addrModeIMM:
		return "IMM"
	case addrModeZP:
		return "ZP"
	case addrModeZPX:
		return "ZPX"
	case addrModeZPY:
		return "ZPY"
	case addrModeABS:
		return "ABS"
	case addrModeABSX:
		return "ABSX"
	case addrModeABSY:
		return "ABSY"
	case addrModeIND:
		return "IND"
	case addrModeINDX:
		return "INDX"
	case addrModeINDY:
		return "INDY"
	case addrModeREL:
		return "REL"
	case addrModeACC:
		return "ACC"
	case addrModeIMP:
		return "IMP"
	}
	return "???"
}

// size is the number of operand bytes following the opcode.
func (mode addrMode) size() uint16 {
	switch mode {
	case addrModeABS, addrModeABSX, addrModeABSY, addrModeIND:
		return 2
	case addrModeACC, addrModeIMP:
		return 0
	}
	return 1
}

// fetch resolves the effective address of the current instruction.
// The operand itself is read lazily by operand(), so stores and jumps
// never touch the target address.
func (c *CPU) fetch(mode addrMode) {
	c.addrMode = mode
	c.pageCrossed = false
	c.operandLoaded = false

	switch mode {
	case addrModeIMM:
		c.operandAddr = c.pc
		c.pc++

	case addrModeZP:
		c.operandAddr = uint16(c.read8(c.pc))
		c.pc++

	case addrModeZPX:
		c.operandAddr = uint16(c.read8(c.pc) + c.x)
		c.pc++

	case addrModeZPY:
		c.operandAddr = uint16(c.read8(c.pc) + c.y)
		c.pc++

	case addrModeABS:
		c.operandAddr = c.read16(c.pc)
		c.pc += 2

	case addrModeABSX:
		c.baseAddr = c.read16(c.pc)
		c.pc += 2
		c.operandAddr = c.baseAddr + uint16(c.x)
		c.pageCrossed = isDiffPage(c.baseAddr, c.operandAddr)

	case addrModeABSY:
		c.baseAddr = c.read16(c.pc)
		c.pc += 2
		c.operandAddr = c.baseAddr + uint16(c.y)
		c.pageCrossed = isDiffPage(c.baseAddr, c.operandAddr)

	case addrModeIND:
		addr := c.read16(c.pc)
		c.pc += 2

		lo := addr
		hi := addr + 1
		if lo&0xff == 0xff { // the pointer does not cross pages
			hi = lo & 0xff00
		}
		c.operandAddr = uint16(c.read8(lo)) | uint16(c.read8(hi))<<8

	case addrModeINDX:
		zp := c.read8(c.pc) + c.x
		c.pc++
		lo := uint16(c.read8(uint16(zp)))
		hi := uint16(c.read8(uint16(zp + 1)))
		c.operandAddr = lo | hi<<8

	case addrModeINDY:
		zp := c.read8(c.pc)
		c.pc++
		lo := uint16(c.read8(uint16(zp)))
		hi := uint16(c.read8(uint16(zp + 1)))
		c.baseAddr = lo | hi<<8
		c.operandAddr = c.baseAddr + uint16(c.y)
		c.pageCrossed = isDiffPage(c.baseAddr, c.operandAddr)

	case addrModeREL:
		c.operandAddr = uint16(c.read8(c.pc))
		c.pc++
		if c.operandAddr&0x80 > 0 {
			c.operandAddr |= 0xff00 // sign extend
		}
	}
}

// operand returns the value the current instruction works on,
// reading memory at most once.
func (c *CPU) operand() uint8 {
	if c.addrMode == addrModeACC {
		return c.a
	}
	if !c.operandLoaded {
		c.operandValue = c.read8(c.operandAddr)
		c.operandLoaded = true
	}
	return c.operandValue
}

// store writes a read-modify-write result back to A or memory.
func (c *CPU) store(v uint8) {
	if c.addrMode == addrModeACC {
		c.a = v
		return
	}
	c.write8(c.operandAddr, v)
}

// penalty adds the page-cross cycle for indexed reads.
func (c *CPU) penalty() {
	if c.pageCrossed {
		c.cycles++
	}
}
