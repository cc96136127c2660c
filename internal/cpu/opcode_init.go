package cpu

// undocumented mnemonics. Every NOP except 0xEA and the 0xEB SBC are
// undocumented as well.
var illegalNames = map[string]bool{
	"SLO": true, "RLA": true, "SRE": true, "RRA": true,
	"SAX": true, "LAX": true, "DCP": true, "ISC": true,
	"ANC": true, "ALR": true, "ARR": true, "XAA": true,
	"AHX": true, "TAS": true, "SHY": true, "SHX": true,
	"LXA": true, "AXS": true, "LAS": true, "JAM": true,
}

func (c *CPU) initInstructions() {
	op := func(code uint8, name string, mode addrMode, fn func(), cycles uint8) {
		c.instrs[code] = instr{
			name:    name,
			mode:    mode,
			fn:      fn,
			cycles:  cycles,
			illegal: illegalNames[name] || (name == "NOP" && code != 0xea) || code == 0xeb,
			jam:     name == "JAM",
		}
	}

	op(0x00, "BRK", addrModeIMP, c.brk, 7)
	op(0x01, "ORA", addrModeINDX, c.ora, 6)
	op(0x02, "JAM", addrModeIMP, c.jam, 2)
	op(0x03, "SLO", addrModeINDX, c.slo, 8)
	op(0x04, "NOP", addrModeZP, c.nop, 3)
	op(0x05, "ORA", addrModeZP, c.ora, 3)
	op(0x06, "ASL", addrModeZP, c.asl, 5)
	op(0x07, "SLO", addrModeZP, c.slo, 5)
	op(0x08, "PHP", addrModeIMP, c.php, 3)
	op(0x09, "ORA", addrModeIMM, c.ora, 2)
	op(0x0a, "ASL", addrModeACC, c.asl, 2)
	op(0x0b, "ANC", addrModeIMM, c.anc, 2)
	op(0x0c, "NOP", addrModeABS, c.nop, 4)
	op(0x0d, "ORA", addrModeABS, c.ora, 4)
	op(0x0e, "ASL", addrModeABS, c.asl, 6)
	op(0x0f, "SLO", addrModeABS, c.slo, 6)
	op(0x10, "BPL", addrModeREL, c.bpl, 2)
	op(0x11, "ORA", addrModeINDY, c.ora, 5)
	op(0x12, "JAM", addrModeIMP, c.jam, 2)
	op(0x13, "SLO", addrModeINDY, c.slo, 8)
	op(0x14, "NOP", addrModeZPX, c.nop, 4)
	op(0x15, "ORA", addrModeZPX, c.ora, 4)
	op(0x16, "ASL", addrModeZPX, c.asl, 6)
	op(0x17, "SLO", addrModeZPX, c.slo, 6)
	op(0x18, "CLC", addrModeIMP, c.clc, 2)
	op(0x19, "ORA", addrModeABSY, c.ora, 4)
	op(0x1a, "NOP", addrModeIMP, c.nop, 2)
	op(0x1b, "SLO", addrModeABSY, c.slo, 7)
	op(0x1c, "NOP", addrModeABSX, c.nop, 4)
	op(0x1d, "ORA", addrModeABSX, c.ora, 4)
	op(0x1e, "ASL", addrModeABSX, c.asl, 7)
	op(0x1f, "SLO", addrModeABSX, c.slo, 7)
	op(0x20, "JSR", addrModeABS, c.jsr, 6)
	op(0x21, "AND", addrModeINDX, c.and, 6)
	op(0x22, "JAM", addrModeIMP, c.jam, 2)
	op(0x23, "RLA", addrModeINDX, c.rla, 8)
	op(0x24, "BIT", addrModeZP, c.bit, 3)
	op(0x25, "AND", addrModeZP, c.and, 3)
	op(0x26, "ROL", addrModeZP, c.rol, 5)
	op(0x27, "RLA", addrModeZP, c.rla, 5)
	op(0x28, "PLP", addrModeIMP, c.plp, 4)
	op(0x29, "AND", addrModeIMM, c.and, 2)
	op(0x2a, "ROL", addrModeACC, c.rol, 2)
	op(0x2b, "ANC", addrModeIMM, c.anc, 2)
	op(0x2c, "BIT", addrModeABS, c.bit, 4)
	op(0x2d, "AND", addrModeABS, c.and, 4)
	op(0x2e, "ROL", addrModeABS, c.rol, 6)
	op(0x2f, "RLA", addrModeABS, c.rla, 6)
	op(0x30, "BMI", addrModeREL, c.bmi, 2)
	op(0x31, "AND", addrModeINDY, c.and, 5)
	op(0x32, "JAM", addrModeIMP, c.jam, 2)
	op(0x33, "RLA", addrModeINDY, c.rla, 8)
	op(0x34, "NOP", addrModeZPX, c.nop, 4)
	op(0x35, "AND", addrModeZPX, c.and, 4)
	op(0x36, "ROL", addrModeZPX, c.rol, 6)
	op(0x37, "RLA", addrModeZPX, c.rla, 6)
	op(0x38, "SEC", addrModeIMP, c.sec, 2)
	op(0x39, "AND", addrModeABSY, c.and, 4)
	op(0x3a, "NOP", addrModeIMP, c.nop, 2)
	op(0x3b, "RLA", addrModeABSY, c.rla, 7)
	op(0x3c, "NOP", addrModeABSX, c.nop, 4)
	op(0x3d, "AND", addrModeABSX, c.and, 4)
	op(0x3e, "ROL", addrModeABSX, c.rol, 7)
	op(0x3f, "RLA", addrModeABSX, c.rla, 7)
	op(0x40, "RTI", addrModeIMP, c.rti, 6)
	op(0x41, "EOR", addrModeINDX, c.eor, 6)
	op(0x42, "JAM", addrModeIMP, c.jam, 2)
	op(0x43, "SRE", addrModeINDX, c.sre, 8)
	op(0x44, "NOP", addrModeZP, c.nop, 3)
	op(0x45, "EOR", addrModeZP, c.eor, 3)
	op(0x46, "LSR", addrModeZP, c.lsr, 5)
	op(0x47, "SRE", addrModeZP, c.sre, 5)
	op(0x48, "PHA", addrModeIMP, c.pha, 3)
	op(0x49, "EOR", addrModeIMM, c.eor, 2)
	op(0x4a, "LSR", addrModeACC, c.lsr, 2)
	op(0x4b, "ALR", addrModeIMM, c.alr, 2)
	op(0x4c, "JMP", addrModeABS, c.jmp, 3)
	op(0x4d, "EOR", addrModeABS, c.eor, 4)
	op(0x4e, "LSR", addrModeABS, c.lsr, 6)
	op(0x4f, "SRE", addrModeABS, c.sre, 6)
	op(0x50, "BVC", addrModeREL, c.bvc, 2)
	op(0x51, "EOR", addrModeINDY, c.eor, 5)
	op(0x52, "JAM", addrModeIMP, c.jam, 2)
	op(0x53, "SRE", addrModeINDY, c.sre, 8)
	op(0x54, "NOP", addrModeZPX, c.nop, 4)
	op(0x55, "EOR", addrModeZPX, c.eor, 4)
	op(0x56, "LSR", addrModeZPX, c.lsr, 6)
	op(0x57, "SRE", addrModeZPX, c.sre, 6)
	op(0x58, "CLI", addrModeIMP, c.cli, 2)
	op(0x59, "EOR", addrModeABSY, c.eor, 4)
	op(0x5a, "NOP", addrModeIMP, c.nop, 2)
	op(0x5b, "SRE", addrModeABSY, c.sre, 7)
	op(0x5c, "NOP", addrModeABSX, c.nop, 4)
	op(0x5d, "EOR", addrModeABSX, c.eor, 4)
	op(0x5e, "LSR", addrModeABSX, c.lsr, 7)
	op(0x5f, "SRE", addrModeABSX, c.sre, 7)
	op(0x60, "RTS", addrModeIMP, c.rts, 6)
	op(0x61, "ADC", addrModeINDX, c.adc, 6)
	op(0x62, "JAM", addrModeIMP, c.jam, 2)
	op(0x63, "RRA", addrModeINDX, c.rra, 8)
	op(0x64, "NOP", addrModeZP, c.nop, 3)
	op(0x65, "ADC", addrModeZP, c.adc, 3)
	op(0x66, "ROR", addrModeZP, c.ror, 5)
	op(0x67, "RRA", addrModeZP, c.rra, 5)
	op(0x68, "PLA", addrModeIMP, c.pla, 4)
	op(0x69, "ADC", addrModeIMM, c.adc, 2)
	op(0x6a, "ROR", addrModeACC, c.ror, 2)
	op(0x6b, "ARR", addrModeIMM, c.arr, 2)
	op(0x6c, "JMP", addrModeIND, c.jmp, 5)
	op(0x6d, "ADC", addrModeABS, c.adc, 4)
	op(0x6e, "ROR", addrModeABS, c.ror, 6)
	op(0x6f, "RRA", addrModeABS, c.rra, 6)
	op(0x70, "BVS", addrModeREL, c.bvs, 2)
	op(0x71, "ADC", addrModeINDY, c.adc, 5)
	op(0x72, "JAM", addrModeIMP, c.jam, 2)
	op(0x73, "RRA", addrModeINDY, c.rra, 8)
	op(0x74, "NOP", addrModeZPX, c.nop, 4)
	op(0x75, "ADC", addrModeZPX, c.adc, 4)
	op(0x76, "ROR", addrModeZPX, c.ror, 6)
	op(0x77, "RRA", addrModeZPX, c.rra, 6)
	op(0x78, "SEI", addrModeIMP, c.sei, 2)
	op(0x79, "ADC", addrModeABSY, c.adc, 4)
	op(0x7a, "NOP", addrModeIMP, c.nop, 2)
	op(0x7b, "RRA", addrModeABSY, c.rra, 7)
	op(0x7c, "NOP", addrModeABSX, c.nop, 4)
	op(0x7d, "ADC", addrModeABSX, c.adc, 4)
	op(0x7e, "ROR", addrModeABSX, c.ror, 7)
	op(0x7f, "RRA", addrModeABSX, c.rra, 7)
	op(0x80, "NOP", addrModeREL, c.nop, 2)
	op(0x81, "STA", addrModeINDX, c.sta, 6)
	op(0x82, "NOP", addrModeIMM, c.nop, 2)
	op(0x83, "SAX", addrModeINDX, c.sax, 6)
	op(0x84, "STY", addrModeZP, c.sty, 3)
	op(0x85, "STA", addrModeZP, c.sta, 3)
	op(0x86, "STX", addrModeZP, c.stx, 3)
	op(0x87, "SAX", addrModeZP, c.sax, 3)
	op(0x88, "DEY", addrModeIMP, c.dey, 2)
	op(0x89, "NOP", addrModeIMM, c.nop, 2)
	op(0x8a, "TXA", addrModeIMP, c.txa, 2)
	op(0x8b, "XAA", addrModeIMM, c.xaa, 2)
	op(0x8c, "STY", addrModeABS, c.sty, 4)
	op(0x8d, "STA", addrModeABS, c.sta, 4)
	op(0x8e, "STX", addrModeABS, c.stx, 4)
	op(0x8f, "SAX", addrModeABS, c.sax, 4)
	op(0x90, "BCC", addrModeREL, c.bcc, 2)
	op(0x91, "STA", addrModeINDY, c.sta, 6)
	op(0x92, "JAM", addrModeIMP, c.jam, 2)
	op(0x93, "AHX", addrModeINDY, c.ahx, 6)
	op(0x94, "STY", addrModeZPX, c.sty, 4)
	op(0x95, "STA", addrModeZPX, c.sta, 4)
	op(0x96, "STX", addrModeZPY, c.stx, 4)
	op(0x97, "SAX", addrModeZPY, c.sax, 4)
	op(0x98, "TYA", addrModeIMP, c.tya, 2)
	op(0x99, "STA", addrModeABSY, c.sta, 5)
	op(0x9a, "TXS", addrModeIMP, c.txs, 2)
	op(0x9b, "TAS", addrModeABSY, c.tas, 5)
	op(0x9c, "SHY", addrModeABSX, c.shy, 5)
	op(0x9d, "STA", addrModeABSX, c.sta, 5)
	op(0x9e, "SHX", addrModeABSY, c.shx, 5)
	op(0x9f, "AHX", addrModeABSY, c.ahx, 5)
	op(0xa0, "LDY", addrModeIMM, c.ldy, 2)
	op(0xa1, "LDA", addrModeINDX, c.lda, 6)
	op(0xa2, "LDX", addrModeIMM, c.ldx, 2)
	op(0xa3, "LAX", addrModeINDX, c.lax, 6)
	op(0xa4, "LDY", addrModeZP, c.ldy, 3)
	op(0xa5, "LDA", addrModeZP, c.lda, 3)
	op(0xa6, "LDX", addrModeZP, c.ldx, 3)
	op(0xa7, "LAX", addrModeZP, c.lax, 3)
	op(0xa8, "TAY", addrModeIMP, c.tay, 2)
	op(0xa9, "LDA", addrModeIMM, c.lda, 2)
	op(0xaa, "TAX", addrModeIMP, c.tax, 2)
	op(0xab, "LXA", addrModeIMM, c.lxa, 2)
	op(0xac, "LDY", addrModeABS, c.ldy, 4)
	op(0xad, "LDA", addrModeABS, c.lda, 4)
	op(0xae, "LDX", addrModeABS, c.ldx, 4)
	op(0xaf, "LAX", addrModeABS, c.lax, 4)
	op(0xb0, "BCS", addrModeREL, c.bcs, 2)
	op(0xb1, "LDA", addrModeINDY, c.lda, 5)
	op(0xb2, "JAM", addrModeIMP, c.jam, 2)
	op(0xb3, "LAX", addrModeINDY, c.lax, 5)
	op(0xb4, "LDY", addrModeZPX, c.ldy, 4)
	op(0xb5, "LDA", addrModeZPX, c.lda, 4)
	op(0xb6, "LDX", addrModeZPY, c.ldx, 4)
	op(0xb7, "LAX", addrModeZPY, c.lax, 4)
	op(0xb8, "CLV", addrModeIMP, c.clv, 2)
	op(0xb9, "LDA", addrModeABSY, c.lda, 4)
	op(0xba, "TSX", addrModeIMP, c.tsx, 2)
	op(0xbb, "LAS", addrModeABSY, c.las, 4)
	op(0xbc, "LDY", addrModeABSX, c.ldy, 4)
	op(0xbd, "LDA", addrModeABSX, c.lda, 4)
	op(0xbe, "LDX", addrModeABSY, c.ldx, 4)
	op(0xbf, "LAX", addrModeABSY, c.lax, 4)
	op(0xc0, "CPY", addrModeIMM, c.cpy, 2)
	op(0xc1, "CMP", addrModeINDX, c.cmp, 6)
	op(0xc2, "NOP", addrModeIMM, c.nop, 2)
	op(0xc3, "DCP", addrModeINDX, c.dcp, 8)
	op(0xc4, "CPY", addrModeZP, c.cpy, 3)
	op(0xc5, "CMP", addrModeZP, c.cmp, 3)
	op(0xc6, "DEC", addrModeZP, c.dec, 5)
	op(0xc7, "DCP", addrModeZP, c.dcp, 5)
	op(0xc8, "INY", addrModeIMP, c.iny, 2)
	op(0xc9, "CMP", addrModeIMM, c.cmp, 2)
	op(0xca, "DEX", addrModeIMP, c.dex, 2)
	op(0xcb, "AXS", addrModeIMM, c.axs, 2)
	op(0xcc, "CPY", addrModeABS, c.cpy, 4)
	op(0xcd, "CMP", addrModeABS, c.cmp, 4)
	op(0xce, "DEC", addrModeABS, c.dec, 6)
	op(0xcf, "DCP", addrModeABS, c.dcp, 6)
	op(0xd0, "BNE", addrModeREL, c.bne, 2)
	op(0xd1, "CMP", addrModeINDY, c.cmp, 5)
	op(0xd2, "JAM", addrModeIMP, c.jam, 2)
	op(0xd3, "DCP", addrModeINDY, c.dcp, 8)
	op(0xd4, "NOP", addrModeZPX, c.nop, 4)
	op(0xd5, "CMP", addrModeZPX, c.cmp, 4)
	op(0xd6, "DEC", addrModeZPX, c.dec, 6)
	op(0xd7, "DCP", addrModeZPX, c.dcp, 6)
	op(0xd8, "CLD", addrModeIMP, c.cld, 2)
	op(0xd9, "CMP", addrModeABSY, c.cmp, 4)
	op(0xda, "NOP", addrModeIMP, c.nop, 2)
	op(0xdb, "DCP", addrModeABSY, c.dcp, 7)
	op(0xdc, "NOP", addrModeABSX, c.nop, 4)
	op(0xdd, "CMP", addrModeABSX, c.cmp, 4)
	op(0xde, "DEC", addrModeABSX, c.dec, 7)
	op(0xdf, "DCP", addrModeABSX, c.dcp, 7)
	op(0xe0, "CPX", addrModeIMM, c.cpx, 2)
	op(0xe1, "SBC", addrModeINDX, c.sbc, 6)
	op(0xe2, "NOP", addrModeIMM, c.nop, 2)
	op(0xe3, "ISC", addrModeINDX, c.isc, 8)
	op(0xe4, "CPX", addrModeZP, c.cpx, 3)
	op(0xe5, "SBC", addrModeZP, c.sbc, 3)
	op(0xe6, "INC", addrModeZP, c.inc, 5)
	op(0xe7, "ISC", addrModeZP, c.isc, 5)
	op(0xe8, "INX", addrModeIMP, c.inx, 2)
	op(0xe9, "SBC", addrModeIMM, c.sbc, 2)
	op(0xea, "NOP", addrModeIMP, c.nop, 2)
	op(0xeb, "SBC", addrModeIMM, c.sbc, 2)
	op(0xec, "CPX", addrModeABS, c.cpx, 4)
	op(0xed, "SBC", addrModeABS, c.sbc, 4)
	op(0xee, "INC", addrModeABS, c.inc, 6)
	op(0xef, "ISC", addrModeABS, c.isc, 6)
	op(0xf0, "BEQ", addrModeREL, c.beq, 2)
	op(0xf1, "SBC", addrModeINDY, c.sbc, 5)
	op(0xf2, "JAM", addrModeIMP, c.jam, 2)
	op(0xf3, "ISC", addrModeINDY, c.isc, 8)
	op(0xf4, "NOP", addrModeZPX, c.nop, 4)
	op(0xf5, "SBC", addrModeZPX, c.sbc, 4)
	op(0xf6, "INC", addrModeZPX, c.inc, 6)
	op(0xf7, "ISC", addrModeZPX, c.isc, 6)
	op(0xf8, "SED", addrModeIMP, c.sed, 2)
	op(0xf9, "SBC", addrModeABSY, c.sbc, 4)
	op(0xfa, "NOP", addrModeIMP, c.nop, 2)
	op(0xfb, "ISC", addrModeABSY, c.isc, 7)
	op(0xfc, "NOP", addrModeABSX, c.nop, 4)
	op(0xfd, "SBC", addrModeABSX, c.sbc, 4)
	op(0xfe, "INC", addrModeABSX, c.inc, 7)
	op(0xff, "ISC", addrModeABSX, c.isc, 7)
}
