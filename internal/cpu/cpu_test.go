package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/nevisdale/nescore/internal/irq"
	rcpu "github.com/retroenv/retrogolib/nes/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memMock struct {
	mock.Mock
}

func (m *memMock) Read8(addr uint16) uint8 {
	args := m.Called(addr)
	return args.Get(0).(uint8)
}

func (m *memMock) Write8(addr uint16, data uint8) {
	m.Called(addr, data)
}

// ram is a flat 64K address space for running small programs.
type ram [0x10000]uint8

func (r *ram) Read8(addr uint16) uint8 {
	return r[addr]
}

func (r *ram) Write8(addr uint16, data uint8) {
	r[addr] = data
}

func (r *ram) load(addr uint16, code ...uint8) {
	copy(r[addr:], code)
}

func (r *ram) vector(addr, target uint16) {
	r[addr] = uint8(target)
	r[addr+1] = uint8(target >> 8)
}

func newProgram(t *testing.T, code ...uint8) (*CPU, *ram) {
	t.Helper()
	mem := &ram{}
	mem.vector(vectorReset, 0x8000)
	mem.vector(vectorNMI, 0x9000)
	mem.vector(vectorIRQ, 0xa000)
	mem.load(0x8000, code...)
	c := New(mem, Lenient)
	c.Reset()
	return c, mem
}

func withOperand(c *CPU, v uint8) {
	c.operandValue = v
	c.operandLoaded = true
}

func TestSetFlag(t *testing.T) {
	c := New(nil, Lenient)

	c.setFlag(flagC|flagZ, true)
	assert.Equal(t, flagC|flagZ, c.p)

	c.setFlag(flagC, false)
	assert.Equal(t, flagZ, c.p)
	assert.True(t, c.getFlag(flagZ))
	assert.False(t, c.getFlag(flagC))
}

func Test_ADC(t *testing.T) {
	type testArgs struct {
		initA          uint8
		operandValue   uint8
		initP          uint8
		expectedA      uint8
		expectedP      uint8
		pageCrossed    bool
		expectedCycles int
	}

	testDo := func(t *testing.T, in testArgs) {
		c := New(nil, Lenient)
		c.a = in.initA
		c.p = in.initP
		withOperand(c, in.operandValue)
		c.pageCrossed = in.pageCrossed

		c.adc()

		assert.Equal(t, in.expectedA, c.a, "A register")
		assert.Equal(t, in.expectedP, c.p, "P register")
		assert.Equal(t, in.expectedCycles, c.cycles, "Cycles")
	}

	t.Run("zero result, no carry", func(t *testing.T) {
		testDo(t, testArgs{expectedP: flagZ})
	})

	t.Run("simple addition, no carry", func(t *testing.T) {
		testDo(t, testArgs{
			initA:        0x10,
			operandValue: 0x20,
			expectedA:    0x30,
		})
	})

	t.Run("overflow with carry set", func(t *testing.T) {
		testDo(t, testArgs{
			initA:        0xff,
			operandValue: 0x1,
			expectedA:    0,
			expectedP:    flagZ | flagC,
		})
	})

	t.Run("negative result with overflow", func(t *testing.T) {
		testDo(t, testArgs{
			initA:        0x7f,
			operandValue: 0x1,
			expectedA:    0x80,
			expectedP:    flagN | flagV,
		})
	})

	t.Run("addition with carry in, result is negative", func(t *testing.T) {
		testDo(t, testArgs{
			initA:        0x50,
			operandValue: 0x50,
			initP:        flagC,
			expectedA:    0xa1,
			expectedP:    flagN | flagV,
		})
	})

	t.Run("overflow with carry in, result is positive", func(t *testing.T) {
		testDo(t, testArgs{
			initA:        0xff,
			operandValue: 0x1,
			initP:        flagC,
			expectedA:    0x01,
			expectedP:    flagC,
		})
	})

	t.Run("add cycle if page crossed", func(t *testing.T) {
		testDo(t, testArgs{
			expectedP:      flagZ,
			pageCrossed:    true,
			expectedCycles: 1,
		})
	})
}

func Test_SBC(t *testing.T) {
	c := New(nil, Lenient)
	c.a = 0x50
	c.p = flagC
	withOperand(c, 0xf0)

	c.sbc()

	assert.Equal(t, uint8(0x60), c.a)
	assert.Equal(t, uint8(0), c.p&flagC, "borrow clears carry")
	assert.Equal(t, uint8(0), c.p&flagV)
}

func Test_ASL(t *testing.T) {
	t.Run("accumulator", func(t *testing.T) {
		c := New(nil, Lenient)
		c.a = 0x81
		c.addrMode = addrModeACC

		c.asl()

		assert.Equal(t, uint8(0x02), c.a)
		assert.Equal(t, flagC, c.p)
	})

	t.Run("memory", func(t *testing.T) {
		mem := &memMock{}
		mem.On("Read8", uint16(0x0010)).Return(uint8(0x40)).Once()
		mem.On("Write8", uint16(0x0010), uint8(0x80)).Once()

		c := New(mem, Lenient)
		c.addrMode = addrModeZP
		c.operandAddr = 0x0010

		c.asl()

		mem.AssertExpectations(t)
		assert.Equal(t, flagN, c.p)
	})
}

func Test_STA_DoesNotReadTarget(t *testing.T) {
	mem := &memMock{}
	mem.On("Read8", uint16(0x8000)).Return(uint8(0x8d))
	mem.On("Read8", uint16(0x8001)).Return(uint8(0x07))
	mem.On("Read8", uint16(0x8002)).Return(uint8(0x20))
	mem.On("Write8", uint16(0x2007), uint8(0x00)).Once()

	c := New(mem, Lenient)
	c.pc = 0x8000

	cycles, err := c.Step()
	require.NoError(t, err)

	assert.Equal(t, 4, cycles)
	mem.AssertExpectations(t)
	mem.AssertNotCalled(t, "Read8", uint16(0x2007))
}

func Test_ARR(t *testing.T) {
	c := New(nil, Lenient)
	c.a = 0xff
	c.p = flagC
	withOperand(c, 0xff)

	c.arr()

	assert.Equal(t, uint8(0xff), c.a)
	assert.True(t, c.getFlag(flagC))
	assert.False(t, c.getFlag(flagV))
	assert.True(t, c.getFlag(flagN))
}

func Test_AXS(t *testing.T) {
	c := New(nil, Lenient)
	c.a = 0x0f
	c.x = 0xfc
	withOperand(c, 0x04)

	c.axs()

	assert.Equal(t, uint8(0x08), c.x)
	assert.True(t, c.getFlag(flagC))
}

func Test_SHX_PageCross(t *testing.T) {
	mem := &ram{}
	c := New(mem, Lenient)
	c.x = 0x03
	c.baseAddr = 0x12ff
	c.operandAddr = 0x1300
	c.pageCrossed = true

	c.shx()

	assert.Equal(t, uint8(0x03), mem[0x0300])
}

func TestCPU_Reset(t *testing.T) {
	c, _ := newProgram(t)

	regs := c.Registers()
	assert.Equal(t, uint16(0x8000), regs.PC)
	assert.Equal(t, uint8(0xfd), regs.SP)
	assert.Equal(t, flagU|flagI, regs.P)
	assert.Equal(t, uint64(7), c.Cycles())
}

func TestCPU_Step_Cycles(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		code   []uint8
		x      uint8
		p      uint8
		cycles int
	}{
		{name: "lda immediate", code: []uint8{0xa9, 0x01}, cycles: 2},
		{name: "lda absolute x", code: []uint8{0xbd, 0x00, 0x12}, x: 0x01, cycles: 4},
		{name: "lda absolute x page crossed", code: []uint8{0xbd, 0xff, 0x12}, x: 0x01, cycles: 5},
		{name: "sta absolute x page crossed", code: []uint8{0x9d, 0xff, 0x12}, x: 0x01, cycles: 5},
		{name: "bne not taken", code: []uint8{0xd0, 0x10}, p: flagZ, cycles: 2},
		{name: "bne taken", code: []uint8{0xd0, 0x10}, cycles: 3},
		{name: "bne taken page crossed", pc: 0x80f0, code: []uint8{0xd0, 0x7f}, cycles: 4},
		{name: "jsr", code: []uint8{0x20, 0x00, 0x90}, cycles: 6},
		{name: "brk", code: []uint8{0x00}, cycles: 7},
		{name: "inc absolute x", code: []uint8{0xfe, 0x00, 0x02}, cycles: 7},
		{name: "nop absolute x page crossed", code: []uint8{0x1c, 0xff, 0x12}, x: 0x01, cycles: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := newProgram(t)
			pc := tt.pc
			if pc == 0 {
				pc = 0x8000
			}
			mem.load(pc, tt.code...)
			c.SetPC(pc)
			c.x = tt.x
			c.p = tt.p | flagU

			cycles, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tt.cycles, cycles)
			assert.Equal(t, uint64(7+tt.cycles), c.Cycles())
		})
	}
}

func TestCPU_Program(t *testing.T) {
	// LDX #$05; loop: DEX; TXA; STA $0200,X; BNE loop; JMP *
	c, mem := newProgram(t, 0xa2, 0x05, 0xca, 0x8a, 0x9d, 0x00, 0x02, 0xd0, 0xf9, 0x4c, 0x09, 0x80)

	for i := 0; i < 1+5*4; i++ {
		_, err := c.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, uint16(0x8009), c.Registers().PC)
	assert.Equal(t, []uint8{0, 1, 2, 3, 4}, mem[0x0200:0x0205])
}

func TestCPU_Interrupts(t *testing.T) {
	t.Run("nmi is serviced at the next step", func(t *testing.T) {
		c, mem := newProgram(t, 0xea)
		c.RequestInterrupt(irq.NMI)

		cycles, err := c.Step()
		require.NoError(t, err)

		assert.Equal(t, 7, cycles)
		assert.Equal(t, uint16(0x9000), c.Registers().PC)
		assert.Equal(t, uint8(0xfa), c.Registers().SP)
		assert.Equal(t, uint8(0x80), mem[0x01fd], "return address high")
		assert.Equal(t, uint8(0x00), mem[0x01fc], "return address low")
		assert.Equal(t, flagU|flagI, mem[0x01fb], "pushed status has B clear")
		assert.True(t, c.getFlag(flagI))
		assert.False(t, c.Pending(irq.NMI))
	})

	t.Run("irq stays latched while masked", func(t *testing.T) {
		// NOP; CLI; NOP
		c, _ := newProgram(t, 0xea, 0x58, 0xea)
		c.RequestInterrupt(irq.IRQ)

		cycles, err := c.Step()
		require.NoError(t, err)
		assert.Equal(t, 2, cycles)
		assert.True(t, c.Pending(irq.IRQ))

		_, err = c.Step() // CLI
		require.NoError(t, err)

		cycles, err = c.Step()
		require.NoError(t, err)
		assert.Equal(t, 7, cycles)
		assert.Equal(t, uint16(0xa000), c.Registers().PC)
		assert.False(t, c.Pending(irq.IRQ))
	})

	t.Run("acknowledged irq is not serviced", func(t *testing.T) {
		// NOP; CLI; NOP
		c, _ := newProgram(t, 0xea, 0x58, 0xea)
		c.RequestInterrupt(irq.IRQ)
		c.RequestInterrupt(irq.NMI)
		c.AcknowledgeInterrupt(irq.IRQ)
		c.AcknowledgeInterrupt(irq.NMI)
		assert.False(t, c.Pending(irq.IRQ))
		assert.True(t, c.Pending(irq.NMI), "nmi cannot be withdrawn")
		c.nmiPending = false

		for i := 0; i < 3; i++ {
			cycles, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, 2, cycles)
		}
		assert.Equal(t, uint16(0x8003), c.Registers().PC)
	})

	t.Run("nmi wins over irq", func(t *testing.T) {
		c, _ := newProgram(t, 0xea)
		c.p = flagU
		c.RequestInterrupt(irq.IRQ)
		c.RequestInterrupt(irq.NMI)

		_, err := c.Step()
		require.NoError(t, err)

		assert.Equal(t, uint16(0x9000), c.Registers().PC)
		assert.True(t, c.Pending(irq.IRQ))
	})

	t.Run("rti resumes the interrupted code", func(t *testing.T) {
		c, mem := newProgram(t, 0xea)
		mem.load(0x9000, 0x40)
		c.RequestInterrupt(irq.NMI)

		for i := 0; i < 2; i++ {
			_, err := c.Step()
			require.NoError(t, err)
		}

		assert.Equal(t, uint16(0x8000), c.Registers().PC)
		assert.Equal(t, uint8(0xfd), c.Registers().SP)
	})
}

func TestCPU_Stall(t *testing.T) {
	c, _ := newProgram(t, 0xea)
	c.Stall(513)

	cycles, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, 515, cycles)

	cycles, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, 2, cycles, "stall is paid once")
}

func TestCPU_Policy(t *testing.T) {
	t.Run("lenient runs undocumented opcodes", func(t *testing.T) {
		// LAX $10
		c, mem := newProgram(t, 0xa7, 0x10)
		mem[0x10] = 0x42

		cycles, err := c.Step()
		require.NoError(t, err)
		assert.Equal(t, 3, cycles)
		assert.Equal(t, uint8(0x42), c.Registers().A)
		assert.Equal(t, uint8(0x42), c.Registers().X)
	})

	t.Run("strict faults on undocumented opcodes", func(t *testing.T) {
		c, _ := newProgram(t, 0xa7, 0x10)
		c.SetPolicy(Strict)

		_, err := c.Step()
		var fault *DecodeFault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, uint8(0xa7), fault.Opcode)
		assert.Equal(t, uint16(0x8000), fault.PC)
		assert.True(t, c.Halted())

		_, err = c.Step()
		assert.ErrorIs(t, err, fault, "halted until reset")

		c.Reset()
		assert.False(t, c.Halted())
	})

	t.Run("jam faults under any policy", func(t *testing.T) {
		c, _ := newProgram(t, 0x02)

		_, err := c.Step()
		var fault *DecodeFault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, "JAM", fault.Name)
		assert.False(t, c.Supported(0x02))
	})
}

func TestOpcodeTable(t *testing.T) {
	c := New(nil, Lenient)

	official := 0
	for op := 0; op < 0x100; op++ {
		in := c.instrs[op]
		require.NotNil(t, in.fn, "opcode %02X", op)
		if in.illegal {
			continue
		}
		official++

		ref := rcpu.Opcodes[uint8(op)]
		require.NotNil(t, ref.Instruction, "opcode %02X", op)
		assert.Equal(t, strings.ToUpper(ref.Instruction.Name), in.name, "opcode %02X", op)
		assert.Equal(t, modes[ref.Addressing], in.mode, "opcode %02X", op)
	}
	assert.Equal(t, 151, official)
}

func TestCPU_Trace(t *testing.T) {
	c, mem := newProgram(t)
	mem.load(0xc000, 0x4c, 0xf5, 0xc5)
	c.SetPC(0xc000)

	line := c.Trace()

	assert.True(t, strings.HasPrefix(line, "C000  4C F5 C5  JMP $C5F5 "), line)
	assert.Equal(t, 48, strings.Index(line, "A:"), line)
	assert.True(t, strings.HasSuffix(line, "A:00 X:00 Y:00 P:24 SP:FD CYC:7"), line)
}

func TestCPU_Disassemble(t *testing.T) {
	// LDA #$01; STA $0200; NOP
	c, mem := newProgram(t, 0xa9, 0x01, 0x8d, 0x00, 0x02, 0xea)

	disasm := c.Disassemble(0x8000, 0x8005, mem.Read8)

	assert.Equal(t, map[uint16]string{
		0x8000: "$8000: LDA #$01 {IMM}",
		0x8002: "$8002: STA $0200 {ABS}",
		0x8005: "$8005: NOP {IMP}",
	}, disasm)
}
