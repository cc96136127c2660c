package cpu

import (
	"encoding/json"
	"os"
	"path"
	"strconv"
	"testing"

	"golang.org/x/exp/maps"
)

// Test_CPU_SingleStepTest runs the per-opcode JSON suites from
// https://github.com/SingleStepTests/65x02 (nes6502 set).
func Test_CPU_SingleStepTest(t *testing.T) {
	t.Parallel()

	type cpuState struct {
		PC uint16 `json:"pc"`
		S  uint8  `json:"s"`
		A  uint8  `json:"a"`
		X  uint8  `json:"x"`
		Y  uint8  `json:"y"`
		P  uint8  `json:"p"`

		// element[0] is address, element[1] is value
		RAM [][]uint16 `json:"ram"`
	}

	type testInstance struct {
		Name    string   `json:"name"`
		Initial cpuState `json:"initial"`
		Final   cpuState `json:"final"`

		// element[0] is address, element[1] is value,
		// element[2] is the bus operation (read/write)
		Cycles [][]any `json:"cycles"`
	}

	dir := os.Getenv("SINGLE_STEP_TEST_DIR")
	if dir == "" {
		t.Skip("skipping test because SINGLE_STEP_TEST_DIR is not set")
		return
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	mem := newBusRecorder(t)
	doTest := func(t *testing.T, test testInstance) {
		mem.reset()
		for _, addrVal := range test.Initial.RAM {
			mem.set(addrVal[0], uint8(addrVal[1]))
		}
		for _, cyc := range test.Cycles {
			op := cyc[2].(string)
			addr := uint16(cyc[0].(float64))
			data := uint8(cyc[1].(float64))
			mem.allow(op, addr, data)
		}

		c := New(mem, Lenient)
		c.pc = test.Initial.PC
		c.sp = test.Initial.S
		c.a = test.Initial.A
		c.x = test.Initial.X
		c.y = test.Initial.Y
		c.p = test.Initial.P

		cycles, err := c.Step()
		if err != nil {
			t.Fatalf("%s: %v", test.Name, err)
		}

		if c.pc != test.Final.PC {
			t.Fatalf("%s: expected PC %04X, got %04X", test.Name, test.Final.PC, c.pc)
		}
		if c.sp != test.Final.S {
			t.Fatalf("%s: expected S %02X, got %02X", test.Name, test.Final.S, c.sp)
		}
		if c.a != test.Final.A {
			t.Fatalf("%s: expected A %02X, got %02X", test.Name, test.Final.A, c.a)
		}
		if c.x != test.Final.X {
			t.Fatalf("%s: expected X %02X, got %02X", test.Name, test.Final.X, c.x)
		}
		if c.y != test.Final.Y {
			t.Fatalf("%s: expected Y %02X, got %02X", test.Name, test.Final.Y, c.y)
		}
		if c.p != test.Final.P {
			t.Fatalf("%s: expected P %02X, got %02X", test.Name, test.Final.P, c.p)
		}
		if cycles != len(test.Cycles) {
			t.Fatalf("%s: expected %d cycles, got %d", test.Name, len(test.Cycles), cycles)
		}

		for _, addrVal := range test.Final.RAM {
			mem.mustBe(addrVal[0], uint8(addrVal[1]))
		}
	}

	probe := New(nil, Lenient)
	var tests []testInstance
	for _, file := range files {
		opcodeStr := path.Base(file.Name())[:2]
		opcode, err := strconv.ParseUint(opcodeStr, 16, 8)
		if err != nil {
			t.Fatalf("failed to parse opcode from file name %s: %v", file.Name(), err)
		}

		fileData, err := os.ReadFile(path.Join(dir, file.Name()))
		if err != nil {
			t.Fatalf("failed to read file %s: %v", file.Name(), err)
		}

		tests = tests[:0]
		if err := json.Unmarshal(fileData, &tests); err != nil {
			t.Fatalf("failed to unmarshal file %s: %v", file.Name(), err)
		}

		t.Run(file.Name(), func(t *testing.T) {
			if !probe.Supported(uint8(opcode)) {
				t.Skipf("skipping test for opcode %02X because it halts the cpu", opcode)
				return
			}
			for _, test := range tests {
				doTest(t, test)
			}
		})
	}
}

// busRecorder is a flat memory that only accepts the writes a test
// case lists in its cycle trace.
type busRecorder struct {
	t       *testing.T
	data    []uint8
	allowed map[uint32]struct{}
}

func newBusRecorder(t *testing.T) *busRecorder {
	return &busRecorder{
		t:       t,
		data:    make([]uint8, 0x10000),
		allowed: make(map[uint32]struct{}),
	}
}

func (m *busRecorder) key(addr uint16, data uint8) uint32 {
	return uint32(addr) | uint32(data)<<16
}

func (m *busRecorder) allow(op string, addr uint16, data uint8) {
	if op != "write" {
		return
	}
	m.allowed[m.key(addr, data)] = struct{}{}
}

func (m *busRecorder) mustBe(addr uint16, data uint8) {
	if m.data[addr] != data {
		m.t.Fatalf("expected %02X at address %04X, got %02X", data, addr, m.data[addr])
	}
}

func (m *busRecorder) set(addr uint16, data uint8) {
	m.data[addr] = data
}

func (m *busRecorder) reset() {
	clear(m.data)
	maps.Clear(m.allowed)
}

func (m *busRecorder) Read8(addr uint16) uint8 {
	return m.data[addr]
}

func (m *busRecorder) Write8(addr uint16, data uint8) {
	if _, ok := m.allowed[m.key(addr, data)]; !ok {
		m.t.Fatalf("not allowed write to address %04X with value %02X", addr, data)
	}
	m.data[addr] = data
}
