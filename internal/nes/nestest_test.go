package nes

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/nevisdale/nescore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Nestest(t *testing.T) {
	nestestBinFile := os.Getenv("NESTEST_BIN")
	nestestLogFile := os.Getenv("NESTEST_LOG")
	if nestestBinFile == "" || nestestLogFile == "" {
		t.Skip("skipping test because NESTEST_BIN or NESTEST_LOG is not set")
		return
	}

	n, err := New(config.Default())
	require.NoError(t, err)
	defer n.Destroy()
	require.NoError(t, n.LoadROM(nestestBinFile), "failed to load nestest rom")

	// nestest (all tests) starts at 0xC000
	n.cpu.SetPC(0xc000)

	re := regexp.MustCompile(`([A-F0-9]{4}).+A:([A-F0-9]{2}) X:([A-F0-9]{2}) Y:([A-F0-9]{2}) P:([A-F0-9]{2}) SP:([A-F0-9]{2}).+CYC:(\d+)`)
	type state struct {
		pc uint16
		// before executing the instruction
		a   uint8
		x   uint8
		y   uint8
		sp  uint8
		p   uint8
		cyc uint64
	}

	parseHex := func(s string, bits int) uint64 {
		v, err := strconv.ParseUint(s, 16, bits)
		require.NoError(t, err)
		return v
	}

	parseLogLine := func(s string) state {
		match := re.FindStringSubmatch(s)
		require.NotNil(t, match, "unexpected log line %q", s)

		cyc, err := strconv.ParseUint(match[7], 10, 64)
		require.NoError(t, err)

		// from 1 to skip full match
		return state{
			pc:  uint16(parseHex(match[1], 16)),
			a:   uint8(parseHex(match[2], 8)),
			x:   uint8(parseHex(match[3], 8)),
			y:   uint8(parseHex(match[4], 8)),
			p:   uint8(parseHex(match[5], 8)),
			sp:  uint8(parseHex(match[6], 8)),
			cyc: cyc,
		}
	}

	logFileData, err := os.ReadFile(nestestLogFile)
	require.NoError(t, err, "failed to open nestest log file")

	var expectedStates []state
	for _, line := range strings.Split(string(logFileData), "\n") {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		expectedStates = append(expectedStates, parseLogLine(line))
	}

	for i, expectedState := range expectedStates {
		regs := n.cpu.Registers()
		actualState := state{
			pc:  regs.PC,
			a:   regs.A,
			x:   regs.X,
			y:   regs.Y,
			sp:  regs.SP,
			p:   regs.P,
			cyc: n.cpu.Cycles(),
		}
		if !assert.Equal(t, expectedState, actualState, "failed at instruction %s:%d", nestestLogFile, i) {
			return
		}

		_, err := n.StepInstruction()
		require.NoError(t, err, "failed at instruction %s:%d", nestestLogFile, i)
	}
}
