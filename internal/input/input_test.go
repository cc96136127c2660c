package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_ReadSequence(t *testing.T) {
	var c Controller
	c.Set(uint8(A | Start | Right))

	c.Write(1)
	c.Write(0)

	var bits []uint8
	for i := 0; i < 10; i++ {
		bits = append(bits, c.Read()&0x1)
	}
	assert.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 0, 1, 1, 1}, bits)
}

func TestController_StrobeHigh(t *testing.T) {
	var c Controller
	c.Set(uint8(A))
	c.Write(1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, uint8(0x41), c.Read(), "reloads while strobe is set")
	}

	c.Set(0)
	assert.Equal(t, uint8(0x40), c.Read())
}

func TestController_SnapshotLatchedOnStrobe(t *testing.T) {
	var c Controller
	c.Set(uint8(B))
	c.Write(1)
	c.Write(0)
	c.Set(0)

	assert.Equal(t, uint8(0x40), c.Read())
	assert.Equal(t, uint8(0x41), c.Read(), "B was latched before the host released it")
}

func TestController_Reset(t *testing.T) {
	var c Controller
	c.Set(uint8(A))
	c.Write(1)

	c.Reset()

	assert.Equal(t, uint8(0x40), c.Read())
	assert.Equal(t, uint8(A), c.Buttons())
}

func TestParseButton(t *testing.T) {
	b, err := ParseButton("Start")
	require.NoError(t, err)
	assert.Equal(t, Start, b)
	assert.Equal(t, "start", b.String())

	_, err = ParseButton("turbo")
	assert.Error(t, err)
}
