// Package input implements the standard controller ports: an 8-bit
// shift register reloaded while the strobe bit is set.
package input

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type Button uint8

const (
	A Button = 1 << iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

var buttonNames = map[string]Button{
	"a":      A,
	"b":      B,
	"select": Select,
	"start":  Start,
	"up":     Up,
	"down":   Down,
	"left":   Left,
	"right":  Right,
}

func (b Button) String() string {
	for name, v := range buttonNames {
		if v == b {
			return name
		}
	}
	return fmt.Sprintf("button(%#02x)", uint8(b))
}

// ParseButton maps a case insensitive name ("a", "start", "left") to its
// button.
func ParseButton(name string) (Button, error) {
	b, ok := buttonNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return b, nil
}

// openBus is what the upper bits of $4016/$4017 read as on a stock
// console.
const openBus = 0x40

type Controller struct {
	// written by the host, read by the emulation loop
	buttons atomic.Uint32

	strobe bool
	shift  uint8
	index  uint8
}

// Set publishes the host's button snapshot. It is safe to call from any
// goroutine.
func (c *Controller) Set(mask uint8) {
	c.buttons.Store(uint32(mask))
}

func (c *Controller) Buttons() uint8 {
	return uint8(c.buttons.Load())
}

func (c *Controller) latch() {
	c.shift = c.Buttons()
	c.index = 0
}

// Write handles the strobe bit of a $4016 write.
func (c *Controller) Write(v uint8) {
	c.strobe = v&0x1 > 0
	if c.strobe {
		c.latch()
	}
}

// Read returns the next button bit. After all eight are read it keeps
// returning 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.latch()
		return openBus | c.shift&0x1
	}
	if c.index >= 8 {
		return openBus | 0x1
	}
	bit := (c.shift >> c.index) & 0x1
	c.index++
	return openBus | bit
}

// Reset drops the latched state. The host snapshot is kept.
func (c *Controller) Reset() {
	c.strobe = false
	c.shift = 0
	c.index = 0
}
