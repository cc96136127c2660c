package nes

import (
	"fmt"
	"time"

	"github.com/nevisdale/nescore/internal/logger"
)

// upper bound for one StepFrame, two frames of CPU cycles
const maxFrameCycles = 2 * 29781

// Start begins stepping frames on a background goroutine, paced at the
// configured frame rate. Starting a running console is a no-op.
func (n *NES) Start() error {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	switch n.state {
	case Destroyed:
		return ErrDestroyed
	case Uninitialized:
		return ErrNoCartridge
	case Running:
		return nil
	}

	n.start()
	return nil
}

// Stop pauses the run loop at the next instruction boundary and waits for
// it to exit. Stopping a stopped console is a no-op.
func (n *NES) Stop() {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	if n.stop() {
		logger.Log("nes", "stopped")
	}
}

// start runs with ctl held.
func (n *NES) start() {
	n.quit = make(chan struct{})
	n.done = make(chan struct{})
	n.state = Running

	go n.run(n.cfg.FrameRate, n.quit, n.done)
	logger.Log("nes", "running")
}

// stop runs with ctl held and reports whether the loop was running.
func (n *NES) stop() bool {
	if n.state != Running {
		return false
	}
	n.stopping.Store(true)
	close(n.quit)
	<-n.done
	n.stopping.Store(false)
	n.state = Stopped
	return true
}

// reap notices a run loop that exited on its own after a fault.
func (n *NES) reap() {
	if n.state != Running {
		return
	}
	select {
	case <-n.done:
		n.state = Stopped
	default:
	}
}

func (n *NES) run(frameRate int, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}

		n.mu.Lock()
		err := n.stepFrame()
		if err != nil {
			n.fault = err
		}
		n.mu.Unlock()

		if err != nil {
			logger.Logf("nes", "run loop stopped: %v", err)
			return
		}
	}
}

// StepFrame runs the console until the picture unit completes a frame.
// It is meant for synchronous drivers and fails while the run loop owns
// the console.
func (n *NES) StepFrame() error {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	if err := n.steppable(); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stepFrame()
}

// StepInstruction executes one instruction, or services one interrupt,
// and returns the CPU cycles it took.
func (n *NES) StepInstruction() (int, error) {
	n.ctl.Lock()
	defer n.ctl.Unlock()
	n.reap()

	if err := n.steppable(); err != nil {
		return 0, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	return n.step()
}

func (n *NES) steppable() error {
	switch n.state {
	case Destroyed:
		return ErrDestroyed
	case Uninitialized:
		return ErrNoCartridge
	case Running:
		return ErrRunning
	}
	return nil
}

// stepFrame runs with mu held. The stop request is checked between
// instructions.
func (n *NES) stepFrame() error {
	frame := n.ppu.Frames()
	cycles := 0
	for n.ppu.Frames() == frame && cycles < maxFrameCycles {
		if n.stopping.Load() {
			return nil
		}
		c, err := n.step()
		if err != nil {
			return err
		}
		cycles += c
	}
	return nil
}

// step runs with mu held. The picture unit runs three dots per CPU
// cycle, the audio unit one step per CPU cycle.
func (n *NES) step() (int, error) {
	if n.trace != nil {
		fmt.Fprintln(n.trace, n.cpu.Trace())
	}

	cycles, err := n.cpu.Step()
	if err != nil {
		return cycles, err
	}
	n.ppu.Step(cycles * 3)
	n.apu.Step(cycles)
	return cycles, nil
}

// ReadSamples moves queued PCM samples into dst and returns how many were
// written. It may be called from the audio goroutine.
func (n *NES) ReadSamples(dst []int16) int {
	return n.apu.Read(dst)
}

// SetButtons publishes the host's button state for a controller port
// (0 or 1).
func (n *NES) SetButtons(port int, mask uint8) {
	if port < 0 || port >= len(n.pads) {
		return
	}
	n.pads[port].Set(mask)
}
