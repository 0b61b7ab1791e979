// singlestep.go - raw-mode keypress controller for --singlestep. Puts stdin
// into raw mode and reads one byte at a time on its own goroutine,
// translating each keypress into a bridge interrupt request.

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// StepController reads raw stdin and turns every keypress into a
// START_STEP request against the bridge, letting a human drive single-step
// mode one instruction at a time.
type StepController struct {
	bridge       *Bridge
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

// NewStepController wires a keypress reader to bridge.
func NewStepController(bridge *Bridge) *StepController {
	return &StepController{
		bridge: bridge,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw mode and begins reading in a goroutine. Every
// keypress requests one START_STEP interrupt. Call Stop to restore stdin.
func (c *StepController) Start() {
	c.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "singlestep: failed to set raw mode: %v\n", err)
		close(c.done)
		return
	}
	c.oldTermState = oldState

	go func() {
		defer close(c.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-c.stopCh:
				return
			default:
			}
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				c.bridge.requestInterrupt(icStartStep, "", 0)
			}
			if err != nil {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

// Stop terminates the reading goroutine and restores stdin to cooked mode.
func (c *StepController) Stop() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
	<-c.done
	if c.oldTermState != nil {
		_ = term.Restore(c.fd, c.oldTermState)
		c.oldTermState = nil
	}
}
