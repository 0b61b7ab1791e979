// main.go - entry point: argument parsing, program loading and the two
// supervised goroutines (execution thread, visualisation thread), wired
// together with golang.org/x/sync/errgroup.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

func boilerPlate() {
	fmt.Printf("%s v%s\n%s\n", appName, appVersion, appCopyright)
}

const eventQueueCapacity = 64

func main() {
	boilerPlate()

	args, err := parseArguments(os.Args[1:])
	if err != nil {
		fatal(err)
	}

	bridge := NewBridge(eventQueueCapacity)

	if args.LTRunGUI {
		runVisualisationOnly(bridge)
		return
	}

	cache, err := NewCache(args.CacheBits)
	if err != nil {
		fatal(err)
	}

	prog, err := LoadProgram(args.InputFile, cache)
	if err != nil {
		fatal(err)
	}

	if args.HasOverwriteMemSize {
		prog.ApplyMemorySizeOverride(args.OverwriteMemSize)
	}
	if args.HasOverwriteOpSize {
		// Reinterpretation width only: RAM was laid out at the declared
		// instruction stride, so instructionSize (and thus RAM framing)
		// stays put.
		prog.OperandSize = args.OverwriteOpSize
	}

	dispatcher := NewDispatcher(prog, cache, bridge)
	dispatcher.singleStepToggled = args.SingleStep

	var group errgroup.Group

	var surface *tea.Program
	var stepCtl *StepController
	if !args.DisableGUI {
		surface = NewVisualisationSurface(bridge)
		if args.SingleStep {
			stepCtl = NewStepController(bridge)
			stepCtl.Start()
		}
		group.Go(func() error {
			_, runErr := surface.Run()
			return runErr
		})
	}

	group.Go(func() error {
		runErr := dispatcher.Run()
		if stepCtl != nil {
			stepCtl.Stop()
		}
		if surface != nil {
			surface.Quit()
		}
		return runErr
	})

	if err := group.Wait(); err != nil {
		fatal(err)
	}
}

// runVisualisationOnly implements --lt-run-gui: start only the
// visualisation surface against an idle bridge, with no program loaded or
// executed.
func runVisualisationOnly(bridge *Bridge) {
	surface := NewVisualisationSurface(bridge)
	if _, err := surface.Run(); err != nil {
		fatal(fmt.Errorf("%w: %v", errResource, err))
	}
}
