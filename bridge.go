// bridge.go - the mutex-guarded cross-thread control bridge between the
// execution goroutine and the visualisation surface. Interrupt codes flow
// gui->backend and backend->gui through a check-NONE/write/unlock producer
// side and a read/act/clear-to-NONE/unlock consumer side; read-only state
// and periodic snapshots flow the other way for rendering.

package main

import (
	"fmt"
	"sync"
)

// Bridge is the sole shared object between the execution thread and the
// visualisation thread.
type Bridge struct {
	mu sync.Mutex

	// gui -> backend
	backendInterruptCode uint8
	pendingFilename      string
	pendingCacheBits     uint8

	// backend -> gui
	guiInterruptCode uint8

	// read-only views for the visualisation thread
	accumulator        int32
	instructionSize    uint8
	instructionCounter uint32
	instruction        string
	coinstruction      string
	cocoinstruction    string
	executing          bool
	singleStepMode     bool

	// snapshots, rebuilt on each reset
	cacheSnapshot *Cache
	ramSnapshot   []byte

	events *EventQueue
}

// NewBridge constructs a bridge with the given event queue capacity.
func NewBridge(queueCapacity int) *Bridge {
	return &Bridge{
		events: NewEventQueue(queueCapacity),
	}
}

// ---- producer side: execution thread publishing state ----

// publishTick records the dispatcher's read-only state for the
// visualisation thread after dispatching one instruction, rotating the
// three-deep instruction/coinstruction/cocoinstruction trace history.
func (b *Bridge) publishTick(accumulator int32, instructionSize uint8, instructionCounter uint32, trace string, executing, singleStep bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accumulator = accumulator
	b.instructionSize = instructionSize
	b.instructionCounter = instructionCounter
	b.cocoinstruction = b.coinstruction
	b.coinstruction = b.instruction
	b.instruction = trace
	b.executing = executing
	b.singleStepMode = singleStep
}

// publishReset rebuilds the duplicated snapshot views so the visualisation
// thread can redraw without racing the live image, and signals RESET
// backend -> gui.
func (b *Bridge) publishReset(cache *Cache, ram []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheSnapshot = cache.duplicate()
	b.ramSnapshot = append([]byte(nil), ram...)
	if b.guiInterruptCode == icNone {
		b.guiInterruptCode = bicReset
	}
}

// publishEvent enqueues a cache or writeback event under the bridge mutex,
// so the visualisation thread observes events in production order.
func (b *Bridge) publishEvent(value uint64, isWriteback bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events.enqueueWithBit(value, isWriteback)
}

// setExecuting clears/sets the executing flag, used on halt or CLOSE_FILE.
func (b *Bridge) setExecuting(executing bool) {
	b.mu.Lock()
	b.executing = executing
	b.mu.Unlock()
}

// ---- consumer side: visualisation thread requests ----

// requestInterrupt is the producer-side protocol for the gui -> backend
// direction: acquire, check NONE, write code (+ payload), release. A
// non-NONE code already pending is back-pressure — dropped with a
// diagnostic, non-fatal (§7).
func (b *Bridge) requestInterrupt(code uint8, filename string, cacheBits uint8) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backendInterruptCode != icNone {
		fmt.Printf("pasm: bridge back-pressure: dropping interrupt %d, %d still pending\n", code, b.backendInterruptCode)
		return false
	}
	b.backendInterruptCode = code
	b.pendingFilename = filename
	b.pendingCacheBits = cacheBits
	return true
}

// consumeInterrupt is the backend-side half: read the pending gui -> backend
// request (if any) and clear it to NONE. Returns ok=false when nothing is
// pending.
func (b *Bridge) consumeInterrupt() (code uint8, filename string, cacheBits uint8, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backendInterruptCode == icNone {
		return icNone, "", 0, false
	}
	code = b.backendInterruptCode
	filename = b.pendingFilename
	cacheBits = b.pendingCacheBits
	b.backendInterruptCode = icNone
	return code, filename, cacheBits, true
}

// consumeGUIInterrupt is the gui-side half of the backend -> gui direction:
// read and acknowledge by clearing to NONE.
func (b *Bridge) consumeGUIInterrupt() (code uint8, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.guiInterruptCode == icNone {
		return icNone, false
	}
	code = b.guiInterruptCode
	b.guiInterruptCode = icNone
	return code, true
}

// snapshot returns a read-only copy of the current tick state for the
// visualisation thread to render.
type bridgeSnapshot struct {
	Accumulator        int32
	InstructionSize    uint8
	InstructionCounter uint32
	Instruction        string
	Coinstruction      string
	Cocoinstruction    string
	Executing          bool
	SingleStepMode     bool
	RAMLen             int
}

func (b *Bridge) snapshot() bridgeSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bridgeSnapshot{
		Accumulator:        b.accumulator,
		InstructionSize:    b.instructionSize,
		InstructionCounter: b.instructionCounter,
		Instruction:        b.instruction,
		Coinstruction:      b.coinstruction,
		Cocoinstruction:    b.cocoinstruction,
		Executing:          b.executing,
		SingleStepMode:     b.singleStepMode,
		RAMLen:             len(b.ramSnapshot),
	}
}

// drainEvent pops one pending event for the visualisation thread, if any.
func (b *Bridge) drainEvent() (value uint64, isWriteback bool, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events.dequeueWithBit()
}
