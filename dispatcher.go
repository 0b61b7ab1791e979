// dispatcher.go - fetch/decode/execute loop over a loaded program's opcode
// records, running as its own goroutine against a Bridge.

package main

import (
	"fmt"
	"strings"
	"time"
)

const singleStepPollInterval = 5 * time.Millisecond

// Dispatcher owns the register file, RAM image and cache for one loaded
// program, and drives it against a Bridge.
type Dispatcher struct {
	ram             []byte
	cache           *Cache
	bridge          *Bridge
	operandSize     uint8
	instructionSize int
	fileSize        int

	programCounter     int
	instructionCounter uint32
	accumulator        int32
	running            bool

	singleStepToggled bool
	stepRequested     bool
}

// NewDispatcher wires a loaded program to a bridge.
func NewDispatcher(prog *LoadedProgram, cache *Cache, bridge *Bridge) *Dispatcher {
	return &Dispatcher{
		ram:             prog.RAM,
		cache:           cache,
		bridge:          bridge,
		operandSize:     prog.OperandSize,
		instructionSize: prog.InstructionSize,
		fileSize:        prog.FileSize,
		running:         true,
	}
}

// Run executes the loop condition program_counter < file_size AND running,
// honoring single-step suspension and bridge interrupts between
// instructions, until halt (STP) or end of file. Returns a fatal error on
// any execution fault (unknown opcode, truncated trailing record, non-data
// load, division by zero).
func (d *Dispatcher) Run() error {
	defer d.bridge.setExecuting(false)
	d.bridge.setExecuting(true)

	for d.programCounter < d.fileSize && d.running {
		if stop := d.honorInterrupts(); stop {
			break
		}
		if d.singleStepToggled && !d.stepRequested {
			time.Sleep(singleStepPollInterval)
			continue
		}
		d.stepRequested = false

		if err := d.step(); err != nil {
			return err
		}
	}

	d.cache.flushAll(d.ram, d.instructionSize, d.operandSize)
	d.bridge.publishReset(d.cache, d.ram)
	fmt.Print(d.Disassemble())
	return nil
}

// honorInterrupts drains and applies any pending gui -> backend interrupt.
// Returns true when the dispatcher should stop (CLOSE_FILE).
func (d *Dispatcher) honorInterrupts() bool {
	code, _, cacheBits, ok := d.bridge.consumeInterrupt()
	if !ok {
		return false
	}
	switch code {
	case icReset:
		d.reset()
	case icChangeCacheBits:
		if newCache, err := NewCache(cacheBits); err == nil {
			d.cache = newCache
		}
	case icSingleStepToggle:
		d.singleStepToggled = !d.singleStepToggled
	case icCloseFile:
		d.running = false
		return true
	case icStartStep:
		d.stepRequested = true
	}
	return false
}

func (d *Dispatcher) reset() {
	d.programCounter = 0
	d.instructionCounter = 0
	d.accumulator = 0
	d.cache.reset()
}

// step fetches, decodes and executes exactly one instruction.
func (d *Dispatcher) step() error {
	if d.programCounter >= len(d.ram) {
		return fmt.Errorf("%w: program counter out of range at %d", errExecution, d.programCounter)
	}
	opcode := d.ram[d.programCounter]
	d.programCounter++
	d.instructionCounter++

	if !isKnownOpcode(opcode) {
		return fmt.Errorf("%w: unknown opcode 0x%02X at instruction %d", errExecution, opcode, d.instructionCounter-1)
	}

	if d.programCounter+int(d.operandSize) > len(d.ram) {
		return fmt.Errorf("%w: truncated operand for opcode 0x%02X", errExecution, opcode)
	}
	operandBytes := d.ram[d.programCounter : d.programCounter+int(d.operandSize)]
	operand := decodeOperandLE(operandBytes, d.operandSize)
	d.programCounter += int(d.operandSize)

	trace, err := d.dispatch(opcode, operand)
	if err != nil {
		return err
	}

	d.bridge.publishTick(d.accumulator, uint8(d.instructionSize), d.instructionCounter, trace, d.running, d.singleStepToggled)
	return nil
}

func (d *Dispatcher) dispatch(opcode uint8, operand uint32) (string, error) {
	switch opcode {
	case opLdaImm:
		d.accumulator = signExtend(operand, d.operandSize)
	case opLdaDir:
		v, err := d.readDirect(operand)
		if err != nil {
			return "", err
		}
		d.accumulator = v
	case opLdaInd:
		v, err := d.readIndirect(operand)
		if err != nil {
			return "", err
		}
		d.accumulator = v
	case opStaDir:
		if err := d.store(operand); err != nil {
			return "", err
		}
	case opStaInd:
		target, err := d.cacheOrRam(operand)
		if err != nil {
			return "", err
		}
		if err := d.store(uint32(target)); err != nil {
			return "", err
		}
	case opAddDir:
		v, err := d.readDirect(operand)
		if err != nil {
			return "", err
		}
		d.accumulator += v
	case opSubDir:
		v, err := d.readDirect(operand)
		if err != nil {
			return "", err
		}
		d.accumulator -= v
	case opMulDir:
		v, err := d.readDirect(operand)
		if err != nil {
			return "", err
		}
		d.accumulator *= v
	case opDivDir:
		v, err := d.readDirect(operand)
		if err != nil {
			return "", err
		}
		if v == 0 {
			return "", fmt.Errorf("%w: division by zero at instruction %d", errExecution, d.instructionCounter-1)
		}
		d.accumulator /= v
	case opJmpDir:
		d.jump(operand)
	case opJmpInd:
		target, err := d.cacheOrRam(operand)
		if err != nil {
			return "", err
		}
		d.jump(uint32(target))
	case opJnzDir:
		if d.accumulator != 0 {
			d.jump(operand)
		}
	case opJnzInd:
		if d.accumulator != 0 {
			target, err := d.cacheOrRam(operand)
			if err != nil {
				return "", err
			}
			d.jump(uint32(target))
		}
	case opJzeDir:
		if d.accumulator == 0 {
			d.jump(operand)
		}
	case opJzeInd:
		if d.accumulator == 0 {
			target, err := d.cacheOrRam(operand)
			if err != nil {
				return "", err
			}
			d.jump(uint32(target))
		}
	case opJleDir:
		if d.accumulator <= 0 {
			d.jump(operand)
		}
	case opJleInd:
		if d.accumulator <= 0 {
			target, err := d.cacheOrRam(operand)
			if err != nil {
				return "", err
			}
			d.jump(uint32(target))
		}
	case opStp:
		d.running = false
	}

	return d.traceLine(opcode, operand), nil
}

func (d *Dispatcher) cacheOrRam(addr uint32) (int32, error) {
	v, err := d.cache.populateOrRead(addr, d.ram, d.instructionSize, d.operandSize)
	if err != nil {
		return 0, err
	}
	d.bridge.publishEvent(evictedWord{address: d.cache.index(addr), operand: v}.packed(), false)
	return int32(v), nil
}

func (d *Dispatcher) readDirect(addr uint32) (int32, error) {
	v, err := d.cacheOrRam(addr)
	if err != nil {
		return 0, err
	}
	return signExtend(uint32(v), d.operandSize), nil
}

func (d *Dispatcher) readIndirect(addr uint32) (int32, error) {
	target, err := d.cacheOrRam(addr)
	if err != nil {
		return 0, err
	}
	return d.readDirect(uint32(target))
}

// store writes the accumulator to addr via the cache, as dirty, publishing
// and writing back any evicted dirty word before the instruction completes.
func (d *Dispatcher) store(addr uint32) error {
	evicted, valid := d.cache.insert(addr, uint32(d.accumulator), true)
	if valid {
		writeback(d.ram, evicted, d.instructionSize, d.operandSize)
		d.bridge.publishEvent(evicted.packed(), true)
	}
	d.bridge.publishEvent(evictedWord{address: d.cache.index(addr), operand: uint32(d.accumulator)}.packed(), false)
	return nil
}

func (d *Dispatcher) jump(target uint32) {
	d.instructionCounter = target
	d.programCounter = int(target) * d.instructionSize
}

func (d *Dispatcher) traceLine(opcode uint8, operand uint32) string {
	return fmt.Sprintf("%-8s operand=%-10d A=%-10d IC=%d", opcodeNames[opcode], operand, d.accumulator, d.instructionCounter)
}

// Disassemble renders every slot of RAM as a mnemonic. Unknown opcodes print
// UNKNOWN, using exact membership in the known-opcode set — the same test
// Run's dispatch loop uses to fault on an unrecognized opcode.
func (d *Dispatcher) Disassemble() string {
	var b strings.Builder
	slots := len(d.ram) / d.instructionSize
	for i := 0; i < slots; i++ {
		off := i * d.instructionSize
		opcode := d.ram[off]
		name := "UNKNOWN"
		if isKnownOpcode(opcode) {
			name = opcodeNames[opcode]
		}
		operand := decodeOperandLE(d.ram[off+1:off+1+int(d.operandSize)], d.operandSize)
		fmt.Fprintf(&b, "%04d: %-8s %d\n", i, name, operand)
	}
	return b.String()
}
