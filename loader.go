// loader.go - EMUL container loader with adaptive buffered reads. The read
// buffer doubles when I/O dominates an iteration and halves when decoding
// dominates, clamped to a fixed range, and immediate data cells are primed
// into the cache as they're decoded.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// LoadedProgram is the result of loading an EMUL container: a RAM image
// plus the header fields the dispatcher needs.
type LoadedProgram struct {
	RAM             []byte
	FileSize        int
	MemorySize      uint32
	OperandSize     uint8
	InstructionSize int
}

// LoadProgram reads path (an absolute or relative filesystem path) and
// decodes it into a LoadedProgram, priming cache with every immediate data
// cell it encounters. Any header or body violation is a fatal format error.
func LoadProgram(path string, cache *Cache) (*LoadedProgram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errFormat, err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated header: %v", errFormat, err)
	}
	if !bytes.Equal(magic[:], []byte(magicHeader)) {
		return nil, fmt.Errorf("%w: bad magic %q", errFormat, magic)
	}

	var hdr [5]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated header: %v", errFormat, err)
	}
	operandSize := hdr[0]
	memorySize := decodeOperandLE(hdr[1:5], 4)

	if operandSize < minOperandSize || operandSize > maxOperandSize {
		return nil, fmt.Errorf("%w: operand_size %d out of range [%d,%d]", errFormat, operandSize, minOperandSize, maxOperandSize)
	}
	if memorySize < minMemorySize {
		return nil, fmt.Errorf("%w: memory_size %d out of range", errFormat, memorySize)
	}

	instructionSize := 1 + int(operandSize)

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errResource, err)
	}
	bodySize := int(info.Size()) - headerSize
	if bodySize < 0 {
		bodySize = 0
	}

	declaredCap := uint64(memorySize) * uint64(instructionSize)
	if uint64(bodySize) > declaredCap {
		return nil, fmt.Errorf("%w: program body %d bytes exceeds declared memory %d bytes", errFormat, bodySize, declaredCap)
	}
	if declaredCap > maxProgramSize || uint64(bodySize) > maxProgramSize {
		return nil, fmt.Errorf("%w: program exceeds maximum program size", errFormat)
	}

	ramSize := bodySize
	if declaredCap > uint64(ramSize) {
		ramSize = int(declaredCap)
	}
	ram := make([]byte, ramSize)

	instructionCounter := uint32(0)
	bufSize := initialReadBufferSize
	buf := make([]byte, bufSize)
	bufLen := 0 // valid bytes currently in buf, starting at index 0

	for {
		ioStart := time.Now()
		n, readErr := f.Read(buf[bufLen:])
		ioElapsed := time.Since(ioStart)
		bufLen += n

		procStart := time.Now()
		consumed := 0
		for bufLen-consumed >= instructionSize {
			rec := buf[consumed : consumed+instructionSize]
			opcode := rec[0]
			operand := decodeOperandLE(rec[1:], operandSize)

			if opcode == opNOP {
				signed := uint32(signExtend(operand, operandSize))
				if !(signed == 0 && cacheSlotOccupied(cache, instructionCounter)) {
					cache.insert(instructionCounter, signed, false)
				}
			}

			off := int(instructionCounter) * instructionSize
			copy(ram[off:off+instructionSize], rec)
			instructionCounter++
			consumed += instructionSize
		}
		procElapsed := time.Since(procStart)

		if consumed > 0 {
			remaining := bufLen - consumed
			copy(buf, buf[consumed:bufLen])
			bufLen = remaining
		}

		if readErr == io.EOF || (n == 0 && readErr != nil) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: %v", errFormat, readErr)
		}

		if ioElapsed > procElapsed && bufSize < maxReadBufferSize {
			bufSize *= 2
			if bufSize > maxReadBufferSize {
				bufSize = maxReadBufferSize
			}
			buf = growBuffer(buf, bufLen, bufSize)
		} else if procElapsed > ioElapsed && bufSize > minReadBufferSize {
			bufSize /= 2
			if bufSize < minReadBufferSize {
				bufSize = minReadBufferSize
			}
			buf = growBuffer(buf, bufLen, bufSize)
		}
	}

	if bufLen != 0 {
		return nil, fmt.Errorf("%w: truncated trailing record", errFormat)
	}

	return &LoadedProgram{
		RAM:             ram,
		FileSize:        bodySize,
		MemorySize:      memorySize,
		OperandSize:     operandSize,
		InstructionSize: instructionSize,
	}, nil
}

// ApplyMemorySizeOverride reassigns the declared memory size, recomputes
// FileSize from it, and resizes RAM to match, zero-extending or truncating
// as needed.
func (p *LoadedProgram) ApplyMemorySizeOverride(memorySize uint32) {
	p.MemorySize = memorySize
	p.FileSize = int(memorySize) * p.InstructionSize

	if p.FileSize <= len(p.RAM) {
		p.RAM = p.RAM[:p.FileSize]
		return
	}
	grown := make([]byte, p.FileSize)
	copy(grown, p.RAM)
	p.RAM = grown
}

// cacheSlotOccupied reports whether the slot for addr already holds any
// entry. Used to enforce the zero-sentinel rule: priming must not overwrite
// a non-empty slot with the all-zero (addr, 0, false) triple.
func cacheSlotOccupied(cache *Cache, addr uint32) bool {
	idx := cache.index(addr)
	return cache.entries[idx] != 0
}

// growBuffer resizes buf to newSize, preserving the first validLen bytes.
func growBuffer(buf []byte, validLen, newSize int) []byte {
	if newSize <= len(buf) {
		return buf[:newSize]
	}
	grown := make([]byte, newSize)
	copy(grown, buf[:validLen])
	return grown
}
