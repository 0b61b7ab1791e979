// constants.go - container format, range limits and opcode table for pASM.

package main

const (
	appName      = "pASM"
	appVersion   = "1.0.0"
	appCopyright = "(c) 2026 BeyerCorp"

	magicHeader = "EMUL"
	headerSize  = 9 // 4 magic + 1 operand_size + 4 memory_size

	minMemorySize uint32 = 1
	maxMemorySize uint32 = 4294967295

	minOperandSize uint8 = 1
	maxOperandSize uint8 = 4

	minCacheBits uint8 = 1
	maxCacheBits uint8 = 6

	maxProgramSize = 21474836484

	minReadBufferSize     = 512
	maxReadBufferSize     = 4 * 1024 * 1024
	initialReadBufferSize = 4096

	defaultCacheBits = 4

	programExtension = ".p"

	visualisationTickInterval = 100 // milliseconds between bridge polls
)

// Opcodes. Values below are written in decimal but correspond to the fixed
// hex encoding used on the wire (0x0A == 10, 0x63 == 99, and so on).
const (
	opNOP    uint8 = 0x00
	opLdaImm uint8 = 10
	opLdaDir uint8 = 11
	opLdaInd uint8 = 12
	opStaDir uint8 = 20
	opStaInd uint8 = 21
	opAddDir uint8 = 30
	opSubDir uint8 = 40
	opMulDir uint8 = 50
	opDivDir uint8 = 60
	opJmpDir uint8 = 70
	opJmpInd uint8 = 71
	opJnzDir uint8 = 80
	opJnzInd uint8 = 81
	opJzeDir uint8 = 90
	opJzeInd uint8 = 91
	opJleDir uint8 = 92
	opJleInd uint8 = 93
	opStp    uint8 = 99
)

// opcodeNames backs the per-instruction trace strings and the final
// disassembly listing. Only opcodes in this table are "known"; dispatch and
// disassembly both use exact membership in this map as the single test for
// whether an opcode is valid.
var opcodeNames = map[uint8]string{
	opNOP:    "NOP",
	opLdaImm: "LDA_IMM",
	opLdaDir: "LDA_DIR",
	opLdaInd: "LDA_IND",
	opStaDir: "STA_DIR",
	opStaInd: "STA_IND",
	opAddDir: "ADD_DIR",
	opSubDir: "SUB_DIR",
	opMulDir: "MUL_DIR",
	opDivDir: "DIV_DIR",
	opJmpDir: "JMP_DIR",
	opJmpInd: "JMP_IND",
	opJnzDir: "JNZ_DIR",
	opJnzInd: "JNZ_IND",
	opJzeDir: "JZE_DIR",
	opJzeInd: "JZE_IND",
	opJleDir: "JLE_DIR",
	opJleInd: "JLE_IND",
	opStp:    "STP",
}

func isKnownOpcode(op uint8) bool {
	_, ok := opcodeNames[op]
	return ok
}

// Bridge interrupt codes, gui -> backend direction.
const (
	icNone uint8 = iota
	icOpenFile
	icCloseFile
	icChangeCacheBits
	icStartStep
	icReset
	icSingleStepToggle
)

// Bridge interrupt codes, backend -> gui direction.
const (
	bicNone uint8 = iota
	bicReset
)
