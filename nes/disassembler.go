package nes

import (
	"fmt"
	"strings"
)

// DisasmLine is one decoded instruction: its start address and the
// formatted mnemonic with operand.
type DisasmLine struct {
	Addr uint16
	Text string
}

// Disassemble walks [start, end] decoding opcodes through read and
// returns the decoded lines in address order. It performs reads only
// and keeps no state of its own. Any side effect comes from read
// itself: through a live bus, a window covering a controller port
// shifts that controller's snapshot.
func Disassemble(read func(addr uint16) byte, start, end uint16) []DisasmLine {
	var lines []DisasmLine

	addr := uint32(start)
	for addr <= uint32(end) {
		pc := uint16(addr)
		opcode := read(pc)
		inst := instructions[opcode]

		lines = append(lines, DisasmLine{
			Addr: pc,
			Text: formatInstruction(read, pc, opcode, inst),
		})

		addr += uint32(inst.Size())
	}

	return lines
}

// formatInstruction renders a single decoded instruction, raw bytes
// included, the way nestest logs do. Illegal opcodes are starred.
func formatInstruction(read func(addr uint16) byte, pc uint16, opcode byte, inst Instruction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%04X  ", pc)

	switch inst.Size() {
	case 1:
		fmt.Fprintf(&b, "%02X      ", opcode)
	case 2:
		fmt.Fprintf(&b, "%02X %02X   ", opcode, read(pc+1))
	case 3:
		fmt.Fprintf(&b, "%02X %02X %02X", opcode, read(pc+1), read(pc+2))
	}

	if inst.Illegal {
		b.WriteString(" *")
	} else {
		b.WriteString("  ")
	}

	b.WriteString(inst.Name)

	switch inst.Mode {
	case Implied:
	case Accumulator:
		b.WriteString(" A")
	default:
		var arg uint16
		switch inst.Mode {
		case Immediate, ZeroPage, ZeroPageIndexedX, ZeroPageIndexedY,
			PreIndexedIndirect, PostIndexedIndirect:
			arg = uint16(read(pc + 1))
		case Absolute, Indirect, IndexedX, IndexedY:
			arg = uint16(read(pc+1)) | uint16(read(pc+2))<<8
		case Relative:
			arg = pc + 2 + uint16(int8(read(pc+1)))
		}
		b.WriteString(" ")
		fmt.Fprintf(&b, addressingFormats[inst.Mode], arg)
	}

	return b.String()
}

var addressingFormats = map[AddressingMode]string{
	Immediate:           "#$%02X",    // #aa
	Absolute:            "$%04X",     // aaaa
	ZeroPage:            "$%02X",     // aa
	Indirect:            "($%04X)",   // (aaaa)
	IndexedX:            "$%04X,X",   // aaaa,X
	IndexedY:            "$%04X,Y",   // aaaa,Y
	ZeroPageIndexedX:    "$%02X,X",   // aa,X
	ZeroPageIndexedY:    "$%02X,Y",   // aa,Y
	PreIndexedIndirect:  "($%02X,X)", // (aa,X)
	PostIndexedIndirect: "($%02X),Y", // (aa),Y
	Relative:            "$%04X",     // aaaa
}
