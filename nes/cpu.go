package nes

import (
	"fmt"
	"io"
)

const cpuFreq float64 = 1789773

// masterFreq is the PPU-domain clock; the CPU runs at a third of it.
const masterFreq = cpuFreq * 3

const (
	nmiVector   = uint16(0xFFFA)
	resetVector = uint16(0xFFFC)
	irqVector   = uint16(0xFFFE)

	stackBase = uint16(0x0100)
)

// status holds the processor flags.
type status byte

const (
	// Carry is the carry out of ADC and the shifted-out bit of the
	// shift and rotate instructions. After SBC and the compares it is
	// the inverted borrow, so set means "no borrow" or "greater or
	// equal".
	carry status = 1 << iota

	// Zero is set when the 8-bit result of an instruction is zero.
	zero

	// InterruptDisable inhibits IRQ while set; the NMI is unaffected.
	// Set automatically when an interrupt is taken.
	interruptDisable

	// Decimal exists in the register but has no effect on this CPU;
	// arithmetic is always binary.
	decimal

	// Break never exists as state inside the CPU. It only appears in
	// bytes pushed to the stack: 1 when pushed by PHP or BRK, 0 when
	// pushed by an interrupt. Handlers read it off the stack to tell
	// BRK from a hardware IRQ.
	brk

	// Unused reads as 1 everywhere outside the stack.
	unused

	// Overflow is the signed-overflow result of ADC and SBC, and bit 6
	// of the operand after BIT. The compares leave it untouched.
	overflow

	// Negative mirrors bit 7 of the result, and bit 7 of the operand
	// after BIT.
	negative
)

// CPU is a 6502 interpreter driven one clock at a time. All the work
// of an instruction happens on the tick where the pending cycle count
// reaches zero; the remaining ticks of its budget are then burned one
// by one, which keeps whole-system timing exact without modelling the
// per-cycle bus traffic.
type CPU struct {
	A, X, Y byte
	SP      byte
	PC      uint16
	P       status

	bus *Bus

	// cycles is the countdown to the next fetch. opcode, fetched,
	// addrAbs and addrRel are the addressing scratch of the
	// instruction in flight.
	cycles  byte
	opcode  byte
	fetched byte
	addrAbs uint16
	addrRel uint16

	pendingNMI bool
	pendingIRQ bool

	clockCount uint64

	trace io.Writer
}

// NewCPU returns a CPU wired to bus. When trace is non-nil every
// executed instruction is logged to it in nestest format.
func NewCPU(bus *Bus, trace io.Writer) *CPU {
	c := &CPU{
		bus:   bus,
		trace: trace,
	}
	c.Reset()
	return c
}

// Reset performs the power-on sequence: registers cleared, SP at
// 0xFD, only the unused flag set, PC loaded from the reset vector.
// Nothing is pushed. The sequence costs 8 cycles.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFD
	c.P = unused
	c.PC = c.readAddress(resetVector)

	c.opcode = 0
	c.fetched = 0
	c.addrAbs = 0
	c.addrRel = 0
	c.pendingNMI = false
	c.pendingIRQ = false

	c.cycles = 8
}

// IRQ requests a maskable interrupt. Ignored while the interrupt
// disable flag is set; otherwise serviced at the next instruction
// boundary.
func (c *CPU) IRQ() {
	if c.P&interruptDisable > 0 {
		return
	}
	c.pendingIRQ = true
}

// NMI requests a non-maskable interrupt, serviced at the next
// instruction boundary regardless of the disable flag.
func (c *CPU) NMI() {
	c.pendingNMI = true
}

// Complete reports whether the instruction in flight has used up its
// cycle budget, i.e. the CPU is between instructions.
func (c *CPU) Complete() bool {
	return c.cycles == 0
}

// ClockCount is the number of CPU-domain ticks since power on.
func (c *CPU) ClockCount() uint64 {
	return c.clockCount
}

// Clock advances the CPU by one tick. On the tick where the pending
// count is zero it services a pending interrupt or fetches and runs
// the next instruction, charging its full cycle budget.
func (c *CPU) Clock() {
	if c.cycles == 0 {
		switch {
		case c.pendingNMI:
			c.pendingNMI = false
			c.nmi()
		case c.pendingIRQ:
			c.pendingIRQ = false
			c.irq()
		default:
			c.step()
		}
	}

	c.cycles--
	c.clockCount++
}

func (c *CPU) step() {
	pc := c.PC

	c.opcode = c.read(c.PC)
	c.P |= unused
	c.PC++

	inst := instructions[c.opcode]

	if c.trace != nil {
		c.traceStep(pc, inst)
	}

	c.cycles = inst.Cycles
	crossed := c.resolve(inst.Mode)
	c.cycles += crossed & inst.PageCycles

	c.execute(inst)
	c.P |= unused
}

func (c *CPU) traceStep(pc uint16, inst Instruction) {
	line := formatInstruction(c.bus.CPURead, pc, c.opcode, inst)
	fmt.Fprintf(c.trace, "%-32s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
		line, c.A, c.X, c.Y, byte(c.P), c.SP, c.clockCount)
}

func (c *CPU) read(addr uint16) byte {
	return c.bus.CPURead(addr)
}

func (c *CPU) readAddress(addr uint16) uint16 {
	lo := c.read(addr)
	hi := c.read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write(addr uint16, v byte) {
	c.bus.CPUWrite(addr, v)
}

// resolve runs the addressing mode: it consumes the operand bytes,
// leaves the effective address in addrAbs (or the branch offset in
// addrRel) and reports 1 when indexing crossed a page.
func (c *CPU) resolve(mode AddressingMode) byte {
	switch mode {
	case Implied, Accumulator:
		return 0

	case Immediate:
		c.addrAbs = c.PC
		c.PC++
		return 0

	case ZeroPage:
		c.addrAbs = uint16(c.read(c.PC))
		c.PC++
		return 0

	case ZeroPageIndexedX:
		c.addrAbs = uint16(c.read(c.PC) + c.X) // wraps within the page
		c.PC++
		return 0

	case ZeroPageIndexedY:
		c.addrAbs = uint16(c.read(c.PC) + c.Y)
		c.PC++
		return 0

	case Relative:
		c.addrRel = uint16(int8(c.read(c.PC)))
		c.PC++
		return 0

	case Absolute:
		c.addrAbs = c.readAddress(c.PC)
		c.PC += 2
		return 0

	case IndexedX:
		base := c.readAddress(c.PC)
		c.PC += 2
		c.addrAbs = base + uint16(c.X)
		if c.addrAbs&0xFF00 != base&0xFF00 {
			return 1
		}
		return 0

	case IndexedY:
		base := c.readAddress(c.PC)
		c.PC += 2
		c.addrAbs = base + uint16(c.Y)
		if c.addrAbs&0xFF00 != base&0xFF00 {
			return 1
		}
		return 0

	case Indirect:
		ptr := c.readAddress(c.PC)
		c.PC += 2

		// When the pointer sits at the end of a page the high byte is
		// fetched from the start of the same page, not the next one.
		lo := c.read(ptr)
		hi := c.read(ptr&0xFF00 | uint16(byte(ptr)+1))
		c.addrAbs = uint16(hi)<<8 | uint16(lo)
		return 0

	case PreIndexedIndirect:
		ptr := c.read(c.PC) + c.X // wraps within the zero page
		c.PC++

		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1))
		c.addrAbs = uint16(hi)<<8 | uint16(lo)
		return 0

	case PostIndexedIndirect:
		ptr := c.read(c.PC)
		c.PC++

		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1))
		base := uint16(hi)<<8 | uint16(lo)
		c.addrAbs = base + uint16(c.Y)
		if c.addrAbs&0xFF00 != base&0xFF00 {
			return 1
		}
		return 0
	}

	return 0
}

// fetch loads the operand byte for the instruction in flight. Implied
// and accumulator modes operate on A.
func (c *CPU) fetch() byte {
	mode := instructions[c.opcode].Mode
	if mode == Implied || mode == Accumulator {
		c.fetched = c.A
	} else {
		c.fetched = c.read(c.addrAbs)
	}
	return c.fetched
}

// rmw stores a modify-result back where it came from: the accumulator
// in accumulator mode, memory otherwise.
func (c *CPU) rmw(v byte) {
	if instructions[c.opcode].Mode == Accumulator {
		c.A = v
	} else {
		c.write(c.addrAbs, v)
	}
}

func (c *CPU) execute(inst Instruction) {
	switch c.opcode {
	case 0x04, 0x0C, 0x14, 0x1A, 0x1C, 0x34, 0x3A, 0x3C, 0x44, 0x54, 0x5A,
		0x5C, 0x64, 0x74, 0x7A, 0x7C, 0x80, 0x82, 0x89, 0xC2, 0xD4, 0xDA,
		0xDC, 0xE2, 0xEA, 0xF4, 0xFA, 0xFC:
		c.nop()
	case 0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2,
		0x93, 0x9F, 0x9E, 0x9C, 0x9B, 0xBB, 0x8B:
		// KIL, AHX, SHX, SHY, TAS, LAS, XAA. Decoded but not modelled;
		// they burn their tabulated cycles as NOPs.
		c.nop()
	case 0x61, 0x65, 0x69, 0x6D, 0x71, 0x75, 0x79, 0x7D:
		c.adc()
	case 0x4B:
		c.alr()
	case 0x0B, 0x2B:
		c.anc()
	case 0x21, 0x25, 0x29, 0x2D, 0x31, 0x35, 0x39, 0x3D:
		c.and()
	case 0x6B:
		c.arr()
	case 0x06, 0x0A, 0x0E, 0x16, 0x1E:
		c.asl()
	case 0xCB:
		c.axs()
	case 0x90:
		c.bcc()
	case 0xB0:
		c.bcs()
	case 0xF0:
		c.beq()
	case 0x24, 0x2C:
		c.bit()
	case 0x30:
		c.bmi()
	case 0xD0:
		c.bne()
	case 0x10:
		c.bpl()
	case 0x00:
		c.brk()
	case 0x50:
		c.bvc()
	case 0x70:
		c.bvs()
	case 0x18:
		c.clc()
	case 0xD8:
		c.cld()
	case 0x58:
		c.cli()
	case 0xB8:
		c.clv()
	case 0xC1, 0xC5, 0xC9, 0xCD, 0xD1, 0xD5, 0xD9, 0xDD:
		c.cmp()
	case 0xE0, 0xE4, 0xEC:
		c.cpx()
	case 0xC0, 0xC4, 0xCC:
		c.cpy()
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDB, 0xDF:
		c.dcp()
	case 0xC6, 0xCE, 0xD6, 0xDE:
		c.dec()
	case 0xCA:
		c.dex()
	case 0x88:
		c.dey()
	case 0x41, 0x45, 0x49, 0x4D, 0x51, 0x55, 0x59, 0x5D:
		c.eor()
	case 0xE6, 0xEE, 0xF6, 0xFE:
		c.inc()
	case 0xE8:
		c.inx()
	case 0xC8:
		c.iny()
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF:
		c.isb()
	case 0x4C, 0x6C:
		c.jmp()
	case 0x20:
		c.jsr()
	case 0xA3, 0xA7, 0xAB, 0xAF, 0xB3, 0xB7, 0xBF:
		c.lax()
	case 0xA1, 0xA5, 0xA9, 0xAD, 0xB1, 0xB5, 0xB9, 0xBD:
		c.lda()
	case 0xA2, 0xA6, 0xAE, 0xB6, 0xBE:
		c.ldx()
	case 0xA0, 0xA4, 0xAC, 0xB4, 0xBC:
		c.ldy()
	case 0x46, 0x4A, 0x4E, 0x56, 0x5E:
		c.lsr()
	case 0x01, 0x05, 0x09, 0x0D, 0x11, 0x15, 0x19, 0x1D:
		c.ora()
	case 0x48:
		c.pha()
	case 0x08:
		c.php()
	case 0x68:
		c.pla()
	case 0x28:
		c.plp()
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3B, 0x3F:
		c.rla()
	case 0x26, 0x2A, 0x2E, 0x36, 0x3E:
		c.rol()
	case 0x66, 0x6A, 0x6E, 0x76, 0x7E:
		c.ror()
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7B, 0x7F:
		c.rra()
	case 0x40:
		c.rti()
	case 0x60:
		c.rts()
	case 0x83, 0x87, 0x8F, 0x97:
		c.sax()
	case 0xE1, 0xE5, 0xE9, 0xEB, 0xED, 0xF1, 0xF5, 0xF9, 0xFD:
		c.sbc()
	case 0x38:
		c.sec()
	case 0xF8:
		c.sed()
	case 0x78:
		c.sei()
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F:
		c.slo()
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5B, 0x5F:
		c.sre()
	case 0x81, 0x85, 0x8D, 0x91, 0x95, 0x99, 0x9D:
		c.sta()
	case 0x86, 0x8E, 0x96:
		c.stx()
	case 0x84, 0x8C, 0x94:
		c.sty()
	case 0xAA:
		c.tax()
	case 0xA8:
		c.tay()
	case 0xBA:
		c.tsx()
	case 0x8A:
		c.txa()
	case 0x9A:
		c.txs()
	case 0x98:
		c.tya()
	}
}

// nmi pushes the interrupted PC and the status word with break clear,
// sets the disable flag and jumps through 0xFFFA. Costs 8 cycles.
func (c *CPU) nmi() {
	c.pushAddress(c.PC)
	c.push(byte(c.P&^brk | unused))
	c.P |= interruptDisable

	c.PC = c.readAddress(nmiVector)
	c.cycles = 8
}

// irq is the maskable variant of nmi: vector 0xFFFE, 7 cycles.
func (c *CPU) irq() {
	c.pushAddress(c.PC)
	c.push(byte(c.P&^brk | unused))
	c.P |= interruptDisable

	c.PC = c.readAddress(irqVector)
	c.cycles = 7
}

// The stack lives at 0x0100-0x01FF and grows down. SP wraps as a
// byte, so pushing at SP=0x00 writes 0x0100 and leaves SP=0xFF.
func (c *CPU) push(v byte) {
	c.write(stackBase|uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pull() byte {
	c.SP++
	return c.read(stackBase | uint16(c.SP))
}

func (c *CPU) pushAddress(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

func (c *CPU) pullAddress() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

func (c *CPU) updateZero(v byte) {
	if v == 0 {
		c.P |= zero
	} else {
		c.P &^= zero
	}
}

func (c *CPU) updateNegative(v byte) {
	if v&0x80 > 0 {
		c.P |= negative
	} else {
		c.P &^= negative
	}
}

func (c *CPU) setFlag(f status, on bool) {
	if on {
		c.P |= f
	} else {
		c.P &^= f
	}
}

func (c *CPU) compare(a, b byte) {
	c.setFlag(carry, a >= b)
	c.setFlag(zero, a == b)
	c.updateNegative(a - b)
}

// doAdd is the shared core of ADC and SBC. SBC passes the bitwise
// complement of its operand, which together with the carry-in turns
// the addition into a subtraction with inverted borrow. Overflow is
// set when both inputs share a sign the result does not.
func (c *CPU) doAdd(v byte) {
	a := uint16(c.A)
	b := uint16(v)
	cin := uint16(c.P & carry)

	result := a + b + cin

	c.setFlag(carry, result&0x0100 > 0)
	c.setFlag(overflow, ^(a^b)&(a^result)&0x80 > 0)

	c.A = byte(result)
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

func (c *CPU) doAsl(v byte) byte {
	c.setFlag(carry, v&0x80 > 0)
	v <<= 1
	c.updateZero(v)
	c.updateNegative(v)
	return v
}

func (c *CPU) doRol(v byte) byte {
	carryOut := v&0x80 > 0
	v = v<<1 | byte(c.P&carry)
	c.setFlag(carry, carryOut)
	c.updateZero(v)
	c.updateNegative(v)
	return v
}

func (c *CPU) doLsr(v byte) byte {
	c.setFlag(carry, v&0x01 > 0)
	v >>= 1
	c.updateZero(v)
	c.updateNegative(v)
	return v
}

func (c *CPU) doRor(v byte) byte {
	carryOut := v&0x01 > 0
	v >>= 1
	if c.P&carry > 0 {
		v |= 0x80
	}
	c.setFlag(carry, carryOut)
	c.updateZero(v)
	c.updateNegative(v)
	return v
}

// branch replaces PC with PC plus the signed offset when taken: one
// extra cycle, two when the target sits on another page.
func (c *CPU) branch(taken bool) {
	if !taken {
		return
	}

	target := c.PC + c.addrRel

	c.cycles++
	if target&0xFF00 != c.PC&0xFF00 {
		c.cycles++
	}

	c.PC = target
}

// ADC - Add with Carry
// A,Z,C,N,V = A+M+C
func (c *CPU) adc() {
	c.doAdd(c.fetch())
}

// SBC - Subtract with Carry
// A,Z,C,N,V = A-M-(1-C)
//
// Implemented as ADC of the operand's complement, which also makes
// the carry come out as an inverted borrow.
func (c *CPU) sbc() {
	c.doAdd(c.fetch() ^ 0xFF)
}

// AND - Logical AND
// A,Z,N = A&M
func (c *CPU) and() {
	c.A &= c.fetch()
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// ORA - Logical Inclusive OR
// A,Z,N = A|M
func (c *CPU) ora() {
	c.A |= c.fetch()
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// EOR - Exclusive OR
// A,Z,N = A^M
func (c *CPU) eor() {
	c.A ^= c.fetch()
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// ASL - Arithmetic Shift Left. The shifted-out bit 7 lands in carry.
func (c *CPU) asl() {
	c.rmw(c.doAsl(c.fetch()))
}

// LSR - Logical Shift Right. The shifted-out bit 0 lands in carry.
func (c *CPU) lsr() {
	c.rmw(c.doLsr(c.fetch()))
}

// ROL - Rotate Left through carry.
func (c *CPU) rol() {
	c.rmw(c.doRol(c.fetch()))
}

// ROR - Rotate Right through carry.
func (c *CPU) ror() {
	c.rmw(c.doRor(c.fetch()))
}

// BIT - Bit Test
// Z = A&M == 0, N = M7, V = M6
func (c *CPU) bit() {
	v := c.fetch()
	c.updateZero(c.A & v)
	c.updateNegative(v)
	c.setFlag(overflow, v&0x40 > 0)
}

// CMP/CPX/CPY - compare register against memory. Carry means no
// borrow, i.e. register >= operand.
func (c *CPU) cmp() { c.compare(c.A, c.fetch()) }
func (c *CPU) cpx() { c.compare(c.X, c.fetch()) }
func (c *CPU) cpy() { c.compare(c.Y, c.fetch()) }

// DEC/INC - modify memory by one.
func (c *CPU) dec() {
	v := c.fetch() - 1
	c.updateZero(v)
	c.updateNegative(v)
	c.write(c.addrAbs, v)
}

func (c *CPU) inc() {
	v := c.fetch() + 1
	c.updateZero(v)
	c.updateNegative(v)
	c.write(c.addrAbs, v)
}

func (c *CPU) dex() {
	c.X--
	c.updateZero(c.X)
	c.updateNegative(c.X)
}

func (c *CPU) dey() {
	c.Y--
	c.updateZero(c.Y)
	c.updateNegative(c.Y)
}

func (c *CPU) inx() {
	c.X++
	c.updateZero(c.X)
	c.updateNegative(c.X)
}

func (c *CPU) iny() {
	c.Y++
	c.updateZero(c.Y)
	c.updateNegative(c.Y)
}

// Loads and stores.
func (c *CPU) lda() {
	c.A = c.fetch()
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

func (c *CPU) ldx() {
	c.X = c.fetch()
	c.updateZero(c.X)
	c.updateNegative(c.X)
}

func (c *CPU) ldy() {
	c.Y = c.fetch()
	c.updateZero(c.Y)
	c.updateNegative(c.Y)
}

func (c *CPU) sta() { c.write(c.addrAbs, c.A) }
func (c *CPU) stx() { c.write(c.addrAbs, c.X) }
func (c *CPU) sty() { c.write(c.addrAbs, c.Y) }

// Register transfers.
func (c *CPU) tax() {
	c.X = c.A
	c.updateZero(c.X)
	c.updateNegative(c.X)
}

func (c *CPU) tay() {
	c.Y = c.A
	c.updateZero(c.Y)
	c.updateNegative(c.Y)
}

func (c *CPU) tsx() {
	c.X = c.SP
	c.updateZero(c.X)
	c.updateNegative(c.X)
}

func (c *CPU) txa() {
	c.A = c.X
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

func (c *CPU) txs() {
	c.SP = c.X
}

func (c *CPU) tya() {
	c.A = c.Y
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// PHA/PLA - push and pull the accumulator.
func (c *CPU) pha() {
	c.push(c.A)
}

func (c *CPU) pla() {
	c.A = c.pull()
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// PHP - Push Processor Status. The pushed byte carries break and
// unused set; the register itself is untouched.
func (c *CPU) php() {
	c.push(byte(c.P | brk | unused))
}

// PLP - Pull Processor Status, ignoring break and forcing unused.
func (c *CPU) plp() {
	c.P = status(c.pull())
	c.P &^= brk
	c.P |= unused
}

// JMP - Jump. The indirect variant inherits the resolver's
// page-boundary quirk.
func (c *CPU) jmp() {
	c.PC = c.addrAbs
}

// JSR - Jump to Subroutine. Pushes the address of its own last
// operand byte; RTS adds one back.
func (c *CPU) jsr() {
	c.pushAddress(c.PC - 1)
	c.PC = c.addrAbs
}

// RTS - Return from Subroutine.
func (c *CPU) rts() {
	c.PC = c.pullAddress() + 1
}

// BRK - Force Interrupt. Pushes the PC past the signature byte and
// the status with break set, then jumps through the IRQ vector. The
// break bit lives only in the pushed byte.
func (c *CPU) brk() {
	c.pushAddress(c.PC + 1)
	c.push(byte(c.P | brk | unused))
	c.P |= interruptDisable

	c.PC = c.readAddress(irqVector)
}

// RTI - Return from Interrupt. Restores the flags (break ignored,
// unused forced) and the interrupted PC.
func (c *CPU) rti() {
	c.P = status(c.pull())
	c.P &^= brk
	c.P |= unused

	c.PC = c.pullAddress()
}

// Branches.
func (c *CPU) bcc() { c.branch(c.P&carry == 0) }
func (c *CPU) bcs() { c.branch(c.P&carry > 0) }
func (c *CPU) bne() { c.branch(c.P&zero == 0) }
func (c *CPU) beq() { c.branch(c.P&zero > 0) }
func (c *CPU) bpl() { c.branch(c.P&negative == 0) }
func (c *CPU) bmi() { c.branch(c.P&negative > 0) }
func (c *CPU) bvc() { c.branch(c.P&overflow == 0) }
func (c *CPU) bvs() { c.branch(c.P&overflow > 0) }

// Flag manipulation.
func (c *CPU) clc() { c.P &^= carry }
func (c *CPU) sec() { c.P |= carry }
func (c *CPU) cli() { c.P &^= interruptDisable }
func (c *CPU) sei() { c.P |= interruptDisable }
func (c *CPU) clv() { c.P &^= overflow }
func (c *CPU) cld() { c.P &^= decimal }
func (c *CPU) sed() { c.P |= decimal }

// NOP covers the official opcode and every unmodelled illegal one.
// Reads with side effects still happen for the addressed variants.
func (c *CPU) nop() {
	mode := instructions[c.opcode].Mode
	if mode != Implied && mode != Accumulator {
		c.fetch()
	}
}

// LAX - load A and X together.
func (c *CPU) lax() {
	v := c.fetch()
	c.A = v
	c.X = v
	c.updateZero(v)
	c.updateNegative(v)
}

// SAX - store A AND X without touching flags.
func (c *CPU) sax() {
	c.write(c.addrAbs, c.A&c.X)
}

// DCP - decrement memory then compare with A.
func (c *CPU) dcp() {
	v := c.fetch() - 1
	c.write(c.addrAbs, v)
	c.compare(c.A, v)
}

// ISB - increment memory then subtract it from A.
func (c *CPU) isb() {
	v := c.fetch() + 1
	c.write(c.addrAbs, v)
	c.doAdd(v ^ 0xFF)
}

// SLO - shift memory left then OR into A.
func (c *CPU) slo() {
	v := c.doAsl(c.fetch())
	c.write(c.addrAbs, v)
	c.A |= v
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// RLA - rotate memory left then AND into A.
func (c *CPU) rla() {
	v := c.doRol(c.fetch())
	c.write(c.addrAbs, v)
	c.A &= v
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// SRE - shift memory right then XOR into A.
func (c *CPU) sre() {
	v := c.doLsr(c.fetch())
	c.write(c.addrAbs, v)
	c.A ^= v
	c.updateZero(c.A)
	c.updateNegative(c.A)
}

// RRA - rotate memory right then add it to A.
func (c *CPU) rra() {
	v := c.doRor(c.fetch())
	c.write(c.addrAbs, v)
	c.doAdd(v)
}

// ANC - AND immediate, then copy the result's sign into carry.
func (c *CPU) anc() {
	c.A &= c.fetch()
	c.updateZero(c.A)
	c.updateNegative(c.A)
	c.setFlag(carry, c.A&0x80 > 0)
}

// ALR - AND immediate then shift A right.
func (c *CPU) alr() {
	c.A &= c.fetch()
	c.A = c.doLsr(c.A)
}

// ARR - AND immediate then rotate A right. Carry comes from bit 6 of
// the result and overflow from bits 6 XOR 5.
func (c *CPU) arr() {
	c.A &= c.fetch()

	c.A = c.A >> 1
	if c.P&carry > 0 {
		c.A |= 0x80
	}

	c.updateZero(c.A)
	c.updateNegative(c.A)
	c.setFlag(carry, c.A&0x40 > 0)
	c.setFlag(overflow, (c.A>>6^c.A>>5)&0x01 > 0)
}

// AXS - X = (A AND X) - immediate, without borrow.
func (c *CPU) axs() {
	v := c.fetch()
	t := c.A & c.X

	c.setFlag(carry, t >= v)
	c.X = t - v
	c.updateZero(c.X)
	c.updateNegative(c.X)
}
