package nes

import "fmt"

// Device is the capability set shared by everything routable on the
// system bus. Each operation reports whether the device claimed the
// transaction; on false the bus keeps walking lower-precedence routes.
//
// Two views exist because the console has two address spaces: the CPU
// bus (work RAM, registers, PRG) and the PPU bus (CHR, nametables).
// Most devices live on only one of them and return false on the other.
type Device interface {
	// CPURead services a read issued from the CPU address space.
	CPURead(addr uint16) (byte, bool)

	// CPUWrite services a write issued from the CPU address space.
	CPUWrite(addr uint16, data byte) bool

	// PPURead services a read issued from the PPU address space.
	PPURead(addr uint16) (byte, bool)

	// PPUWrite services a write issued from the PPU address space.
	PPUWrite(addr uint16, data byte) bool
}

// BusError reports a CPU write that no routed device claimed. A write
// landing nowhere is a wiring fault, not a recoverable runtime
// condition, so the bus panics with one of these; a driver that wants
// to survive may recover it at a tick boundary.
type BusError struct {
	Addr  uint16
	Data  byte
	Write bool
}

func (e *BusError) Error() string {
	if e.Write {
		return fmt.Sprintf("nes: write of %02X to %04X claimed by no device", e.Data, e.Addr)
	}
	return fmt.Sprintf("nes: read of %04X claimed by no device", e.Addr)
}
